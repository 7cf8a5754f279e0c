// SPDX-License-Identifier: MIT

package noise

// SplitMix64 constants; see Vigna 2014.
const (
	golden = 0x9e3779b97f4a7c15
	mulA   = 0xbf58476d1ce4e5b9
	mulB   = 0x94d049bb133111eb
)

// mix64 is the SplitMix64 finalizer.
func mix64(x uint64) uint64 {
	x += golden
	x = (x ^ (x >> 30)) * mulA
	x = (x ^ (x >> 27)) * mulB
	return x ^ (x >> 31)
}

// hash2 mixes a seed and a lattice coordinate into 64 well-diffused bits.
func hash2(seed int64, x, z int) uint64 {
	h := mix64(uint64(seed) ^ golden)
	h = mix64(h ^ uint64(int64(x))*mulA)
	return mix64(h ^ uint64(int64(z))*mulB)
}

// unit maps h to [0, 1).
func unit(h uint64) float64 {
	return float64(h>>11) / (1 << 53)
}

// value maps h to [-1, 1).
func value(h uint64) float64 {
	return float64(int32(h>>32)) / 2147483648.0
}
