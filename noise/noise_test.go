package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	cases := []struct {
		name string
		p    Params
		err  error
	}{
		{"Defaults", DefaultParams(), nil},
		{"ZeroFrequency", Params{Frequency: 0, Jitter: 0.5}, ErrInvalidFrequency},
		{"NegativeFrequency", Params{Frequency: -1, Jitter: 0.5}, ErrInvalidFrequency},
		{"InfFrequency", Params{Frequency: math.Inf(1), Jitter: 0.5}, ErrInvalidFrequency},
		{"NegativeJitter", Params{Frequency: 0.1, Jitter: -0.1}, ErrInvalidJitter},
		{"LargeJitter", Params{Frequency: 0.1, Jitter: 1.5}, ErrInvalidJitter},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
			_, cerr := NewCellular(tc.p)
			assert.ErrorIs(t, cerr, tc.err)
		})
	}
}

func TestCellular_DeterministicAndInRange(t *testing.T) {
	p := Params{Seed: 42, Frequency: 0.05, Jitter: 0.5}
	a, err := NewCellular(p)
	require.NoError(t, err)
	b, err := NewCellular(p)
	require.NoError(t, err)

	for x := -50; x <= 50; x += 3 {
		for z := -50; z <= 50; z += 7 {
			va := a.Noise(float64(x), float64(z))
			require.Equal(t, va, b.Noise(float64(x), float64(z)))
			require.GreaterOrEqual(t, va, -1.0)
			require.Less(t, va, 1.0)
		}
	}
}

func TestCellular_SeedChangesField(t *testing.T) {
	a, _ := NewCellular(Params{Seed: 1, Frequency: 0.1, Jitter: 0.5})
	b, _ := NewCellular(Params{Seed: 2, Frequency: 0.1, Jitter: 0.5})
	differ := 0
	for x := 0; x < 100; x += 10 {
		if a.Noise(float64(x), 0) != b.Noise(float64(x), 0) {
			differ++
		}
	}
	assert.Greater(t, differ, 0)
}

// With zero jitter the feature points sit on the lattice, so every sample
// inside the same rounded lattice cell shares one value.
func TestCellular_ZeroJitterIsPiecewiseConstant(t *testing.T) {
	c, err := NewCellular(Params{Seed: 7, Frequency: 1, Jitter: 0})
	require.NoError(t, err)
	v := c.Noise(3, 3)
	assert.Equal(t, v, c.Noise(3.2, 2.9))
	assert.Equal(t, v, c.Noise(2.8, 3.4))
}

func TestCellular_RegionsSpanManyCells(t *testing.T) {
	c, err := NewCellular(Params{Seed: 9, Frequency: 0.05, Jitter: 0.5})
	require.NoError(t, err)
	distinct := map[float64]struct{}{}
	for x := 0; x < 40; x++ {
		for z := 0; z < 40; z++ {
			distinct[c.Noise(float64(x), float64(z))] = struct{}{}
		}
	}
	// 1600 samples at frequency 0.05 cover roughly 4 lattice cells per axis.
	assert.Less(t, len(distinct), 100)
	assert.Greater(t, len(distinct), 1)
}

func TestAdapters(t *testing.T) {
	assert.Equal(t, 0.25, Constant(0.25).Noise(10, -10))
	f := FieldFunc(func(x, z float64) float64 { return x - z })
	assert.Equal(t, 3.0, f.Noise(5, 2))
}

func TestHashHelpers(t *testing.T) {
	assert.NotEqual(t, hash2(1, 0, 1), hash2(1, 1, 0))
	for i := 0; i < 1000; i++ {
		h := mix64(uint64(i))
		u := unit(h)
		require.True(t, u >= 0 && u < 1)
		v := value(h)
		require.True(t, v >= -1 && v < 1)
	}
}
