// SPDX-License-Identifier: MIT

package noise

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Sentinel errors for noise parameter validation.
var (
	// ErrInvalidFrequency indicates a non-positive or non-finite frequency.
	ErrInvalidFrequency = errors.New("noise: frequency must be positive and finite")

	// ErrInvalidJitter indicates a jitter outside [0, 1].
	ErrInvalidJitter = errors.New("noise: jitter must be within [0, 1]")
)

const (
	// DefaultFrequency is used when Params.Frequency is left at zero by DefaultParams.
	DefaultFrequency = 0.01
	// DefaultJitter matches the reference cellular jitter.
	DefaultJitter = 0.5
)

// Field yields a value in [-1, 1] for a sample position.
type Field interface {
	Noise(x, z float64) float64
}

// FieldFunc adapts a function to Field.
type FieldFunc func(x, z float64) float64

// Noise calls f(x, z).
func (f FieldFunc) Noise(x, z float64) float64 { return f(x, z) }

// Constant is a Field that returns the same value everywhere.
type Constant float64

// Noise returns c.
func (c Constant) Noise(_, _ float64) float64 { return float64(c) }

// Params tunes a Cellular field.
type Params struct {
	Seed      int64
	Frequency float64
	Jitter    float64
}

// DefaultParams returns seed 0, DefaultFrequency and DefaultJitter.
func DefaultParams() Params {
	return Params{Frequency: DefaultFrequency, Jitter: DefaultJitter}
}

// Validate checks Frequency and Jitter.
func (p Params) Validate() error {
	if p.Frequency <= 0 || math.IsNaN(p.Frequency) || math.IsInf(p.Frequency, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidFrequency, p.Frequency)
	}
	if p.Jitter < 0 || p.Jitter > 1 || math.IsNaN(p.Jitter) {
		return fmt.Errorf("%w: got %v", ErrInvalidJitter, p.Jitter)
	}
	return nil
}

// RandomSeed draws a fresh seed for runs that do not pin one.
func RandomSeed() int64 {
	return rand.Int64()
}

// Cellular is an immutable cellular noise field.
type Cellular struct {
	seed   int64
	freq   float64
	jitter float64
}

// NewCellular validates p and builds the field.
func NewCellular(p Params) (*Cellular, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Cellular{seed: p.Seed, freq: p.Frequency, jitter: p.Jitter}, nil
}

// Noise returns the value of the feature point nearest to (x, z).
// Complexity: O(1).
func (c *Cellular) Noise(x, z float64) float64 {
	x *= c.freq
	z *= c.freq
	xr := int(math.Round(x))
	zr := int(math.Round(z))

	best := math.MaxFloat64
	var bestHash uint64
	for xi := xr - 1; xi <= xr+1; xi++ {
		for zi := zr - 1; zi <= zr+1; zi++ {
			h := hash2(c.seed, xi, zi)
			dx := float64(xi) + (unit(h)-0.5)*c.jitter - x
			dz := float64(zi) + (unit(mix64(h))-0.5)*c.jitter - z
			d := dx*dx + dz*dz + math.Abs(dx) + math.Abs(dz)
			if d < best {
				best = d
				bestHash = h
			}
		}
	}
	return value(bestHash)
}
