/*
Package rollsum implements a family of rolling checksums: 32bit digests over a
sliding window of a byte stream that can be advanced a byte at a time in
constant time, regardless of the window size.

Five variants are provided, all behind the Checksum interface:

	RollSum     rsync style pair of sums modulo a base (Adler-32 family)
	RabinKarp   polynomial hash modulo 2^32
	CyclicPoly  cyclic polynomial / buzhash
	Gear        left shifting gear hash, used for content defined chunking
	RGear       right shifting variant of Gear

Each variant supports growing the window (RollIn), shrinking it from the
oldest end (RollOut) and fixed width substitution (Rotate). For the first three,
the digest after any sequence of these equals the digest of a fresh checksum
updated with the bytes left in the window. Gear and RGear only remember the most
recent bytes implicitly, so they never remove anything.

A Checksum cannot be used concurrently, but separate instances share nothing.
*/
package rollsum

import (
	"errors"
	"fmt"

	"github.com/Redundancy/go-rollsums/bytemap"
)

var (
	// ErrEmptyWindow is returned when removing a byte from an empty window
	ErrEmptyWindow = errors.New("rollsum: window is empty")
	// ErrEvenMultiplier is returned for RabinKarp multipliers with no inverse mod 2^32
	ErrEvenMultiplier = errors.New("rollsum: multiplier must be odd")
	// ErrInvalidBase is returned for a RollSum base that can't be packed in a digest
	ErrInvalidBase = errors.New("rollsum: base must be between 2 and 0x10000")
	// ErrOffsetTooLarge is returned when a RollSum byte contribution can overflow sum2
	ErrOffsetTooLarge = errors.New("rollsum: byte contribution too large")
	// ErrUnknownAlgorithm is returned for algorithm selectors that don't exist
	ErrUnknownAlgorithm = errors.New("rollsum: unknown algorithm")
)

// Checksum is a rolling checksum over a logical window of bytes.
// The caller owns the window contents: RollOut and Rotate must be given the
// oldest byte currently in the window.
type Checksum interface {
	// Update adds all of p to the window, as if RollIn was called for each byte
	Update(p []byte)
	// RollIn adds a byte to the newest end of the window
	RollIn(c byte)
	// RollOut removes the oldest byte of the window
	RollOut(c byte) error
	// Rotate replaces the oldest byte with a new one, keeping the window size
	Rotate(out, in byte) error
	// Digest returns the checksum of the window. It does not change the state.
	Digest() uint32
	// Count is the number of bytes in the window
	Count() int
	// Mapper is the byte mapping in effect, which may be a masked
	// version of the configured one
	Mapper() *bytemap.Mapper
	// Reset returns the checksum to its freshly constructed state
	Reset()
	// String describes the configuration
	String() string
}

// Algorithm selects a rolling checksum variant
type Algorithm int

const (
	AlgRollSum Algorithm = iota
	AlgRabinKarp
	AlgCyclicPoly
	AlgGear
	AlgRGear
)

var algorithmNames = []string{"rs", "rk", "cp", "gr", "rg"}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm accepts the short names rs, rk, cp, gr and rg
func ParseAlgorithm(s string) (Algorithm, error) {
	for i, n := range algorithmNames {
		if n == s {
			return Algorithm(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// AlgorithmNames lists the names accepted by ParseAlgorithm
func AlgorithmNames() []string {
	return append([]string(nil), algorithmNames...)
}

const (
	// DefaultBase is the RollSum modulus
	DefaultBase = 1 << 16
	// DefaultMultiplier is the RabinKarp multiplier
	DefaultMultiplier = 0x08104225
	// DefaultRollSumOffset is added to every byte by default in RollSum
	DefaultRollSumOffset = 31
	// GearWindow is the effective window of the Gear checksum
	GearWindow = 32
)

// Config describes a checksum to construct.
// Zero values of Map, Base and Multiplier select the defaults.
type Config struct {
	Algorithm Algorithm

	// Initial accumulator value. Ignored by Gear and RGear.
	Seed uint32

	// Added to every mapped byte
	Offset uint32

	Map *bytemap.Mapper

	// RollSum modulus for both sums
	Base uint32

	// RabinKarp multiplier, must be odd. 0 is not rejected as even: it
	// selects DefaultMultiplier like the other zero values.
	Multiplier uint32
}

// DefaultConfig returns the default configuration of an algorithm
func DefaultConfig(alg Algorithm) Config {
	c := Config{
		Algorithm: alg,
		Map:       bytemap.NewIdentity(),
	}

	switch alg {
	case AlgRollSum:
		c.Offset = DefaultRollSumOffset
		c.Base = DefaultBase
	case AlgRabinKarp:
		c.Multiplier = DefaultMultiplier
	}

	return c
}

func (c Config) mapper() *bytemap.Mapper {
	if c.Map == nil {
		return bytemap.NewIdentity()
	}
	return c.Map
}

// New constructs the checksum selected by c.Algorithm
func New(c Config) (Checksum, error) {
	switch c.Algorithm {
	case AlgRollSum:
		r, err := NewRollSum(c)
		if err != nil {
			return nil, err
		}
		return r, nil
	case AlgRabinKarp:
		r, err := NewRabinKarp(c)
		if err != nil {
			return nil, err
		}
		return r, nil
	case AlgCyclicPoly:
		return NewCyclicPoly(c), nil
	case AlgGear:
		return NewGear(c), nil
	case AlgRGear:
		return NewRGear(c), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, c.Algorithm)
	}
}
