package rollsum

import (
	"fmt"

	"github.com/Redundancy/go-rollsums/bytemap"
	"github.com/Redundancy/go-rollsums/modinv"
)

// RabinKarp is a polynomial rolling hash modulo 2^32:
//
//	sum = seed*m^n + (c1+offset)*m^(n-1) + ... + (cn+offset)
//
// Removing the oldest byte needs m^(n-1), which is tracked alongside the count
// and stepped down by multiplying with the inverse of m.
type RabinKarp struct {
	seed   uint32
	offset uint32
	mapper *bytemap.Mapper

	mult uint32
	invm uint32
	// offset + (mult-1)*seed, what the oldest byte and the seed contribute beyond map(c)
	adj uint32

	sum   uint32
	count int
	// mult^count
	multn uint32
}

// NewRabinKarp creates a RabinKarp checksum. The multiplier must be odd;
// a zero Multiplier uses DefaultMultiplier.
func NewRabinKarp(c Config) (*RabinKarp, error) {
	mult := c.Multiplier
	if mult == 0 {
		mult = DefaultMultiplier
	}

	invm, err := modinv.Inverse32(mult)
	if err != nil {
		return nil, fmt.Errorf("%w (%#x): %w", ErrEvenMultiplier, mult, err)
	}

	r := &RabinKarp{
		seed:   c.Seed,
		offset: c.Offset,
		mapper: c.mapper(),
		mult:   mult,
		invm:   invm,
		adj:    c.Offset + (mult-1)*c.Seed,
	}

	r.Reset()
	return r, nil
}

func (r *RabinKarp) Update(p []byte) {
	sum := r.sum
	for _, c := range p {
		sum = sum*r.mult + r.mapper.Map(c) + r.offset
	}

	r.sum = sum
	r.count += len(p)
	r.multn = modinv.Pow32(r.mult, uint64(r.count))
}

func (r *RabinKarp) RollIn(c byte) {
	r.sum = r.sum*r.mult + r.mapper.Map(c) + r.offset
	r.count++
	r.multn *= r.mult
}

func (r *RabinKarp) RollOut(c byte) error {
	if r.count == 0 {
		return ErrEmptyWindow
	}

	r.count--
	r.multn *= r.invm
	r.sum -= r.multn * (r.mapper.Map(c) + r.adj)
	return nil
}

func (r *RabinKarp) Rotate(out, in byte) error {
	if r.count == 0 {
		return ErrEmptyWindow
	}

	r.sum = r.sum*r.mult + (r.mapper.Map(in) + r.offset) - r.multn*(r.mapper.Map(out)+r.adj)
	return nil
}

func (r *RabinKarp) Digest() uint32 {
	return r.sum
}

func (r *RabinKarp) Count() int {
	return r.count
}

func (r *RabinKarp) Mapper() *bytemap.Mapper {
	return r.mapper
}

// Multiplier returns the multiplier and its inverse mod 2^32
func (r *RabinKarp) Multiplier() (mult, inverse uint32) {
	return r.mult, r.invm
}

func (r *RabinKarp) Reset() {
	r.sum = r.seed
	r.count = 0
	r.multn = 1
}

func (r *RabinKarp) String() string {
	return fmt.Sprintf(
		"RabinKarp(seed=%v, offs=%v, map=%v, mult=%#x)",
		r.seed, r.offset, r.mapper.Name(), r.mult,
	)
}
