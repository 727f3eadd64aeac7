package rollsum

import (
	"fmt"
	"math/bits"

	"github.com/Redundancy/go-rollsums/bytemap"
)

// CyclicPoly is the cyclic polynomial rolling hash, also known as buzhash.
// Each byte entering the window rotates the sum left by one bit before being
// XORed in, so the oldest byte of an n byte window sits rotated by n.
type CyclicPoly struct {
	seed   uint32
	offset uint32
	mapper *bytemap.Mapper

	// rotl1(seed) ^ seed, the change in the seed term when the window shrinks
	adj uint32

	sum   uint32
	count int
	// shift left and right for rotating by count
	sl, sr uint
}

// NewCyclicPoly creates a CyclicPoly checksum
func NewCyclicPoly(c Config) *CyclicPoly {
	r := &CyclicPoly{
		seed:   c.Seed,
		offset: c.Offset,
		mapper: c.mapper(),
		adj:    bits.RotateLeft32(c.Seed, 1) ^ c.Seed,
	}

	r.Reset()
	return r
}

func (r *CyclicPoly) shifts() {
	r.sl = uint(r.count & 31)
	r.sr = 32 - r.sl
}

// rotc rotates v left by count. A shift by 32 yields 0 in Go, so sl == 0 works.
func (r *CyclicPoly) rotc(v uint32) uint32 {
	return v<<r.sl | v>>r.sr
}

func (r *CyclicPoly) Update(p []byte) {
	sum := r.sum
	for _, c := range p {
		sum = bits.RotateLeft32(sum, 1) ^ (r.mapper.Map(c) + r.offset)
	}

	r.sum = sum
	r.count += len(p)
	r.shifts()
}

func (r *CyclicPoly) RollIn(c byte) {
	r.sum = bits.RotateLeft32(r.sum, 1) ^ (r.mapper.Map(c) + r.offset)
	r.count++
	r.shifts()
}

func (r *CyclicPoly) RollOut(c byte) error {
	if r.count == 0 {
		return ErrEmptyWindow
	}

	r.count--
	r.shifts()
	r.sum ^= r.rotc((r.mapper.Map(c) + r.offset) ^ r.adj)
	return nil
}

// Rotate uses the rotation for the current count for the leaving byte, which
// is what RollOut followed by RollIn amounts to.
func (r *CyclicPoly) Rotate(out, in byte) error {
	if r.count == 0 {
		return ErrEmptyWindow
	}

	h := bits.RotateLeft32(r.sum, 1)
	o := r.rotc((r.mapper.Map(out) + r.offset) ^ r.adj)
	r.sum = h ^ (r.mapper.Map(in) + r.offset) ^ o
	return nil
}

func (r *CyclicPoly) Digest() uint32 {
	return r.sum
}

func (r *CyclicPoly) Count() int {
	return r.count
}

func (r *CyclicPoly) Mapper() *bytemap.Mapper {
	return r.mapper
}

func (r *CyclicPoly) Reset() {
	r.sum = r.seed
	r.count = 0
	r.shifts()
}

func (r *CyclicPoly) String() string {
	return fmt.Sprintf(
		"CyclicPoly(seed=%v, offs=%v, map=%v)",
		r.seed, r.offset, r.mapper.Name(),
	)
}
