package rollsum

import (
	"fmt"
	"math"

	"github.com/Redundancy/go-rollsums/bytemap"
)

// Largest batch size Update will use, keeps int conversions safe on 32 bit platforms
const maxBatch = 1 << 30

// RollSum is the rsync rolling checksum: a sum of the bytes and a sum of those
// sums, both modulo base, packed into one 32bit digest as sum2<<16 | sum.
// With base 65521, seed 1 and offset 0 it is Adler-32.
//
// Only the low 16 bits of the mapped bytes are used.
type RollSum struct {
	seed   uint32
	offset uint32
	base   uint32
	mapper *bytemap.Mapper

	// map(c) + offset, and the same reduced mod base
	values [256]uint32
	mods   [256]uint32
	seed0  uint32

	// largest number of bytes Update can sum before sum2 may overflow 32 bits
	nmax int

	sum, sum2 uint32
	count     int
}

// NewRollSum creates a RollSum. It fails if the base is out of range, or if
// map(c)+offset is so large that not even a single byte can be added without
// sum2 overflowing.
func NewRollSum(c Config) (*RollSum, error) {
	base := c.Base
	if base == 0 {
		base = DefaultBase
	}

	if base < 2 || base > 1<<16 {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidBase, base)
	}

	m := c.mapper()
	if m.Max() > 0xffff {
		m = m.Masked(0xffff)
	}

	nmax := batchLimit(uint64(m.Max())+uint64(c.Offset), uint64(base))
	if nmax < 1 {
		return nil, fmt.Errorf(
			"%w: map max %#x with offset %#x",
			ErrOffsetTooLarge,
			m.Max(),
			c.Offset,
		)
	}

	r := &RollSum{
		seed:   c.Seed,
		offset: c.Offset,
		base:   base,
		mapper: m,
		seed0:  c.Seed % base,
		nmax:   nmax,
	}

	for i := range r.values {
		r.values[i] = m.Map(byte(i)) + c.Offset
		r.mods[i] = r.values[i] % base
	}

	r.Reset()
	return r, nil
}

// batchLimit finds the largest n where n*(n+1)/2*cmax + (n+1)*(base-1) <= 2^32-1,
// cmax being the largest per-byte contribution. That is how far sum2 can grow
// from values below base without reduction.
func batchLimit(cmax, base uint64) int {
	if cmax == 0 {
		n := uint64(math.MaxUint32)/(base-1) - 1
		if n > maxBatch {
			n = maxBatch
		}
		return int(n)
	}

	// solve the quadratic, then fix up any floating point error
	a := float64(cmax) / 2
	b := a + float64(base-1)
	c := float64(base-1) - math.MaxUint32
	estimate := (-b + math.Sqrt(b*b-4*a*c)) / (2 * a)

	n := uint64(0)
	if estimate > 0 {
		n = uint64(estimate)
	}
	if n > maxBatch {
		n = maxBatch
	}

	for n > 0 && !fitsBatch(n, cmax, base) {
		n--
	}

	for n < maxBatch && fitsBatch(n+1, cmax, base) {
		n++
	}

	return int(n)
}

func fitsBatch(n, cmax, base uint64) bool {
	const limit = math.MaxUint32

	triangle := n * (n + 1) / 2
	if cmax != 0 && triangle > limit/cmax {
		return false
	}

	s := triangle * cmax
	tail := (n + 1) * (base - 1)

	return s <= limit && tail <= limit-s
}

// Update adds p in batches of up to BatchSize bytes, reducing mod base only
// between batches.
func (r *RollSum) Update(p []byte) {
	sum, sum2 := r.sum, r.sum2
	r.count += len(p)

	for len(p) > 0 {
		n := r.nmax
		if n > len(p) {
			n = len(p)
		}

		for _, c := range p[:n] {
			sum += r.values[c]
			sum2 += sum
		}

		sum %= r.base
		sum2 %= r.base
		p = p[n:]
	}

	r.sum, r.sum2 = sum, sum2
}

func (r *RollSum) RollIn(c byte) {
	r.sum = (r.sum + r.mods[c]) % r.base
	r.sum2 = (r.sum2 + r.sum) % r.base
	r.count++
}

func (r *RollSum) RollOut(c byte) error {
	if r.count == 0 {
		return ErrEmptyWindow
	}

	v := r.mods[c]
	r.sum = (r.sum + r.base - v) % r.base
	r.sum2 = (r.sum2 + r.base - r.leaving(v)) % r.base
	r.count--
	return nil
}

func (r *RollSum) Rotate(out, in byte) error {
	if r.count == 0 {
		return ErrEmptyWindow
	}

	v := r.mods[out]
	r.sum = (r.sum + r.mods[in] + r.base - v) % r.base
	r.sum2 = (r.sum2 + r.sum + r.base - r.leaving(v)) % r.base
	return nil
}

// leaving is what the oldest byte, with contribution v, and the seed add to
// sum2: count*v + seed, mod base.
func (r *RollSum) leaving(v uint32) uint32 {
	base := uint64(r.base)
	n := uint64(r.count) % base
	return uint32((n*uint64(v) + uint64(r.seed0)) % base)
}

func (r *RollSum) Digest() uint32 {
	return r.sum2<<16 | r.sum
}

// Sums returns the two accumulators
func (r *RollSum) Sums() (sum, sum2 uint32) {
	return r.sum, r.sum2
}

func (r *RollSum) Count() int {
	return r.count
}

func (r *RollSum) Mapper() *bytemap.Mapper {
	return r.mapper
}

// BatchSize is the number of bytes Update sums between reductions
func (r *RollSum) BatchSize() int {
	return r.nmax
}

func (r *RollSum) Reset() {
	r.sum, r.sum2 = r.seed0, 0
	r.count = 0
}

func (r *RollSum) String() string {
	return fmt.Sprintf(
		"RollSum(seed=%v, offs=%v, map=%v, base=%#x)",
		r.seed, r.offset, r.mapper.Name(), r.base,
	)
}
