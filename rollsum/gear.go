package rollsum

import (
	"fmt"

	"github.com/Redundancy/go-rollsums/bytemap"
)

/*
Gear is the gear rolling checksum used for content defined chunking.

Every byte shifts the sum left by one, so a byte has left the 32bit sum after
32 more bytes. The window is fixed at 32 bytes and nothing is ever explicitly
removed, which makes it fast but useless for checksumming a whole block.
It is RabinKarp with a multiplier of 2.
*/
type Gear struct {
	offset uint32
	mapper *bytemap.Mapper
	sum    uint32
}

// NewGear creates a Gear checksum. The seed is always 0.
func NewGear(c Config) *Gear {
	return &Gear{
		offset: c.Offset,
		mapper: c.mapper(),
	}
}

func (r *Gear) Update(p []byte) {
	sum := r.sum
	for _, c := range p {
		sum = sum<<1 + r.mapper.Map(c) + r.offset
	}
	r.sum = sum
}

func (r *Gear) RollIn(c byte) {
	r.sum = r.sum<<1 + r.mapper.Map(c) + r.offset
}

// RollOut does nothing, old bytes shift out of the sum by themselves
func (r *Gear) RollOut(c byte) error {
	return nil
}

// Rotate is RollIn(in). The leaving byte is ignored.
func (r *Gear) Rotate(out, in byte) error {
	r.RollIn(in)
	return nil
}

func (r *Gear) Digest() uint32 {
	return r.sum
}

// Count is always GearWindow
func (r *Gear) Count() int {
	return GearWindow
}

func (r *Gear) Mapper() *bytemap.Mapper {
	return r.mapper
}

func (r *Gear) Reset() {
	r.sum = 0
}

func (r *Gear) String() string {
	return fmt.Sprintf("Gear(offs=%v, map=%v)", r.offset, r.mapper.Name())
}

/*
RGear is Gear with a right shift instead of a left shift, as used by
ronomon/deduplication.

Bytes never fully expire from RGear: the addition carries into higher bits
before the next shift, so an old byte's influence decays geometrically but
does not reach zero. The effective window depends on the data. That is how the
algorithm behaves in the wild, and is kept here.
*/
type RGear struct {
	offset uint32
	mapper *bytemap.Mapper
	sum    uint32
	count  int
}

// NewRGear creates an RGear checksum. The seed is always 0 and mapped values
// are limited to 31 bits.
func NewRGear(c Config) *RGear {
	return &RGear{
		offset: c.Offset,
		mapper: c.mapper().Masked(0x7fffffff),
	}
}

func (r *RGear) Update(p []byte) {
	sum := r.sum
	for _, c := range p {
		sum = sum>>1 + r.mapper.Map(c) + r.offset
	}
	r.sum = sum
	r.count += len(p)
}

func (r *RGear) RollIn(c byte) {
	r.sum = r.sum>>1 + r.mapper.Map(c) + r.offset
	r.count++
}

// RollOut only shrinks the count
func (r *RGear) RollOut(c byte) error {
	if r.count == 0 {
		return ErrEmptyWindow
	}
	r.count--
	return nil
}

// Rotate adds in without changing the count. The leaving byte is ignored.
func (r *RGear) Rotate(out, in byte) error {
	r.sum = r.sum>>1 + r.mapper.Map(in) + r.offset
	return nil
}

func (r *RGear) Digest() uint32 {
	return r.sum
}

func (r *RGear) Count() int {
	return r.count
}

func (r *RGear) Mapper() *bytemap.Mapper {
	return r.mapper
}

func (r *RGear) Reset() {
	r.sum = 0
	r.count = 0
}

func (r *RGear) String() string {
	return fmt.Sprintf("RGear(offs=%v, map=%v)", r.offset, r.mapper.Name())
}
