/*
Package bytemap converts raw input bytes into the integer contribution a rolling
checksum accumulates for them.

Every Mapper is a precomputed 256 entry table, built once when it is configured
and never modified afterwards, so the per-byte cost in a checksum is a single
table lookup whatever the mapping function was.
*/
package bytemap

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMultiplier is the constant used by the Multiply mapper
const DefaultMultiplier = 0x08104225

// ErrUnknownMapper is returned by Parse for names that don't match a Kind
var ErrUnknownMapper = errors.New("unknown byte map")

// Kind selects the mapping function
type Kind int

const (
	// Identity maps a byte to its value, 0-255
	Identity Kind = iota
	// Square maps a byte to its value squared
	Square
	// Multiply maps a byte to (byte * k) mod 2^32
	Multiply
	// Mix maps a byte through the murmur3 32bit finalizer
	Mix
	// IPFS maps a byte through the fixed IPFS buzhash table
	IPFS
	// Custom is any table supplied with FromTable
	Custom
)

var kindNames = map[Kind]string{
	Identity: "ord",
	Square:   "pow",
	Multiply: "mul",
	Mix:      "mix",
	IPFS:     "ipfs",
	Custom:   "custom",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Mapper is an immutable byte -> uint32 table
type Mapper struct {
	kind  Kind
	name  string
	table [256]uint32
	max   uint32
}

var (
	identity = build(Identity, "ord", func(c uint32) uint32 { return c })
	square   = build(Square, "pow", func(c uint32) uint32 { return c * c })
	mix      = build(Mix, "mix", Mix32)
	ipfs     = fromTable(IPFS, "ipfs", ipfsTable)
)

func build(kind Kind, name string, f func(uint32) uint32) *Mapper {
	m := &Mapper{kind: kind, name: name}

	for c := range m.table {
		m.table[c] = f(uint32(c))
	}

	m.max = tableMax(&m.table)
	return m
}

func tableMax(t *[256]uint32) uint32 {
	max := uint32(0)
	for _, v := range t {
		if v > max {
			max = v
		}
	}
	return max
}

// New returns the Mapper for a Kind. Multiply uses DefaultMultiplier.
// Custom tables can only be made with FromTable.
func New(kind Kind) (*Mapper, error) {
	switch kind {
	case Identity:
		return identity, nil
	case Square:
		return square, nil
	case Multiply:
		return NewMultiply(DefaultMultiplier), nil
	case Mix:
		return mix, nil
	case IPFS:
		return ipfs, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMapper, kind)
	}
}

// NewIdentity returns the identity mapper
func NewIdentity() *Mapper {
	return identity
}

// NewMultiply returns a mapper of (c * k) mod 2^32
func NewMultiply(k uint32) *Mapper {
	return build(Multiply, "mul", func(c uint32) uint32 { return c * k })
}

// FromTable wraps an externally supplied table, which is copied
func FromTable(name string, table [256]uint32) *Mapper {
	return fromTable(Custom, name, table)
}

func fromTable(kind Kind, name string, table [256]uint32) *Mapper {
	m := &Mapper{
		kind:  kind,
		name:  name,
		table: table,
	}
	m.max = tableMax(&m.table)
	return m
}

// Parse finds the mapper for one of the names returned by Names
func Parse(name string) (*Mapper, error) {
	for k, n := range kindNames {
		if k != Custom && n == name {
			return New(k)
		}
	}

	return nil, fmt.Errorf(
		"%w: %q (expected one of %v)",
		ErrUnknownMapper,
		name,
		strings.Join(Names(), "|"),
	)
}

// Names lists the names accepted by Parse
func Names() []string {
	return []string{"ord", "pow", "mul", "mix", "ipfs"}
}

// Map converts a byte
func (m *Mapper) Map(c byte) uint32 {
	return m.table[c]
}

// Max is the largest value Map can return
func (m *Mapper) Max() uint32 {
	return m.max
}

func (m *Mapper) Name() string {
	return m.name
}

func (m *Mapper) Kind() Kind {
	return m.kind
}

// Table returns a copy of the underlying table
func (m *Mapper) Table() [256]uint32 {
	return m.table
}

func (m *Mapper) String() string {
	return m.name
}

// Masked returns a mapper with every output ANDed with mask. It keeps the
// name of m so that descriptors stay readable. If no output has bits outside
// the mask, m itself is returned.
func (m *Mapper) Masked(mask uint32) *Mapper {
	if m.max&^mask == 0 {
		return m
	}

	masked := &Mapper{kind: m.kind, name: m.name}

	for c, v := range m.table {
		masked.table[c] = v & mask
	}

	masked.max = tableMax(&masked.table)
	return masked
}

// Mix32 is the MurmurHash3 32bit finalizer
func Mix32(i uint32) uint32 {
	i ^= i >> 16
	i *= 0x85ebca6b
	i ^= i >> 13
	i *= 0xc2b2ae35
	i ^= i >> 16
	return i
}
