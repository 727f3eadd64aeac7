package stats

import (
	"errors"
	"fmt"

	"github.com/Redundancy/go-rollsums/bytemap"
)

// Index bits outside this range leave no room for the cluster tables, or
// don't fit a digest
const (
	MinIndexBits = 4
	MaxIndexBits = 32
)

var ErrInvalidIndexBits = errors.New("stats: invalid number of index bits")

// NamedTable is a HashTable with the title it is reported under
type NamedTable struct {
	Name  string
	Table *HashTable
}

// DefaultTables returns the tables of the standard report. The masked tables
// have 2^indexBits buckets, and the cluster tables group 16 adjacent buckets
// of those.
func DefaultTables(indexBits uint) ([]NamedTable, error) {
	if indexBits < MinIndexBits || indexBits > MaxIndexBits {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndexBits, indexBits)
	}

	size := uint64(1) << indexBits
	mask := uint32(size - 1)

	return []NamedTable{
		{"rollsum", NewHashTable(1<<32, func(k uint32) uint64 { return uint64(k) })},
		{"s1sum", NewHashTable(1<<16, func(k uint32) uint64 { return uint64(k & 0xffff) })},
		{"s2sum", NewHashTable(1<<16, func(k uint32) uint64 { return uint64(k >> 16) })},
		{"and_mask", NewHashTable(size, func(k uint32) uint64 { return uint64(k & mask) })},
		{"mod_mask", NewHashTable(size, func(k uint32) uint64 { return uint64(k % mask) })},
		{"mix_mask", NewHashTable(size, func(k uint32) uint64 { return uint64(bytemap.Mix32(k) & mask) })},
		{"and_clust", NewHashTable(size>>4, func(k uint32) uint64 { return uint64(k&mask) >> 4 })},
		{"mod_clust", NewHashTable(size>>4, func(k uint32) uint64 { return uint64(k%mask) >> 4 })},
		{"mix_clust", NewHashTable(size>>4, func(k uint32) uint64 { return uint64(bytemap.Mix32(k)&mask) >> 4 })},
	}, nil
}
