package stats

import (
	"sort"

	"github.com/petar/GoLLRB/llrb"
	"github.com/zeebo/xxh3"
)

// Fingerprint identifies the contents of a window
func Fingerprint(window []byte) xxh3.Uint128 {
	return xxh3.Hash128(window)
}

// LessFingerprint orders fingerprints by their high, then low, 64 bits
func LessFingerprint(a, b xxh3.Uint128) bool {
	if a.Hi != b.Hi {
		return a.Hi < b.Hi
	}
	return a.Lo < b.Lo
}

// A bucket of the table, ordered by index in the tree
type bucket struct {
	index uint64
	// sorted and unique
	fingerprints []xxh3.Uint128
}

func (b *bucket) Less(than llrb.Item) bool {
	return b.index < than.(*bucket).index
}

// add inserts f if the bucket doesn't already hold it
func (b *bucket) add(f xxh3.Uint128) {
	n := len(b.fingerprints)

	// find the first possible occurrence
	i := sort.Search(n, func(i int) bool {
		return !LessFingerprint(b.fingerprints[i], f)
	})

	if i < n && b.fingerprints[i] == f {
		return
	}

	b.fingerprints = append(b.fingerprints, xxh3.Uint128{})
	copy(b.fingerprints[i+1:], b.fingerprints[i:])
	b.fingerprints[i] = f
}

/*
HashTable counts how digests spread over a table of size buckets, where a
digest goes into the bucket given by index.

Only used buckets are stored, so size can be as large as 2^32.
*/
type HashTable struct {
	size  uint64
	index func(uint32) uint64
	tree  *llrb.LLRB
	// reused for lookups
	probe bucket
}

func NewHashTable(size uint64, index func(uint32) uint64) *HashTable {
	return &HashTable{
		size:  size,
		index: index,
		tree:  llrb.New(),
	}
}

// Add records a window with the given digest and content fingerprint
func (t *HashTable) Add(digest uint32, fingerprint xxh3.Uint128) {
	t.probe.index = t.index(digest)

	if found := t.tree.Get(&t.probe); found != nil {
		found.(*bucket).add(fingerprint)
		return
	}

	t.tree.ReplaceOrInsert(&bucket{
		index:        t.probe.index,
		fingerprints: []xxh3.Uint128{fingerprint},
	})
}

// Size is the number of buckets
func (t *HashTable) Size() uint64 {
	return t.size
}

// Used is the number of buckets with at least one entry
func (t *HashTable) Used() int {
	return t.tree.Len()
}

// Stats computes the bucket statistics, walking the buckets in index order
func (t *HashTable) Stats() *TableStats {
	s := &TableStats{}

	t.tree.AscendGreaterOrEqual(&bucket{}, func(i llrb.Item) bool {
		s.Add(uint64(len(i.(*bucket).fingerprints)), 1)
		return true
	})

	s.addEmpty(t.size)
	return s
}

func (t *HashTable) String() string {
	return t.Stats().String()
}
