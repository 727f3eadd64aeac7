/*
Package index describes a reference 'file' in terms of the weak and strong
checksums of its blocks, in such a way that you can check if a weak checksum
is present, then check if there is a strong checksum that matches.

The weak checksum is any rolling checksum from the rollsum package, so that a
comparison can roll through a stream and look up every window position. The
strong checksum is a 128bit xxh3 fingerprint of the block.
*/
package index

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/Redundancy/go-rollsums/rollsum"
	"github.com/Redundancy/go-rollsums/stats"
)

var ErrInvalidBlockSize = errors.New("index: block size must be positive")

// For a given block, the weak and strong checksums, and its position
type Block struct {
	// an offset in terms of block count
	Index uint
	// the size of the block, only the last block can be short
	Size   int
	Weak   uint32
	Strong xxh3.Uint128
}

type ChecksumIndex struct {
	BlockSize  int
	BlockCount int
	// size of the last block, which may be short
	lastBlockSize int
	// Config of the weak checksum, comparisons must use the same
	Config rollsum.Config
	// Find a matching weak checksum, see if there's a matching strong checksum
	weakChecksumLookup map[uint32]StrongChecksumList
}

// Build reads reference block by block and indexes each block
func Build(c rollsum.Config, blockSize int, reference io.Reader) (*ChecksumIndex, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlockSize, blockSize)
	}

	weak, err := rollsum.New(c)
	if err != nil {
		return nil, err
	}

	var blocks []Block
	buffer := make([]byte, blockSize)

	for i := uint(0); ; i++ {
		n, err := io.ReadFull(reference, buffer)

		if n > 0 {
			section := buffer[:n]
			weak.Reset()
			weak.Update(section)

			blocks = append(blocks, Block{
				Index:  i,
				Size:   n,
				Weak:   weak.Digest(),
				Strong: stats.Fingerprint(section),
			})
		}

		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("index: reading block %v: %w", i, err)
		}
	}

	index := MakeChecksumIndex(blocks)
	index.BlockSize = blockSize
	index.Config = c
	return index, nil
}

// Builds an index in which blocks can be found, with their corresponding offsets
func MakeChecksumIndex(blocks []Block) *ChecksumIndex {
	n := &ChecksumIndex{
		BlockCount:         len(blocks),
		weakChecksumLookup: make(map[uint32]StrongChecksumList, len(blocks)),
	}

	for _, block := range blocks {
		n.lastBlockSize = block.Size
		n.weakChecksumLookup[block.Weak] = append(
			n.weakChecksumLookup[block.Weak],
			block,
		)
	}

	for _, c := range n.weakChecksumLookup {
		sort.Stable(c)
	}

	return n
}

// LastBlockSize is the size of the last block, 0 for an empty index
func (index *ChecksumIndex) LastBlockSize() int {
	return index.lastBlockSize
}

func (index *ChecksumIndex) WeakCount() int {
	return len(index.weakChecksumLookup)
}

func (index *ChecksumIndex) FindWeakChecksumInIndex(weak uint32) StrongChecksumList {
	return index.weakChecksumLookup[weak]
}

// Blocks sharing a weak checksum, ordered by strong checksum
type StrongChecksumList []Block

// Sortable interface
func (s StrongChecksumList) Len() int {
	return len(s)
}

// Sortable interface
func (s StrongChecksumList) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Sortable interface
func (s StrongChecksumList) Less(i, j int) bool {
	return stats.LessFingerprint(s[i].Strong, s[j].Strong)
}

// FindStrongChecksum returns every block with the strong checksum, in block order
func (s StrongChecksumList) FindStrongChecksum(strong xxh3.Uint128) (result []Block) {
	n := len(s)

	// average length is 1, so fast path comparison
	if n == 1 {
		if s[0].Strong == strong {
			return s
		}
		return nil
	}

	// find the first possible occurrence
	first := sort.Search(
		n,
		func(i int) bool {
			return !stats.LessFingerprint(s[i].Strong, strong)
		},
	)

	// out of bounds, or the next one didn't match
	if first == n || s[first].Strong != strong {
		return nil
	}

	end := first + 1
	for end < n && s[end].Strong == strong {
		end++
	}

	return s[first:end]
}
