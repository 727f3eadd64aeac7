/*
Package comparer moves through a stream with a rolling checksum and compares
every window position to an index of reference blocks, producing the matches.

Any checksum from the rollsum package can be used, but only those whose
rotated digest equals the digest of a fresh checksum over the same window will
find anything: RollSum, RabinKarp and CyclicPoly always, Gear for blocks of
at least 32 bytes, RGear practically never.
*/
package comparer

import (
	"bufio"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/Redundancy/go-rollsums/circularbuffer"
	"github.com/Redundancy/go-rollsums/index"
	"github.com/Redundancy/go-rollsums/rollsum"
	"github.com/Redundancy/go-rollsums/stats"
)

const (
	READ_NEXT_BYTE = iota
	READ_NEXT_BLOCK
)

type BlockMatchResult struct {
	// In case of error
	Err error

	// The offset the comparison + baseOffset
	ComparisonOffset int64

	// The block from the index that it matched
	BlockIdx uint
}

// Comparer counts the work done by the comparisons it runs. The counters are
// updated atomically, so a Comparer can run several comparisons at once.
type Comparer struct {
	Comparisons    int64
	WeakHashHits   int64
	StrongHashHits int64
}

/*
StartFindMatchingBlocks iterates though comparison looking for blocks that
match ones from the index. It emits each match on the returned channel.
Callers should check for .Err != nil on the results, in which case reading
will end immediately.

When a window matches several identical reference blocks, a result is emitted
for each. After a match, the search carries on from the end of the matched
block.

It is capable of running asynchronously on sub-sections of a larger file. When
doing this, you must overlap by the block size.
*/
func (c *Comparer) StartFindMatchingBlocks(
	comparison io.Reader,
	baseOffset int64,
	reference *index.ChecksumIndex,
) <-chan BlockMatchResult {

	resultStream := make(chan BlockMatchResult)

	go c.findMatchingBlocks(
		resultStream,
		comparison,
		baseOffset,
		reference,
	)

	return resultStream
}

// FindMatchingBlocks runs a comparison without keeping counts
func FindMatchingBlocks(
	comparison io.Reader,
	baseOffset int64,
	reference *index.ChecksumIndex,
) <-chan BlockMatchResult {
	return (&Comparer{}).StartFindMatchingBlocks(comparison, baseOffset, reference)
}

type search struct {
	*Comparer
	results   chan<- BlockMatchResult
	reference *index.ChecksumIndex
	weak      rollsum.Checksum
	window    *circularbuffer.C2

	baseOffset int64
	// bytes read from the comparison
	read int64
	// the end of the last match, no other match may overlap it
	matchedEnd int64
}

func (c *Comparer) findMatchingBlocks(
	results chan<- BlockMatchResult,
	comparison io.Reader,
	baseOffset int64,
	reference *index.ChecksumIndex,
) {
	defer close(results)

	ReportErr := func(err error) {
		results <- BlockMatchResult{
			Err: err,
		}
	}

	if reference.BlockSize <= 0 {
		ReportErr(fmt.Errorf("%w: %v", index.ErrInvalidBlockSize, reference.BlockSize))
		return
	}

	weak, err := rollsum.New(reference.Config)
	if err != nil {
		ReportErr(err)
		return
	}

	s := &search{
		Comparer:   c,
		results:    results,
		reference:  reference,
		weak:       weak,
		window:     circularbuffer.MakeC2Buffer(reference.BlockSize),
		baseOffset: baseOffset,
	}

	if err := s.run(bufio.NewReader(comparison)); err != nil {
		ReportErr(err)
	}
}

func (s *search) run(comparison *bufio.Reader) error {
	blockSize := s.reference.BlockSize
	block := make([]byte, blockSize)

	n, err := io.ReadFull(comparison, block)
	s.read += int64(n)

	switch {
	case err == io.EOF:
		return nil
	case err == io.ErrUnexpectedEOF:
		s.window.Write(block[:n])
		return s.matchTail()
	case err != nil:
		return fmt.Errorf("Error reading first block in comparison: %w", err)
	}

	s.weak.Update(block)
	s.window.Write(block)
	singleByte := make([]byte, 1)
	next := READ_NEXT_BYTE

	for {
		// look for a match of the full window
		if s.lookup(s.weak.Digest(), s.window.GetBlock()) {
			// No point looking for a match that overlaps this block
			next = READ_NEXT_BLOCK
		}

		switch next {
		case READ_NEXT_BYTE:
			c, err := comparison.ReadByte()
			if err == io.EOF {
				return s.matchTail()
			} else if err != nil {
				return err
			}

			s.read++
			singleByte[0] = c
			s.window.Write(singleByte)

			if err := s.weak.Rotate(s.window.Evicted()[0], c); err != nil {
				return err
			}

		case READ_NEXT_BLOCK:
			n, err := io.ReadFull(comparison, block)
			s.read += int64(n)

			if err == io.EOF {
				return nil
			} else if err == io.ErrUnexpectedEOF {
				s.window.Write(block[:n])
				return s.matchTail()
			} else if err != nil {
				return err
			}

			s.weak.Reset()
			s.weak.Update(block)
			s.window.Write(block)

			// Reset to reading bytes
			next = READ_NEXT_BYTE
		}
	}
}

// lookup reports every reference block matching a window ending at s.read
func (s *search) lookup(weak uint32, window []byte) bool {
	atomic.AddInt64(&s.Comparisons, 1)

	weakMatchList := s.reference.FindWeakChecksumInIndex(weak)
	if weakMatchList == nil {
		return false
	}

	atomic.AddInt64(&s.WeakHashHits, 1)

	found := false
	for _, block := range weakMatchList.FindStrongChecksum(stats.Fingerprint(window)) {
		if block.Size != len(window) {
			continue
		}

		found = true
		s.results <- BlockMatchResult{
			ComparisonOffset: s.baseOffset + s.read - int64(len(window)),
			BlockIdx:         block.Index,
		}
	}

	if found {
		atomic.AddInt64(&s.StrongHashHits, 1)
		s.matchedEnd = s.read
	}

	return found
}

// matchTail checks the end of the comparison against a short last reference
// block
func (s *search) matchTail() error {
	last := s.reference.LastBlockSize()
	if last == 0 || last == s.reference.BlockSize || s.read-int64(last) < s.matchedEnd {
		return nil
	}

	window := s.window.GetBlock()
	tail := window[len(window)-last:]

	s.weak.Reset()
	s.weak.Update(tail)
	s.lookup(s.weak.Digest(), tail)

	return nil
}
