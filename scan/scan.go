/*
Package scan runs a rolling checksum across a stream the way a block matcher
would: the first block primes the checksum, then every further byte rotates
the window on by one. Each window position is handed to a set of collectors
with its digest and a fingerprint of its contents.
*/
package scan

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/zeebo/xxh3"

	"github.com/Redundancy/go-rollsums/circularbuffer"
	"github.com/Redundancy/go-rollsums/rollsum"
	"github.com/Redundancy/go-rollsums/stats"
)

const (
	DefaultProgressInterval = 1 << 20
	readBufferSize          = 64 * 1024
)

var ErrInvalidBlockSize = errors.New("scan: block size must be positive")

// Collector receives every window position
type Collector interface {
	Add(digest uint32, fingerprint xxh3.Uint128)
}

type Options struct {
	BlockSize int
	// BlockCount is the maximum number of windows, 0 for no limit
	BlockCount int
	Collectors []Collector
	// Logger is optional
	Logger *log.Logger
	// Windows between progress messages, DefaultProgressInterval if 0
	ProgressInterval int
}

type Result struct {
	Windows int
	// Data describes the mapped values of every byte read
	Data stats.Stats
	// Digest of the last window
	Digest uint32
}

type scanner struct {
	sum    rollsum.Checksum
	opts   Options
	window *circularbuffer.C2
	result *Result
}

/*
Run scans r with sum, which should be freshly constructed or reset.

If r is shorter than a block, its contents are recorded as a single short
window. An empty r records nothing.
*/
func Run(sum rollsum.Checksum, r io.Reader, opts Options) (*Result, error) {
	if opts.BlockSize <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlockSize, opts.BlockSize)
	}

	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}

	s := &scanner{
		sum:    sum,
		opts:   opts,
		window: circularbuffer.MakeC2Buffer(opts.BlockSize),
		result: &Result{},
	}

	bufferSize := readBufferSize
	if opts.BlockSize > bufferSize {
		bufferSize = opts.BlockSize
	}
	in := bufio.NewReaderSize(r, bufferSize)

	first := make([]byte, opts.BlockSize)
	n, err := io.ReadFull(in, first)

	switch {
	case err == io.EOF:
		return s.result, nil
	case err == io.ErrUnexpectedEOF:
		// short stream, keep what there is
	case err != nil:
		return s.result, fmt.Errorf("scan: reading first block: %w", err)
	}

	first = first[:n]
	s.countData(first)
	s.window.Write(first)
	sum.Update(first)
	s.record()

	in1 := make([]byte, 1)
	for !s.done() {
		c, err := in.ReadByte()

		if err == io.EOF {
			break
		} else if err != nil {
			return s.result, fmt.Errorf("scan: reading after %v windows: %w", s.result.Windows, err)
		}

		in1[0] = c
		s.countData(in1)
		s.window.Write(in1)

		if evicted := s.window.Evicted(); len(evicted) == 1 {
			if err := sum.Rotate(evicted[0], c); err != nil {
				return s.result, err
			}
		} else {
			sum.RollIn(c)
		}

		s.record()
	}

	if s.opts.Logger != nil {
		s.opts.Logger.Debug("scan complete", "windows", s.result.Windows, "checksum", sum)
	}

	return s.result, nil
}

func (s *scanner) done() bool {
	return s.opts.BlockCount > 0 && s.result.Windows >= s.opts.BlockCount
}

func (s *scanner) countData(p []byte) {
	m := s.sum.Mapper()
	for _, c := range p {
		s.result.Data.Add(uint64(m.Map(c)), 1)
	}
}

func (s *scanner) record() {
	digest := s.sum.Digest()

	if len(s.opts.Collectors) > 0 {
		fingerprint := stats.Fingerprint(s.window.GetBlock())

		for _, c := range s.opts.Collectors {
			c.Add(digest, fingerprint)
		}
	}

	s.result.Digest = digest
	s.result.Windows++

	if s.opts.Logger != nil && s.result.Windows%s.opts.ProgressInterval == 0 {
		s.opts.Logger.Debugf("scanned %v windows, digest %#08x", s.result.Windows, digest)
	}
}
