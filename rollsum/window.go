package rollsum

import (
	"encoding/binary"
	"fmt"

	"github.com/Redundancy/go-rollsums/circularbuffer"
)

// Size of a digest in bytes
const Size = 4

// Window adapts a Checksum into a hash.Hash32 over the last blockSize bytes
// written. It keeps a copy of the window in a circular buffer, so that bytes
// pushed out by a Write can be rotated out of the checksum.
// Create one using NewWindow.
type Window struct {
	sum       Checksum
	blockSize int
	buffer    *circularbuffer.C2
}

// NewWindow creates a Window of blockSize bytes using the checksum configured by c
func NewWindow(c Config, blockSize int) (*Window, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("rollsum: invalid block size %v", blockSize)
	}

	sum, err := New(c)
	if err != nil {
		return nil, err
	}

	return &Window{
		sum:       sum,
		blockSize: blockSize,
		buffer:    circularbuffer.MakeC2Buffer(blockSize),
	}, nil
}

// Write adds p to the window. It cannot be called concurrently.
func (w *Window) Write(p []byte) (n int, err error) {
	if len(p) >= w.blockSize {
		// if it's really long, only the tail matters
		remaining := p[len(p)-w.blockSize:]
		w.buffer.Reset()
		w.buffer.Write(remaining)
		w.sum.Reset()
		w.sum.Update(remaining)
		return len(p), nil
	}

	w.buffer.Write(p)
	evicted := w.buffer.Evicted()

	// the first bytes grow the window, the rest replace evicted bytes
	grow := len(p) - len(evicted)
	w.sum.Update(p[:grow])

	for i, out := range evicted {
		if err := w.sum.Rotate(out, p[grow+i]); err != nil {
			return grow + i, err
		}
	}

	return len(p), nil
}

// Sum32 is the digest of the current window
func (w *Window) Sum32() uint32 {
	return w.sum.Digest()
}

// Sum appends the current digest to b, big endian, and returns the resulting
// slice. It does not change the underlying hash state.
func (w *Window) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, w.sum.Digest())
}

func (w *Window) Reset() {
	w.sum.Reset()
	w.buffer.Reset()
}

// Size is the number of bytes Sum appends
func (w *Window) Size() int {
	return Size
}

// The most efficient byte length to call Write with
func (w *Window) BlockSize() int {
	return w.blockSize
}

// Checksum gives read access to the underlying checksum. Updating it directly
// desynchronizes it from the window.
func (w *Window) Checksum() Checksum {
	return w.sum
}

// GetLastBlock returns the bytes currently in the window
func (w *Window) GetLastBlock() []byte {
	return w.buffer.GetBlock()
}

// String describes the checksum and window size
func (w *Window) String() string {
	return fmt.Sprintf("%v[%v]", w.sum, w.blockSize)
}
