/*
Package circularbuffer holds the most recent bytes of a stream for a rolling
checksum window, and reports which bytes each write pushed out of the window,
so that they can be rolled out of the checksum.

The usage pattern is dominated by single byte writes that need the evicted
byte, with occasional whole block writes and occasional reads of the full
window. C2 is optimized for that and never allocates after construction.
*/
package circularbuffer

/*
C2 keeps a window of up to blocksize bytes in a buffer four blocks long.
The window and the bytes evicted by the last write are always contiguous, so
both can be returned as slices of the buffer without copying. When a write would
run off the end, the window is moved back to the start of the buffer first, which
costs one block copy every few blocks written.
*/
type C2 struct {
	blocksize int
	buffer    []byte

	// window is buffer[start:end]
	start, end int

	// evicted by the last write is buffer[evictedStart:start]
	evictedStart int
}

func MakeC2Buffer(blockSize int) *C2 {
	return &C2{
		blocksize: blockSize,
		buffer:    make([]byte, blockSize*4),
	}
}

func (c *C2) Reset() {
	c.start, c.end, c.evictedStart = 0, 0, 0
}

// Write new data. Only the last blocksize bytes of b can remain in the window.
func (c *C2) Write(b []byte) {
	if len(b) > c.blocksize {
		b = b[len(b)-c.blocksize:]
	}

	if c.end+len(b) > len(c.buffer) {
		// compact, the window fits in the first block
		n := copy(c.buffer, c.buffer[c.start:c.end])
		c.start, c.end = 0, n
	}

	copy(c.buffer[c.end:], b)
	c.end += len(b)

	c.evictedStart = c.start
	if overflow := c.end - c.start - c.blocksize; overflow > 0 {
		c.start += overflow
	}
}

// GetBlock returns the current window, oldest byte first.
// It is only valid until the next Write.
func (c *C2) GetBlock() []byte {
	return c.buffer[c.start:c.end]
}

// Evicted returns the bytes that the last Write pushed out of the window,
// oldest first. It is empty until the window has been filled.
// It is only valid until the next Write.
func (c *C2) Evicted() []byte {
	return c.buffer[c.evictedStart:c.start]
}

// Len is the number of bytes in the window
func (c *C2) Len() int {
	return c.end - c.start
}

// IsFull is true once the window holds blocksize bytes
func (c *C2) IsFull() bool {
	return c.Len() == c.blocksize
}

func (c *C2) BlockSize() int {
	return c.blocksize
}
