/*
Package readers produces deterministic byte streams for exercising rolling
checksums: runs of a single value, a non-repeating sequence, and seeded
pseudo-random data.
*/
package readers

import (
	"encoding/binary"
	"io"
	"math/rand"
)

// Reads a continuous stream of bytes with the same value, up to length
type uniformReader struct {
	value  byte
	length int
	read   int
}

func (r *uniformReader) Read(p []byte) (n int, err error) {
	readable := r.length - r.read
	if readable == 0 {
		return 0, io.EOF
	}

	n = len(p)
	if readable < n {
		n = readable
	}

	for i := range p[:n] {
		p[i] = r.value
	}

	r.read += n
	if r.read == r.length {
		err = io.EOF
	}

	return n, err
}

// Uniform returns length bytes of value
func Uniform(value byte, length int) io.Reader {
	return &uniformReader{value: value, length: length}
}

func ZeroReader(length int) io.Reader {
	return Uniform(0, length)
}

func OneReader(length int) io.Reader {
	return Uniform(1, length)
}

const nonRepeatingModulo = 87178291199
const nonRepeatingIncrement = 17180131327

// *should* produce a non-repeating sequence of bytes in a deterministic fashion
type nonRepeatingSequenceReader struct {
	value int64
}

// NewNonRepeatingSequence is endless, use io.LimitReader or
// NewSizedNonRepeatingSequence to bound it
func NewNonRepeatingSequence(i int64) io.Reader {
	return &nonRepeatingSequenceReader{i}
}

func NewSizedNonRepeatingSequence(i int64, s int64) io.Reader {
	return io.LimitReader(NewNonRepeatingSequence(i), s)
}

func (r *nonRepeatingSequenceReader) Read(p []byte) (n int, err error) {
	var b [8]byte

	for i := range p {
		binary.LittleEndian.PutUint64(b[:], uint64(r.value))
		p[i] = b[0]
		r.value = (r.value + nonRepeatingIncrement) % nonRepeatingModulo
	}

	return len(p), nil
}

// NewRandom returns an endless pseudo-random stream, the same for the same seed
func NewRandom(seed int64) io.Reader {
	return rand.New(rand.NewSource(seed))
}

// Injected inserts inject into base after offsetFromStart bytes
func Injected(offsetFromStart int64, base io.Reader, inject io.Reader) io.Reader {
	return io.MultiReader(
		io.LimitReader(base, offsetFromStart),
		inject,
		base,
	)
}

// MustRead reads exactly n bytes from r, and panics if it can't.
// For generating test data.
func MustRead(r io.Reader, n int) []byte {
	b := make([]byte, n)

	if _, err := io.ReadFull(r, b); err != nil {
		panic(err)
	}

	return b
}
