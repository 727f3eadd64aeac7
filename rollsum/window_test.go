package rollsum

import (
	"bytes"
	"hash"
	vanilla "hash/adler32"
	"testing"

	"github.com/Redundancy/go-rollsums/util/readers"
)

var _ hash.Hash32 = (*Window)(nil)

func newWindow(t testing.TB, c Config, blockSize int) *Window {
	w, err := NewWindow(c, blockSize)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestThatWindowMatchesAdler32OfTheLastBlock(t *testing.T) {
	const blockSize = 100
	data := readers.MustRead(readers.NewRandom(10), 10000)
	w := newWindow(t, adler32Config(), blockSize)

	written := 0
	for i := 0; written < len(data); i++ {
		n := i%(2*blockSize) + 1
		if written+n > len(data) {
			n = len(data) - written
		}

		w.Write(data[written : written+n])
		written += n

		start := written - blockSize
		if start < 0 {
			start = 0
		}

		if expected := vanilla.Checksum(data[start:written]); w.Sum32() != expected {
			t.Fatalf("After %v bytes: %#x, adler32 gives %#x", written, w.Sum32(), expected)
		}

		if !bytes.Equal(w.GetLastBlock(), data[start:written]) {
			t.Fatalf("After %v bytes the window holds the wrong bytes", written)
		}
	}
}

func TestThatWindowSumIsBigEndian(t *testing.T) {
	w := newWindow(t, DefaultConfig(AlgRabinKarp), 16)
	w.Write([]byte("some bytes"))

	d := w.Sum32()
	expected := []byte{0xff, byte(d >> 24), byte(d >> 16), byte(d >> 8), byte(d)}

	if b := w.Sum([]byte{0xff}); !bytes.Equal(b, expected) {
		t.Errorf("Sum %v, expected %v", b, expected)
	}
}

func TestResettingTheWindow(t *testing.T) {
	w1 := newWindow(t, DefaultConfig(AlgCyclicPoly), 8)
	w2 := newWindow(t, DefaultConfig(AlgCyclicPoly), 8)

	w1.Write([]byte("abcdef"))
	w2.Write([]byte("0123456789"))
	w2.Reset()
	w2.Write([]byte("abcdef"))

	if w1.Sum32() != w2.Sum32() || w2.Checksum().Count() != 6 {
		t.Errorf("Reset window differs: %#x vs %#x", w1.Sum32(), w2.Sum32())
	}
}

func TestThatWindowRejectsEmptyBlocks(t *testing.T) {
	if _, err := NewWindow(DefaultConfig(AlgRollSum), 0); err == nil {
		t.Error("Expected an error for block size 0")
	}
}

func TestWindowDescriptor(t *testing.T) {
	w := newWindow(t, DefaultConfig(AlgGear), 32)

	if w.String() != "Gear(offs=0, map=ord)[32]" {
		t.Errorf("Unexpected descriptor %q", w.String())
	}
}

func BenchmarkWindowSingleByteWrites(b *testing.B) {
	const BLOCK_SIZE = 1024
	w, err := NewWindow(DefaultConfig(AlgRollSum), BLOCK_SIZE)
	if err != nil {
		b.Fatal(err)
	}

	w.Write(readers.MustRead(readers.NewRandom(0), BLOCK_SIZE))
	p := []byte{0}
	b.ReportAllocs()
	b.SetBytes(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p[0] = byte(i)
		w.Write(p)
		w.Sum32()
	}
}
