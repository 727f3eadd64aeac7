package circularbuffer

import (
	"bytes"
	"testing"
)

const BLOCK_SIZE = 10

var incrementBlock = make([]byte, BLOCK_SIZE)
var incrementBlock2 = make([]byte, BLOCK_SIZE)

func init() {
	for i := range incrementBlock {
		incrementBlock[i] = byte(i)
		incrementBlock2[i] = byte(i + BLOCK_SIZE)
	}
}

func TestGetBlock(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)
	b.Write(incrementBlock)

	block := b.GetBlock()

	if len(block) != BLOCK_SIZE {
		t.Fatal("Wrong block size returned")
	}

	for i, by := range block {
		if byte(i) != by {
			t.Errorf("byte %v does not match", i)
		}
	}

	if !b.IsFull() {
		t.Error("Buffer should be full")
	}
}

func TestWriteTwoBlocksGet(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)
	b.Write(incrementBlock)
	b.Write(incrementBlock2)

	if !bytes.Equal(b.GetBlock(), incrementBlock2) {
		t.Errorf("Get block did not return the right value: %v", b.GetBlock())
	}
}

func TestWriteSingleByteGetSingleByte(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)
	singleByte := []byte{0}
	b.Write(singleByte)

	if !bytes.Equal(b.GetBlock(), singleByte) {
		t.Errorf("Get block did not return the right value: %v", b.GetBlock())
	}
}

func TestNothingIsEvictedBeforeTheWindowIsFull(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)

	for i := 0; i < BLOCK_SIZE; i++ {
		b.Write([]byte{byte(i)})

		if len(b.Evicted()) != 0 {
			t.Fatalf("Evicted %v after %v bytes", b.Evicted(), i+1)
		}
	}
}

func TestWriteTwoBlocksGetEvicted(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)
	b.Write(incrementBlock)
	b.Write(incrementBlock2)

	if !bytes.Equal(b.Evicted(), incrementBlock) {
		t.Errorf("Evicted did not return the right value: %v", b.Evicted())
	}
}

func TestWriteSingleByteReturnsSingleEvictedByte(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)
	b.Write(incrementBlock2)
	singleByte := []byte{0}

	b.Write(singleByte)
	e := b.Evicted()

	if len(e) != 1 {
		t.Fatalf("Evicted length is not correct: %v", e)
	}

	if e[0] != byte(10) {
		t.Errorf("Evicted content is not correct: %v", e)
	}
}

func TestPartialWriteEvictsOnlyTheOverflow(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)
	b.Write(incrementBlock[:7])
	b.Write(incrementBlock2[:5])

	if !bytes.Equal(b.Evicted(), []byte{0, 1}) {
		t.Errorf("Unexpected eviction: %v", b.Evicted())
	}

	expected := append(append([]byte{}, incrementBlock[2:7]...), incrementBlock2[:5]...)
	if !bytes.Equal(b.GetBlock(), expected) {
		t.Errorf("Unexpected block: %v", b.GetBlock())
	}
}

func TestOversizedWriteKeepsTheTail(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)
	b.Write(incrementBlock[:4])

	long := append(append([]byte{}, incrementBlock...), incrementBlock2...)
	b.Write(long)

	if !bytes.Equal(b.GetBlock(), incrementBlock2) {
		t.Errorf("Unexpected block: %v", b.GetBlock())
	}

	if !bytes.Equal(b.Evicted(), incrementBlock[:4]) {
		t.Errorf("Unexpected eviction: %v", b.Evicted())
	}
}

// Runs across many compactions and checks against a naive sliding slice
func TestLongSequenceOfWritesMatchesNaiveWindow(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)
	var window []byte

	for i := 0; i < 1000; i++ {
		n := i%7 + 1
		p := make([]byte, n)
		for j := range p {
			p[j] = byte(i*7 + j)
		}

		window = append(window, p...)
		var evicted []byte
		if len(window) > BLOCK_SIZE {
			evicted = window[:len(window)-BLOCK_SIZE]
			window = window[len(window)-BLOCK_SIZE:]
		}

		b.Write(p)

		if !bytes.Equal(b.GetBlock(), window) {
			t.Fatalf("Write %v: block %v, expected %v", i, b.GetBlock(), window)
		}

		if !bytes.Equal(b.Evicted(), evicted) {
			t.Fatalf("Write %v: evicted %v, expected %v", i, b.Evicted(), evicted)
		}
	}
}

func TestReset(t *testing.T) {
	b := MakeC2Buffer(BLOCK_SIZE)
	b.Write(incrementBlock)
	b.Reset()

	if b.Len() != 0 || len(b.Evicted()) != 0 {
		t.Errorf("Buffer not empty after reset: %v %v", b.GetBlock(), b.Evicted())
	}
}

// This should have no allocations!
func BenchmarkSingleWrites(b *testing.B) {
	buffer := MakeC2Buffer(BLOCK_SIZE)
	buffer.Write(incrementBlock)
	b.ReportAllocs()

	singleByte := []byte{0}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		buffer.Write(singleByte)
		buffer.Evicted()
	}
	b.StopTimer()
}
