package rollsum

import (
	"errors"
	"testing"

	"github.com/Redundancy/go-rollsums/modinv"
)

func TestRabinKarpOfABC(t *testing.T) {
	r, err := NewRabinKarp(Config{Multiplier: 3})
	if err != nil {
		t.Fatal(err)
	}

	r.Update([]byte("abc"))

	// ((97*3)+98)*3 + 99
	if r.Digest() != 1266 {
		t.Errorf("Unexpected digest: %v", r.Digest())
	}
}

func TestThatEvenMultipliersAreRejected(t *testing.T) {
	for _, mult := range []uint32{2, 0x10000, 0x08104224} {
		_, err := NewRabinKarp(Config{Multiplier: mult})

		if !errors.Is(err, ErrEvenMultiplier) {
			t.Errorf("Multiplier %#x: expected ErrEvenMultiplier, got %v", mult, err)
		}

		if !errors.Is(err, modinv.ErrNotInvertible) {
			t.Errorf("Multiplier %#x: expected the inverse error to be wrapped, got %v", mult, err)
		}
	}
}

func TestThatZeroMultiplierSelectsTheDefault(t *testing.T) {
	r, err := NewRabinKarp(Config{})
	if err != nil {
		t.Fatal(err)
	}

	if mult, _ := r.Multiplier(); mult != DefaultMultiplier {
		t.Errorf("Unexpected multiplier %#x", mult)
	}
}

func TestThatTheInverseMultiplierIsCorrect(t *testing.T) {
	for _, mult := range []uint32{1, 3, DefaultMultiplier, 0x01000193, 0xffffffff} {
		r, err := NewRabinKarp(Config{Multiplier: mult})
		if err != nil {
			t.Fatal(err)
		}

		m, inv := r.Multiplier()
		if m != mult || m*inv != 1 {
			t.Errorf("Multiplier %#x has inverse %#x", m, inv)
		}
	}
}

func TestThatRabinKarpReturnsToTheSeed(t *testing.T) {
	r, err := NewRabinKarp(Config{Seed: 0x1234, Offset: 31})
	if err != nil {
		t.Fatal(err)
	}

	data := []byte("The quick brown fox jumps over the lazy dog")
	r.Update(data)

	for _, c := range data {
		if err := r.RollOut(c); err != nil {
			t.Fatal(err)
		}
	}

	if r.Digest() != 0x1234 || r.Count() != 0 {
		t.Errorf("Expected the seed after removing everything, got %#x (%v)", r.Digest(), r.Count())
	}
}
