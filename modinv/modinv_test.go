package modinv

import (
	"errors"
	"math/rand"
	"testing"
)

func TestInverseOfSmallValues(t *testing.T) {
	// 3 * 5 = 15 = 1 mod 7
	i, err := Inverse(3, 7)

	if err != nil {
		t.Fatal(err)
	}

	if i != 5 {
		t.Errorf("Unexpected inverse of 3 mod 7: %v", i)
	}
}

func TestThatInverse32MultipliesToOne(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	multipliers := []uint32{1, 3, 0x08104225, 0xffffffff, 0x01000193}

	for i := 0; i < 1000; i++ {
		multipliers = append(multipliers, r.Uint32()|1)
	}

	for _, k := range multipliers {
		inv, err := Inverse32(k)

		if err != nil {
			t.Fatalf("Could not invert %#x: %v", k, err)
		}

		if inv*k != 1 {
			t.Errorf("Inverse %#x of %#x does not give 1 (got %#x)", inv, k, inv*k)
		}
	}
}

func TestThatEvenValuesHaveNoInverse32(t *testing.T) {
	for _, k := range []uint32{0, 2, 0x08104224, 0x80000000} {
		if _, err := Inverse32(k); !errors.Is(err, ErrNotInvertible) {
			t.Errorf("Expected ErrNotInvertible for %#x, got %v", k, err)
		}
	}
}

func TestThatNonCoprimeValuesHaveNoInverse(t *testing.T) {
	if _, err := Inverse(6, 9); !errors.Is(err, ErrNotInvertible) {
		t.Errorf("Expected ErrNotInvertible, got %v", err)
	}
}

func TestThatInvalidModulusIsRejected(t *testing.T) {
	for _, m := range []uint64{0, 1, 1<<61 + 1} {
		if _, err := Inverse(3, m); err == nil {
			t.Errorf("Expected an error for modulus %v", m)
		}
	}
}

func TestPowMatchesRepeatedMultiplication(t *testing.T) {
	k := uint32(0x08104225)
	expected := uint32(1)

	for n := uint64(0); n < 200; n++ {
		if p := Pow32(k, n); p != expected {
			t.Fatalf("Pow32(%#x, %v) = %#x, expected %#x", k, n, p, expected)
		}

		p, err := Pow(uint64(k), n, 1<<32)
		if err != nil {
			t.Fatal(err)
		}

		if uint32(p) != expected {
			t.Fatalf("Pow(%#x, %v) = %#x, expected %#x", k, n, p, expected)
		}

		expected *= k
	}
}

func TestPowWithPrimeModulus(t *testing.T) {
	// Fermat: a^(p-1) = 1 mod p
	if p, err := Pow(10, 65520, 65521); err != nil || p != 1 {
		t.Errorf("Unexpected result: %v %v", p, err)
	}
}

func TestThatPowRejectsInvalidModulus(t *testing.T) {
	for _, m := range []uint64{0, 1<<32 + 1, 1 << 61} {
		if _, err := Pow(3, 5, m); err == nil {
			t.Errorf("Expected an error for modulus %v", m)
		}
	}

	if p, err := Pow(3, 5, 1); err != nil || p != 0 {
		t.Errorf("Pow modulo 1 should be 0: %v %v", p, err)
	}
}

func BenchmarkInverse32(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		Inverse32(uint32(i) | 1)
	}
}
