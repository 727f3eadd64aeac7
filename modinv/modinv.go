/*
Package modinv provides the modular arithmetic needed to undo a multiplication
in a polynomial rolling checksum: the multiplicative inverse of k modulo m, and
k^n modulo m.

Only odd multipliers have an inverse modulo 2^32, which is why the
multiplicative rollsum refuses even ones.
*/
package modinv

import (
	"errors"
	"fmt"
)

// largest modulus Inverse accepts, so that intermediate coefficients fit in an int64
const maxModulus = 1 << 61

// ErrNotInvertible is returned when k and m are not coprime
var ErrNotInvertible = errors.New("value has no modular inverse")

// Inverse returns the number i that satisfies (i * k) % m == 1.
func Inverse(k, m uint64) (uint64, error) {
	if m < 2 || m > maxModulus {
		return 0, fmt.Errorf("modulus %v out of range", m)
	}

	x, xn := int64(0), int64(1)
	n, d := int64(m), int64(k%m)

	for d != 0 {
		q, r := n/d, n%d
		x, xn = xn, x-xn*q
		n, d = d, r
	}

	// n is now gcd(k, m)
	if n != 1 {
		return 0, fmt.Errorf("%w: %v mod %v", ErrNotInvertible, k, m)
	}

	i := x % int64(m)
	if i < 0 {
		i += int64(m)
	}

	return uint64(i), nil
}

// Inverse32 returns the inverse of k modulo 2^32. k must be odd.
func Inverse32(k uint32) (uint32, error) {
	i, err := Inverse(uint64(k), 1<<32)
	if err != nil {
		return 0, err
	}

	if uint32(i)*k != 1 {
		// can't happen for a correct Inverse
		return 0, fmt.Errorf("%w: %#x", ErrNotInvertible, k)
	}

	return uint32(i), nil
}

// largest modulus Pow accepts, so that products fit in 64 bits
const maxPowModulus = 1 << 32

// Pow returns k^n mod m by square-and-multiply, for 0 < m <= 2^32.
func Pow(k, n, m uint64) (uint64, error) {
	if m == 0 || m > maxPowModulus {
		return 0, fmt.Errorf("modulus %v out of range", m)
	}

	result := uint64(1) % m
	k %= m

	for n != 0 {
		if n&1 != 0 {
			result = (result * k) % m
		}
		k = (k * k) % m
		n >>= 1
	}

	return result, nil
}

// Pow32 returns k^n mod 2^32
func Pow32(k uint32, n uint64) uint32 {
	result := uint32(1)

	for n != 0 {
		if n&1 != 0 {
			result *= k
		}
		k *= k
		n >>= 1
	}

	return result
}
