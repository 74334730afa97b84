// Package gf256 implements arithmetic over the Galois field GF(2^8).
//
// Every byte value is a field element. Addition is bitwise XOR;
// multiplication and division go through discrete logarithm tables generated
// once at package initialization. The tables are derived from a fixed
// irreducible polynomial, so the field is identical on every run and every
// platform. Data encoded by one process can always be decoded by another.
//
// The tables are never mutated after initialization, so all functions in
// this package are safe for concurrent use without synchronization.
package gf256

import (
	"fmt"

	"github.com/DeboDevelop/ReedSolomon/errs"
)

// fieldSize is the number of elements in GF(2^8).
const fieldSize = 256

// expTableSize doubles the exponent table (minus the two unused slots) so
// Mul can index log(a)+log(b) directly without reducing modulo 255.
const expTableSize = fieldSize*2 - 2

// irreduciblePolynomial generates the field. 29 (0x1d) is the conventional
// choice for Reed-Solomon over GF(2^8); other valid generators (43, 45, 77,
// ...) would produce a different, incompatible field.
const irreduciblePolynomial = 29

var (
	logTable [fieldSize]byte
	expTable [expTableSize]byte
)

func init() {
	genLogTable(&logTable)
	genExpTable(&logTable, &expTable)
}

// genLogTable fills dst with the discrete logarithm of every nonzero field
// element. Element 2 is the generator: successive doublings (reduced by the
// irreducible polynomial when they overflow the field) enumerate all 255
// nonzero elements. dst[0] is meaningless since zero has no logarithm.
func genLogTable(dst *[fieldSize]byte) {
	b := 1
	for log := 0; log < fieldSize-1; log++ {
		dst[b] = byte(log)
		b <<= 1
		if b >= fieldSize {
			b = (b - fieldSize) ^ irreduciblePolynomial
		}
	}
}

// genExpTable fills dst with the inverse mapping of the log table, repeated
// a second time so multiplication needs no bounds reduction.
func genExpTable(logs *[fieldSize]byte, dst *[expTableSize]byte) {
	for i := 1; i < fieldSize; i++ {
		log := int(logs[i])
		dst[log] = byte(i)
		dst[log+fieldSize-1] = byte(i)
	}
}

// Add returns a + b in GF(2^8). Addition and subtraction are the same
// operation in a field of characteristic two.
func Add(a, b byte) byte {
	return a ^ b
}

// Sub returns a - b in GF(2^8), which is identical to Add.
func Sub(a, b byte) byte {
	return a ^ b
}

// Mul returns a * b in GF(2^8).
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}

	return expTable[int(logTable[a])+int(logTable[b])]
}

// Div returns a / b in GF(2^8).
//
// Returns errs.ErrDivideByZero when b is zero; 0/0 is rejected as well.
func Div(a, b byte) (byte, error) {
	if b == 0 {
		return 0, fmt.Errorf("%w: %d / 0", errs.ErrDivideByZero, a)
	}
	if a == 0 {
		return 0, nil
	}

	logDiff := int(logTable[a]) - int(logTable[b])
	if logDiff < 0 {
		logDiff += fieldSize - 1
	}

	return expTable[logDiff], nil
}

// Exp returns a raised to the power n in GF(2^8).
//
// n must be non-negative. Exp(0, 0) is 1 by convention, matching the
// Vandermonde matrix construction where row zero contributes 0^0.
func Exp(a byte, n int) byte {
	if n == 0 {
		return 1
	}
	if a == 0 {
		return 0
	}

	logResult := int(logTable[a]) * n
	for logResult >= fieldSize-1 {
		logResult -= fieldSize - 1
	}

	return expTable[logResult]
}

// Inverse returns the multiplicative inverse of a.
//
// Returns errs.ErrDivideByZero when a is zero, which has no inverse.
func Inverse(a byte) (byte, error) {
	return Div(1, a)
}

// MulSlice sets out[i] = c * in[i] for every byte of in.
//
// Both slices must have the same length. This is the coder's hot path for
// the first input shard of a multiply-accumulate pass.
func MulSlice(c byte, in, out []byte) {
	if c == 0 {
		clear(out[:len(in)])
		return
	}

	logC := int(logTable[c])
	for i, b := range in {
		if b == 0 {
			out[i] = 0
			continue
		}
		out[i] = expTable[logC+int(logTable[b])]
	}
}

// MulSliceXor sets out[i] ^= c * in[i] for every byte of in, accumulating
// the product into out in place.
func MulSliceXor(c byte, in, out []byte) {
	if c == 0 {
		return
	}

	logC := int(logTable[c])
	for i, b := range in {
		if b == 0 {
			continue
		}
		out[i] ^= expTable[logC+int(logTable[b])]
	}
}
