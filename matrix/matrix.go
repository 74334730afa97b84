// Package matrix implements dense byte matrices over the Galois field
// GF(2^8), including the Gauss-Jordan inversion and the Vandermonde
// construction that the Reed-Solomon coding matrix is built from.
package matrix

import (
	"fmt"
	"strings"

	"github.com/DeboDevelop/ReedSolomon/errs"
	"github.com/DeboDevelop/ReedSolomon/gf256"
)

// Matrix is a row-major matrix of GF(2^8) elements. Each row is an
// independent slice; rows always share a single length.
type Matrix [][]byte

// New creates a zero-filled matrix with the given dimensions.
//
// Returns errs.ErrInvalidMatrixSize when rows or cols is not positive.
func New(rows, cols int) (Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", errs.ErrInvalidMatrixSize, rows, cols)
	}

	m := make(Matrix, rows)
	for r := range m {
		m[r] = make([]byte, cols)
	}

	return m, nil
}

// Identity creates an identity matrix of the given size.
func Identity(size int) (Matrix, error) {
	m, err := New(size, size)
	if err != nil {
		return nil, err
	}
	for r := range m {
		m[r][r] = 1
	}

	return m, nil
}

// Vandermonde creates a rows x cols matrix whose element at (r, c) is r
// raised to the power c in GF(2^8). Since the 256 field elements are
// distinct, any cols rows of the result form an invertible square matrix as
// long as rows does not exceed 256.
func Vandermonde(rows, cols int) (Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for r := range m {
		for c := range m[r] {
			m[r][c] = gf256.Exp(byte(r), c)
		}
	}

	return m, nil
}

// Rows returns the number of rows in the matrix.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the number of columns in the matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}

	return len(m[0])
}

// IsSquare reports whether the matrix has as many rows as columns.
func (m Matrix) IsSquare() bool {
	return m.Rows() == m.Cols()
}

// Multiply returns the matrix product of m and right.
//
// Returns errs.ErrDimensionMismatch unless m.Cols() == right.Rows().
func (m Matrix) Multiply(right Matrix) (Matrix, error) {
	if m.Cols() != right.Rows() {
		return nil, fmt.Errorf("%w: %d columns on the left, %d rows on the right",
			errs.ErrDimensionMismatch, m.Cols(), right.Rows())
	}

	result, err := New(m.Rows(), right.Cols())
	if err != nil {
		return nil, err
	}
	for r, row := range m {
		for c := range right[0] {
			var value byte
			for i := range row {
				value = gf256.Add(value, gf256.Mul(row[i], right[i][c]))
			}
			result[r][c] = value
		}
	}

	return result, nil
}

// Augment returns a new matrix holding the columns of m followed by the
// columns of right. Both operands must have the same number of rows.
func (m Matrix) Augment(right Matrix) (Matrix, error) {
	if m.Rows() != right.Rows() {
		return nil, fmt.Errorf("%w: %d rows on the left, %d rows on the right",
			errs.ErrDimensionMismatch, m.Rows(), right.Rows())
	}

	result, err := New(m.Rows(), m.Cols()+right.Cols())
	if err != nil {
		return nil, err
	}
	for r := range result {
		copy(result[r], m[r])
		copy(result[r][m.Cols():], right[r])
	}

	return result, nil
}

// SubMatrix returns an independent copy of the rows [rmin, rmax) and
// columns [cmin, cmax) of m. Mutating the result never affects m.
func (m Matrix) SubMatrix(rmin, cmin, rmax, cmax int) (Matrix, error) {
	if rmin < 0 || cmin < 0 || rmax > m.Rows() || cmax > m.Cols() || rmin >= rmax || cmin >= cmax {
		return nil, fmt.Errorf("%w: rows [%d, %d) cols [%d, %d) of a %dx%d matrix",
			errs.ErrInvalidMatrixSize, rmin, rmax, cmin, cmax, m.Rows(), m.Cols())
	}

	result, err := New(rmax-rmin, cmax-cmin)
	if err != nil {
		return nil, err
	}
	for r := rmin; r < rmax; r++ {
		copy(result[r-rmin], m[r][cmin:cmax])
	}

	return result, nil
}

// SwapRows exchanges rows r1 and r2 in place.
func (m Matrix) SwapRows(r1, r2 int) error {
	if r1 < 0 || r2 < 0 || r1 >= m.Rows() || r2 >= m.Rows() {
		return fmt.Errorf("%w: swap rows %d and %d of a %d-row matrix",
			errs.ErrInvalidMatrixSize, r1, r2, m.Rows())
	}
	m[r1], m[r2] = m[r2], m[r1]

	return nil
}

// Invert returns the inverse of m via Gauss-Jordan elimination on the
// matrix augmented with the identity.
//
// GF(2^8) has no useful ordering, so the pivot is the first nonzero element
// at or below the diagonal rather than the element of largest magnitude.
//
// Returns errs.ErrNotSquare for non-square matrices and
// errs.ErrSingularMatrix when some column has no usable pivot.
func (m Matrix) Invert() (Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("%w: %dx%d", errs.ErrNotSquare, m.Rows(), m.Cols())
	}

	size := m.Rows()
	identity, err := Identity(size)
	if err != nil {
		return nil, err
	}
	work, err := m.Augment(identity)
	if err != nil {
		return nil, err
	}

	if err := work.gaussJordan(); err != nil {
		return nil, err
	}

	return work.SubMatrix(0, size, size, size*2)
}

// gaussJordan reduces the left square of an augmented matrix to the
// identity, applying every row operation across the full row width.
func (m Matrix) gaussJordan() error {
	rows := m.Rows()

	for r := 0; r < rows; r++ {
		// Any nonzero element is a valid pivot; take the first one at or
		// below the diagonal.
		if m[r][r] == 0 {
			for rowBelow := r + 1; rowBelow < rows; rowBelow++ {
				if m[rowBelow][r] != 0 {
					if err := m.SwapRows(r, rowBelow); err != nil {
						return err
					}
					break
				}
			}
		}
		if m[r][r] == 0 {
			return fmt.Errorf("%w: no nonzero pivot in column %d", errs.ErrSingularMatrix, r)
		}

		// Scale the pivot row so the pivot becomes 1.
		if m[r][r] != 1 {
			scale, err := gf256.Inverse(m[r][r])
			if err != nil {
				return err
			}
			gf256.MulSlice(scale, m[r], m[r])
		}

		// Clear the pivot column in every other row.
		for row := 0; row < rows; row++ {
			if row == r || m[row][r] == 0 {
				continue
			}
			gf256.MulSliceXor(m[row][r], m[r], m[row])
		}
	}

	return nil
}

// String renders the matrix as bracketed rows of decimal values, one matrix
// per line. Intended for tests and debugging output.
func (m Matrix) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for r, row := range m {
		if r > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d", row)
	}
	sb.WriteByte(']')

	return sb.String()
}
