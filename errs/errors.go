// Package errs defines sentinel errors shared across the ReedSolomon packages.
//
// All errors are created with errors.New and can be matched with errors.Is.
// Call sites add context by wrapping: fmt.Errorf("%w: details", errs.ErrX).
package errs

import "errors"

// Configuration errors, returned at Coder construction time.
var (
	// ErrInvalidShardNum is returned by New when the number of data shards
	// is less than one or the number of parity shards is less than one.
	ErrInvalidShardNum = errors.New("shard counts must be at least one data and one parity shard")

	// ErrMaxShardNum is returned by New when data plus parity shards exceed
	// 256, the number of distinct elements in GF(2^8). More shards would
	// produce duplicate rows in the Vandermonde matrix and break the
	// any-rows-invertible guarantee.
	ErrMaxShardNum = errors.New("shard counts must not exceed 256 total shards")
)

// Geometry errors, returned per Encode/Verify/Reconstruct call.
var (
	// ErrTooFewShards is returned when fewer shards than the configured
	// total are passed to an operation.
	ErrTooFewShards = errors.New("too few shards given")

	// ErrTooManyShards is returned when more shards than the configured
	// total are passed to an operation.
	ErrTooManyShards = errors.New("too many shards given")

	// ErrShardNoData is returned when every shard in the set is empty.
	ErrShardNoData = errors.New("no shard data")

	// ErrShardSize is returned when present shards do not all share the
	// same length.
	ErrShardSize = errors.New("shard sizes do not match")

	// ErrTooFewShardsPresent is returned by Reconstruct when fewer shards
	// survive than the number of data shards. The loss is unrecoverable;
	// retrying without more surviving shards cannot succeed.
	ErrTooFewShardsPresent = errors.New("too few shards present to reconstruct")
)

// Field and matrix errors.
var (
	// ErrDivideByZero is returned by gf256.Div when the divisor is zero.
	ErrDivideByZero = errors.New("division by zero in GF(2^8)")

	// ErrInvalidMatrixSize is returned when a matrix is created with a
	// non-positive row or column count.
	ErrInvalidMatrixSize = errors.New("matrix dimensions must be positive")

	// ErrDimensionMismatch is returned when two matrices have incompatible
	// shapes for the requested operation.
	ErrDimensionMismatch = errors.New("matrix dimension mismatch")

	// ErrNotSquare is returned by Invert for non-square matrices.
	ErrNotSquare = errors.New("only square matrices can be inverted")

	// ErrSingularMatrix is returned by Invert when no nonzero pivot exists
	// in some column. The coding matrix construction guarantees this never
	// happens during Reconstruct; seeing it there indicates a bug.
	ErrSingularMatrix = errors.New("matrix is singular")
)

// Checksum errors.
var (
	// ErrChecksumCount is returned by DropMismatched when the number of
	// recorded checksums does not match the number of shards.
	ErrChecksumCount = errors.New("checksum count does not match shard count")
)

// Split/Join errors.
var (
	// ErrShortData is returned by Split when there is no data to split.
	ErrShortData = errors.New("not enough data to fill the requested number of shards")

	// ErrReconstructRequired is returned by Join when a required data shard
	// is missing. Call Reconstruct before joining.
	ErrReconstructRequired = errors.New("reconstruction required: one or more data shards are missing")
)
