// Package reedsolomon implements Reed-Solomon erasure coding over GF(2^8).
//
// Given a fixed number of equal-sized data shards, the coder computes
// additional parity shards such that the original data can be fully
// reconstructed after the loss of any subset of shards no larger than the
// number of parity shards. This trades a configurable amount of redundancy
// for resilience without full replication, the scheme used by distributed
// object stores and RAID-like systems.
//
// # Basic Usage
//
// Creating a coder and encoding parity:
//
//	import "github.com/DeboDevelop/ReedSolomon"
//
//	coder, _ := reedsolomon.New(4, 2)
//
//	// Four data shards followed by two parity shards, all the same length.
//	shards := make([][]byte, 6)
//	for i := range shards {
//	    shards[i] = make([]byte, 1024)
//	}
//	fillData(shards[:4])
//
//	_ = coder.Encode(shards) // parity written into shards[4:]
//
// Recovering after losing shards:
//
//	shards[1] = nil // lost a data shard
//	shards[4] = nil // lost a parity shard
//	_ = coder.Reconstruct(shards) // both rebuilt in place
//
// # Determinism
//
// The Galois field tables and the coding matrix are generated from fixed
// constants, so identical inputs always produce identical parity bytes
// across runs and platforms. Shards encoded by one process can be decoded
// by any other.
//
// # Concurrency
//
// A Coder is immutable after New and safe for concurrent use, as long as
// concurrent calls do not share shard buffers. Within a single call the
// work may be split across goroutines; see WithMaxGoroutines.
package reedsolomon

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/DeboDevelop/ReedSolomon/errs"
	"github.com/DeboDevelop/ReedSolomon/gf256"
	"github.com/DeboDevelop/ReedSolomon/internal/options"
	"github.com/DeboDevelop/ReedSolomon/internal/pool"
	"github.com/DeboDevelop/ReedSolomon/matrix"
)

// MaxShards is the maximum total number of data plus parity shards.
// GF(2^8) has 256 distinct elements; more shards would create duplicate
// rows in the Vandermonde matrix and make some losses unrecoverable.
const MaxShards = 256

// Coder encodes and reconstructs Reed-Solomon shard sets for one fixed
// geometry of data and parity shards.
//
// All fields are set by New and never mutated afterwards, so a single Coder
// may be shared freely across goroutines.
type Coder struct {
	dataShards   int
	parityShards int
	totalShards  int

	// m is the totalShards x dataShards coding matrix. Its top square is
	// the identity, so data shards pass through encoding unchanged; every
	// square subset of its rows is invertible.
	m matrix.Matrix

	// parity aliases the bottom parityShards rows of m.
	parity matrix.Matrix

	o coderOptions
}

// New creates a Coder for the given shard geometry.
//
// Returns errs.ErrInvalidShardNum unless dataShards and parityShards are
// both at least one, and errs.ErrMaxShardNum when their sum exceeds
// MaxShards. The coding matrix is built once here; Encode and Reconstruct
// never fail for matrix-related reasons afterwards.
func New(dataShards, parityShards int, opts ...Option) (*Coder, error) {
	if dataShards < 1 || parityShards < 1 {
		return nil, fmt.Errorf("%w: %d data, %d parity", errs.ErrInvalidShardNum, dataShards, parityShards)
	}
	if dataShards+parityShards > MaxShards {
		return nil, fmt.Errorf("%w: %d data + %d parity", errs.ErrMaxShardNum, dataShards, parityShards)
	}

	c := &Coder{
		dataShards:   dataShards,
		parityShards: parityShards,
		totalShards:  dataShards + parityShards,
		o:            defaultCoderOptions,
	}
	if err := options.Apply(&c.o, opts...); err != nil {
		return nil, err
	}

	m, err := buildMatrix(dataShards, c.totalShards)
	if err != nil {
		return nil, err
	}
	c.m = m
	c.parity = m[dataShards:]

	c.o.tune(parityShards)

	return c, nil
}

// buildMatrix creates the coding matrix for the given geometry.
//
// A plain Vandermonde matrix would work but does not leave the data shards
// unchanged after encoding. Multiplying by the inverse of its top square
// turns the top square into the identity while preserving the property that
// any square subset of rows is invertible.
func buildMatrix(dataShards, totalShards int) (matrix.Matrix, error) {
	vm, err := matrix.Vandermonde(totalShards, dataShards)
	if err != nil {
		return nil, err
	}

	top, err := vm.SubMatrix(0, 0, dataShards, dataShards)
	if err != nil {
		return nil, err
	}
	topInv, err := top.Invert()
	if err != nil {
		return nil, err
	}

	return vm.Multiply(topInv)
}

// DataShards returns the number of data shards.
func (c *Coder) DataShards() int {
	return c.dataShards
}

// ParityShards returns the number of parity shards.
func (c *Coder) ParityShards() int {
	return c.parityShards
}

// TotalShards returns the total number of shards.
func (c *Coder) TotalShards() int {
	return c.totalShards
}

// CodingMatrix returns an independent copy of the coding matrix.
func (c *Coder) CodingMatrix() matrix.Matrix {
	m, err := c.m.SubMatrix(0, 0, c.totalShards, c.dataShards)
	if err != nil {
		// The stored matrix always has positive dimensions.
		panic(err)
	}

	return m
}

// Encode computes the parity shards for a set of data shards.
//
// shards must hold exactly TotalShards entries: the data shards followed by
// the parity shards, all of the same nonzero length. The parity buffers are
// overwritten in place; the data shards are never modified, so it is safe
// to read them while Encode runs.
//
// No output buffer is written until the full geometry has been validated.
func (c *Coder) Encode(shards [][]byte) error {
	if err := c.checkShardCount(shards); err != nil {
		return err
	}
	if err := checkShards(shards, false); err != nil {
		return err
	}

	c.codeSomeShards(c.parity, shards[:c.dataShards], shards[c.dataShards:], len(shards[0]))

	return nil
}

// Verify reports whether the parity shards are consistent with the data
// shards. No shard is modified.
//
// The shard set must be complete; use Reconstruct first when shards are
// missing.
func (c *Coder) Verify(shards [][]byte) (bool, error) {
	if err := c.checkShardCount(shards); err != nil {
		return false, err
	}
	if err := checkShards(shards, false); err != nil {
		return false, err
	}

	byteCount := len(shards[0])
	computed := make([][]byte, c.parityShards)
	for i := range computed {
		buf, release := pool.GetByteSlice(byteCount)
		defer release()
		computed[i] = buf
	}

	c.codeSomeShards(c.parity, shards[:c.dataShards], computed, byteCount)

	for i, parityShard := range computed {
		if !bytes.Equal(parityShard, shards[c.dataShards+i]) {
			return false, nil
		}
	}

	return true, nil
}

// Reconstruct rebuilds all missing shards in place.
//
// shards must hold exactly TotalShards entries in their original order; a
// missing shard is indicated by a nil or zero-length entry. Present shards
// are never recomputed or modified. Missing entries are filled with newly
// written buffers (reusing existing capacity where possible) holding the
// exact bytes originally produced by Encode.
//
// Returns errs.ErrTooFewShardsPresent when fewer shards survive than the
// number of data shards; no reconstruction is possible in that case and the
// shard set is left untouched.
func (c *Coder) Reconstruct(shards [][]byte) error {
	return c.reconstruct(shards, false)
}

// ReconstructData rebuilds only the missing data shards in place, skipping
// parity. This is cheaper when the caller only needs the original payload
// back; note that Verify will typically fail on the result while parity
// shards remain missing.
func (c *Coder) ReconstructData(shards [][]byte) error {
	return c.reconstruct(shards, true)
}

func (c *Coder) reconstruct(shards [][]byte, dataOnly bool) error {
	if err := c.checkShardCount(shards); err != nil {
		return err
	}
	if err := checkShards(shards, true); err != nil {
		return err
	}

	shardLen := shardSize(shards)

	present := 0
	dataPresent := 0
	for i := range shards {
		if len(shards[i]) != 0 {
			present++
			if i < c.dataShards {
				dataPresent++
			}
		}
	}
	if present == c.totalShards || dataOnly && dataPresent == c.dataShards {
		// Nothing is missing.
		return nil
	}
	if present < c.dataShards {
		return fmt.Errorf("%w: %d of %d shards present, need %d",
			errs.ErrTooFewShardsPresent, present, c.totalShards, c.dataShards)
	}

	if dataPresent < c.dataShards {
		if err := c.reconstructData(shards, shardLen); err != nil {
			return err
		}
	}
	if dataOnly {
		return nil
	}

	// All data shards exist now; recompute any missing parity rows from
	// the generator submatrix.
	outputs := make([][]byte, 0, c.parityShards)
	rows := make(matrix.Matrix, 0, c.parityShards)
	for i := c.dataShards; i < c.totalShards; i++ {
		if len(shards[i]) != 0 {
			continue
		}
		shards[i] = growShard(shards[i], shardLen)
		outputs = append(outputs, shards[i])
		rows = append(rows, c.parity[i-c.dataShards])
	}
	c.codeSomeShards(rows, shards[:c.dataShards], outputs, shardLen)

	return nil
}

// reconstructData rebuilds the missing data shards from the first
// dataShards surviving shards.
//
// The surviving shards are picked in ascending index order, a fixed
// tie-break that keeps reconstruction reproducible even though any
// sufficiently large subset would recover the same bytes.
func (c *Coder) reconstructData(shards [][]byte, shardLen int) error {
	subShards := make([][]byte, 0, c.dataShards)
	validIndices := make([]int, 0, c.dataShards)
	for i := 0; i < c.totalShards && len(subShards) < c.dataShards; i++ {
		if len(shards[i]) != 0 {
			subShards = append(subShards, shards[i])
			validIndices = append(validIndices, i)
		}
	}

	// The rows of the coding matrix for the chosen shards map the original
	// data onto those shards; the inverse maps them back.
	subMatrix, err := matrix.New(c.dataShards, c.dataShards)
	if err != nil {
		return err
	}
	for subRow, validIndex := range validIndices {
		copy(subMatrix[subRow], c.m[validIndex])
	}
	decodeMatrix, err := subMatrix.Invert()
	if err != nil {
		// The coding matrix construction guarantees every such submatrix
		// is invertible; reaching this indicates a construction bug.
		return fmt.Errorf("reconstruct from shards %v: %w", validIndices, err)
	}

	outputs := make([][]byte, 0, c.parityShards)
	rows := make(matrix.Matrix, 0, c.parityShards)
	for i := 0; i < c.dataShards; i++ {
		if len(shards[i]) != 0 {
			continue
		}
		shards[i] = growShard(shards[i], shardLen)
		outputs = append(outputs, shards[i])
		rows = append(rows, decodeMatrix[i])
	}
	c.codeSomeShards(rows, subShards, outputs, shardLen)

	return nil
}

// codeSomeShards multiplies the given matrix rows by the input shards and
// writes one output shard per row. Output rows and byte offsets are
// independent, so large shards are split across goroutines when the options
// allow it.
func (c *Coder) codeSomeShards(rows matrix.Matrix, inputs, outputs [][]byte, byteCount int) {
	if len(outputs) == 0 {
		return
	}
	if c.o.maxGoroutines > 1 && byteCount > c.o.minSplitSize {
		c.codeSomeShardsP(rows, inputs, outputs, byteCount)
		return
	}
	c.codeShardsRange(rows, inputs, outputs, 0, byteCount)
}

// codeShardsRange performs the multiply-accumulate over the byte range
// [start, stop), working in cache-sized chunks.
func (c *Coder) codeShardsRange(rows matrix.Matrix, inputs, outputs [][]byte, start, stop int) {
	for start < stop {
		end := min(start+c.o.perRound, stop)
		for i, input := range inputs {
			in := input[start:end]
			for row := range outputs {
				if i == 0 {
					gf256.MulSlice(rows[row][i], in, outputs[row][start:end])
				} else {
					gf256.MulSliceXor(rows[row][i], in, outputs[row][start:end])
				}
			}
		}
		start = end
	}
}

// codeSomeShardsP splits the byte range across goroutines. Each goroutine
// owns a disjoint range of offsets, so no synchronization beyond the final
// wait is needed.
func (c *Coder) codeSomeShardsP(rows matrix.Matrix, inputs, outputs [][]byte, byteCount int) {
	var wg sync.WaitGroup

	do := max(byteCount/c.o.maxGoroutines, c.o.minSplitSize)
	// Align chunks to 64 bytes.
	do = (do + 63) &^ 63

	for start := 0; start < byteCount; start += do {
		stop := min(start+do, byteCount)
		wg.Add(1)
		go func(start, stop int) {
			defer wg.Done()
			c.codeShardsRange(rows, inputs, outputs, start, stop)
		}(start, stop)
	}
	wg.Wait()
}

// checkShardCount verifies that the slice holds exactly TotalShards
// entries.
func (c *Coder) checkShardCount(shards [][]byte) error {
	if len(shards) < c.totalShards {
		return fmt.Errorf("%w: got %d, want %d", errs.ErrTooFewShards, len(shards), c.totalShards)
	}
	if len(shards) > c.totalShards {
		return fmt.Errorf("%w: got %d, want %d", errs.ErrTooManyShards, len(shards), c.totalShards)
	}

	return nil
}

// checkShards verifies that all shards share one nonzero length. When
// missingOK is true, zero-length shards are accepted as absent.
func checkShards(shards [][]byte, missingOK bool) error {
	size := shardSize(shards)
	if size == 0 {
		return errs.ErrShardNoData
	}
	for i, shard := range shards {
		if len(shard) == 0 {
			if !missingOK {
				return fmt.Errorf("%w: shard %d is empty", errs.ErrShardNoData, i)
			}
			continue
		}
		if len(shard) != size {
			return fmt.Errorf("%w: shard %d has %d bytes, others have %d",
				errs.ErrShardSize, i, len(shard), size)
		}
	}

	return nil
}

// shardSize returns the length of the first non-empty shard, or 0 when all
// shards are empty.
func shardSize(shards [][]byte) int {
	for _, shard := range shards {
		if len(shard) != 0 {
			return len(shard)
		}
	}

	return 0
}

// growShard returns shard resized to size, reusing its capacity when
// possible.
func growShard(shard []byte, size int) []byte {
	if cap(shard) >= size {
		return shard[:size]
	}

	return make([]byte, size)
}
