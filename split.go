package reedsolomon

import (
	"fmt"
	"io"

	"github.com/DeboDevelop/ReedSolomon/errs"
)

// Split splits a byte stream into the coder's number of data shards and
// appends empty parity shards ready for Encode.
//
// The data is split into equally sized shards; when the length is not
// evenly divisible, the last data shard is zero-padded. Full shards alias
// the input slice without copying, so the caller must not modify data after
// splitting; only the padded tail shard is an independent copy.
//
// Returns errs.ErrShortData when data is empty.
func (c *Coder) Split(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, errs.ErrShortData
	}

	perShard := (len(data) + c.dataShards - 1) / c.dataShards

	shards := make([][]byte, c.totalShards)
	i := 0
	for ; i < c.dataShards && len(data) >= perShard; i++ {
		shards[i] = data[:perShard:perShard]
		data = data[perShard:]
	}
	if i < c.dataShards {
		// Pad the remaining bytes out to a full shard.
		tail := make([]byte, perShard)
		copy(tail, data)
		shards[i] = tail
		i++
	}
	for ; i < c.totalShards; i++ {
		shards[i] = make([]byte, perShard)
	}

	return shards, nil
}

// Join writes the original byte stream reassembled from the data shards to
// dst, trimming the zero padding added by Split. outSize must be the exact
// length of the original data.
//
// Only the data shards are read; parity shards may be missing. Returns
// errs.ErrReconstructRequired when a data shard is missing (call
// Reconstruct first) and errs.ErrShortData when the data shards hold fewer
// than outSize bytes.
func (c *Coder) Join(dst io.Writer, shards [][]byte, outSize int) error {
	if len(shards) < c.dataShards {
		return fmt.Errorf("%w: got %d, want at least %d", errs.ErrTooFewShards, len(shards), c.dataShards)
	}
	shards = shards[:c.dataShards]

	size := 0
	for i, shard := range shards {
		if len(shard) == 0 {
			return fmt.Errorf("%w: data shard %d is missing", errs.ErrReconstructRequired, i)
		}
		size += len(shard)

		// Quit early when we have enough bytes.
		if size >= outSize {
			break
		}
	}
	if size < outSize {
		return fmt.Errorf("%w: %d bytes of data for %d requested", errs.ErrShortData, size, outSize)
	}

	remaining := outSize
	for _, shard := range shards {
		if remaining <= 0 {
			break
		}
		if len(shard) > remaining {
			shard = shard[:remaining]
		}
		n, err := dst.Write(shard)
		if err != nil {
			return err
		}
		remaining -= n
	}

	return nil
}
