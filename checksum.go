package reedsolomon

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/DeboDevelop/ReedSolomon/errs"
)

// Checksums returns the xxHash64 digest of every shard.
//
// Reed-Solomon reconstruction handles erasures (shards that are known to be
// missing), not silent corruption. Recording digests next to encoded shards
// lets a caller turn corruption into erasures: recompute the digests after
// retrieval and drop the shards that no longer match before calling
// Reconstruct.
func Checksums(shards [][]byte) []uint64 {
	sums := make([]uint64, len(shards))
	for i, shard := range shards {
		sums[i] = xxhash.Sum64(shard)
	}

	return sums
}

// DropMismatched nils out every shard whose xxHash64 digest differs from
// the recorded sum, marking it as an erasure for Reconstruct. It returns
// the number of shards dropped.
//
// Shards that are already missing (zero-length) are left alone. Returns
// errs.ErrChecksumCount when sums was not recorded for this shard set.
func DropMismatched(shards [][]byte, sums []uint64) (int, error) {
	if len(sums) != len(shards) {
		return 0, fmt.Errorf("%w: %d checksums for %d shards", errs.ErrChecksumCount, len(sums), len(shards))
	}

	dropped := 0
	for i, shard := range shards {
		if len(shard) == 0 {
			continue
		}
		if xxhash.Sum64(shard) != sums[i] {
			shards[i] = nil
			dropped++
		}
	}

	return dropped, nil
}
