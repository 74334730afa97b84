package reedsolomon

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"

	"github.com/DeboDevelop/ReedSolomon/internal/options"
)

// coderOptions collects the tunables that shape how a Coder schedules its
// multiply-accumulate loops. They affect throughput only; output bytes are
// identical for every setting.
type coderOptions struct {
	maxGoroutines int
	minSplitSize  int
	shardSize     int

	// perRound is the chunk size of the inner loop, sized so one input
	// chunk plus all parity chunks stay cache-resident. Derived in tune.
	perRound int
}

var defaultCoderOptions = coderOptions{
	maxGoroutines: 384,
	minSplitSize:  -1,
	shardSize:     -1,
}

// Option configures a Coder at construction time.
type Option = options.Option[*coderOptions]

// WithMaxGoroutines sets the maximum number of goroutines one encode or
// reconstruct call may fan out to. n must be at least one; one disables
// concurrency entirely.
//
// The default of 384 is an upper bound, not a target: calls only split when
// the shard size crosses the minimum split size.
func WithMaxGoroutines(n int) Option {
	return options.New(func(o *coderOptions) error {
		if n < 1 {
			return fmt.Errorf("max goroutines must be at least 1, got %d", n)
		}
		o.maxGoroutines = n

		return nil
	})
}

// WithMinSplitSize sets the shard size below which a call always runs on
// the calling goroutine. Splitting tiny shards costs more in scheduling
// than it saves in compute.
func WithMinSplitSize(n int) Option {
	return options.New(func(o *coderOptions) error {
		if n < 1 {
			return fmt.Errorf("min split size must be at least 1, got %d", n)
		}
		o.minSplitSize = n

		return nil
	})
}

// WithAutoGoroutines derives the goroutine limit from the shard size the
// caller expects to pass to Encode and Reconstruct. Use this when the shard
// size is known up front and stable.
func WithAutoGoroutines(shardSize int) Option {
	return options.New(func(o *coderOptions) error {
		if shardSize < 1 {
			return fmt.Errorf("shard size must be at least 1, got %d", shardSize)
		}
		o.shardSize = shardSize

		return nil
	})
}

// tune finalizes the derived fields once the shard geometry is known.
// Chunk sizing follows the cache hierarchy reported by the CPU: one input
// chunk and all parity chunks should fit in L2 together, and the parity
// chunks alone in L1d.
func (o *coderOptions) tune(parityShards int) {
	o.perRound = cpuid.CPU.Cache.L2
	if o.perRound <= 0 {
		// Assume 128KiB when undetectable.
		o.perRound = 128 << 10
	}
	if cpuid.CPU.ThreadsPerCore > 1 && o.maxGoroutines > cpuid.CPU.PhysicalCores {
		// Hyperthreads share the cache; don't let them fight over it.
		o.perRound /= cpuid.CPU.ThreadsPerCore
	}
	o.perRound /= 1 + parityShards
	// Align to 64 bytes.
	o.perRound = (o.perRound + 63) / 64 * 64

	if o.minSplitSize <= 0 {
		cacheSize := cpuid.CPU.Cache.L1D
		if cacheSize <= 0 {
			cacheSize = 32 << 10
		}
		o.minSplitSize = max(cacheSize/(parityShards+1), 1024)
	}

	if o.perRound < o.minSplitSize {
		o.perRound = o.minSplitSize
	}

	if o.shardSize > 0 {
		p := runtime.GOMAXPROCS(0)
		if p == 1 || o.shardSize <= o.minSplitSize*2 {
			// Not worth the fan-out.
			o.maxGoroutines = 1
		} else {
			g := o.shardSize / o.perRound

			// Overprovision by a factor of 2.
			if g < p*2 && o.perRound > o.minSplitSize*2 {
				g = p * 2
				o.perRound /= 2
			}

			// Round up to a multiple of the processor count.
			g += p - 1
			g -= g % p

			o.maxGoroutines = g
		}
	}
}
