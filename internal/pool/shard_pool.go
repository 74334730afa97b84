// Package pool provides sync.Pool-backed scratch buffers for shard-sized
// byte slices.
//
// Verify recomputes every parity shard on each call; pooling those scratch
// shards keeps repeated verification allocation-free after warmup.
package pool

import "sync"

var shardSlicePool = sync.Pool{
	New: func() any { return &[]byte{} },
}

// GetByteSlice retrieves a byte slice of exactly the requested length from
// the pool.
//
// The contents are unspecified; callers must overwrite the slice before
// reading it. The returned cleanup function must be called (typically with
// defer) to return the slice to the pool, after which the slice must not be
// used again.
func GetByteSlice(size int) ([]byte, func()) {
	ptr, _ := shardSlicePool.Get().(*[]byte)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]byte, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { shardSlicePool.Put(ptr) }
}
