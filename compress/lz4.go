package compress

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// ErrIncompressible is returned by LZ4Compressor.Compress when the block
// format cannot shrink the payload at all. The block format has no way to
// mark a stored-raw payload, so the caller must keep such payloads
// uncompressed (format.CompressionNone) instead.
var ErrIncompressible = errors.New("lz4: payload is incompressible")

// lz4CompressorPool pools lz4.Compressor instances; the compressor keeps an
// internal hash table that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses shard payloads with the LZ4 block format. LZ4
// decompresses faster than the other codecs at a somewhat lower ratio,
// which suits read-heavy shard stores.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses the input data using the LZ4 block format.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// CompressBlock signals incompressible input with a zero length.
		return nil, ErrIncompressible
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block.
//
// The block format does not record the decompressed size, so the buffer
// starts at 4x the compressed size and doubles on
// lz4.ErrInvalidSourceShortBuffer, up to a 128MB limit that guards against
// corrupted length-bomb inputs.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	bufSize := len(data) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
