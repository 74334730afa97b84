package compress

import (
	"fmt"

	"github.com/DeboDevelop/ReedSolomon/format"
)

// Compressor compresses a shard payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// The returned slice is newly allocated and owned by the caller unless
	// the codec documents otherwise; the input slice is never modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a shard payload compressed by the matching
// Compressor.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original
	// bytes. An error is returned when the data is corrupted or was
	// compressed with a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one compression algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec returns the Codec for the given compression type. target
// names the payload being processed and only appears in error messages.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("unsupported %s compression type: %d", target, compressionType)
	}
}
