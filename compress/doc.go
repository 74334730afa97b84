// Package compress provides optional compression codecs for shard payloads.
//
// Parity bytes are effectively random and do not compress, but the data
// payload often does. Compressing the payload before splitting it into
// shards shrinks every shard in the set; the erasure coding math is
// unaffected because it operates on whatever bytes it is given.
//
// The package defines three interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// Four codecs are provided, selected by format.CompressionType:
//
//   - None: bypass, for payloads that are already compressed or encrypted
//   - Zstd: best ratio, moderate speed (gozstd under cgo, pure Go otherwise)
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression, moderate ratio
//
// Typical usage with a Coder:
//
//	codec, _ := compress.CreateCodec(format.CompressionLZ4, "payload")
//	packed, _ := codec.Compress(payload)
//	shards, _ := coder.Split(packed)
//	_ = coder.Encode(shards)
//
// The original payload length and the codec choice travel outside the shard
// bytes; this package defines no container format.
//
// All codecs are stateless values and safe for concurrent use.
package compress
