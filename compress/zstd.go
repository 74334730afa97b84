package compress

// ZstdCompressor compresses shard payloads with Zstandard. It has the best
// ratio of the supported codecs and suits cold shard storage where the
// payload is written once and rarely read back.
//
// Two implementations exist behind build tags: the cgo build binds libzstd
// through gozstd, and the pure-Go build uses klauspost/compress/zstd. The
// formats are interchangeable; shards compressed by one build decompress in
// the other.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
