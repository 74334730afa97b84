package reedsolomon

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeboDevelop/ReedSolomon/errs"
	"github.com/DeboDevelop/ReedSolomon/matrix"
)

func TestNew(t *testing.T) {
	require := require.New(t)

	coder, err := New(4, 2)
	require.NoError(err)
	require.Equal(4, coder.DataShards())
	require.Equal(2, coder.ParityShards())
	require.Equal(6, coder.TotalShards())

	// The coding matrix for this geometry is fixed for all time; these rows
	// are what interoperating implementations produce as well.
	require.Equal(matrix.Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{27, 28, 18, 20},
		{28, 27, 20, 18},
	}, coder.CodingMatrix())
}

func TestNewInvalidShardCounts(t *testing.T) {
	tests := []struct {
		data, parity int
		wantErr      error
	}{
		{0, 1, errs.ErrInvalidShardNum},
		{1, 0, errs.ErrInvalidShardNum},
		{0, 0, errs.ErrInvalidShardNum},
		{-1, 2, errs.ErrInvalidShardNum},
		{2, -1, errs.ErrInvalidShardNum},
		{255, 2, errs.ErrMaxShardNum},
		{128, 129, errs.ErrMaxShardNum},
	}
	for _, tt := range tests {
		_, err := New(tt.data, tt.parity)
		require.ErrorIs(t, err, tt.wantErr, "New(%d, %d)", tt.data, tt.parity)
	}
}

func TestNewBoundaryGeometries(t *testing.T) {
	require := require.New(t)

	// Smallest and largest valid geometries.
	_, err := New(1, 1)
	require.NoError(err)
	_, err = New(255, 1)
	require.NoError(err)
	_, err = New(1, 255)
	require.NoError(err)
}

func TestEncode(t *testing.T) {
	require := require.New(t)

	coder, err := New(2, 2)
	require.NoError(err)

	shards := [][]byte{
		{0, 1, 2},
		{3, 4, 5},
		{200, 201, 203},
		{100, 101, 102},
	}
	require.NoError(coder.Encode(shards))

	// Data shards pass through unchanged; parity is fully determined by
	// the coding matrix.
	require.Equal([][]byte{
		{0, 1, 2},
		{3, 4, 5},
		{6, 11, 12},
		{5, 14, 11},
	}, shards)
}

func TestEncodeIdempotent(t *testing.T) {
	require := require.New(t)

	coder, err := New(3, 2)
	require.NoError(err)

	shards := randomShards(t, 5, 1024)
	require.NoError(coder.Encode(shards))

	first := copyShards(shards)
	require.NoError(coder.Encode(shards))
	require.Equal(first, shards)
}

func TestEncodeGeometryErrors(t *testing.T) {
	require := require.New(t)

	coder, err := New(2, 2)
	require.NoError(err)

	require.ErrorIs(coder.Encode(randomShards(t, 3, 8)), errs.ErrTooFewShards)
	require.ErrorIs(coder.Encode(randomShards(t, 5, 8)), errs.ErrTooManyShards)

	shards := randomShards(t, 4, 8)
	shards[1] = []byte{}
	require.ErrorIs(coder.Encode(shards), errs.ErrShardNoData)

	shards = randomShards(t, 4, 8)
	shards[2] = shards[2][:5]
	require.ErrorIs(coder.Encode(shards), errs.ErrShardSize)

	require.ErrorIs(coder.Encode([][]byte{{}, {}, {}, {}}), errs.ErrShardNoData)
}

func TestEncodeDoesNotWriteOnValidationFailure(t *testing.T) {
	require := require.New(t)

	coder, err := New(2, 2)
	require.NoError(err)

	shards := randomShards(t, 4, 16)
	shards[1] = shards[1][:10] // bad geometry
	before := copyShards(shards)

	require.Error(coder.Encode(shards))
	require.Equal(before, shards)
}

func TestVerify(t *testing.T) {
	require := require.New(t)

	coder, err := New(4, 3)
	require.NoError(err)

	shards := randomShards(t, 7, 512)
	require.NoError(coder.Encode(shards))

	ok, err := coder.Verify(shards)
	require.NoError(err)
	require.True(ok)

	shards[5][100] ^= 0x40
	ok, err = coder.Verify(shards)
	require.NoError(err)
	require.False(ok)

	// Tampered data shards are detected through the recomputed parity.
	shards[5][100] ^= 0x40
	shards[0][0] ^= 0x01
	ok, err = coder.Verify(shards)
	require.NoError(err)
	require.False(ok)

	_, err = coder.Verify(shards[:5])
	require.ErrorIs(err, errs.ErrTooFewShards)
}

func TestReconstructDocumentedScenario(t *testing.T) {
	require := require.New(t)

	coder, err := New(2, 2)
	require.NoError(err)

	shards := [][]byte{
		{0, 1, 2},
		{3, 4, 5},
		make([]byte, 3),
		make([]byte, 3),
	}
	require.NoError(coder.Encode(shards))
	encoded := copyShards(shards)

	// Lose data shard 1 and parity shard 0.
	shards[1] = nil
	shards[2] = nil

	require.NoError(coder.Reconstruct(shards))
	require.Equal(encoded, shards)
}

func TestReconstructMissingParityOnly(t *testing.T) {
	require := require.New(t)

	coder, err := New(3, 2)
	require.NoError(err)

	shards := randomShards(t, 5, 256)
	require.NoError(coder.Encode(shards))
	encoded := copyShards(shards)

	shards[3] = nil
	shards[4] = nil

	require.NoError(coder.Reconstruct(shards))
	require.Equal(encoded, shards)
}

func TestReconstructAllPresent(t *testing.T) {
	require := require.New(t)

	coder, err := New(3, 2)
	require.NoError(err)

	shards := randomShards(t, 5, 64)
	require.NoError(coder.Encode(shards))
	encoded := copyShards(shards)

	require.NoError(coder.Reconstruct(shards))
	require.Equal(encoded, shards)
}

func TestReconstructData(t *testing.T) {
	require := require.New(t)

	coder, err := New(3, 2)
	require.NoError(err)

	shards := randomShards(t, 5, 256)
	require.NoError(coder.Encode(shards))
	encoded := copyShards(shards)

	shards[0] = nil
	shards[4] = nil

	require.NoError(coder.ReconstructData(shards))
	require.Equal(encoded[0], shards[0])
	// Parity stays missing.
	require.Empty(shards[4])
}

func TestReconstructUnrecoverable(t *testing.T) {
	require := require.New(t)

	coder, err := New(3, 2)
	require.NoError(err)

	shards := randomShards(t, 5, 128)
	require.NoError(coder.Encode(shards))

	// Losing more shards than parity can cover must fail loudly, never
	// produce silently wrong bytes.
	shards[0] = nil
	shards[1] = nil
	shards[3] = nil
	before := copyShards(shards)

	err = coder.Reconstruct(shards)
	require.ErrorIs(err, errs.ErrTooFewShardsPresent)
	require.Equal(before, shards)
}

func TestReconstructGeometryErrors(t *testing.T) {
	require := require.New(t)

	coder, err := New(2, 2)
	require.NoError(err)

	require.ErrorIs(coder.Reconstruct(make([][]byte, 3)), errs.ErrTooFewShards)
	require.ErrorIs(coder.Reconstruct(make([][]byte, 5)), errs.ErrTooManyShards)
	require.ErrorIs(coder.Reconstruct(make([][]byte, 4)), errs.ErrShardNoData)

	shards := randomShards(t, 4, 32)
	shards[0] = shards[0][:16]
	require.ErrorIs(coder.Reconstruct(shards), errs.ErrShardSize)
}

// TestRoundTrip exercises the central property: for every erasure pattern
// up to the parity count, reconstruction restores the encoded shard set
// byte for byte.
func TestRoundTrip(t *testing.T) {
	geometries := []struct{ data, parity int }{
		{1, 1},
		{2, 2},
		{5, 3},
		{10, 4},
		{17, 3},
	}
	rng := rand.New(rand.NewSource(42))

	for _, g := range geometries {
		t.Run(fmt.Sprintf("%dx%d", g.data, g.parity), func(t *testing.T) {
			require := require.New(t)

			coder, err := New(g.data, g.parity)
			require.NoError(err)

			total := g.data + g.parity
			shards := make([][]byte, total)
			for i := range shards {
				shards[i] = make([]byte, 199)
				rng.Read(shards[i])
			}
			require.NoError(coder.Encode(shards))
			encoded := copyShards(shards)

			for trial := 0; trial < 20; trial++ {
				damaged := copyShards(encoded)
				for _, idx := range rng.Perm(total)[:rng.Intn(g.parity+1)] {
					damaged[idx] = nil
				}

				require.NoError(coder.Reconstruct(damaged))
				require.Equal(encoded, damaged)
			}
		})
	}
}

// TestReconstructReusesCapacity checks that zero-length shards with spare
// capacity are reconstructed into their existing backing array.
func TestReconstructReusesCapacity(t *testing.T) {
	require := require.New(t)

	coder, err := New(2, 2)
	require.NoError(err)

	shards := randomShards(t, 4, 64)
	require.NoError(coder.Encode(shards))
	encoded := copyShards(shards)

	backing := shards[1]
	shards[1] = shards[1][:0]

	require.NoError(coder.Reconstruct(shards))
	require.Equal(encoded, shards)
	require.Same(&backing[0], &shards[1][0])
}

// TestCodingMatrixInvariant verifies recoverability at the matrix level:
// any dataShards rows of the coding matrix form an invertible submatrix.
func TestCodingMatrixInvariant(t *testing.T) {
	require := require.New(t)

	coder, err := New(4, 3)
	require.NoError(err)
	m := coder.CodingMatrix()

	var choose func(start int, picked []int)
	choose = func(start int, picked []int) {
		if len(picked) == 4 {
			square, err := matrix.New(4, 4)
			require.NoError(err)
			for i, r := range picked {
				copy(square[i], m[r])
			}
			_, err = square.Invert()
			require.NoError(err, "rows %v", picked)

			return
		}
		for r := start; r < 7; r++ {
			choose(r+1, append(picked, r))
		}
	}
	choose(0, nil)
}

func TestEncodeDeterministicAcrossCoders(t *testing.T) {
	require := require.New(t)

	a, err := New(6, 3)
	require.NoError(err)
	b, err := New(6, 3, WithMaxGoroutines(1))
	require.NoError(err)

	shardsA := randomShards(t, 9, 100*1024)
	shardsB := copyShards(shardsA)

	require.NoError(a.Encode(shardsA))
	require.NoError(b.Encode(shardsB))
	require.Equal(shardsA, shardsB)
}

func TestConcurrentUse(t *testing.T) {
	require := require.New(t)

	coder, err := New(4, 2)
	require.NoError(err)

	reference := randomShards(t, 6, 2048)
	require.NoError(coder.Encode(reference))

	var wg sync.WaitGroup
	errCh := make(chan error, 16)
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			shards := copyShards(reference)
			shards[w%6] = nil
			if err := coder.Reconstruct(shards); err != nil {
				errCh <- err
				return
			}
			for i := range shards {
				if !equalBytes(shards[i], reference[i]) {
					errCh <- fmt.Errorf("worker %d: shard %d mismatch", w, i)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(err)
	}
}

func TestWithOptionErrors(t *testing.T) {
	require := require.New(t)

	_, err := New(2, 2, WithMaxGoroutines(0))
	require.Error(err)
	_, err = New(2, 2, WithMinSplitSize(0))
	require.Error(err)
	_, err = New(2, 2, WithAutoGoroutines(0))
	require.Error(err)

	_, err = New(2, 2, WithMaxGoroutines(4), WithMinSplitSize(2048), WithAutoGoroutines(1<<20))
	require.NoError(err)
}

// randomShards returns count shards of the given size filled with
// deterministic pseudo-random bytes.
func randomShards(t *testing.T, count, size int) [][]byte {
	t.Helper()

	rng := rand.New(rand.NewSource(int64(count)*1e6 + int64(size)))
	shards := make([][]byte, count)
	for i := range shards {
		shards[i] = make([]byte, size)
		rng.Read(shards[i])
	}

	return shards
}

func copyShards(shards [][]byte) [][]byte {
	dup := make([][]byte, len(shards))
	for i, shard := range shards {
		if shard == nil {
			continue
		}
		dup[i] = append([]byte(nil), shard...)
	}

	return dup
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func BenchmarkEncode(b *testing.B) {
	for _, size := range []int{1 << 10, 1 << 16, 1 << 20} {
		b.Run(fmt.Sprintf("10x4_%dB", size), func(b *testing.B) {
			coder, err := New(10, 4)
			if err != nil {
				b.Fatal(err)
			}
			shards := make([][]byte, 14)
			rng := rand.New(rand.NewSource(1))
			for i := range shards {
				shards[i] = make([]byte, size)
				rng.Read(shards[i])
			}
			b.SetBytes(int64(size * 10))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := coder.Encode(shards); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkReconstruct(b *testing.B) {
	coder, err := New(10, 4)
	if err != nil {
		b.Fatal(err)
	}
	shards := make([][]byte, 14)
	rng := rand.New(rand.NewSource(1))
	for i := range shards {
		shards[i] = make([]byte, 1<<16)
		rng.Read(shards[i])
	}
	if err := coder.Encode(shards); err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(10 << 16))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		shards[3] = nil
		shards[11] = nil
		if err := coder.Reconstruct(shards); err != nil {
			b.Fatal(err)
		}
	}
}
