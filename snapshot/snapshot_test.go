package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/quartic/blobstore"
	"github.com/hupe1980/quartic/codec"
	"github.com/hupe1980/quartic/diff"
	"github.com/hupe1980/quartic/internal/uint128"
)

func sample() []diff.Candidate {
	return []diff.Candidate{
		{Diff: uint128.Pow4(313).Sub(uint128.Pow4(312)), C: 312, D: 313},
		{Diff: uint128.Pow4(353).Sub(uint128.Pow4(272)), C: 272, D: 353},
		{Diff: uint128.Pow4(422481).Sub(uint128.Pow4(217519)), C: 217519, D: 422481},
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	codecs := []codec.Codec{nil, codec.Zstd{}, codec.LZ4{}, codec.None{}}
	stores := map[string]func(t *testing.T) blobstore.Store{
		"memory": func(t *testing.T) blobstore.Store { return blobstore.NewMemoryStore() },
		"local": func(t *testing.T) blobstore.Store {
			s, err := blobstore.NewLocalStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
	}

	for storeName, newStore := range stores {
		for _, c := range codecs {
			label := storeName + "/default"
			if c != nil {
				label = storeName + "/" + c.Name()
			}
			t.Run(label, func(t *testing.T) {
				store := newStore(t)
				want := sample()
				require.NoError(t, Write(ctx, store, Name(422481), 422481, want, c))

				maxD, got, err := Read(ctx, store, Name(422481))
				require.NoError(t, err)
				assert.EqualValues(t, 422481, maxD)
				assert.Equal(t, want, got)
			})
		}
	}
}

func TestRoundTripEmpty(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, Write(ctx, store, Name(3), 3, nil, nil))

	maxD, got, err := Read(ctx, store, Name(3))
	require.NoError(t, err)
	assert.EqualValues(t, 3, maxD)
	assert.Empty(t, got)
}

func TestReadMissing(t *testing.T) {
	store := blobstore.NewMemoryStore()
	_, _, err := Read(context.Background(), store, Name(100))
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestReadMalformed(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	put := func(name string, data []byte) {
		w, err := store.Create(ctx, name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	put("short", []byte("QD"))
	put("badmagic", []byte("NOPE\x01\x00aaaaaaaaaaaaaaaa"))
	put("badversion", []byte("QDIF\x09\x00aaaaaaaaaaaaaaaa"))
	put("badcodec", append([]byte("QDIF\x01\x04gzip"), make([]byte, 12)...))

	for _, name := range []string{"short", "badmagic", "badversion", "badcodec"} {
		_, _, err := Read(ctx, store, name)
		assert.ErrorIs(t, err, ErrMalformed, name)
	}
}

func TestReadTruncatedPayload(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, Write(ctx, store, "full", 1000, sample(), codec.None{}))

	blob, err := store.Open(ctx, "full")
	require.NoError(t, err)
	data := make([]byte, blob.Size()-10)
	_, err = blob.ReadAt(data, 0)
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	w, err := store.Create(ctx, "cut")
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, _, err = Read(ctx, store, "cut")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestName(t *testing.T) {
	assert.Equal(t, "differences-500000.snap", Name(500000))
}
