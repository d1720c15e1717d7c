package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnon(t *testing.T) {
	r, err := Anon(1 << 20)
	require.NoError(t, err)
	defer r.Close()

	data := r.Bytes()
	require.Len(t, data, 1<<20)
	for _, b := range data[:4096] {
		require.Zero(t, b)
	}

	data[0] = 0xff
	assert.EqualValues(t, 0xff, r.Bytes()[0])

	require.NoError(t, r.Close())
	require.NoError(t, r.Close()) // idempotent
	assert.Nil(t, r.Bytes())
}

func TestAnonInvalidSize(t *testing.T) {
	_, err := Anon(0)
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = Anon(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob")
	content := []byte("candidate differences")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, content, m.Bytes())
	assert.EqualValues(t, len(content), m.Size())

	buf := make([]byte, 9)
	n, err := m.ReadAt(buf, 10)
	require.NoError(t, err)
	assert.Equal(t, "differenc", string(buf[:n]))

	require.NoError(t, m.Close())
	_, err = m.ReadAt(buf, 0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, m.Bytes())
	require.NoError(t, m.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
