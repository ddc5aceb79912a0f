package filestore

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t7a/bundlebase/kv"
)

func TestPutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	db, err := Open(dir)
	require.NoError(t, err)
	var _ kv.Store = db
	assert.DirExists(t, dir)

	require.NoError(t, db.Put("com.t7a.key", []byte("hello")))
	assert.FileExists(t, filepath.Join(dir, "com.t7a.key"))
	got, err := db.Get("com.t7a.key")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	require.NoError(t, db.Put("com.t7a.key", []byte("world")))
	got, err = db.Get("com.t7a.key")
	require.NoError(t, err)
	assert.Equal(t, "world", string(got))

	// reopening sees the same data
	db2, err := Open(dir)
	require.NoError(t, err)
	got, err = db2.Get("com.t7a.key")
	require.NoError(t, err)
	assert.Equal(t, "world", string(got))

	require.NoError(t, db.Delete("com.t7a.key"))
	require.NoError(t, db.Delete("com.t7a.key"))
	_, err = db.Get("com.t7a.key")
	assert.True(t, errors.Is(err, kv.ErrNotFound))
	require.NoError(t, db.Close())
}

func TestBadKeys(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	for _, key := range []string{"", ".", "..", "a/b"} {
		assert.Error(t, db.Put(key, nil), key)
		_, err := db.Get(key)
		assert.Error(t, err, key)
	}
}
