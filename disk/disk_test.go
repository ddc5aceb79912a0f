package disk

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bb "github.com/t7a/bundlebase"
)

type point struct {
	X, Y int
}

func setup(t *testing.T) *Disk {
	dir := t.TempDir()
	d := New(afero.NewOsFs(), filepath.Join(dir, "docs"), filepath.Join(dir, "caches"))
	require.NoError(t, d.Create())
	return d
}

func TestPathNew(t *testing.T) {
	d := New(nil, "/docs", "/caches")

	p, err := Path{}.New(d, Documents, "a/b", "c.json")
	require.NoError(t, err)
	assert.Equal(t, "a/b", p.Rel)
	assert.Equal(t, "/docs/a/b/c.json", p.Abs)
	assert.Equal(t, "/docs/a/b", p.Dir())
	assert.Equal(t, "documents:a/b/c.json", p.String())

	p, err = Path{}.New(d, Caches, "../../etc", "")
	require.NoError(t, err)
	assert.Equal(t, "/caches/etc", p.Abs)

	_, err = Path{}.New(d, Documents, "", "x/y")
	assert.Error(t, err)
	_, err = Path{}.New(d, Documents, "", "..")
	assert.Error(t, err)
	_, err = Path{}.New(d, Location(7), "", "x")
	assert.Error(t, err)
}

func TestStoreRetrieve(t *testing.T) {
	d := setup(t)

	abs, err := d.Store(Documents, "a/b", "hello.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.Documents, "a", "b", "hello.txt"), abs)
	assert.True(t, d.Exists(Documents, "a/b", "hello.txt"))
	assert.False(t, d.Exists(Caches, "a/b", "hello.txt"))

	buf, err := d.Retrieve(Documents, "a/b", "hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf))

	// replace
	_, err = d.Store(Documents, "a/b", "hello.txt", []byte("bye"))
	require.NoError(t, err)
	b, err := d.RetrieveBlob(Documents, "a/b", "hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", b.Name)
	assert.Equal(t, "bye", string(b.Data))

	_, err = d.Retrieve(Documents, "a/b", "missing")
	assert.ErrorIs(t, err, ErrNotExist)

	require.NoError(t, d.Remove(Documents, "a/b", "hello.txt"))
	assert.False(t, d.Exists(Documents, "a/b", "hello.txt"))
	require.NoError(t, d.Remove(Documents, "a/b", "hello.txt"))
}

func TestStoreOnMemFs(t *testing.T) {
	d := New(afero.NewMemMapFs(), "/docs", "/caches")
	require.NoError(t, d.Create())

	_, err := d.StoreBlob(Caches, "x", bb.NewBlob("one", []byte("1")))
	require.NoError(t, err)
	_, err = d.StoreBlob(Caches, "x", bb.NewBlob("one", []byte("11")))
	require.NoError(t, err)

	names, err := d.List(Caches, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, names)
	buf, err := d.Retrieve(Caches, "x", "one")
	require.NoError(t, err)
	assert.Equal(t, "11", string(buf))
}

func TestListAndBlobs(t *testing.T) {
	d := setup(t)

	names, err := d.List(Documents, "nothing/here")
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, name := range []string{"item_10", "item_2", "item_1"} {
		_, err := d.Store(Documents, "list", name, []byte(name))
		require.NoError(t, err)
	}
	_, err = d.CreateDir(Documents, "list/sub")
	require.NoError(t, err)

	names, err = d.List(Documents, "list")
	require.NoError(t, err)
	assert.Equal(t, []string{"item_1", "item_2", "item_10"}, names)

	blobs, err := d.Blobs(Documents, "list")
	require.NoError(t, err)
	require.Len(t, blobs, 3)
	assert.Equal(t, "item_10", string(blobs[2].Data))
}

func TestDirsAndClear(t *testing.T) {
	d := setup(t)

	abs, err := d.CreateDir(Caches, "deep/er/est")
	require.NoError(t, err)
	assert.DirExists(t, abs)
	assert.True(t, d.Exists(Caches, "deep/er", ""))

	require.NoError(t, d.RemoveDir(Caches, "deep"))
	assert.False(t, d.Exists(Caches, "deep", ""))
	assert.Error(t, d.RemoveDir(Caches, ""))

	_, err = d.Store(Caches, "a", "f", []byte("x"))
	require.NoError(t, err)
	_, err = d.Store(Caches, "", "g", []byte("y"))
	require.NoError(t, err)
	_, err = d.Store(Documents, "", "keep", []byte("z"))
	require.NoError(t, err)

	require.NoError(t, d.Clear(Caches))
	assert.DirExists(t, d.Caches)
	assert.False(t, d.Exists(Caches, "a", "f"))
	assert.False(t, d.Exists(Caches, "", "g"))
	assert.True(t, d.Exists(Documents, "", "keep"))
}

func TestValues(t *testing.T) {
	d := setup(t)

	_, err := d.StoreValue(Documents, "pts", "a", point{1, 2}, nil)
	require.NoError(t, err)
	_, err = d.StoreValue(Documents, "pts", "b", point{3, 4}, nil)
	require.NoError(t, err)
	_, err = d.Store(Documents, "pts", "c", []byte("not json"))
	require.NoError(t, err)

	var p point
	found, err := d.RetrieveValue(Documents, "pts", "b", &p, bb.JSON)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, point{3, 4}, p)

	found, err = d.RetrieveValue(Documents, "pts", "zz", &p, nil)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = d.RetrieveValue(Documents, "pts", "c", &p, nil)
	assert.True(t, found)
	var derr *bb.DecodeError
	assert.ErrorAs(t, err, &derr)

	pts, err := RetrieveValues[point](d, Documents, "pts", nil)
	require.NoError(t, err)
	assert.Equal(t, []point{{1, 2}, {3, 4}}, pts)
}

func TestStoreValueMsgPack(t *testing.T) {
	d := setup(t)

	_, err := d.StoreValue(Caches, "", "p.msgpack", point{5, 6}, bb.MsgPack)
	require.NoError(t, err)
	var p point
	found, err := d.RetrieveValue(Caches, "", "p.msgpack", &p, bb.MsgPack)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, point{5, 6}, p)
}
