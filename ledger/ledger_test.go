package ledger

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bb "github.com/t7a/bundlebase"
	"github.com/t7a/bundlebase/kv"
	"github.com/t7a/bundlebase/kv/filestore"
)

// brokenStore refuses every Put.
type brokenStore struct {
	*kv.Memory
}

func (brokenStore) Put(string, []byte) error { return errors.New("disk full") }

func counter(name string, n *int) Migration {
	return Func(name, func() error {
		*n++
		return nil
	})
}

func TestRunOnce(t *testing.T) {
	store := kv.NewMemory()
	l, err := New(store)
	require.NoError(t, err)
	assert.Empty(t, l.Names())

	var a, b int
	require.NoError(t, l.Run(counter("a", &a), counter("b", &b)))
	require.NoError(t, l.Run(counter("a", &a), counter("b", &b)))
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, []string{"a", "b"}, l.Names())

	// a fresh ledger over the same store agrees
	l2, err := New(store)
	require.NoError(t, err)
	assert.True(t, l2.Completed("a"))
	require.NoError(t, l2.Run(counter("a", &a)))
	assert.Equal(t, 1, a)
}

func TestReset(t *testing.T) {
	store := kv.NewMemory()
	l, err := New(store)
	require.NoError(t, err)

	var a, b int
	require.NoError(t, l.Run(counter("a", &a), counter("b", &b)))

	require.NoError(t, l.ResetOne("a"))
	assert.False(t, l.Completed("a"))
	assert.True(t, l.Completed("b"))
	require.NoError(t, l.ResetOne("a"))
	require.NoError(t, l.Run(counter("a", &a), counter("b", &b)))
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)

	require.NoError(t, l.Reset())
	assert.Empty(t, l.Names())
	_, err = store.Get(Key)
	assert.True(t, errors.Is(err, kv.ErrNotFound))
	require.NoError(t, l.Run(counter("a", &a), counter("b", &b)))
	assert.Equal(t, 3, a)
	assert.Equal(t, 2, b)
}

func TestResetOneDuplicates(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Put(Key, []byte(`["a","b","a"]`)))
	l, err := New(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a"}, l.Names())

	require.NoError(t, l.ResetOne("a"))
	assert.Equal(t, []string{"b"}, l.Names())
	assert.False(t, l.Completed("a"))

	buf, err := store.Get(Key)
	require.NoError(t, err)
	var saved []string
	require.NoError(t, json.Unmarshal(buf, &saved))
	assert.Equal(t, []string{"b"}, saved)
}

func TestMarkCompleted(t *testing.T) {
	l, err := New(kv.NewMemory())
	require.NoError(t, err)
	require.NoError(t, l.MarkCompleted("x"))
	require.NoError(t, l.MarkCompleted("x"))
	assert.Equal(t, []string{"x"}, l.Names())

	var x int
	require.NoError(t, l.Run(counter("x", &x)))
	assert.Equal(t, 0, x)
}

func TestFailingMigration(t *testing.T) {
	l, err := New(kv.NewMemory())
	require.NoError(t, err)

	boom := errors.New("boom")
	var after int
	err = l.Run(Func("bad", func() error { return boom }), counter("after", &after))
	var merr *MigrationError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "bad", merr.Name)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, l.Completed("bad"))
	assert.Equal(t, 0, after)
}

func TestPersistFailure(t *testing.T) {
	l, err := New(brokenStore{kv.NewMemory()})
	require.NoError(t, err)

	var a int
	err = l.Run(counter("a", &a))
	var perr *bb.PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, Key, perr.Key)
	assert.Equal(t, 1, a)
	assert.False(t, l.Completed("a"))
}

func TestCorruptLedger(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Put(Key, []byte("{not a list")))
	_, err := New(store)
	var derr *bb.DecodeError
	assert.ErrorAs(t, err, &derr)
}

func TestFilestoreBackend(t *testing.T) {
	dir := t.TempDir()
	db, err := filestore.Open(dir)
	require.NoError(t, err)
	l, err := New(db)
	require.NoError(t, err)

	var a int
	require.NoError(t, l.Run(counter("com.t7a.first", &a)))

	db2, err := filestore.Open(dir)
	require.NoError(t, err)
	l2, err := New(db2)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.t7a.first"}, l2.Names())
}
