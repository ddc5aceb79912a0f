package kv

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	_, err := m.Get("k")
	assert.True(t, errors.Is(err, ErrNotFound))

	val := []byte("v1")
	require.NoError(t, m.Put("k", val))
	val[0] = 'x'
	got, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, m.Put("k", []byte("v2")))
	got, err = m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))

	require.NoError(t, m.Delete("k"))
	require.NoError(t, m.Delete("k"))
	_, err = m.Get("k")
	assert.True(t, errors.Is(err, ErrNotFound))
}
