// Package filestore is a kv.Store that keeps each key in its own file.
package filestore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"github.com/pkg/errors"

	"github.com/t7a/bundlebase/kv"
)

// Db is a directory of key files.
type Db struct {
	Dir string
}

// Open takes a directory name as input and returns a db, creating the
// directory if needed.
func Open(dir string) (db *Db, err error) {
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dir)
	}
	return &Db{Dir: filepath.Clean(dir)}, nil
}

func (db *Db) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", errors.Errorf("invalid key %q", key)
	}
	return filepath.Join(db.Dir, key), nil
}

func (db *Db) Put(key string, val []byte) (err error) {
	fn, err := db.path(key)
	if err != nil {
		return
	}
	return renameio.WriteFile(fn, val, 0644)
}

func (db *Db) Get(key string) (val []byte, err error) {
	fn, err := db.path(key)
	if err != nil {
		return
	}
	val, err = os.ReadFile(fn)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(kv.ErrNotFound, "%s", key)
	}
	return
}

// Delete removes key.  Deleting a missing key is not an error.
func (db *Db) Delete(key string) (err error) {
	fn, err := db.path(key)
	if err != nil {
		return
	}
	err = os.Remove(fn)
	if os.IsNotExist(err) {
		return nil
	}
	return
}

func (db *Db) Close() error { return nil }
