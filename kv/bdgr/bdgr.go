// Package bdgr is a kv.Store backed by a badger database.
package bdgr

import (
	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/t7a/bundlebase/kv"
)

// Db wraps an open badger database.
type Db struct {
	Dir string
	db  *badger.DB
}

// Open opens, or creates, the badger database in dir.
func Open(dir string) (*Db, error) {
	opts := badger.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger %s", dir)
	}
	log.Debugf("opened badger at %s", dir)
	return &Db{Dir: dir, db: db}, nil
}

func (d *Db) Get(key string) (val []byte, err error) {
	err = d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		buf, err := item.Value()
		if err != nil {
			return err
		}
		val = append([]byte(nil), buf...)
		return nil
	})
	if err == badger.ErrKeyNotFound {
		return nil, errors.Wrapf(kv.ErrNotFound, "%s", key)
	}
	return
}

func (d *Db) Put(key string, val []byte) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
}

// Delete removes key.  Deleting a missing key is not an error.
func (d *Db) Delete(key string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (d *Db) Close() error {
	return d.db.Close()
}
