// Package ledger records which one-time migrations have run.
//
// The ledger is a list of migration names kept under a single key of a
// kv.Store.  It is not safe for concurrent use; Run executes
// migrations one after another and persists each completion before
// starting the next.
package ledger

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	bb "github.com/t7a/bundlebase"
	"github.com/t7a/bundlebase/kv"
)

// Key is the store key holding the list of completed migrations.
const Key = "com.t7a.bundlebase.migrations"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Migration is a named task that must run at most once.
type Migration interface {
	Name() string
	Migrate() error
}

type funcMigration struct {
	name string
	fn   func() error
}

func (m funcMigration) Name() string   { return m.name }
func (m funcMigration) Migrate() error { return m.fn() }

// Func adapts fn to a Migration called name.
func Func(name string, fn func() error) Migration {
	return funcMigration{name: name, fn: fn}
}

// MigrationError reports a migration that failed.  The migration is
// not marked completed and will be attempted again by the next Run.
type MigrationError struct {
	Name  string
	Cause error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s failed: %v", e.Name, e.Cause)
}

func (e *MigrationError) Unwrap() error { return e.Cause }

// Ledger is the in-memory view of the completed-migration list.
type Ledger struct {
	store kv.Store
	names []string
}

// New loads the ledger from store.  A store without the key yields an
// empty ledger.
func New(store kv.Store) (*Ledger, error) {
	l := &Ledger{store: store}
	buf, err := store.Get(Key)
	if errors.Is(err, kv.ErrNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", Key)
	}
	err = json.Unmarshal(buf, &l.names)
	if err != nil {
		return nil, &bb.DecodeError{Name: Key, Cause: err}
	}
	return l, nil
}

// Run executes each migration that has not completed yet, in order,
// marking it completed as soon as it succeeds.  The first failure stops
// the run.
func (l *Ledger) Run(migrations ...Migration) error {
	for _, m := range migrations {
		name := m.Name()
		if l.Completed(name) {
			log.Debugf("migration %s already completed", name)
			continue
		}
		log.Debugf("running migration %s", name)
		err := m.Migrate()
		if err != nil {
			return &MigrationError{Name: name, Cause: err}
		}
		err = l.MarkCompleted(name)
		if err != nil {
			return err
		}
	}
	return nil
}

// Completed reports whether the migration called name has run.
func (l *Ledger) Completed(name string) bool {
	for _, n := range l.names {
		if n == name {
			return true
		}
	}
	return false
}

// MarkCompleted records name as completed without running anything.
// Marking a completed migration again changes nothing.
func (l *Ledger) MarkCompleted(name string) error {
	if l.Completed(name) {
		return nil
	}
	l.names = append(l.names, name)
	err := l.save()
	if err != nil {
		l.names = l.names[:len(l.names)-1]
		return err
	}
	return nil
}

// Reset forgets every completed migration and deletes the key.
func (l *Ledger) Reset() error {
	err := l.store.Delete(Key)
	if err != nil {
		return &bb.PersistError{Key: Key, Cause: err}
	}
	l.names = nil
	log.Debugf("migration ledger reset")
	return nil
}

// ResetOne forgets the migration called name so that it runs again.
func (l *Ledger) ResetOne(name string) error {
	var kept []string
	for _, n := range l.names {
		if n != name {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(l.names) {
		return nil
	}
	old := l.names
	l.names = kept
	err := l.save()
	if err != nil {
		l.names = old
		return err
	}
	return nil
}

// Names returns the completed migrations in the order they completed.
func (l *Ledger) Names() []string {
	return append([]string(nil), l.names...)
}

func (l *Ledger) save() error {
	names := l.names
	if names == nil {
		names = []string{}
	}
	buf, err := json.Marshal(names)
	if err != nil {
		return &bb.EncodeError{Name: Key, Cause: err}
	}
	err = l.store.Put(Key, buf)
	if err != nil {
		return &bb.PersistError{Key: Key, Cause: err}
	}
	return nil
}
