package disk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	bb "github.com/t7a/bundlebase"
	"github.com/t7a/bundlebase/config"
)

// ErrNotExist is returned by Retrieve when there is no such file.
var ErrNotExist = fs.ErrNotExist

// Location names one of the storage roots.
type Location int

const (
	// Documents holds user data that must survive.
	Documents Location = iota
	// Caches holds data that can be regenerated.
	Caches
)

func (loc Location) String() string {
	switch loc {
	case Documents:
		return "documents"
	case Caches:
		return "caches"
	}
	return fmt.Sprintf("Location(%d)", int(loc))
}

// Disk addresses files under a documents root and a caches root on Fs.
type Disk struct {
	Fs        afero.Fs
	Documents string
	Caches    string
}

// New returns a Disk with the given roots on fs.  A nil fs means the
// OS filesystem.
func New(fs afero.Fs, documents, caches string) *Disk {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Disk{Fs: fs, Documents: filepath.Clean(documents), Caches: filepath.Clean(caches)}
}

// FromConfig returns a Disk on the OS filesystem rooted where cfg says.
func FromConfig(cfg *config.Config) *Disk {
	return New(afero.NewOsFs(), cfg.Documents, cfg.Caches)
}

// Create makes sure both roots exist.
func (d *Disk) Create() (err error) {
	for _, dir := range []string{d.Documents, d.Caches} {
		err = d.Fs.MkdirAll(dir, 0755)
		if err != nil {
			return &bb.WriteError{Path: dir, Cause: err}
		}
	}
	return
}

// Root returns the directory for loc.
func (d *Disk) Root(loc Location) (string, error) {
	switch loc {
	case Documents:
		return d.Documents, nil
	case Caches:
		return d.Caches, nil
	}
	return "", errors.Errorf("unknown location %d", int(loc))
}

// Resolve is shorthand for Path{}.New(d, loc, rel, name).
func (d *Disk) Resolve(loc Location, rel, name string) (*Path, error) {
	return Path{}.New(d, loc, rel, name)
}

// Store writes data to the file name in directory path under loc,
// creating directories as needed, and returns its absolute path.  The
// file is replaced atomically.
func (d *Disk) Store(loc Location, path, name string, data []byte) (string, error) {
	p, err := d.Resolve(loc, path, name)
	if err != nil {
		return "", err
	}
	err = d.Fs.MkdirAll(p.Dir(), 0755)
	if err != nil {
		return "", &bb.WriteError{Path: p.Abs, Cause: err}
	}
	err = WriteFile(d.Fs, p.Abs, data, 0644)
	if err != nil {
		return "", &bb.WriteError{Path: p.Abs, Cause: err}
	}
	log.Debugf("stored %s", p)
	return p.Abs, nil
}

// StoreBlob stores b under its own name.
func (d *Disk) StoreBlob(loc Location, path string, b *bb.Blob) (string, error) {
	return d.Store(loc, path, b.Name, b.Data)
}

// Retrieve returns the contents of the file name in directory path
// under loc.  A missing file yields an error matching ErrNotExist.
func (d *Disk) Retrieve(loc Location, path, name string) ([]byte, error) {
	p, err := d.Resolve(loc, path, name)
	if err != nil {
		return nil, err
	}
	buf, err := afero.ReadFile(d.Fs, p.Abs)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieve %s", p)
	}
	return buf, nil
}

// RetrieveBlob is Retrieve returning a blob.
func (d *Disk) RetrieveBlob(loc Location, path, name string) (*bb.Blob, error) {
	buf, err := d.Retrieve(loc, path, name)
	if err != nil {
		return nil, err
	}
	return bb.NewBlob(name, buf), nil
}

// Exists reports whether the file or directory is present.  An empty
// name asks about the directory path itself.
func (d *Disk) Exists(loc Location, path, name string) bool {
	p, err := d.Resolve(loc, path, name)
	if err != nil {
		return false
	}
	ok, err := afero.Exists(d.Fs, p.Abs)
	return err == nil && ok
}

// Remove deletes one file.  Removing a missing file is not an error.
func (d *Disk) Remove(loc Location, path, name string) error {
	p, err := d.Resolve(loc, path, name)
	if err != nil {
		return err
	}
	err = d.Fs.Remove(p.Abs)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", p)
	}
	return nil
}

// CreateDir makes the directory path under loc, with parents, and
// returns its absolute path.
func (d *Disk) CreateDir(loc Location, path string) (string, error) {
	p, err := d.Resolve(loc, path, "")
	if err != nil {
		return "", err
	}
	err = d.Fs.MkdirAll(p.Abs, 0755)
	if err != nil {
		return "", &bb.WriteError{Path: p.Abs, Cause: err}
	}
	return p.Abs, nil
}

// RemoveDir deletes the directory path under loc and everything in it.
// The root itself cannot be removed this way; use Clear.
func (d *Disk) RemoveDir(loc Location, path string) error {
	p, err := d.Resolve(loc, path, "")
	if err != nil {
		return err
	}
	if p.Rel == "" {
		return errors.Errorf("refusing to remove the %s root", loc)
	}
	return errors.Wrapf(d.Fs.RemoveAll(p.Abs), "remove %s", p)
}

// List returns the names of the regular files directly inside path,
// in natural order.  A missing directory lists as empty.
func (d *Disk) List(loc Location, path string) (names []string, err error) {
	p, err := d.Resolve(loc, path, "")
	if err != nil {
		return
	}
	infos, err := afero.ReadDir(d.Fs, p.Abs)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", p)
	}
	for _, info := range infos {
		if !info.Mode().IsRegular() || IsStaging(info.Name()) {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Slice(names, func(i, j int) bool { return bb.NaturalLess(names[i], names[j]) })
	return
}

// Blobs reads every regular file directly inside path.
func (d *Disk) Blobs(loc Location, path string) (blobs []*bb.Blob, err error) {
	names, err := d.List(loc, path)
	if err != nil {
		return
	}
	for _, name := range names {
		b, err := d.RetrieveBlob(loc, path, name)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, b)
	}
	return
}

// Clear empties the root for loc, leaving the root directory itself.
func (d *Disk) Clear(loc Location) error {
	root, err := d.Root(loc)
	if err != nil {
		return err
	}
	infos, err := afero.ReadDir(d.Fs, root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "clear %s", loc)
	}
	for _, info := range infos {
		err = d.Fs.RemoveAll(filepath.Join(root, info.Name()))
		if err != nil {
			return errors.Wrapf(err, "clear %s", loc)
		}
	}
	log.Debugf("cleared %s (%d entries)", loc, len(infos))
	return nil
}

// StoreValue encodes v with codec and stores it.  A nil codec means
// JSON.
func (d *Disk) StoreValue(loc Location, path, name string, v interface{}, codec bb.Codec) (string, error) {
	if codec == nil {
		codec = bb.JSON
	}
	buf, err := codec.Marshal(v)
	if err != nil {
		return "", &bb.EncodeError{Name: name, Cause: err}
	}
	return d.Store(loc, path, name, buf)
}

// RetrieveValue decodes the file into v.  It returns false, and no
// error, when the file does not exist.
func (d *Disk) RetrieveValue(loc Location, path, name string, v interface{}, codec bb.Codec) (bool, error) {
	if codec == nil {
		codec = bb.JSON
	}
	buf, err := d.Retrieve(loc, path, name)
	if errors.Is(err, ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = codec.Unmarshal(buf, v)
	if err != nil {
		return true, &bb.DecodeError{Name: name, Cause: err}
	}
	return true, nil
}

// RetrieveValues decodes every regular file in path as a T, in natural
// name order.  Files that do not decode are skipped.
func RetrieveValues[T any](d *Disk, loc Location, path string, codec bb.Codec) ([]T, error) {
	if codec == nil {
		codec = bb.JSON
	}
	blobs, err := d.Blobs(loc, path)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(blobs))
	for _, b := range blobs {
		var v T
		err = codec.Unmarshal(b.Data, &v)
		if err != nil {
			log.Debugf("skipping %s: %v", b.Name, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
