package bundle

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	bb "github.com/t7a/bundlebase"
	"github.com/t7a/bundlebase/disk"
)

// Store packs p into a new bundle called name in directory path under
// loc and returns the bundle's absolute path.
func Store(d *disk.Disk, p bb.Packer, loc disk.Location, path, name string) (string, error) {
	return Update(d, p, loc, path, name, "")
}

// Update is Store for a bundle that replaces previous, an absolute
// bundle path such as the Source of the tree it was loaded from.
func Update(d *disk.Disk, p bb.Packer, loc disk.Location, path, name, previous string) (string, error) {
	dest, err := d.Resolve(loc, path, name)
	if err != nil {
		return "", err
	}
	t, err := bb.NewTreeFrom(name, p)
	if err != nil {
		return "", &bb.EncodeError{Name: name, Cause: err}
	}
	err = Write(d.Fs, t, dest.Abs, previous)
	if err != nil {
		return "", err
	}
	return dest.Abs, nil
}

// Load unpacks the bundle called name in directory path under loc into
// u.  It returns false, and no error, when there is no such bundle.
func Load(d *disk.Disk, u bb.Unpacker, loc disk.Location, path, name string) (bool, error) {
	p, err := d.Resolve(loc, path, name)
	if err != nil {
		return false, err
	}
	if ok, _ := afero.Exists(d.Fs, p.Abs); !ok {
		return false, nil
	}
	return true, LoadAt(d.Fs, u, p.Abs)
}

// LoadAt unpacks the bundle at path into u.
func LoadAt(fs afero.Fs, u bb.Unpacker, path string) error {
	t, err := Read(fs, path)
	if err != nil {
		return err
	}
	if tt, ok := u.(bb.TypeTagger); ok && t.TypeTag != "" && t.TypeTag != tt.TypeTag() {
		return errors.Wrapf(bb.ErrTypeMismatch, "%s is %q, not %q", path, t.TypeTag, tt.TypeTag())
	}
	return u.Unpack(t)
}

// Packages unpacks every bundle in directory path under loc as a T.
// When T has a type tag only bundles carrying it are considered, and
// untagged folders are searched for them.  Bundles that fail to
// unpack are logged and skipped.
func Packages[T any, PT interface {
	*T
	bb.Unpacker
}](d *disk.Disk, loc disk.Location, path string) ([]T, error) {
	dir, err := d.Resolve(loc, path, "")
	if err != nil {
		return nil, err
	}
	filter := ""
	if tt, ok := any(PT(new(T))).(bb.TypeTagger); ok {
		filter = tt.TypeTag()
	}
	trees, err := Enumerate(d.Fs, dir.Abs, filter, filter != "")
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(trees))
	for _, t := range trees {
		var v T
		err = PT(&v).Unpack(t)
		if err != nil {
			log.Warnf("skipping %s: %v", t.Source, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
