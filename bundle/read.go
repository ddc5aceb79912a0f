package bundle

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	bb "github.com/t7a/bundlebase"
	"github.com/t7a/bundlebase/disk"
)

// Read loads the bundle at path into a tree.  Sub-directories become
// child trees.  Files that cannot be read are left out.  The codec is
// not recorded on disk, so the returned trees decode values as JSON;
// use ReadCodec for bundles written with another codec.
func Read(fs afero.Fs, path string) (*bb.Tree, error) {
	return ReadCodec(fs, path, nil)
}

// ReadCodec is Read with codec set on the returned tree and every
// child.  A nil codec means JSON.
func ReadCodec(fs afero.Fs, path string, codec bb.Codec) (*bb.Tree, error) {
	path = filepath.Clean(path)
	info, err := fs.Stat(path)
	if err != nil {
		return nil, &bb.DecodeError{Name: path, Cause: err}
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(bb.ErrNotAFolder, "%s", path)
	}
	t, err := readTree(fs, path, codec)
	if err != nil {
		return nil, err
	}
	log.Debugf("read bundle %s (%s)", path, t)
	return t, nil
}

func readTree(fs afero.Fs, dir string, codec bb.Codec) (*bb.Tree, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, &bb.DecodeError{Name: dir, Cause: err}
	}
	sort.Slice(infos, func(i, j int) bool { return bb.NaturalLess(infos[i].Name(), infos[j].Name()) })

	t := bb.NewTree(filepath.Base(dir))
	t.Source = dir
	t.Codec = codec
	for _, info := range infos {
		name := info.Name()
		fn := filepath.Join(dir, name)
		switch {
		case disk.IsStaging(name):
		case name == TagFile:
			buf, err := afero.ReadFile(fs, fn)
			if err != nil {
				log.Debugf("skipping tag of %s: %v", dir, err)
				continue
			}
			t.TypeTag = strings.TrimSpace(string(buf))
		case info.IsDir():
			c, err := readTree(fs, fn, codec)
			if err != nil {
				return nil, err
			}
			t.AddChild(c)
		case info.Mode().IsRegular():
			buf, err := afero.ReadFile(fs, fn)
			if err != nil {
				log.Debugf("skipping %s: %v", fn, err)
				continue
			}
			t.AddData(name, buf)
		default:
			log.Debugf("skipping %s: mode %v", fn, info.Mode()&os.ModeType)
		}
	}
	return t, nil
}

// Enumerate returns the bundles found in base.
//
// A directory carrying a type tag is a package and is never searched
// further.  With an empty filter every directory directly in base is
// returned as a bundle.  Otherwise only packages tagged filter are
// returned, and untagged directories are searched too when recursive
// is set.  Hidden and partially written directories are ignored, and a
// bundle that fails to read is logged and skipped.  A missing base
// holds no bundles.
func Enumerate(fs afero.Fs, base, filter string, recursive bool) (trees []*bb.Tree, err error) {
	infos, err := afero.ReadDir(fs, base)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &bb.DecodeError{Name: base, Cause: err}
	}
	sort.Slice(infos, func(i, j int) bool { return bb.NaturalLess(infos[i].Name(), infos[j].Name()) })

	for _, info := range infos {
		name := info.Name()
		if !info.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		dir := filepath.Join(base, name)
		if filter == "" {
			trees = appendRead(fs, trees, dir)
			continue
		}
		tag, err := Tag(fs, dir)
		if err != nil {
			log.Warnf("skipping %s: %v", dir, err)
			continue
		}
		switch {
		case tag == filter:
			trees = appendRead(fs, trees, dir)
		case tag == "" && recursive:
			sub, err := Enumerate(fs, dir, filter, true)
			if err != nil {
				log.Warnf("skipping %s: %v", dir, err)
				continue
			}
			trees = append(trees, sub...)
		}
	}
	return trees, nil
}

func appendRead(fs afero.Fs, trees []*bb.Tree, dir string) []*bb.Tree {
	t, err := Read(fs, dir)
	if err != nil {
		log.Warnf("skipping %s: %v", dir, err)
		return trees
	}
	return append(trees, t)
}
