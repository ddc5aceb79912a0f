package bundle

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	. "github.com/stevegt/goadapt"

	bb "github.com/t7a/bundlebase"
	"github.com/t7a/bundlebase/disk"
)

// Write materializes t as the bundle dest.  The tree is written into a
// staging directory next to dest and then renamed into place, so a
// reader sees either the old bundle or the new one.
//
// previous, if not empty, names the bundle being replaced (often dest
// itself).  Its type tag is kept when t has none, and its directory
// permissions are reused.
func Write(fs afero.Fs, t *bb.Tree, dest, previous string) (err error) {
	dest = filepath.Clean(dest)
	err = write(fs, t, dest, previous)
	if err != nil {
		return &bb.WriteError{Path: dest, Cause: err}
	}
	log.Debugf("wrote bundle %s (%s)", dest, t)
	return nil
}

func write(fs afero.Fs, t *bb.Tree, dest, previous string) (err error) {
	tag := t.TypeTag
	perm := os.FileMode(0755)
	if previous != "" {
		if info, serr := fs.Stat(previous); serr == nil && info.IsDir() {
			perm = info.Mode().Perm()
			if tag == "" {
				tag, err = Tag(fs, previous)
				if err != nil {
					return
				}
			}
		}
	}

	if info, serr := fs.Stat(dest); serr == nil && !info.IsDir() {
		return errors.Wrapf(bb.ErrNotAFolder, "%s", dest)
	}

	parent := filepath.Dir(dest)
	err = fs.MkdirAll(parent, 0755)
	if err != nil {
		return
	}
	stage, err := afero.TempDir(fs, parent, disk.StagePrefix+filepath.Base(dest)+"-")
	if err != nil {
		return
	}

	err = writeTree(fs, t, stage, tag)
	if err == nil {
		err = fs.Chmod(stage, perm)
	}
	if err == nil {
		err = swap(fs, stage, dest)
	}
	if err != nil {
		fs.RemoveAll(stage)
	}
	return
}

// swap renames stage to dest, moving any existing dest out of the way
// first and restoring it if the final rename fails.
func swap(fs afero.Fs, stage, dest string) (err error) {
	old := ""
	if ok, _ := afero.DirExists(fs, dest); ok {
		old = stage + ".old"
		err = fs.Rename(dest, old)
		if err != nil {
			return
		}
	}
	err = fs.Rename(stage, dest)
	if err != nil {
		if old != "" {
			if rerr := fs.Rename(old, dest); rerr != nil {
				log.Warnf("unable to restore %s from %s: %v", dest, old, rerr)
			}
		}
		return
	}
	if old != "" {
		err = fs.RemoveAll(old)
		if err != nil {
			log.Warnf("unable to remove %s: %v", old, err)
			err = nil
		}
	}
	return
}

func writeTree(fs afero.Fs, t *bb.Tree, dir, tag string) (err error) {
	defer Return(&err)

	for _, b := range t.Blobs() {
		err = checkName(b.Name)
		Ck(err)
		err = afero.WriteFile(fs, filepath.Join(dir, b.Name), b.Data, 0644)
		Ck(err)
	}
	for _, c := range t.Children() {
		err = checkName(c.Name)
		Ck(err)
		if t.Has(c.Name) {
			return errors.Errorf("%s is both a file and a folder", c.Name)
		}
		sub := filepath.Join(dir, c.Name)
		err = fs.Mkdir(sub, 0755)
		Ck(err)
		err = writeTree(fs, c, sub, c.TypeTag)
		Ck(err)
	}
	if tag != "" {
		err = SetTag(fs, dir, tag)
		Ck(err)
	}
	return
}

func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
	case name == TagFile, disk.IsStaging(name):
	case filepath.Base(name) != name:
	default:
		return nil
	}
	return errors.Errorf("invalid name %q", name)
}
