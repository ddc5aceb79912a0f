package disk

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	. "github.com/stevegt/goadapt"
)

// StagePrefix starts the names of files and directories that are still
// being written.  Listings never report them.
const StagePrefix = ".bbstage-"

// IsStaging reports whether name is a partially written file or
// directory.
func IsStaging(name string) bool {
	return strings.HasPrefix(name, StagePrefix)
}

// WriteFile replaces path with data so that readers see either the old
// or the new content.  On the OS filesystem this is renameio; other
// filesystems get a staged file in the same directory that is renamed
// over path.
func WriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) (err error) {
	if _, ok := fs.(*afero.OsFs); ok {
		return renameio.WriteFile(path, data, perm)
	}

	fh, err := afero.TempFile(fs, filepath.Dir(path), StagePrefix+"*")
	if err != nil {
		return
	}
	tmp := fh.Name()
	err = fill(fs, fh, data, perm)
	if err == nil {
		err = fs.Rename(tmp, path)
	}
	if err != nil {
		fs.Remove(tmp)
		return
	}
	log.Debugf("wrote %d bytes to %s", len(data), path)
	return
}

func fill(fs afero.Fs, fh afero.File, data []byte, perm os.FileMode) (err error) {
	defer Return(&err)
	n, err := fh.Write(data)
	if err != nil {
		fh.Close()
		Ck(err)
	}
	Assert(n == len(data), "short write to %s", fh.Name())
	err = fh.Close()
	Ck(err)
	err = fs.Chmod(fh.Name(), perm)
	Ck(err)
	return
}
