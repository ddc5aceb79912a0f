package bundle

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/t7a/bundlebase/disk"
)

// TagFile is the sidecar at a bundle's root that holds its type tag.
const TagFile = ".bundletype"

// Tag returns the type tag of the bundle at path, or "" when it has
// none.
func Tag(fs afero.Fs, path string) (string, error) {
	buf, err := afero.ReadFile(fs, filepath.Join(path, TagFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "tag of %s", path)
	}
	return strings.TrimSpace(string(buf)), nil
}

// SetTag stamps the bundle at path with tag.  An empty tag removes it.
func SetTag(fs afero.Fs, path, tag string) error {
	fn := filepath.Join(path, TagFile)
	tag = strings.TrimSpace(tag)
	if tag == "" {
		err := fs.Remove(fn)
		if err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "untag %s", path)
		}
		return nil
	}
	return errors.Wrapf(disk.WriteFile(fs, fn, []byte(tag+"\n"), 0644), "tag %s", path)
}
