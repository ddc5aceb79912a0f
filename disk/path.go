package disk

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Path is a file or directory address under one of a Disk's roots.
type Path struct {
	Disk *Disk
	Loc  Location
	Rel  string // relative to the root, may be nested, e.g. "a/b"
	Name string // final component; empty for directories
	Abs  string
}

// New resolves rel and name against the root for loc.  rel is cleaned
// so that it can never climb out of the root.  name must be a single
// path component.
func (path Path) New(d *Disk, loc Location, rel, name string) (*Path, error) {
	path.Disk = d
	path.Loc = loc

	root, err := d.Root(loc)
	if err != nil {
		return nil, err
	}

	// anchor at "/" before cleaning so ".." stops at the root
	clean := filepath.Clean(string(filepath.Separator) + rel)
	path.Rel = strings.TrimPrefix(clean, string(filepath.Separator))

	if name != "" {
		if name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
			return nil, errors.Errorf("malformed name: %q", name)
		}
		path.Name = name
	}
	path.Abs = filepath.Join(root, path.Rel, path.Name)
	return &path, nil
}

// Dir returns the absolute directory holding the path.
func (path *Path) Dir() string {
	if path.Name == "" {
		return path.Abs
	}
	return filepath.Dir(path.Abs)
}

func (path *Path) String() string {
	return path.Loc.String() + ":" + filepath.Join(path.Rel, path.Name)
}
