package bundlebase

// Packer writes a value into a tree; it is the write half of a
// packaged document.
type Packer interface {
	Pack(t *Tree) error
}

// Unpacker reads a value back out of a tree built by its Packer.
type Unpacker interface {
	Unpack(t *Tree) error
}

// Packager is a value that can be stored as a bundle and read back.
type Packager interface {
	Packer
	Unpacker
}

// TypeTagger is implemented by packers whose bundles carry a type
// tag.  Stored bundles are stamped with the tag, and enumeration by
// type uses it as the filter.
type TypeTagger interface {
	TypeTag() string
}

// NewTreeFrom builds an in-memory tree called name from p without
// touching storage.
func NewTreeFrom(name string, p Packer) (*Tree, error) {
	t := NewTree(name)
	if err := p.Pack(t); err != nil {
		return nil, err
	}
	if tt, ok := p.(TypeTagger); ok {
		t.TypeTag = tt.TypeTag()
	}
	return t, nil
}
