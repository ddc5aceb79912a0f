package bundlebase

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

func (t *Tree) lookup(name string) *Blob {
	for _, b := range t.blobs {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Blob returns the blob called name, or ErrNotFound.
func (t *Tree) Blob(name string) (*Blob, error) {
	b := t.lookup(name)
	if b == nil {
		return nil, errors.Wrapf(ErrNotFound, "%s", name)
	}
	return b, nil
}

// Has reports whether the tree holds a blob called name.
func (t *Tree) Has(name string) bool {
	return t.lookup(name) != nil
}

// Data returns the contents of the blob called name.
func (t *Tree) Data(name string) ([]byte, error) {
	b, err := t.Blob(name)
	if err != nil {
		return nil, err
	}
	return b.Data, nil
}

// Value decodes the blob called name into v with the tree's codec.
func (t *Tree) Value(name string, v interface{}) error {
	return t.ValueCodec(name, v, t.codec())
}

// ValueCodec is Value with an explicit codec.
func (t *Tree) ValueCodec(name string, v interface{}, codec Codec) error {
	b, err := t.Blob(name)
	if err != nil {
		return err
	}
	return decodeValue(b, v, codec)
}

// OptValue is Value for blobs that may be absent: a missing blob
// yields false and no error.  Decode failures are still errors.
func (t *Tree) OptValue(name string, v interface{}) (found bool, err error) {
	b := t.lookup(name)
	if b == nil {
		return false, nil
	}
	return true, decodeValue(b, v, t.codec())
}

// Auto decodes the blob called name using the codec implied by its
// extension, falling back to the tree's codec.
func (t *Tree) Auto(name string, v interface{}) error {
	codec, ok := CodecFor(name)
	if !ok {
		codec = t.codec()
	}
	return t.ValueCodec(name, v, codec)
}

func decodeValue(b *Blob, v interface{}, codec Codec) error {
	if err := codec.Unmarshal(b.Data, v); err != nil {
		return &DecodeError{Name: b.Name, Cause: err}
	}
	return nil
}

// Unmarshal hands the blob called name to u.
func (t *Tree) Unmarshal(name string, u BlobUnmarshaler) error {
	b, err := t.Blob(name)
	if err != nil {
		return err
	}
	return unmarshalBlob(b, u)
}

// OptUnmarshal is Unmarshal for blobs that may be absent.
func (t *Tree) OptUnmarshal(name string, u BlobUnmarshaler) (found bool, err error) {
	b := t.lookup(name)
	if b == nil {
		return false, nil
	}
	return true, unmarshalBlob(b, u)
}

func unmarshalBlob(b *Blob, u BlobUnmarshaler) error {
	if err := u.UnmarshalBlob(b.Data); err != nil {
		return &DecodeError{Name: b.Name, Cause: err}
	}
	return nil
}

// Text decodes the blob called name as text in enc.  A nil enc means
// the encoding is detected.
func (t *Tree) Text(name string, enc encoding.Encoding) (string, error) {
	b, err := t.Blob(name)
	if err != nil {
		return "", err
	}
	return decodeText(b, enc)
}

// OptText is Text for blobs that may be absent.
func (t *Tree) OptText(name string, enc encoding.Encoding) (text string, found bool, err error) {
	b := t.lookup(name)
	if b == nil {
		return "", false, nil
	}
	text, err = decodeText(b, enc)
	return text, true, err
}

func decodeText(b *Blob, enc encoding.Encoding) (string, error) {
	text, err := DecodeText(b.Data, enc)
	if err != nil {
		return "", &DecodeError{Name: b.Name, Cause: err}
	}
	return text, nil
}

// Image decodes the blob called name as a PNG or JPEG image.
func (t *Tree) Image(name string) (image.Image, error) {
	b, err := t.Blob(name)
	if err != nil {
		return nil, err
	}
	return decodeImage(b)
}

// OptImage is Image for blobs that may be absent; it returns a nil
// image and no error when the blob is missing.
func (t *Tree) OptImage(name string) (image.Image, error) {
	b := t.lookup(name)
	if b == nil {
		return nil, nil
	}
	return decodeImage(b)
}

func decodeImage(b *Blob) (image.Image, error) {
	img, err := DecodeImage(b.Data)
	if err != nil {
		return nil, &DecodeError{Name: b.Name, Cause: err}
	}
	return img, nil
}

// Child returns the child tree called name, or ErrDirectoryNotFound.
func (t *Tree) Child(name string) (*Tree, error) {
	c, ok := t.children[name]
	if !ok {
		return nil, errors.Wrapf(ErrDirectoryNotFound, "%s", name)
	}
	return c, nil
}

// ChildOfType is Child with a type check: when tag is not empty the
// child's TypeTag must equal it, or ErrTypeMismatch is returned.
func (t *Tree) ChildOfType(name, tag string) (*Tree, error) {
	c, err := t.Child(name)
	if err != nil {
		return nil, err
	}
	if tag != "" && c.TypeTag != tag {
		return nil, errors.Wrapf(ErrTypeMismatch, "%s is %q, not %q", name, c.TypeTag, tag)
	}
	return c, nil
}

// Package resolves the child called name and unpacks it into u.
func (t *Tree) Package(name string, u Unpacker) error {
	c, err := t.Child(name)
	if err != nil {
		return err
	}
	return u.Unpack(c)
}

// GetValue decodes the blob called name as a T.
func GetValue[T any](t *Tree, name string) (v T, err error) {
	err = t.Value(name, &v)
	return
}

// GetOptValue decodes the blob called name as a T, returning nil when
// the blob is absent.
func GetOptValue[T any](t *Tree, name string) (*T, error) {
	var v T
	found, err := t.OptValue(name, &v)
	if err != nil || !found {
		return nil, err
	}
	return &v, nil
}

// Values decodes every blob of the tree, in stored order, with the
// tree's codec.  The first failure aborts.
func Values[T any](t *Tree) ([]T, error) {
	out := make([]T, 0, len(t.blobs))
	for _, b := range t.blobs {
		var v T
		if err := decodeValue(b, &v, t.codec()); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetValues decodes every blob of the child called name; it is the
// reverse of AddValues.
func GetValues[T any](t *Tree, name string) ([]T, error) {
	c, err := t.Child(name)
	if err != nil {
		return nil, err
	}
	return Values[T](c)
}

// GetUnmarshaled decodes the blob called name into a new T through its
// UnmarshalBlob method.
func GetUnmarshaled[T any, PT interface {
	*T
	BlobUnmarshaler
}](t *Tree, name string) (v T, err error) {
	err = t.Unmarshal(name, PT(&v))
	return
}

// GetUnmarshaledList is GetValues for self-decoding values.
func GetUnmarshaledList[T any, PT interface {
	*T
	BlobUnmarshaler
}](t *Tree, name string) ([]T, error) {
	c, err := t.Child(name)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(c.blobs))
	for _, b := range c.blobs {
		var v T
		if err := unmarshalBlob(b, PT(&v)); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetPackage unpacks the child called name into a new T.
func GetPackage[T any, PT interface {
	*T
	Unpacker
}](t *Tree, name string) (v T, err error) {
	err = t.Package(name, PT(&v))
	return
}

// GetPackages unpacks every child of the child called name, in
// natural name order; it is the reverse of AddPackages.
func GetPackages[T any, PT interface {
	*T
	Unpacker
}](t *Tree, name string) ([]T, error) {
	c, err := t.Child(name)
	if err != nil {
		return nil, err
	}
	var out []T
	for _, gc := range c.Children() {
		var v T
		if err := PT(&v).Unpack(gc); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
