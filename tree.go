package bundlebase

import (
	"fmt"
	"image"
	"reflect"
	"sort"

	"golang.org/x/text/encoding"
)

// Tree is the in-memory image of one bundle directory: an ordered set
// of uniquely named blobs plus named child trees.  A tree owns its
// blobs and children; nothing is shared between trees.
//
// A tree is built by one caller at a time.  Once it has been handed to
// a writer it should not be modified.
type Tree struct {
	Name    string
	Source  string // path the tree was read from; empty when built in memory
	TypeTag string // bundle classification, see bundle.Tag
	Codec   Codec  // structured codec for AddValue and Value; JSON if nil

	blobs    []*Blob
	children map[string]*Tree
}

// NewTree returns an empty tree called name.
func NewTree(name string) *Tree {
	return &Tree{Name: name, children: map[string]*Tree{}}
}

// ItemName returns the name given to the i'th element of a list added
// with AddValues, AddMarshalers or AddPackages.
func ItemName(i int) string {
	return fmt.Sprintf("item_%d", i)
}

func (t *Tree) codec() Codec {
	if t.Codec == nil {
		return JSON
	}
	return t.Codec
}

func (t *Tree) child(name string) *Tree {
	c := NewTree(name)
	c.Codec = t.Codec
	return c
}

// Add inserts blob, replacing any blob with the same name in place.
func (t *Tree) Add(blob *Blob) {
	for i, b := range t.blobs {
		if b.SameName(blob) {
			t.blobs[i] = blob
			return
		}
	}
	t.blobs = append(t.blobs, blob)
}

// AddData stores data as a blob called name.
func (t *Tree) AddData(name string, data []byte) {
	t.Add(NewBlob(name, data))
}

// AddValue encodes v with the tree's codec and stores it as name.  A
// nil v, or a nil pointer, is skipped.
func (t *Tree) AddValue(name string, v interface{}) error {
	return t.AddValueCodec(name, v, t.codec())
}

// AddValueCodec is AddValue with an explicit codec.
func (t *Tree) AddValueCodec(name string, v interface{}, codec Codec) error {
	if isNil(v) {
		return nil
	}
	buf, err := codec.Marshal(v)
	if err != nil {
		return &EncodeError{Name: name, Cause: err}
	}
	t.AddData(name, buf)
	return nil
}

// AddAuto stores v using the codec implied by name's extension (see
// CodecFor), falling back to the tree's codec.
func (t *Tree) AddAuto(name string, v interface{}) error {
	codec, ok := CodecFor(name)
	if !ok {
		codec = t.codec()
	}
	return t.AddValueCodec(name, v, codec)
}

// AddMarshaler stores the self-encoded form of m as name.  A nil m is
// skipped.
func (t *Tree) AddMarshaler(name string, m BlobMarshaler) error {
	if isNil(m) {
		return nil
	}
	buf, err := m.MarshalBlob()
	if err != nil {
		return &EncodeError{Name: name, Cause: err}
	}
	t.AddData(name, buf)
	return nil
}

// AddText stores text in encoding enc; a nil enc means UTF-8.
func (t *Tree) AddText(name, text string, enc encoding.Encoding) error {
	buf, err := EncodeText(text, enc)
	if err != nil {
		return &EncodeError{Name: name, Cause: err}
	}
	t.AddData(name, buf)
	return nil
}

// AddImage stores img in format f.  A nil img is skipped.
func (t *Tree) AddImage(name string, img image.Image, f ImageFormat) error {
	if isNil(img) {
		return nil
	}
	buf, err := EncodeImage(img, f)
	if err != nil {
		return &EncodeError{Name: name, Cause: err}
	}
	t.AddData(name, buf)
	return nil
}

// AddBlobs creates a child called name holding blobs under their own
// names, replacing any existing child of that name.
func (t *Tree) AddBlobs(name string, blobs []*Blob) {
	c := t.child(name)
	for _, b := range blobs {
		c.Add(b)
	}
	t.AddChild(c)
}

// AddChild registers child under child.Name, replacing any existing
// child of that name.
func (t *Tree) AddChild(child *Tree) {
	if t.children == nil {
		t.children = map[string]*Tree{}
	}
	t.children[child.Name] = child
}

// AddPackage fills a fresh child called name from p and registers it.
func (t *Tree) AddPackage(name string, p Packer) error {
	c := t.child(name)
	if err := p.Pack(c); err != nil {
		return err
	}
	if tt, ok := p.(TypeTagger); ok {
		c.TypeTag = tt.TypeTag()
	}
	t.AddChild(c)
	return nil
}

// AddValues stores each element of items in a fresh child called
// name, as item_0, item_1, ... in order.  Nil elements are encoded
// too, so positions survive a round trip.  An empty list still creates
// the child.  Any existing child called name is replaced.
func AddValues[T any](t *Tree, name string, items []T) error {
	c := t.child(name)
	codec := c.codec()
	for i, item := range items {
		buf, err := codec.Marshal(item)
		if err != nil {
			return &EncodeError{Name: ItemName(i), Cause: err}
		}
		c.AddData(ItemName(i), buf)
	}
	t.AddChild(c)
	return nil
}

// AddMarshalers is AddValues for self-encoding values.  A nil element
// is stored as the tree codec's encoding of nil.
func AddMarshalers[T BlobMarshaler](t *Tree, name string, items []T) error {
	c := t.child(name)
	for i, item := range items {
		var buf []byte
		var err error
		if isNil(item) {
			buf, err = c.codec().Marshal(nil)
		} else {
			buf, err = item.MarshalBlob()
		}
		if err != nil {
			return &EncodeError{Name: ItemName(i), Cause: err}
		}
		c.AddData(ItemName(i), buf)
	}
	t.AddChild(c)
	return nil
}

// AddPackages is AddValues for packagers; each element becomes a
// grandchild directory.
func AddPackages[T Packer](t *Tree, name string, items []T) error {
	c := t.child(name)
	for i, item := range items {
		if err := c.AddPackage(ItemName(i), item); err != nil {
			return err
		}
	}
	t.AddChild(c)
	return nil
}

// Remove deletes the blob called name and reports whether it existed.
func (t *Tree) Remove(name string) bool {
	for i, b := range t.blobs {
		if b.Name == name {
			t.blobs = append(t.blobs[:i], t.blobs[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveChild deletes the child called name and reports whether it
// existed.
func (t *Tree) RemoveChild(name string) bool {
	if _, ok := t.children[name]; !ok {
		return false
	}
	delete(t.children, name)
	return true
}

// Blobs returns the tree's blobs in stored order.
func (t *Tree) Blobs() []*Blob {
	out := make([]*Blob, len(t.blobs))
	copy(out, t.blobs)
	return out
}

// ChildNames returns the names of the tree's children in natural
// order.
func (t *Tree) ChildNames() (names []string) {
	for name := range t.children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) })
	return
}

// Children returns the tree's children in natural name order.
func (t *Tree) Children() (children []*Tree) {
	for _, name := range t.ChildNames() {
		children = append(children, t.children[name])
	}
	return
}

// Len returns the number of blobs in the tree, not counting children.
func (t *Tree) Len() int {
	return len(t.blobs)
}

func (t *Tree) String() string {
	return fmt.Sprintf("%s (%d blobs, %d children)", t.Name, len(t.blobs), len(t.children))
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
