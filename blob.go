package bundlebase

import (
	"bytes"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// Blob is a named chunk of bytes; it is stored as a single file in a
// bundle.  Two blobs with the same Name are the same blob as far as a
// Tree is concerned, whatever their contents.
type Blob struct {
	Name string
	Data []byte
}

// NewBlob returns a blob called name holding data.  The slice is not
// copied.
func NewBlob(name string, data []byte) *Blob {
	return &Blob{Name: name, Data: data}
}

// SameName reports whether other occupies the same slot as blob.
func (blob *Blob) SameName(other *Blob) bool {
	return other != nil && blob.Name == other.Name
}

// Size returns the length of the blob's contents.
func (blob *Blob) Size() int64 {
	return int64(len(blob.Data))
}

// Reader returns a reader over the blob's contents.
func (blob *Blob) Reader() io.ReadSeeker {
	return bytes.NewReader(blob.Data)
}

// MediaType sniffs the blob's contents and returns a MIME type such as
// "image/png" or "application/json".
func (blob *Blob) MediaType() string {
	return mimetype.Detect(blob.Data).String()
}

func (blob *Blob) String() string {
	return blob.Name
}
