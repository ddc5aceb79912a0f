/*

Bundlebase stores application data as directories of named files
("bundles") and reads it back as typed values.  It also keeps a ledger
of one-time migrations so that on-disk data can be upgraded exactly
once per installation.

Vocabulary:

- blob: a name and a byte slice; stored as one regular file whose file
  name is the blob name
- tree: in-memory image of a bundle directory; an ordered set of
  uniquely named blobs plus named child trees
- bundle: a directory on disk that holds one tree; there is no manifest,
  the layout is described by the file and directory names alone
- type tag: opaque string classifying a bundle, kept in the .bundletype
  sidecar file at the bundle root; used to pick bundles of one kind out
  of a folder
- codec: encode/decode pair for one shape of value; "structured" codecs
  (JSON, MessagePack, YAML) use reflection, "self-describing" values
  implement BlobMarshaler and BlobUnmarshaler themselves
- packager: a value that knows how to fill a tree (Pack) and how to
  rebuild itself from one (Unpack)
- location: one of the named storage roots, Documents (user data) or
  Caches (regenerable data); see package disk
- migration: a named, run-once task; see package ledger

Subpackages:

- disk: single-file primitives under the Documents and Caches roots
- bundle: writes trees to bundles, reads them back, and finds bundles
- kv, kv/filestore, kv/bdgr: small key-value stores
- ledger: the migration ledger
- config: environment configuration

*/

package bundlebase
