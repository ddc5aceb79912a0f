/*
Package bundle converts between in-memory trees and bundles, the
directories that hold them on disk.

A bundle has no manifest: each blob is a regular file named after the
blob and each child tree is a sub-directory.  The only extra file is the
optional .bundletype sidecar at the bundle root, which holds the type
tag used by Enumerate and Packages to pick bundles of one kind.

Writes go to a staging directory beside the destination and are renamed
into place.  Reads are lenient about individual files: a file that
cannot be read is left out of the tree rather than failing the read.
*/
package bundle
