/*
Package disk stores single files under two roots, Documents and Caches.

Every operation addresses a file as (Location, path, name), where path
may be nested ("a/b") and is confined to the root.  Writes are atomic:
a reader sees either the old or the new content, never a mix.

	d := disk.New(afero.NewOsFs(), "/var/lib/app/docs", "/var/cache/app")
	_, err := d.StoreValue(disk.Documents, "settings", "prefs.json", prefs, nil)
*/
package disk
