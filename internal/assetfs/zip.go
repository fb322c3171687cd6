package assetfs

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/hack-pad/hackpadfs"
)

// IsZip reports whether p names a zipped asset library.
func IsZip(p string) bool {
	return strings.HasSuffix(strings.ToLower(p), ".zip")
}

// OpenZip returns a store over a zipped asset library and the closer that releases the archive.
// The library root is the archive root, or its only top-level folder when groups.yaml is not at
// the root. Entries whose names escape the archive are never resolved.
func OpenZip(p string) (*Store, io.Closer, error) {
	r, err := zip.OpenReader(p)
	if err != nil {
		return nil, nil, fmt.Errorf("assetfs: unzip: %w", err)
	}
	root, err := libraryRoot(r)
	if err != nil {
		r.Close()
		return nil, nil, fmt.Errorf("assetfs: unzip %s: %w", p, err)
	}
	s, err := New(root)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return s, r, nil
}

func libraryRoot(fsys hackpadfs.FS) (hackpadfs.FS, error) {
	if _, err := hackpadfs.Stat(fsys, GroupsFile); err == nil {
		return fsys, nil
	}
	entries, err := hackpadfs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return fsys, nil
	}
	return fs.Sub(fsys, entries[0].Name())
}
