package assetfs

import (
	"fmt"
	"path/filepath"
	"strings"

	osfs "github.com/hack-pad/hackpadfs/os"
)

// Open returns a store over the directory dir on the local disk.
func Open(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("assetfs: %w", err)
	}
	// hackpadfs paths are rooted without a leading slash.
	rel := strings.TrimPrefix(filepath.ToSlash(abs), "/")
	sub, err := osfs.NewFS().Sub(rel)
	if err != nil {
		return nil, fmt.Errorf("assetfs: open %s: %w", dir, err)
	}
	return New(sub)
}
