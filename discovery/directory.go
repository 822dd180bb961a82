package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Listing is the content of one directory split into files and folders.
// Names are in the order the operating system returned them.
type Listing struct {
	Files   []string
	Folders []string
}

// HasFolder reports whether the listing contains a folder with the given name.
func (l Listing) HasFolder(name string) bool {
	return slices.Contains(l.Folders, name)
}

// ReadDirectory lists path, following symbolic links to decide whether an
// entry is a file or a folder. Dangling links and entries that are neither
// regular files nor directories are left out. Any OS-level failure on path
// itself is returned as an error.
func ReadDirectory(path string) (Listing, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return Listing{}, err
	}

	var l Listing
	for _, entry := range entries {
		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(path, entry.Name()))
			if err != nil {
				continue
			}
			mode = info.Mode().Type()
		}
		switch {
		case mode.IsDir():
			l.Folders = append(l.Folders, entry.Name())
		case mode.IsRegular():
			l.Files = append(l.Files, entry.Name())
		}
	}
	return l, nil
}
