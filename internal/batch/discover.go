package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PDFExt is the extension Discover looks for, compared case-insensitively.
const PDFExt = ".pdf"

// Discover lists the PDF files under root in lexical order. Subdirectories are
// walked only when recursive is set.
func Discover(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory: %s is not a directory", root)
	}

	paths := make([]string, 0)
	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", root, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() && isPDF(e.Name()) {
				paths = append(paths, filepath.Join(root, e.Name()))
			}
		}
		sort.Strings(paths)
		return paths, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && isPDF(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), PDFExt)
}
