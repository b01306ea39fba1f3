package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/camden-git/gallerymanifest/utils"
)

// Original is one source image found in the input directory.
type Original struct {
	ID       string // filename without extension
	Filename string
	Path     string // absolute path on disk
}

// Scan lists the supported originals directly inside dir, in filename order.
// When two files share a photo ID the later one replaces the earlier one.
func Scan(dir string, logger *zap.Logger) ([]Original, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	originals := make([]Original, 0, len(dirEntries))
	index := make(map[string]int, len(dirEntries))
	for _, entry := range dirEntries {
		name := entry.Name()
		if !utils.IsRasterImage(name) || utils.PhotoID(name) == "" {
			continue
		}

		fullPath := filepath.Join(dir, name)
		if !isRegularFile(entry, fullPath) {
			logger.Debug("scanner: skipping non-file entry", zap.String("name", name))
			continue
		}

		original := Original{ID: utils.PhotoID(name), Filename: name, Path: fullPath}
		if i, dup := index[original.ID]; dup {
			logger.Debug("scanner: photo ID collision, later file wins",
				zap.String("id", original.ID),
				zap.String("replaced", originals[i].Filename),
				zap.String("kept", name))
			originals[i] = original
			continue
		}
		index[original.ID] = len(originals)
		originals = append(originals, original)
	}

	return originals, nil
}

// isRegularFile follows symlinks; dangling links and links to directories are
// not files.
func isRegularFile(entry os.DirEntry, fullPath string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IDs returns the photo IDs of originals in scan order.
func IDs(originals []Original) []string {
	ids := make([]string, len(originals))
	for i, o := range originals {
		ids[i] = o.ID
	}
	return ids
}
