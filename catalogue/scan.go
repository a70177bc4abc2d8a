package catalogue

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/h2non/filetype"
)

// Scan lists the photos of dir in name order. Files are recognised by
// content, not extension. A broken sidecar is logged and the photo kept
// without metadata.
func Scan(dir string, logger *log.Logger) ([]Photo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read photo dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var photos []Photo
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !IsPhoto(path) {
			continue
		}
		meta, err := ReadMeta(path)
		if err != nil {
			logger.Warn("ignoring sidecar", "photo", path, "err", err)
		}
		photos = append(photos, Photo{Path: path, Meta: meta})
		logger.Debug("found photo", "path", path)
	}
	logger.Info("scanned photos", "dir", dir, "count", len(photos))
	return photos, nil
}

// IsPhoto sniffs the file header for an image format.
func IsPhoto(path string) bool {
	head, err := readHeader(path)
	return err == nil && filetype.IsImage(head)
}
