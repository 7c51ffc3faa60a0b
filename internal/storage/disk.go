// Package storage persists uploaded image blobs. Two backends exist:
// local disk under a fixed upload root, and an S3-compatible object
// store. Both return the addressable path the diagnosis record keeps.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"leafcare.org/internal/diagnosis"
)

var _ diagnosis.BlobStore = (*Disk)(nil)

// Disk writes images under a fixed upload root on the local filesystem.
type Disk struct {
	root string
}

// NewDisk creates the upload root if absent and returns the store.
func NewDisk(root string) (*Disk, error) {
	if strings.TrimSpace(root) == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Disk{root: root}, nil
}

// Save writes data under a timestamp-prefixed name derived from the
// original filename and returns the resulting path.
func (d *Disk) Save(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(d.root, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(name)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return filepath.ToSlash(path), nil
}

// sanitize strips any directory components and characters that do not
// belong in a stored filename.
func sanitize(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "image"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
