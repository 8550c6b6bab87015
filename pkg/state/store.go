package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/panekit/panekit/pkg/types"
)

// FileStore persists layouts as JSON files under the state directory.
// Writes are atomic (temp file plus rename) so a crash mid-save never
// leaves a corrupt layout on disk.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a layout store rooted at the given directory
func NewFileStore(root string) (*FileStore, error) {
	dir := filepath.Join(root, ".panekit", "state", "layouts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create layout store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// SaveLayout writes the layout for a surface
func (fs *FileStore) SaveLayout(ctx context.Context, surface string, layout types.SplitLayout) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	path := fs.layoutPath(surface)
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to commit layout file: %w", err)
	}

	return nil
}

// LoadLayout reads the layout for a surface. A missing file is not an
// error; it returns (nil, nil) so callers fall through to defaults.
func (fs *FileStore) LoadLayout(ctx context.Context, surface string) (*types.SplitLayout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.layoutPath(surface))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	var layout types.SplitLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout file: %w", err)
	}

	return &layout, nil
}

func (fs *FileStore) layoutPath(surface string) string {
	return filepath.Join(fs.dir, surface+".layout.json")
}
