package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/levenlabs/go-lflag"
)

// FileProvider reads artifacts from a directory on local disk.
type FileProvider struct {
	root string
}

func configuredFile() *FileProvider {
	root := lflag.String("file-root", ".", "Directory containing artifact files for the file provider")

	f := &FileProvider{}

	lflag.Do(func() {
		f.root = *root
	})

	return f
}

// NewFileProvider returns a FileProvider rooted at dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{root: dir}
}

// Validate checks that the root directory exists.
func (f *FileProvider) Validate() error {
	info, err := os.Stat(f.root)
	if err != nil {
		return fmt.Errorf("failed to stat file-root (%s): %w", f.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("file-root is not a directory: %s", f.root)
	}
	return nil
}

// Get reads the named artifact from disk.
func (f *FileProvider) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}
	return b, nil
}

// Put writes the artifact atomically by renaming a temporary file into place.
func (f *FileProvider) Put(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	p := filepath.Join(f.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact dir: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename artifact %s: %w", name, err)
	}
	return nil
}

// List returns the regular files directly under the root.
func (f *FileProvider) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read file-root: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op.
func (f *FileProvider) Close() error {
	return nil
}
