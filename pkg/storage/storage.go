package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/levenlabs/go-lflag"
)

var ErrNotFound = errors.New("artifact not found")

// Provider reads and writes serialized artifacts by name.
type Provider interface {
	// Get returns the raw bytes of the named artifact or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put stores data under name, replacing any existing artifact.
	Put(ctx context.Context, name string, data []byte) error
	// List returns the names of all stored artifacts.
	List(ctx context.Context) ([]string, error)

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Provider {
	provider := lflag.String("storage-provider", "file", "Storage provider to load artifacts from (available: file, firestore, s3)")

	var p struct{ Provider }

	fp := configuredFile()
	fs := configuredFirestore()
	s3 := configuredS3()

	lflag.Do(func() {
		switch *provider {
		case "file":
			if err := fp.Validate(); err != nil {
				panic(fmt.Sprintf("file validation failed: %v", err))
			}
			p.Provider = fp
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Provider = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		case "s3":
			if err := s3.Validate(); err != nil {
				panic(fmt.Sprintf("s3 validation failed: %v", err))
			}
			p.Provider = s3
			if err := s3.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("s3 init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}

// validName rejects names that could escape the provider's namespace.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("artifact name cannot be empty")
	}
	if strings.Contains(name, "..") || path.IsAbs(name) {
		return fmt.Errorf("invalid artifact name: %s", name)
	}
	return nil
}
