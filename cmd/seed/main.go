// Command seed uploads locally trained artifact files into the configured
// storage provider so solarcast can load them at startup.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/levenlabs/go-lflag"
	"github.com/solarcast/solarcast/pkg/artifact"
	"github.com/solarcast/solarcast/pkg/log"
	"github.com/solarcast/solarcast/pkg/storage"
)

func main() {
	s := storage.Configured()
	files := lflag.String("seed-files", "", "Comma-delimited list of local model/scaler files to upload")
	lflag.Configure()

	ctx := context.Background()
	err := run(ctx, s, *files)
	if cerr := s.Close(); cerr != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", cerr))
	}
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "seed failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// run uploads every file in the comma-delimited list and logs what the
// provider holds afterwards. It never closes s.
func run(ctx context.Context, s storage.Provider, files string) error {
	if files == "" {
		return fmt.Errorf("seed-files is required")
	}

	for _, path := range strings.Split(files, ",") {
		path = strings.TrimSpace(path)
		if err := upload(ctx, s, path); err != nil {
			return fmt.Errorf("failed to upload artifact %s: %w", path, err)
		}
	}

	names, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list artifacts: %w", err)
	}
	log.Ctx(ctx).InfoContext(ctx, "stored artifacts", slog.Any("names", names))
	return nil
}

// upload refuses files that decode as neither a scaler nor a model so a bad
// file is caught here instead of at service startup.
func upload(ctx context.Context, s storage.Provider, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	_, scalerErr := artifact.DecodeScaler(name, b)
	_, modelErr := artifact.DecodeModel(name, b)
	if scalerErr != nil && modelErr != nil {
		return fmt.Errorf("not an artifact: scaler: %v; model: %v", scalerErr, modelErr)
	}
	if err := s.Put(ctx, name, b); err != nil {
		return err
	}
	log.Ctx(ctx).InfoContext(ctx, "uploaded artifact", slog.String("name", name), slog.Int("bytes", len(b)))
	return nil
}
