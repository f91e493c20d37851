package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
	"github.com/solarcast/solarcast/pkg/artifact"
	"github.com/solarcast/solarcast/pkg/console"
	"github.com/solarcast/solarcast/pkg/log"
	"github.com/solarcast/solarcast/pkg/predict"
	"github.com/solarcast/solarcast/pkg/storage"
)

func main() {
	// init packages; artifacts are loaded while flags are parsed and a
	// failure there panics before any prediction can run
	s := storage.Configured()
	set := artifact.Configured(s)
	c := console.Configured(predict.New(set))

	// parse flags
	lflag.Configure()

	// lflag automatically sets llog's level, but we need to set the slog level
	level, err := log.LevelFromLLog(llog.GetLevel())
	if err != nil {
		panic(err)
	}
	log.SetDefaultLogLevel(level)
	slog.SetDefault(log.New(os.Stderr))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer func() {
		if err := s.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", slog.Any("error", err))
		}
	}()

	if err := c.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "console failed", slog.Any("error", err))
		os.Exit(1)
	}
}
