package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"famedia/internal/app"
	"famedia/internal/config"
	appErrors "famedia/internal/errors"
	"famedia/internal/infra/exif"
	"famedia/internal/infra/exiftool"
	"famedia/internal/infra/fs"
	"famedia/internal/infra/tz"
	"famedia/internal/logging"
)

// errEndedEarly marks a batch that aborted. Its progress already explains why.
var errEndedEarly = errors.New("batch ended early")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if errors.Is(err, errEndedEarly) {
		os.Exit(1)
	}
	if err != nil {
		exitWithError(err)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}

	root := &cobra.Command{
		Use:           "famedia",
		Short:         "Tag, date and archive family photos and videos from their file names",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Resolve(cmd.Flags(), os.Getenv); err != nil {
				return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
			}
			return nil
		},
	}
	cfg.Bind(root.PersistentFlags())

	root.AddCommand(
		newProcessCmd(cfg),
		newServeCmd(cfg),
		newPresetsCmd(cfg),
	)
	return root
}

// services holds the adapters shared by every command.
type services struct {
	logger   logging.Logger
	fs       fs.OSFS
	tool     *exiftool.Tool
	pipeline *app.Pipeline
}

func wire(cfg config.Config) *services {
	logger := logging.New(os.Stderr, cfg.Verbose)
	tool := exiftool.New(cfg.ExiftoolPath, cfg.ExiftoolTimeout, logger)
	filesystem := fs.OSFS{}
	probe := exif.Probe{Fallback: tool}

	logger.Verbosef("Media %s (shown as %s), archive %s (shown as %s), TZ=%s",
		cfg.MediaDir, cfg.ExternalMediaDir, cfg.MoveToDir, cfg.ExternalMoveToDir, cfg.Timezone)

	return &services{
		logger:   logger,
		fs:       filesystem,
		tool:     tool,
		pipeline: app.NewPipeline(cfg, filesystem, tool, probe, tz.Resolver{}, logger),
	}
}

func (s *services) Close() {
	if err := s.tool.Close(); err != nil {
		s.logger.Warnf("Stopping exiftool: %v", err)
	}
}

func exitWithError(err error) {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) && appErr.Kind == appErrors.InvalidConfig {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", appErr.Err)
	} else {
		fmt.Fprintln(os.Stderr, appErrors.UserMessage(err))
	}
	os.Exit(1)
}
