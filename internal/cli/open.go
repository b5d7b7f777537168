package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pqueue/internal/codec"
	"github.com/roach88/pqueue/internal/config"
	"github.com/roach88/pqueue/internal/queue"
)

// resolveConfig merges the config file with command-line flags. Flags win.
func resolveConfig(opts *RootOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if opts.Database != "" {
		cfg.DB = opts.Database
	}
	if opts.Table != "" {
		cfg.Table = opts.Table
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	if cfg.DB == "" {
		return config.Config{}, NewExitError(ExitCommandError, "no database: pass --db or set db in --config")
	}
	return cfg, nil
}

// openQueue opens the text queue described by opts. Log output goes to the
// command's stderr.
func openQueue(opts *RootOptions, cmd *cobra.Command) (*queue.Queue[string], error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	q, err := queue.Open[string](cfg.DB, codec.Text{},
		queue.WithLogger(logger),
		queue.WithStoreOptions(cfg.StoreOptions()...),
	)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open queue", err)
	}
	return q, nil
}

// closeQueue closes q, logging rather than returning a close failure so the
// command's own result is kept.
func closeQueue(q *queue.Queue[string]) {
	if err := q.Close(); err != nil {
		slog.Error("error closing queue", "error", err)
	}
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// withQueue opens the queue, runs fn and closes the queue again. Open
// failures are reported through the formatter with exit code 2.
func withQueue(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, q *queue.Queue[string], f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	q, err := openQueue(opts, cmd)
	if err != nil {
		_ = f.Error(CodeOpenFailed, err.Error(), nil)
		return err
	}
	defer closeQueue(q)
	return fn(cmd.Context(), q, f)
}

// queueFailure reports a storage or encoding failure with exit code 1.
func queueFailure(f *OutputFormatter, op string, err error) error {
	return f.Fail(ExitFailure, CodeQueueFailed, fmt.Sprintf("%s failed: %v", op, err), err)
}
