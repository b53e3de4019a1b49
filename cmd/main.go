package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/mixup/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "mixup",
		Usage:    "Upload Mixxx recordings to Mixcloud",
		Version:  "0.1.0",
		Flags:    rootFlags(),
		Before:   runner.before,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrAborted) {
			logger.Warn(err.Error())
			stop()
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// before loads the config named by --config and applies the log level.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := r.loadConfig(cmd.String("config")); err != nil {
		return ctx, err
	}

	level := cmd.String("log-level")
	if level == "" {
		level = r.config.LogLevel
	}
	if level != "" {
		if err := shared.SetLogLevel(r.logger, level); err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}
