package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixup/internal/audio"
	"github.com/desertthunder/mixup/internal/editor"
	"github.com/desertthunder/mixup/internal/server"
	"github.com/desertthunder/mixup/internal/services"
	"github.com/desertthunder/mixup/internal/shared"
	"github.com/desertthunder/mixup/internal/tracklist"
	"github.com/desertthunder/mixup/internal/ui"
	"github.com/urfave/cli/v3"
)

// EditFunc lets the user revise a tracklist.
type EditFunc func(ctx context.Context, t tracklist.Tracklist) (tracklist.Tracklist, error)

// CaptureFunc obtains an authorization code through the browser.
type CaptureFunc func(ctx context.Context, opts server.CaptureOpts) (*server.CaptureResult, error)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	mixcloud    services.OAuthService
	transcoder  audio.Transcoder
	prompter    ui.Prompter
	edit        EditFunc
	capture     CaptureFunc
	openBrowser func(string) error
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	progress    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Mixcloud    services.OAuthService
	Transcoder  audio.Transcoder
	Prompter    ui.Prompter
	Edit        EditFunc
	Capture     CaptureFunc
	OpenBrowser func(string) error
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	// Progress receives the upload progress bar. Defaults to stderr.
	Progress io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Progress == nil {
		opts.Progress = os.Stderr
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Transcoder == nil {
		opts.Transcoder = audio.NewFFmpeg(opts.Logger)
	}
	if opts.Prompter == nil {
		opts.Prompter = ui.NewTerminal(nil, nil)
	}
	if opts.Capture == nil {
		opts.Capture = server.Capture
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Edit == nil {
		logger := opts.Logger
		opts.Edit = func(ctx context.Context, t tracklist.Tracklist) (tracklist.Tracklist, error) {
			return editor.Edit(ctx, t, editor.Opts{Logger: logger})
		}
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		mixcloud:    opts.Mixcloud,
		transcoder:  opts.Transcoder,
		prompter:    opts.Prompter,
		edit:        opts.Edit,
		capture:     opts.Capture,
		openBrowser: opts.OpenBrowser,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		progress:    opts.Progress,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		uploadCommand, authCommand, tracklistCommand, recordingsCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig replaces the runner's config with the file at path, falling back to defaults when it doesn't exist.
func (r *Runner) loadConfig(path string) error {
	config, err := shared.LoadConfigOrDefault(path)
	if err != nil {
		return err
	}
	r.config = config
	r.configPath = path
	return nil
}

// service returns the Mixcloud client authenticated with token.
func (r *Runner) service(token string) services.OAuthService {
	if r.mixcloud == nil {
		r.mixcloud = services.NewMixcloud(services.MixcloudOpts{
			HTTPClient: r.httpClient,
			Progress:   r.progress,
		})
	}
	r.mixcloud.SetAccessToken(token)
	return r.mixcloud
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
