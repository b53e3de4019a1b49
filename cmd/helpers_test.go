package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/mixup/internal/audio"
	"github.com/desertthunder/mixup/internal/models"
	"github.com/desertthunder/mixup/internal/repositories"
	"github.com/desertthunder/mixup/internal/server"
	"github.com/desertthunder/mixup/internal/services"
	"github.com/desertthunder/mixup/internal/shared"
	tu "github.com/desertthunder/mixup/internal/testing"
	"github.com/desertthunder/mixup/internal/tracklist"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const recordingName = "2024-05-01_20h00"

type fakeMixcloud struct {
	token       string
	user        *services.User
	meErr       error
	uploadErr   error
	uploads     []services.UploadParams
	patterns    []string
	exchanged   []string
	exchangeErr error
}

func (f *fakeMixcloud) Name() string                { return "Mixcloud" }
func (f *fakeMixcloud) SetAccessToken(token string) { f.token = token }

func (f *fakeMixcloud) Me(ctx context.Context) (*services.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	if f.user != nil {
		return f.user, nil
	}
	return &services.User{Username: "dj", Name: "DJ Test"}, nil
}

func (f *fakeMixcloud) NextName(ctx context.Context, pattern string) (string, error) {
	f.patterns = append(f.patterns, pattern)
	return "Weekly #7", nil
}

func (f *fakeMixcloud) Upload(ctx context.Context, params services.UploadParams) (*services.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads = append(f.uploads, params)
	return &services.UploadResult{Success: true, Key: "/dj/uploaded-mix/"}, nil
}

func (f *fakeMixcloud) AuthURL(clientID, redirectURI string) string {
	return "https://auth.example/?client_id=" + clientID + "&redirect_uri=" + redirectURI
}

func (f *fakeMixcloud) ExchangeCode(ctx context.Context, clientID, clientSecret, redirectURI, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	f.exchanged = append(f.exchanged, code)
	return &oauth2.Token{AccessToken: "fresh-token", TokenType: "Bearer"}, nil
}

type fakeTranscoder struct {
	calls []audio.TranscodeParams
	err   error
}

func (f *fakeTranscoder) Transcode(ctx context.Context, params audio.TranscodeParams) error {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(params.Output), 0755); err != nil {
		return err
	}
	return os.WriteFile(params.Output, []byte("ID3"), 0644)
}

type fakePrompter struct {
	answers []bool
	value   string
	asked   []string
}

func (f *fakePrompter) Confirm(prompt string) (bool, error) {
	f.asked = append(f.asked, prompt)
	if len(f.answers) == 0 {
		return false, nil
	}
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

func (f *fakePrompter) Prompt(prompt, fallback string) (string, error) {
	f.asked = append(f.asked, prompt)
	if f.value == "" {
		return fallback, nil
	}
	return f.value, nil
}

// testEnv is a runner wired to fakes, a config file and a recordings directory in a temp dir.
type testEnv struct {
	dir        string
	configPath string
	config     *shared.Config
	output     *bytes.Buffer
	logs       *bytes.Buffer
	mixcloud   *fakeMixcloud
	transcoder *fakeTranscoder
	prompter   *fakePrompter
	edits      int
	edit       EditFunc
	capture    CaptureFunc
	runner     *Runner
}

func newTestEnv(t *testing.T, configure func(*shared.Config)) *testEnv {
	t.Helper()
	dir := t.TempDir()
	recDir := filepath.Join(dir, "recordings")
	tu.MustWriteFile(t, recDir, recordingName+".wav", "RIFF")
	tu.MustWriteFile(t, recDir, recordingName+".cue", tu.SampleCue)

	config := &shared.Config{
		Paths: shared.PathsConfig{
			RecordingsDir: recDir,
			CachedAuth:    filepath.Join(dir, "cached-auth.toml"),
			Database:      filepath.Join(dir, "mixup.db"),
		},
		Presets: map[string]shared.PresetConfig{
			"weekly": {
				Name:        "Weekly #{}",
				Artwork:     filepath.Join(dir, "cover.jpg"),
				Tags:        []string{"house", "disco"},
				Description: "Weekly mix",
			},
		},
	}
	if configure != nil {
		configure(config)
	}

	configPath := filepath.Join(dir, "config.toml")
	if err := shared.SaveConfig(configPath, config); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	env := &testEnv{
		dir:        dir,
		configPath: configPath,
		config:     config,
		output:     &bytes.Buffer{},
		logs:       &bytes.Buffer{},
		mixcloud:   &fakeMixcloud{},
		transcoder: &fakeTranscoder{},
		prompter:   &fakePrompter{},
	}
	env.runner = NewRunner(RunnerOpts{
		ConfigPath: configPath,
		Mixcloud:   env.mixcloud,
		Transcoder: env.transcoder,
		Prompter:   env.prompter,
		Edit: func(ctx context.Context, t tracklist.Tracklist) (tracklist.Tracklist, error) {
			env.edits++
			if env.edit != nil {
				return env.edit(ctx, t)
			}
			return t, nil
		},
		Capture: func(ctx context.Context, opts server.CaptureOpts) (*server.CaptureResult, error) {
			if env.capture != nil {
				return env.capture(ctx, opts)
			}
			return &server.CaptureResult{Code: "auth-code", RedirectURI: "http://localhost:4321/callback"}, nil
		},
		OpenBrowser: func(string) error { return nil },
		Logger:      shared.NewLogger(env.logs),
		Output:      env.output,
		Progress:    io.Discard,
	})
	return env
}

// run executes the mixup command tree with args, as main does.
func (e *testEnv) run(args ...string) error {
	app := &cli.Command{
		Name:      "mixup",
		Flags:     rootFlags(),
		Before:    e.runner.before,
		Commands:  e.runner.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"mixup", "--config", e.configPath}, args...))
}

func (e *testEnv) history(t *testing.T) []*models.Upload {
	t.Helper()
	db, err := shared.OpenDatabase(e.config.Paths.Database)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	uploads, err := repositories.NewUploadRepository(db).List(nil)
	if err != nil {
		t.Fatalf("failed to list uploads: %v", err)
	}
	return uploads
}

func (e *testEnv) recordHistory(t *testing.T, upload *models.Upload) {
	t.Helper()
	db, err := shared.OpenDatabase(e.config.Paths.Database)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := repositories.NewUploadRepository(db).Create(upload); err != nil {
		t.Fatalf("failed to record upload: %v", err)
	}
}
