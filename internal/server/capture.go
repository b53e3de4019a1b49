package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixup/internal/shared"
)

const (
	DefaultReadyDelay = time.Second
	DefaultGraceDelay = time.Second
	DefaultTimeout    = 2 * time.Minute
)

// CaptureOpts configures [Capture].
type CaptureOpts struct {
	// AuthURL builds the provider's authorization URL for the given redirect URI.
	AuthURL func(redirectURI string) string
	// OpenBrowser opens url in a browser. Defaults to [shared.OpenBrowser].
	OpenBrowser func(url string) error

	// BindHost is the address the listener binds to. Defaults to 127.0.0.1.
	BindHost string
	// RedirectHost is the host used in the redirect URI. Defaults to localhost.
	RedirectHost string

	ReadyDelay time.Duration // before launching the browser
	GraceDelay time.Duration // between receiving the code and shutting down
	Timeout    time.Duration // overall wait for the callback

	Logger *log.Logger
}

func (o *CaptureOpts) defaults() {
	if o.OpenBrowser == nil {
		o.OpenBrowser = shared.OpenBrowser
	}
	if o.BindHost == "" {
		o.BindHost = "127.0.0.1"
	}
	if o.RedirectHost == "" {
		o.RedirectHost = "localhost"
	}
	if o.ReadyDelay == 0 {
		o.ReadyDelay = DefaultReadyDelay
	}
	if o.GraceDelay == 0 {
		o.GraceDelay = DefaultGraceDelay
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// CaptureResult is the outcome of a successful [Capture].
type CaptureResult struct {
	Code        string
	RedirectURI string
}

// Capture runs a one-shot OAuth callback listener on an OS-assigned loopback port, opens the
// browser at the authorization URL and waits for the redirect carrying the authorization code.
//
// The listener is stopped before Capture returns. Without a code Capture fails with
// [shared.ErrAuthFailed]; running out of time additionally matches [shared.ErrTimeout].
func Capture(ctx context.Context, opts CaptureOpts) (*CaptureResult, error) {
	if opts.AuthURL == nil {
		return nil, fmt.Errorf("%w: authorization URL builder", shared.ErrMissingArgument)
	}
	opts.defaults()
	logger := opts.Logger

	ln, err := net.Listen("tcp", net.JoinHostPort(opts.BindHost, "0"))
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback listener: %w", err)
	}

	port := ln.Addr().(*net.TCPAddr).Port
	redirectURI := "http://" + net.JoinHostPort(opts.RedirectHost, strconv.Itoa(port)) + CallbackPath

	handler := NewCallbackHandler(logger)
	var router Router = NewBasicRouter()
	router.Use(LogRequests(logger))
	router.Handler(handler)

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		logger.Debug("callback listener started", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	authURL := opts.AuthURL(redirectURI)
	launch := time.AfterFunc(opts.ReadyDelay, func() {
		logger.Info("opening browser for authorization")
		if err := opts.OpenBrowser(authURL); err != nil {
			logger.Warn("could not open browser, open this URL manually", "url", authURL, "error", err)
		}
	})
	defer launch.Stop()

	timeout := time.NewTimer(opts.Timeout)
	defer timeout.Stop()

	logger.Info("waiting for authorization callback", "timeout", opts.Timeout)

	var waitErr error
	select {
	case <-handler.Done():
		// let the browser receive the confirmation page before the listener goes away
		select {
		case <-time.After(opts.GraceDelay):
		case <-ctx.Done():
		}
	case err := <-serveErr:
		waitErr = fmt.Errorf("%w: callback listener: %v", shared.ErrAuthFailed, err)
	case <-ctx.Done():
		waitErr = fmt.Errorf("%w: %w", shared.ErrAuthFailed, ctx.Err())
	case <-timeout.C:
		waitErr = fmt.Errorf("%w: %w: no callback within %v", shared.ErrAuthFailed, shared.ErrTimeout, opts.Timeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error shutting down callback listener", "error", err)
	}

	if waitErr != nil {
		return nil, waitErr
	}

	code, ok := handler.Code()
	if !ok {
		return nil, fmt.Errorf("%w: no authorization code received", shared.ErrAuthFailed)
	}

	return &CaptureResult{Code: code, RedirectURI: redirectURI}, nil
}
