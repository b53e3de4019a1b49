package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mixup/internal/shared"
)

// fakeBrowser follows the redirect itself: it requests each suffix against the redirect URI.
type fakeBrowser struct {
	t        *testing.T
	requests []string
	statuses chan int
}

func (b *fakeBrowser) open(authURL string) error {
	u, err := url.Parse(authURL)
	if err != nil {
		return err
	}
	redirect := u.Query().Get("redirect_uri")

	go func() {
		for _, suffix := range b.requests {
			resp, err := http.Get(strings.Replace(redirect, CallbackPath, suffix, 1))
			if err != nil {
				b.statuses <- -1
				continue
			}
			resp.Body.Close()
			b.statuses <- resp.StatusCode
		}
		close(b.statuses)
	}()
	return nil
}

func testOpts(open func(string) error) CaptureOpts {
	return CaptureOpts{
		AuthURL: func(redirectURI string) string {
			return "https://provider.test/authorize?client_id=id&redirect_uri=" + url.QueryEscape(redirectURI)
		},
		OpenBrowser:  open,
		RedirectHost: "127.0.0.1",
		ReadyDelay:   time.Millisecond,
		GraceDelay:   10 * time.Millisecond,
		Timeout:      5 * time.Second,
		Logger:       shared.NewLogger(&bytes.Buffer{}),
	}
}

func TestCapture(t *testing.T) {
	t.Run("receives code", func(t *testing.T) {
		browser := &fakeBrowser{t: t, requests: []string{"/callback?code=abc"}, statuses: make(chan int, 1)}

		result, err := Capture(context.Background(), testOpts(browser.open))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Code != "abc" {
			t.Errorf("expected code abc, got %s", result.Code)
		}
		if !strings.HasPrefix(result.RedirectURI, "http://127.0.0.1:") || !strings.HasSuffix(result.RedirectURI, "/callback") {
			t.Errorf("unexpected redirect URI %s", result.RedirectURI)
		}
		if status := <-browser.statuses; status != http.StatusOK {
			t.Errorf("expected 200 for callback, got %d", status)
		}

		if _, err := http.Get(result.RedirectURI); err == nil {
			t.Error("listener should be stopped after Capture returns")
		}
	})

	t.Run("waits through requests without code", func(t *testing.T) {
		browser := &fakeBrowser{
			t:        t,
			requests: []string{"/callback", "/favicon.ico", "/callback?code=late"},
			statuses: make(chan int, 3),
		}

		result, err := Capture(context.Background(), testOpts(browser.open))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Code != "late" {
			t.Errorf("expected code late, got %s", result.Code)
		}

		want := []int{http.StatusOK, http.StatusNotFound, http.StatusOK}
		for i, w := range want {
			if got := <-browser.statuses; got != w {
				t.Errorf("request %d: expected %d, got %d", i, w, got)
			}
		}
	})

	t.Run("default redirect host is localhost", func(t *testing.T) {
		var authURL string
		opts := testOpts(func(u string) error { authURL = u; return nil })
		opts.RedirectHost = ""
		opts.Timeout = 50 * time.Millisecond

		_, err := Capture(context.Background(), opts)
		if err == nil {
			t.Fatal("expected timeout")
		}
		if !strings.Contains(authURL, url.QueryEscape("http://localhost:")) {
			t.Errorf("expected localhost redirect in %s", authURL)
		}
	})

	t.Run("times out", func(t *testing.T) {
		opts := testOpts(func(string) error { return nil })
		opts.Timeout = 50 * time.Millisecond

		_, err := Capture(context.Background(), opts)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		opts := testOpts(func(string) error { cancel(); return nil })

		_, err := Capture(ctx, opts)
		if !errors.Is(err, shared.ErrAuthFailed) || !errors.Is(err, context.Canceled) {
			t.Errorf("expected cancelled auth failure, got %v", err)
		}
	})

	t.Run("browser failure is not fatal", func(t *testing.T) {
		opts := testOpts(func(string) error { return errors.New("no display") })
		opts.Timeout = 50 * time.Millisecond

		_, err := Capture(context.Background(), opts)
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected the flow to keep waiting until timeout, got %v", err)
		}
	})

	t.Run("requires AuthURL", func(t *testing.T) {
		_, err := Capture(context.Background(), CaptureOpts{})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}
