package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/mixup/internal/shared"
)

func newTestHandler() *CallbackHandler {
	return NewCallbackHandler(shared.NewLogger(&bytes.Buffer{}))
}

func TestCallbackHandler(t *testing.T) {
	t.Run("Routes", func(t *testing.T) {
		routes := newTestHandler().Routes()
		if len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("unexpected routes %v", routes)
		}
	})

	t.Run("records the code", func(t *testing.T) {
		h := newTestHandler()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=abc", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected success page")
		}

		code, ok := h.Code()
		if !ok || code != "abc" {
			t.Errorf("expected code abc, got %q (%v)", code, ok)
		}

		select {
		case <-h.Done():
		default:
			t.Error("expected Done to be closed")
		}
	})

	t.Run("keeps the first code", func(t *testing.T) {
		h := newTestHandler()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=first", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=second", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if code, _ := h.Code(); code != "first" {
			t.Errorf("expected first code to be kept, got %q", code)
		}
	})

	t.Run("no code keeps waiting", func(t *testing.T) {
		h := newTestHandler()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if _, ok := h.Code(); ok {
			t.Error("no code should be recorded")
		}

		select {
		case <-h.Done():
			t.Error("Done should not be closed without a code")
		default:
		}
	})

	t.Run("other paths are not found", func(t *testing.T) {
		h := newTestHandler()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico?code=abc", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if _, ok := h.Code(); ok {
			t.Error("code on another path should not be recorded")
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("unregistered path is 404", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(newTestHandler())

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("first"), mw("second"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("method filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("callback handler only answers GET", func(t *testing.T) {
		router := NewBasicRouter()
		h := newTestHandler()
		router.Handler(h)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/callback?code=abc", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if _, ok := h.Code(); ok {
			t.Error("expected no code recorded from a POST")
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=abc", nil))
		if code, ok := h.Code(); !ok || code != "abc" {
			t.Errorf("expected code abc, got %q", code)
		}
	})

	t.Run("LogRequests", func(t *testing.T) {
		var buf bytes.Buffer
		logger := shared.NewLogger(&buf)
		shared.SetLogLevel(logger, "debug")

		router := NewBasicRouter()
		router.Use(LogRequests(logger))
		router.Handler(NewCallbackHandler(logger))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=secret", nil))

		if !strings.Contains(buf.String(), "/callback") {
			t.Errorf("expected request to be logged, got %q", buf.String())
		}
		if strings.Contains(buf.String(), "secret") {
			t.Error("authorization code must not be logged")
		}
	})
}
