package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
)

// CallbackPath is where the provider redirects the browser after authorization.
const CallbackPath = "/callback"

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>mixup</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #5000ff; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`

// CallbackHandler records the authorization code carried by the provider's redirect.
//
// It accepts exactly one code per lifetime; later codes are ignored. Requests without a code
// are answered but don't complete the handler.
type CallbackHandler struct {
	logger *log.Logger
	mu     sync.Mutex
	code   string
	done   chan struct{}
	once   sync.Once
}

// NewCallbackHandler creates a handler waiting for its first code.
func NewCallbackHandler(logger *log.Logger) *CallbackHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &CallbackHandler{logger: logger, done: make(chan struct{})}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{CallbackPath}
}

// ServeHTTP handles the redirect request.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != CallbackPath {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()
	code := query.Get("code")
	if code == "" {
		if e := query.Get("error"); e != "" {
			h.logger.Warn("provider returned an error", "error", e, "description", query.Get("error_description"))
		}
		h.render(w, "Waiting for authorization", "No authorization code in this request. Please retry in the browser.")
		return
	}

	if !h.record(code) {
		h.logger.Debug("ignoring additional authorization code")
	}
	h.render(w, "✓ Authorization Successful", "You can close this window and return to the terminal.")
}

// record stores code if none has been recorded yet and reports whether it did.
func (h *CallbackHandler) record(code string) bool {
	recorded := false
	h.once.Do(func() {
		h.mu.Lock()
		h.code = code
		h.mu.Unlock()
		recorded = true
		close(h.done)
	})
	return recorded
}

func (h *CallbackHandler) render(w http.ResponseWriter, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, successPage, title, message)
}

// Code returns the recorded authorization code, if any.
func (h *CallbackHandler) Code() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.code, h.code != ""
}

// Done is closed once a code has been recorded.
func (h *CallbackHandler) Done() <-chan struct{} {
	return h.done
}
