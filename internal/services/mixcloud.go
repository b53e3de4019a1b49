// Mixcloud API implementation of [Service]
//
// Endpoints documented at https://www.mixcloud.com/developers/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/mixup/internal/shared"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	mixcloudAPIURL   = "https://api.mixcloud.com"
	mixcloudAuthURL  = "https://www.mixcloud.com/oauth/authorize"
	mixcloudTokenURL = "https://www.mixcloud.com/oauth/access_token"
)

// MixcloudOpts configures a [Mixcloud] client. Zero values select the production endpoints.
type MixcloudOpts struct {
	APIURL      string
	AuthURL     string
	TokenURL    string
	AccessToken string
	HTTPClient  *http.Client
	// Progress receives the upload progress bar. Nil disables it.
	Progress io.Writer
	// PageInterval is the minimum delay between paginated requests.
	PageInterval time.Duration
}

// Mixcloud is a client for the Mixcloud API. The access token is passed as a query parameter on every request.
type Mixcloud struct {
	apiURL      string
	endpoint    oauth2.Endpoint
	accessToken string
	httpClient  *http.Client
	progress    io.Writer
	limiter     *rate.Limiter
}

// NewMixcloud creates a Mixcloud client.
func NewMixcloud(opts MixcloudOpts) *Mixcloud {
	if opts.APIURL == "" {
		opts.APIURL = mixcloudAPIURL
	}
	if opts.AuthURL == "" {
		opts.AuthURL = mixcloudAuthURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = mixcloudTokenURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.PageInterval == 0 {
		opts.PageInterval = 500 * time.Millisecond
	}

	return &Mixcloud{
		apiURL:      strings.TrimSuffix(opts.APIURL, "/"),
		endpoint:    oauth2.Endpoint{AuthURL: opts.AuthURL, TokenURL: opts.TokenURL},
		accessToken: opts.AccessToken,
		httpClient:  opts.HTTPClient,
		progress:    opts.Progress,
		limiter:     rate.NewLimiter(rate.Every(opts.PageInterval), 1),
	}
}

func (m *Mixcloud) Name() string {
	return "Mixcloud"
}

// SetAccessToken replaces the token used for API requests.
func (m *Mixcloud) SetAccessToken(token string) {
	m.accessToken = token
}

// Authenticated reports whether an access token is set.
func (m *Mixcloud) Authenticated() bool {
	return m.accessToken != ""
}

// OAuthConfig returns the [oauth2.Config] for the given client and redirect URI.
func (m *Mixcloud) OAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     m.endpoint,
	}
}

// AuthURL returns the URL the user authorizes the client at.
func (m *Mixcloud) AuthURL(clientID, redirectURI string) string {
	return m.OAuthConfig(clientID, "", redirectURI).AuthCodeURL("")
}

// ExchangeCode trades an authorization code for an access token.
//
// Mixcloud expects a GET with client_id, client_secret, redirect_uri and code as query parameters,
// which is why this doesn't go through [oauth2.Config.Exchange].
func (m *Mixcloud) ExchangeCode(ctx context.Context, clientID, clientSecret, redirectURI, code string) (*oauth2.Token, error) {
	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("client_secret", clientSecret)
	q.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.endpoint.TokenURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: token request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var fields struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &fields); err != nil || fields.AccessToken == "" {
		return nil, &AuthError{Message: "could not fetch access token", Status: resp.StatusCode, Body: string(body)}
	}

	token := &oauth2.Token{AccessToken: fields.AccessToken, TokenType: fields.TokenType}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}
	return token, nil
}

// withToken adds the access token to rawURL unless it already carries one.
func (m *Mixcloud) withToken(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", shared.ErrInvalidInput, rawURL)
	}
	q := u.Query()
	if q.Get("access_token") == "" && m.accessToken != "" {
		q.Set("access_token", m.accessToken)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// getJSON performs an authenticated GET and decodes the response into result.
func (m *Mixcloud) getJSON(ctx context.Context, rawURL string, result any) error {
	if !m.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	u, err := m.withToken(rawURL)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := statusError(resp.StatusCode, body); err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{Message: "access token rejected", Status: status, Body: string(body)}
	case status >= 500:
		return fmt.Errorf("%w: %w: status %d, body: %s", shared.ErrAPIRequest, shared.ErrServiceUnavailable, status, string(body))
	default:
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, status, string(body))
	}
}

// Me returns the profile of the authenticated user.
func (m *Mixcloud) Me(ctx context.Context) (*User, error) {
	var user User
	if err := m.getJSON(ctx, m.apiURL+"/me/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Cloudcasts returns every cloudcast of user ("me" for the authenticated user), following pagination.
func (m *Mixcloud) Cloudcasts(ctx context.Context, user string) ([]Cloudcast, error) {
	if user == "" {
		user = "me"
	}

	var all []Cloudcast
	next := fmt.Sprintf("%s/%s/cloudcasts/?limit=100", m.apiURL, url.PathEscape(user))
	for next != "" {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var page cloudcastPage
		if err := m.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		next = page.Paging.Next
	}
	return all, nil
}

// NextName fills the "{}" placeholder in pattern with one more than the highest number used
// by an existing cloudcast name matching the pattern, or 1 if there is none.
// Patterns without a placeholder are returned as-is.
func (m *Mixcloud) NextName(ctx context.Context, pattern string) (string, error) {
	before, after, ok := strings.Cut(pattern, "{}")
	if !ok {
		return pattern, nil
	}

	cloudcasts, err := m.Cloudcasts(ctx, "me")
	if err != nil {
		return "", fmt.Errorf("failed to list cloudcasts: %w", err)
	}

	re := regexp.MustCompile("^" + regexp.QuoteMeta(before) + `(\d+)` + regexp.QuoteMeta(after) + "$")
	highest := 0
	for _, c := range cloudcasts {
		match := re.FindStringSubmatch(strings.TrimSpace(c.Name))
		if match == nil {
			continue
		}
		if n, err := strconv.Atoi(match[1]); err == nil && n > highest {
			highest = n
		}
	}

	return before + strconv.Itoa(highest+1) + after, nil
}

// Upload posts a mix to /upload/.
func (m *Mixcloud) Upload(ctx context.Context, params UploadParams) (*UploadResult, error) {
	if !m.Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	if params.Name == "" {
		return nil, fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	body, contentType, err := params.encode()
	if err != nil {
		return nil, err
	}

	endpoint, err := m.withToken(m.apiURL + "/upload/")
	if err != nil {
		return nil, err
	}

	var reader io.Reader = bytes.NewReader(body.Bytes())
	if m.progress != nil {
		bar := progressbar.NewOptions64(int64(body.Len()),
			progressbar.OptionSetWriter(m.progress),
			progressbar.OptionSetDescription("uploading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		reader = io.TeeReader(reader, bar)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = int64(body.Len())
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: upload failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	if err := statusError(resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	var decoded struct {
		Result UploadResult `json:"result"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if !decoded.Result.Success {
		return nil, fmt.Errorf("%w: upload rejected: %s", shared.ErrAPIRequest, string(respBody))
	}
	return &decoded.Result, nil
}

// encode builds the multipart body. Files are read into memory so the request has a known length.
func (p UploadParams) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range p.fields() {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}

	if err := attach(w, "mp3", p.AudioPath); err != nil {
		return nil, "", err
	}
	if p.ArtworkPath != "" {
		if err := attach(w, "picture", p.ArtworkPath); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// fields returns the form fields in order. Empty name-level values are omitted.
func (p UploadParams) fields() [][2]string {
	fields := [][2]string{{"name", p.Name}}
	if p.Description != "" {
		fields = append(fields, [2]string{"description", p.Description})
	}

	i := 0
	for _, tag := range p.Tags {
		if tag = strings.TrimSpace(tag); tag == "" {
			continue
		}
		fields = append(fields, [2]string{fmt.Sprintf("tags-%d-tag", i), tag})
		i++
	}

	for i, e := range p.Tracks {
		fields = append(fields,
			[2]string{fmt.Sprintf("sections-%d-artist", i), e.Artist},
			[2]string{fmt.Sprintf("sections-%d-song", i), e.Title},
			[2]string{fmt.Sprintf("sections-%d-start_time", i), strconv.Itoa(e.StartSeconds)},
		)
	}
	return fields
}

func attach(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", field, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s: %w", field, err)
	}
	return nil
}
