// package services defines the Service interface for the hosting platform's HTTP API
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixup/internal/shared"
	"github.com/desertthunder/mixup/internal/tracklist"
	"golang.org/x/oauth2"
)

// Service is what the upload flow needs from a mix hosting platform.
type Service interface {
	// Name returns the name of the service (e.g., "Mixcloud")
	Name() string

	// SetAccessToken sets the token used for subsequent requests.
	SetAccessToken(token string)

	// Me returns the authenticated user's profile.
	Me(ctx context.Context) (*User, error)

	// NextName resolves a name pattern against the user's existing uploads.
	NextName(ctx context.Context, pattern string) (string, error)

	// Upload publishes a mix.
	Upload(ctx context.Context, params UploadParams) (*UploadResult, error)
}

// OAuthService extends [Service] with the authorization code flow.
type OAuthService interface {
	Service

	// AuthURL returns the authorization URL for the given client and redirect URI.
	AuthURL(clientID, redirectURI string) string

	// ExchangeCode trades an authorization code for a token.
	ExchangeCode(ctx context.Context, clientID, clientSecret, redirectURI, code string) (*oauth2.Token, error)
}

var _ OAuthService = (*Mixcloud)(nil)

// AuthError is returned when the provider doesn't hand out or accept a token.
// Body holds the raw response for diagnostics.
type AuthError struct {
	Message string
	Status  int
	Body    string
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("%v: %s", shared.ErrAuthFailed, e.Message)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *AuthError) Unwrap() error { return shared.ErrAuthFailed }

// User is a Mixcloud user profile.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// Cloudcast is a published mix.
type Cloudcast struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Slug        string `json:"slug"`
	CreatedTime string `json:"created_time"`
}

type cloudcastPage struct {
	Data   []Cloudcast `json:"data"`
	Paging struct {
		Next     string `json:"next"`
		Previous string `json:"previous"`
	} `json:"paging"`
}

// UploadParams describes a mix to upload.
type UploadParams struct {
	AudioPath   string
	ArtworkPath string
	Name        string
	Description string
	Tags        []string
	Tracks      tracklist.Tracklist
}

// UploadResult is the "result" object of an upload response.
type UploadResult struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// URL returns the public URL of the uploaded cloudcast.
func (r UploadResult) URL() string {
	if r.Key == "" {
		return ""
	}
	return "https://www.mixcloud.com" + r.Key
}
