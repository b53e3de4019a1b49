package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixup/internal/server"
	"github.com/desertthunder/mixup/internal/shared"
	"github.com/urfave/cli/v3"
)

// credentials are the token sources and client details for one command run.
type credentials struct {
	accessToken  string
	clientID     string
	clientSecret string
	cachedAuth   string
	interactive  bool
}

// credentialsFrom reads the credential flags, falling back to the config.
func (r *Runner) credentialsFrom(cmd *cli.Command) credentials {
	c := credentials{
		clientID:     cmd.String("client-id"),
		clientSecret: cmd.String("client-secret"),
		cachedAuth:   cmd.String("cached-auth"),
		accessToken:  cmd.String("access-token"),
		interactive:  true,
	}
	if c.clientID == "" {
		c.clientID = r.config.Credentials.Mixcloud.ClientID
	}
	if c.clientSecret == "" {
		c.clientSecret = r.config.Credentials.Mixcloud.ClientSecret
	}
	if c.cachedAuth == "" {
		c.cachedAuth = r.config.Paths.CachedAuth
	}
	c.cachedAuth = shared.ExpandHome(c.cachedAuth)
	return c
}

// storedToken returns the first token found in the flag, the config or the cache.
func (r *Runner) storedToken(c credentials, logger *log.Logger) string {
	if c.accessToken != "" {
		return c.accessToken
	}
	if token := r.config.Credentials.Mixcloud.AccessToken; token != "" {
		return token
	}

	cached, err := shared.LoadCachedAuth(c.cachedAuth)
	if err != nil {
		logger.Warn("Ignoring unreadable cached auth", "path", c.cachedAuth, "error", err)
		return ""
	}
	return cached.AccessToken
}

// resolveToken returns a stored token, or runs the browser flow when none exists and prompts are allowed.
func (r *Runner) resolveToken(ctx context.Context, c credentials, logger *log.Logger) (string, error) {
	if token := r.storedToken(c, logger); token != "" {
		return token, nil
	}

	if !c.interactive {
		return "", fmt.Errorf("%w: pass --access-token, browser authentication is not available in noninteractive mode",
			shared.ErrMissingCredentials)
	}
	return r.login(ctx, c, logger)
}

// login authorizes in the browser, exchanges the code and caches the token.
func (r *Runner) login(ctx context.Context, c credentials, logger *log.Logger) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("%w: specify --client-id and --client-secret or set them in %s",
			shared.ErrMissingCredentials, r.configPath)
	}

	svc := r.service("")

	r.writePlain("==> Launching browser for authentication...\n")
	result, err := r.capture(ctx, server.CaptureOpts{
		AuthURL: func(redirectURI string) string {
			return svc.AuthURL(c.clientID, redirectURI)
		},
		OpenBrowser: func(url string) error {
			if err := r.openBrowser(url); err != nil {
				r.writePlain("Open this URL to continue: %s\n", url)
				return err
			}
			return nil
		},
		Logger: logger,
	})
	if err != nil {
		return "", err
	}

	logger.Info("Received authorization code, requesting access token")
	token, err := svc.ExchangeCode(ctx, c.clientID, c.clientSecret, result.RedirectURI, result.Code)
	if err != nil {
		return "", err
	}

	if err := shared.SaveCachedAuth(c.cachedAuth, &shared.CachedAuth{AccessToken: token.AccessToken}); err != nil {
		logger.Warn("Failed to cache access token", "error", err)
	} else {
		logger.Info("Cached access token", "path", c.cachedAuth)
	}

	return token.AccessToken, nil
}

// AuthLogin runs the browser flow even if a token is already stored.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	c := r.credentialsFrom(cmd)

	token, err := r.login(ctx, c, r.logger)
	if err != nil {
		return err
	}

	if cmd.Bool("save-config") {
		r.config.Credentials.Mixcloud.AccessToken = token
		if err := shared.SaveConfig(r.configPath, r.config); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		r.writePlain("✓ Token saved to %s\n", r.configPath)
	}

	r.writePlainln("✓ Authorization successful")
	if user, err := r.service(token).Me(ctx); err == nil {
		r.writePlain("Logged in as %s (%s)\n", user.Name, user.Username)
	}
	return nil
}

// AuthStatus reports whether a stored token is accepted by the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	c := r.credentialsFrom(cmd)

	token := r.storedToken(c, r.logger)
	if token == "" {
		return r.writePlain("✗ Not authenticated (run: mixup auth login)\n")
	}

	user, err := r.service(token).Me(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrAuthFailed) {
			return r.writePlain("✗ Stored token was rejected (run: mixup auth login)\n")
		}
		return err
	}

	return r.writePlain("✓ Authenticated as %s (%s)\n", user.Name, user.Username)
}

// AuthLogout deletes the cached token. Tokens in the config file are left alone.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	c := r.credentialsFrom(cmd)

	if err := os.Remove(c.cachedAuth); err != nil {
		if os.IsNotExist(err) {
			return r.writePlain("No cached token at %s\n", c.cachedAuth)
		}
		return fmt.Errorf("failed to remove cached auth: %w", err)
	}

	if r.config.Credentials.Mixcloud.AccessToken != "" {
		r.logger.Warn("An access token is still set in the config file", "path", r.configPath)
	}
	return r.writePlain("✓ Removed %s\n", c.cachedAuth)
}
