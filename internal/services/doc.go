// Package services defines the [Service] interface for mix hosting platforms and implements it for Mixcloud.
//
// # Service Interface
//
// The upload command only depends on [Service] so tests can swap in a fake.
// [OAuthService] adds the authorization code flow on top.
//
// # Mixcloud Implementation
//
// [Mixcloud] passes the access token as an access_token query parameter, which is how the Mixcloud API
// authenticates requests. The authorization URL comes from [oauth2.Config.AuthCodeURL], but the code exchange
// is a plain GET because the token endpoint doesn't follow the form-POST exchange of RFC 6749.
//
// Uploads are multipart POSTs to /upload/ with the fields:
//   - mp3, picture: files
//   - name, description
//   - tags-<i>-tag
//   - sections-<i>-artist, sections-<i>-song, sections-<i>-start_time
//
// Listing cloudcasts follows paging.next links, throttled with a [rate.Limiter].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no access token set
//   - [shared.ErrAuthFailed] : token exchange failed or token rejected, as [AuthError]
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
package services
