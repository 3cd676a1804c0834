// Package auth provides the OAuth provider strategies, the JWT session
// credential, the authentication middleware, and the internal HMAC
// time-token.
package auth

import (
	"context"

	"github.com/sakif/contributor-cards/internal/model"
)

// Profile is the provider-agnostic result of a completed OAuth exchange:
// the stable provider-side user id plus whatever profile data the provider
// exposes.
type Profile struct {
	ID        string // provider's stable user id ("42")
	Name      string
	Email     string // empty when the provider hides it
	AvatarURL string // empty when the provider has no avatars
}

// Provider abstracts one OAuth identity source. GitHub and OhMyGPT differ
// in two ways — the shape of the token response and the method of the
// user-info call — so each gets its own implementation instead of ad hoc
// branching in the callback handler.
type Provider interface {
	// Platform identifies this provider; its value prefixes uids.
	Platform() model.Platform

	// AuthURL returns the provider's authorization URL carrying our
	// client id, the registered callback, and the CSRF state.
	AuthURL(state string) string

	// ExchangeCode trades the authorization code for an access token
	// via a server-to-server call to the provider's token endpoint.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// FetchProfile calls the provider's user-info endpoint with the
	// access token. Implementations must guarantee Profile.ID is
	// non-empty or return an error.
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// UID builds the local user identifier from a provider identity:
// "<platform>:<providerUserId>", e.g. "github:42".
func UID(platform model.Platform, providerUserID string) string {
	return string(platform) + ":" + providerUserID
}
