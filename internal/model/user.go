// Package model defines the data structures used throughout the application.
package model

import "time"

// Platform identifies which OAuth provider a user came from. The string
// values are wire-level: they appear in uid prefixes, the database, and
// JSON payloads, so they must never change once users exist.
type Platform string

const (
	PlatformGitHub  Platform = "github"
	PlatformOhMyGPT Platform = "ohmygpt"
)

// Valid reports whether p is one of the known provider platforms.
func (p Platform) Valid() bool {
	return p == PlatformGitHub || p == PlatformOhMyGPT
}

// DefaultAvatarURL is used when a provider has no avatar concept (OhMyGPT).
const DefaultAvatarURL = "https://avatars.githubusercontent.com/in/907205"

// User represents an account resolved from a third-party OAuth identity.
//
// UID is our own stable identifier, "<platform>:<providerUserId>"
// (e.g. "github:42"). Building it from the provider's id means a user who
// logs in twice always resolves to the same record, and the same numeric id
// on two different platforms never collides.
//
// AccessToken is the provider's OAuth token. It is a secret: the struct
// carries `json:"-"` on it so it can never leak through an API response.
// Handlers that need a client-facing view use PublicUser.
type User struct {
	UID            string    `json:"uid"            db:"uid"`
	Name           string    `json:"name"           db:"name"`
	Email          string    `json:"email"          db:"email"` // may be empty if the provider hides it
	AccessToken    string    `json:"-"              db:"access_token"`
	AvatarURL      string    `json:"avatarUrl"      db:"avatar_url"`
	SourcePlatform Platform  `json:"sourcePlatform" db:"source_platform"`
	CreatedAt      time.Time `json:"createdAt"      db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt"      db:"updated_at"`
}

// PublicUser is the externally visible projection of User — everything
// except the provider access token.
type PublicUser struct {
	UID            string   `json:"uid"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	AvatarURL      string   `json:"avatarUrl"`
	SourcePlatform Platform `json:"sourcePlatform"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		UID:            u.UID,
		Name:           u.Name,
		Email:          u.Email,
		AvatarURL:      u.AvatarURL,
		SourcePlatform: u.SourcePlatform,
	}
}
