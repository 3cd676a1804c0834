// Package schema holds the validation rules shared by every writer of card
// and user records: the card service, the OAuth callback, and the tests all
// validate through here, so the constraints live in exactly one place.
//
// The rules are deliberately strict and deliberately dumb — fixed length
// caps and one regexp. The repoUrl pattern is the contract with the linked
// repository service, which parses owner/repo back out of it.
package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/contributor-cards/internal/apperror"
	"github.com/sakif/contributor-cards/internal/model"
)

const (
	// MaxFieldLength caps every card string field and most user fields.
	MaxFieldLength = 100
	// MaxTokenLength caps the stored provider access token.
	MaxTokenLength = 200
)

// githubRepoURLPattern accepts http(s)://github.com/<owner>/<repo> with an
// optional trailing slash. Owner and repo are word characters and hyphens,
// matching what the downstream repository service can resolve.
var githubRepoURLPattern = regexp.MustCompile(`^https?://github\.com/[\w-]+/[\w-]+/?$`)

// ValidGitHubRepoURL reports whether s looks like a GitHub repository URL.
func ValidGitHubRepoURL(s string) bool {
	return githubRepoURLPattern.MatchString(s)
}

// validHTTPURL reports whether s parses as an absolute http(s) URL.
func validHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateCard checks a complete card record against the schema and fills
// in server-side defaults: a missing cardId gets a fresh UUID. It does NOT
// touch userId beyond requiring it — ownership is forced by the service.
func ValidateCard(card *model.Card) error {
	if card.CardID == "" {
		card.CardID = uuid.NewString()
	}
	if len(card.CardID) > MaxFieldLength {
		return apperror.ValidationFailed("cardId", fieldTooLong("cardId"))
	}
	if _, err := uuid.Parse(card.CardID); err != nil {
		return apperror.ValidationFailed("cardId", "cardId must be a UUID")
	}

	if card.UserID == "" {
		return apperror.ValidationFailed("userId", "userId is required")
	}
	if len(card.UserID) > MaxFieldLength {
		return apperror.ValidationFailed("userId", fieldTooLong("userId"))
	}

	card.OpenAIEndpoint = strings.TrimSpace(card.OpenAIEndpoint)
	if card.OpenAIEndpoint == "" {
		return apperror.ValidationFailed("openaiEndpoint", "openaiEndpoint is required")
	}
	if len(card.OpenAIEndpoint) > MaxFieldLength {
		return apperror.ValidationFailed("openaiEndpoint", fieldTooLong("openaiEndpoint"))
	}
	if !validHTTPURL(card.OpenAIEndpoint) {
		return apperror.ValidationFailed("openaiEndpoint", "openaiEndpoint must be a valid URL")
	}

	if card.APIModel == "" {
		return apperror.ValidationFailed("apiModel", "apiModel is required")
	}
	if len(card.APIModel) > MaxFieldLength {
		return apperror.ValidationFailed("apiModel", fieldTooLong("apiModel"))
	}

	if card.APIKey == "" {
		return apperror.ValidationFailed("apiKey", "apiKey is required")
	}
	if len(card.APIKey) > MaxFieldLength {
		return apperror.ValidationFailed("apiKey", fieldTooLong("apiKey"))
	}

	card.RepoURL = strings.TrimSpace(card.RepoURL)
	if card.RepoURL == "" {
		return apperror.ValidationFailed("repoUrl", "repoUrl is required")
	}
	if len(card.RepoURL) > MaxFieldLength {
		return apperror.ValidationFailed("repoUrl", fieldTooLong("repoUrl"))
	}
	if !ValidGitHubRepoURL(card.RepoURL) {
		return apperror.ValidationFailed("repoUrl", "repoUrl must be a valid GitHub repository URL")
	}

	return nil
}

// ValidateUser checks a user record before it is persisted by the OAuth
// callback. Email is optional (providers may hide it); an empty avatar
// falls back to the default.
func ValidateUser(user *model.User) error {
	if user.UID == "" {
		return apperror.ValidationFailed("uid", "uid is required")
	}
	if len(user.UID) > MaxFieldLength {
		return apperror.ValidationFailed("uid", fieldTooLong("uid"))
	}
	if user.Name == "" {
		return apperror.ValidationFailed("name", "name is required")
	}
	if len(user.Name) > MaxFieldLength {
		return apperror.ValidationFailed("name", fieldTooLong("name"))
	}
	if user.AccessToken == "" {
		return apperror.ValidationFailed("accessToken", "accessToken is required")
	}
	if len(user.AccessToken) > MaxTokenLength {
		return apperror.ValidationFailed("accessToken", "accessToken must be 200 characters or less")
	}
	if !user.SourcePlatform.Valid() {
		return apperror.ValidationFailed("sourcePlatform",
			fmt.Sprintf("unknown source platform %q", user.SourcePlatform))
	}
	if user.AvatarURL == "" {
		user.AvatarURL = model.DefaultAvatarURL
	}
	return nil
}

func fieldTooLong(field string) string {
	return fmt.Sprintf("%s must be %d characters or less", field, MaxFieldLength)
}
