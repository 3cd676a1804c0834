package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/sakif/contributor-cards/internal/model"
)

// githubUser is the portion of the GitHub /user API response we care about.
// GitHub returns a much larger object — we only unmarshal what we need.
type githubUser struct {
	ID    int64  `json:"id"`    // numeric id — stable, never changes
	Login string `json:"login"` // username, e.g. "sakif"
	Name  string `json:"name"`  // display name, may be empty
	Email string `json:"email"` // primary email, empty if hidden
}

// GitHubProvider implements Provider for the GitHub Authorization Code
// flow, delegating the code-for-token exchange to golang.org/x/oauth2.
type GitHubProvider struct {
	config *oauth2.Config

	// userURL is the user-info endpoint; tests point it at an httptest
	// server.
	userURL string
}

const githubUserURL = "https://api.github.com/user"

// NewGitHubProvider creates a GitHubProvider with the given OAuth app
// credentials. callbackURL must exactly match the app's registered
// authorization callback URL.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		userURL: githubUserURL,
	}
}

func (p *GitHubProvider) Platform() model.Platform {
	return model.PlatformGitHub
}

// AuthURL returns the GitHub authorization URL for this login attempt.
// The state is our CSRF nonce; GitHub echoes it back on callback.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ExchangeCode trades the authorization code for an access token.
// GitHub's token response is standard OAuth JSON, so x/oauth2 parses it.
func (p *GitHubProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("auth: exchanging GitHub code: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("auth: GitHub returned an empty access token")
	}
	return token.AccessToken, nil
}

// FetchProfile calls GET /user with the access token.
func (p *GitHubProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building GitHub /user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := oauthHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}
	if ghUser.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (id = 0)")
	}

	// The display name is optional on GitHub; fall back to the login.
	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}

	id := strconv.FormatInt(ghUser.ID, 10)
	return &Profile{
		ID:        id,
		Name:      name,
		Email:     ghUser.Email,
		AvatarURL: "https://avatars.githubusercontent.com/u/" + id,
	}, nil
}

// oauthHTTPClient bounds every outbound provider call. A provider that
// hangs should fail the login, not hold a handler goroutine forever.
var oauthHTTPClient = &http.Client{Timeout: 10 * time.Second}
