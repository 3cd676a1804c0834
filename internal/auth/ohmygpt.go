package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sakif/contributor-cards/internal/model"
)

// OhMyGPT endpoint defaults. The platform is OAuth-shaped but not
// OAuth-standard: the token lives at data.token in the token response, and
// the user-info call is a POST.
const (
	ohmygptAuthorizeURL = "https://next.ohmygpt.com/next/v1/oauth"
	ohmygptTokenURL     = "https://cn2us02.opapi.win/api/v1/user/oauth/issue-token"
	ohmygptUserURL      = "https://cn2us02.opapi.win/api/v1/user/oauth/app/query-user-basic-info"
)

// OhMyGPTProvider implements Provider for the OhMyGPT platform. Because
// the token response is non-standard, the exchange is a hand-rolled POST
// rather than x/oauth2.
type OhMyGPTProvider struct {
	clientID     string
	clientSecret string
	callbackURL  string

	authorizeURL string
	tokenURL     string
	userURL      string
}

// NewOhMyGPTProvider creates an OhMyGPTProvider with the given OAuth app
// credentials.
func NewOhMyGPTProvider(clientID, clientSecret, callbackURL string) *OhMyGPTProvider {
	return &OhMyGPTProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		callbackURL:  callbackURL,
		authorizeURL: ohmygptAuthorizeURL,
		tokenURL:     ohmygptTokenURL,
		userURL:      ohmygptUserURL,
	}
}

func (p *OhMyGPTProvider) Platform() model.Platform {
	return model.PlatformOhMyGPT
}

// AuthURL returns the OhMyGPT authorization URL. Unlike GitHub, the
// response_type and scope parameters are explicit here.
func (p *OhMyGPTProvider) AuthURL(state string) string {
	q := url.Values{
		"response_type": {"code"},
		"client_id":     {p.clientID},
		"redirect_uri":  {p.callbackURL},
		"scope":         {"general_api_access"},
		"state":         {state},
	}
	return p.authorizeURL + "?" + q.Encode()
}

// ohmygptTokenResponse wraps the token at data.token.
type ohmygptTokenResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// ohmygptUserResponse carries the user id and email at data.*. OhMyGPT has
// no display-name field; the local part of the email serves as the name.
type ohmygptUserResponse struct {
	Data struct {
		UserID    json.Number `json:"userId"`
		UserEmail string      `json:"userEmail"`
	} `json:"data"`
}

// ExchangeCode POSTs the code to the issue-token endpoint and pulls the
// access token out of the non-standard envelope.
func (p *OhMyGPTProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     p.clientID,
		"client_secret": p.clientSecret,
		"code":          code,
	})
	if err != nil {
		return "", fmt.Errorf("auth: encoding OhMyGPT token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("auth: building OhMyGPT token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := oauthHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth: calling OhMyGPT token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth: OhMyGPT token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResp ohmygptTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("auth: decoding OhMyGPT token response: %w", err)
	}
	if tokenResp.Data.Token == "" {
		return "", fmt.Errorf("auth: OhMyGPT returned no access token")
	}

	return tokenResp.Data.Token, nil
}

// FetchProfile POSTs to the query-user-basic-info endpoint (OhMyGPT's
// user-info call is a POST, not a GET).
func (p *OhMyGPTProvider) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.userURL, strings.NewReader("{}"))
	if err != nil {
		return nil, fmt.Errorf("auth: building OhMyGPT user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := oauthHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling OhMyGPT user endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: OhMyGPT user endpoint returned status %d", resp.StatusCode)
	}

	var userResp ohmygptUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&userResp); err != nil {
		return nil, fmt.Errorf("auth: decoding OhMyGPT user response: %w", err)
	}

	id := userResp.Data.UserID.String()
	if id == "" {
		return nil, fmt.Errorf("auth: OhMyGPT returned no user id")
	}

	email := userResp.Data.UserEmail
	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}

	return &Profile{
		ID:    id,
		Name:  name,
		Email: email,
		// OhMyGPT has no avatars; schema.ValidateUser fills the default.
	}, nil
}
