// Package service contains the business logic layer: the handlers parse
// HTTP and the repositories speak SQL, everything in between lives here.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/contributor-cards/internal/auth"
	"github.com/sakif/contributor-cards/internal/model"
	"github.com/sakif/contributor-cards/internal/repository"
	"github.com/sakif/contributor-cards/internal/schema"
)

// AuthService orchestrates the back half of the OAuth flow: after the
// handler has verified the CSRF state and extracted the code, this service
// exchanges it, resolves the local user, and issues the session credential.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// CompleteLogin runs the provider exchange for an authorization code and
// returns the upserted local user plus a signed session token.
//
// Exactly one user write happens per successful login: create on first
// sight of this provider identity, otherwise a profile/token refresh that
// preserves the uid.
func (s *AuthService) CompleteLogin(ctx context.Context, provider auth.Provider, code string) (*model.User, string, error) {
	accessToken, err := provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("completing %s login: %w", provider.Platform(), err)
	}

	profile, err := provider.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s profile: %w", provider.Platform(), err)
	}

	user := &model.User{
		UID:            auth.UID(provider.Platform(), profile.ID),
		Name:           profile.Name,
		Email:          profile.Email,
		AccessToken:    accessToken,
		AvatarURL:      profile.AvatarURL,
		SourcePlatform: provider.Platform(),
	}

	if err := schema.ValidateUser(user); err != nil {
		return nil, "", fmt.Errorf("validating %s profile: %w", provider.Platform(), err)
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		s.logger.Error("failed to upsert user",
			slog.String("uid", user.UID),
			slog.String("error", err.Error()),
		)
		return nil, "", fmt.Errorf("upserting user %s: %w", user.UID, err)
	}

	sessionToken, err := s.tokens.Generate(user.UID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing session token: %w", err)
	}

	s.logger.Info("user authenticated",
		slog.String("uid", user.UID),
		slog.String("platform", string(user.SourcePlatform)),
	)

	return user, sessionToken, nil
}

// PublicProfile returns the public projection of the user with this uid.
func (s *AuthService) PublicProfile(ctx context.Context, uid string) (*model.PublicUser, error) {
	user, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}
