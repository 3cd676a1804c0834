package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/contributor-cards/internal/apperror"
	"github.com/sakif/contributor-cards/internal/model"
	"github.com/sakif/contributor-cards/internal/repository"
	"github.com/sakif/contributor-cards/internal/schema"
)

// CardService handles owner-scoped card CRUD. Every operation takes the
// authenticated caller's uid and never trusts an ownership claim from the
// request body: userId is always forced, and mutations resolve through
// (cardId, caller) so foreign cards are indistinguishable from absent ones.
type CardService struct {
	cards  repository.CardRepository
	logger *slog.Logger
}

// NewCardService creates a CardService.
func NewCardService(cards repository.CardRepository, logger *slog.Logger) *CardService {
	return &CardService{
		cards:  cards,
		logger: logger,
	}
}

// List returns the caller's cards. requestedUserID is the legacy ?userId=
// query parameter; when present it must name the caller, otherwise the
// request is refused rather than answered with someone else's cards.
func (s *CardService) List(ctx context.Context, callerUID, requestedUserID string) ([]model.Card, error) {
	if requestedUserID != "" && requestedUserID != callerUID {
		return nil, apperror.Forbidden("cannot list another user's cards")
	}

	cards, err := s.cards.ListByUser(ctx, callerUID)
	if err != nil {
		s.logger.Error("failed to list cards",
			slog.String("uid", callerUID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing cards for %s: %w", callerUID, err)
	}

	return cards, nil
}

// Create validates and persists a new card owned by the caller. The
// schema assigns a UUID when the client sent no cardId; any client-supplied
// userId is overwritten before validation.
func (s *CardService) Create(ctx context.Context, callerUID string, card *model.Card) (*model.Card, error) {
	card.UserID = callerUID

	if err := schema.ValidateCard(card); err != nil {
		return nil, err
	}

	if err := s.cards.Create(ctx, card); err != nil {
		s.logger.Error("failed to create card",
			slog.String("cardID", card.CardID),
			slog.String("uid", callerUID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating card: %w", err)
	}

	s.logger.Info("card created",
		slog.String("cardID", card.CardID),
		slog.String("uid", callerUID),
	)

	return card, nil
}

// Update applies a partial update to the caller's card: only fields present
// in the patch change, and the merged record is validated as a whole before
// anything is written. A card owned by someone else surfaces as not found.
func (s *CardService) Update(ctx context.Context, callerUID, cardID string, patch model.CardPatch) (*model.Card, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, apperror.ValidationFailed("cardId", "cardId is required")
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.UserID != callerUID {
		// Ownership folds into the lookup: not yours reads as absent.
		return nil, apperror.NotFound("card", cardID)
	}

	if patch.OpenAIEndpoint != nil {
		card.OpenAIEndpoint = *patch.OpenAIEndpoint
	}
	if patch.APIModel != nil {
		card.APIModel = *patch.APIModel
	}
	if patch.APIKey != nil {
		card.APIKey = *patch.APIKey
	}
	if patch.RepoURL != nil {
		card.RepoURL = *patch.RepoURL
	}
	if patch.Disabled != nil {
		card.Disabled = *patch.Disabled
	}

	if err := schema.ValidateCard(card); err != nil {
		return nil, err
	}

	if err := s.cards.Update(ctx, card); err != nil {
		s.logger.Error("failed to update card",
			slog.String("cardID", cardID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("card updated",
		slog.String("cardID", cardID),
		slog.String("uid", callerUID),
	)

	return card, nil
}

// Delete removes the caller's card. Deleting a card that never existed,
// was already deleted, or belongs to someone else all report not found.
func (s *CardService) Delete(ctx context.Context, callerUID, cardID string) error {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return apperror.ValidationFailed("cardId", "cardId is required")
	}

	if err := s.cards.Delete(ctx, cardID, callerUID); err != nil {
		return err
	}

	s.logger.Info("card deleted",
		slog.String("cardID", cardID),
		slog.String("uid", callerUID),
	)
	return nil
}

// GetForInternal looks a card up by id with no ownership filter. Only the
// time-token-gated internal endpoint calls this.
func (s *CardService) GetForInternal(ctx context.Context, cardID string) (*model.Card, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, apperror.ValidationFailed("cardId", "cardId is required")
	}
	return s.cards.GetByID(ctx, cardID)
}
