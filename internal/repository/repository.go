// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/contributor-cards/internal/model"
)

// UserRepository persists OAuth-resolved user accounts, keyed by uid.
type UserRepository interface {
	// Upsert creates the user if no record with the same uid exists,
	// otherwise overwrites name, email, avatar and access token while
	// preserving uid and createdAt. Timestamps are filled in on the
	// passed struct.
	Upsert(ctx context.Context, user *model.User) error
	GetByUID(ctx context.Context, uid string) (*model.User, error)
}

// CardRepository persists cards. Mutating operations are keyed by
// (cardId, userId) so ownership is enforced by the lookup filter itself:
// a card that exists but belongs to someone else behaves as not found.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	// GetByID looks a card up by cardId alone. Only the internal
	// time-token endpoint may use it; everything user-facing goes
	// through the owner-scoped methods.
	GetByID(ctx context.Context, cardID string) (*model.Card, error)
	ListByUser(ctx context.Context, userID string) ([]model.Card, error)
	Update(ctx context.Context, card *model.Card) error
	Delete(ctx context.Context, cardID, userID string) error
}
