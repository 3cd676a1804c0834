package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/sakif/contributor-cards/internal/apperror"
	"github.com/sakif/contributor-cards/internal/model"
)

// mockCardRepo is an in-memory CardRepository with the same ownership
// semantics as the sqlite implementation.
type mockCardRepo struct {
	cards     map[string]*model.Card
	createErr error
	updateErr error
}

func newMockCardRepo() *mockCardRepo {
	return &mockCardRepo{cards: make(map[string]*model.Card)}
}

func (m *mockCardRepo) Create(ctx context.Context, card *model.Card) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *card
	m.cards[card.CardID] = &copied
	return nil
}

func (m *mockCardRepo) GetByID(ctx context.Context, cardID string) (*model.Card, error) {
	card, ok := m.cards[cardID]
	if !ok {
		return nil, apperror.NotFound("card", cardID)
	}
	copied := *card
	return &copied, nil
}

func (m *mockCardRepo) ListByUser(ctx context.Context, userID string) ([]model.Card, error) {
	result := []model.Card{}
	for _, card := range m.cards {
		if card.UserID == userID {
			result = append(result, *card)
		}
	}
	return result, nil
}

func (m *mockCardRepo) Update(ctx context.Context, card *model.Card) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.cards[card.CardID]
	if !ok || existing.UserID != card.UserID {
		return apperror.NotFound("card", card.CardID)
	}
	copied := *card
	m.cards[card.CardID] = &copied
	return nil
}

func (m *mockCardRepo) Delete(ctx context.Context, cardID, userID string) error {
	existing, ok := m.cards[cardID]
	if !ok || existing.UserID != userID {
		return apperror.NotFound("card", cardID)
	}
	delete(m.cards, cardID)
	return nil
}

func validCard() *model.Card {
	return &model.Card{
		OpenAIEndpoint: "https://api.openai.com/v1",
		APIModel:       "gpt-4o",
		APIKey:         "sk-test-key",
		RepoURL:        "https://github.com/octocat/hello-world",
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreate_AssignsOwnerAndID(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	card := validCard()
	card.UserID = "github:999" // client-supplied owner must be ignored

	created, err := svc.Create(context.Background(), "github:42", card)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.UserID != "github:42" {
		t.Errorf("UserID = %q, want the caller's uid", created.UserID)
	}
	if _, err := uuid.Parse(created.CardID); err != nil {
		t.Errorf("CardID %q is not a UUID: %v", created.CardID, err)
	}
}

func TestCreate_InvalidRepoURL(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	card := validCard()
	card.RepoURL = "https://gitlab.com/owner/repo"

	_, err := svc.Create(context.Background(), "github:42", card)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Create() error = %v, want validation failure", err)
	}
	if len(repo.cards) != 0 {
		t.Error("invalid card reached the repository")
	}
}

func TestList_OwnCards(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	if _, err := svc.Create(context.Background(), "github:42", validCard()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(context.Background(), "github:7", validCard()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	cards, err := svc.List(context.Background(), "github:42", "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("List() returned %d cards, want 1", len(cards))
	}
	if cards[0].UserID != "github:42" {
		t.Errorf("listed card belongs to %q", cards[0].UserID)
	}
}

func TestList_ExplicitOwnUserID(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	if _, err := svc.List(context.Background(), "github:42", "github:42"); err != nil {
		t.Fatalf("List() with own userId error = %v", err)
	}
}

func TestList_ForeignUserIDForbidden(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	_, err := svc.List(context.Background(), "github:42", "github:7")
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("List() error = %v, want forbidden", err)
	}
}

func TestUpdate_MergesPatch(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	created, err := svc.Create(context.Background(), "github:42", validCard())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(context.Background(), "github:42", created.CardID, model.CardPatch{
		APIModel: strPtr("gpt-4o-mini"),
		Disabled: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.APIModel != "gpt-4o-mini" {
		t.Errorf("APIModel = %q, want patched value", updated.APIModel)
	}
	if !updated.Disabled {
		t.Error("Disabled not patched")
	}
	// Untouched fields survive the merge.
	if updated.APIKey != "sk-test-key" {
		t.Errorf("APIKey = %q, want original value", updated.APIKey)
	}
	if updated.RepoURL != "https://github.com/octocat/hello-world" {
		t.Errorf("RepoURL = %q, want original value", updated.RepoURL)
	}
}

func TestUpdate_InvalidMergeRejected(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	created, err := svc.Create(context.Background(), "github:42", validCard())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Update(context.Background(), "github:42", created.CardID, model.CardPatch{
		RepoURL: strPtr("not a url"),
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Update() error = %v, want validation failure", err)
	}

	// The stored card is unchanged.
	stored := repo.cards[created.CardID]
	if stored.RepoURL != "https://github.com/octocat/hello-world" {
		t.Errorf("stored RepoURL = %q after rejected update", stored.RepoURL)
	}
}

func TestUpdate_ForeignCardNotFound(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	created, err := svc.Create(context.Background(), "github:7", validCard())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Update(context.Background(), "github:42", created.CardID, model.CardPatch{
		Disabled: boolPtr(true),
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Update() on foreign card error = %v, want not found", err)
	}

	// No side effects on the real owner's card.
	if repo.cards[created.CardID].Disabled {
		t.Error("foreign update modified the card")
	}
}

func TestUpdate_MissingCardID(t *testing.T) {
	svc := NewCardService(newMockCardRepo(), discardLogger())

	_, err := svc.Update(context.Background(), "github:42", "  ", model.CardPatch{})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Update() error = %v, want validation failure", err)
	}
}

func TestDelete_ForeignCardNotFound(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	created, err := svc.Create(context.Background(), "github:7", validCard())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err = svc.Delete(context.Background(), "github:42", created.CardID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Delete() on foreign card error = %v, want not found", err)
	}
	if _, ok := repo.cards[created.CardID]; !ok {
		t.Error("foreign delete removed the card")
	}
}

func TestGetForInternal_NoOwnershipFilter(t *testing.T) {
	repo := newMockCardRepo()
	svc := NewCardService(repo, discardLogger())

	created, err := svc.Create(context.Background(), "github:7", validCard())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	card, err := svc.GetForInternal(context.Background(), created.CardID)
	if err != nil {
		t.Fatalf("GetForInternal() error = %v", err)
	}
	if card.APIKey != "sk-test-key" {
		t.Errorf("APIKey = %q, internal lookup must include the key", card.APIKey)
	}
}

func TestGetForInternal_Missing(t *testing.T) {
	svc := NewCardService(newMockCardRepo(), discardLogger())

	_, err := svc.GetForInternal(context.Background(), uuid.NewString())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetForInternal() error = %v, want not found", err)
	}
}
