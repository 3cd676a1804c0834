package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/contributor-cards/internal/apperror"
	"github.com/sakif/contributor-cards/internal/model"
	"github.com/sakif/contributor-cards/internal/repository"
)

// compile-time check that *DB implements repository.CardRepository
var _ repository.CardRepository = (*DB)(nil)

// Create inserts a new card. The service has already validated the record
// and assigned card_id, so a primary key violation here means a genuine
// duplicate and surfaces as a conflict.
func (db *DB) Create(ctx context.Context, card *model.Card) error {
	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO cards (card_id, user_id, openai_endpoint, api_model, api_key, repo_url, disabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.CardID,
		card.UserID,
		card.OpenAIEndpoint,
		card.APIModel,
		card.APIKey,
		card.RepoURL,
		card.Disabled,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating card %s: %w", card.CardID, err)
	}

	return nil
}

// GetByID retrieves a card by cardId alone, with no owner filter. Reserved
// for the internal time-token endpoint.
func (db *DB) GetByID(ctx context.Context, cardID string) (*model.Card, error) {
	card, err := db.scanCard(db.conn.QueryRowContext(ctx,
		selectCard+` WHERE card_id = ?`, cardID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("card", cardID)
		}
		return nil, fmt.Errorf("sqlite: getting card %s: %w", cardID, err)
	}
	return card, nil
}

// ListByUser returns all cards owned by userID, newest first.
func (db *DB) ListByUser(ctx context.Context, userID string) ([]model.Card, error) {
	rows, err := db.conn.QueryContext(ctx,
		selectCard+` WHERE user_id = ? ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing cards for %s: %w", userID, err)
	}
	defer rows.Close()

	cards := []model.Card{}
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(
			&c.CardID, &c.UserID, &c.OpenAIEndpoint, &c.APIModel,
			&c.APIKey, &c.RepoURL, &c.Disabled, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning card row: %w", err)
		}
		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating cards: %w", err)
	}

	return cards, nil
}

// Update overwrites a card's mutable fields. The WHERE clause matches both
// card_id AND user_id, so updating someone else's card affects zero rows
// and reports not found — the ownership check is the lookup filter.
func (db *DB) Update(ctx context.Context, card *model.Card) error {
	card.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE cards
		 SET openai_endpoint = ?, api_model = ?, api_key = ?, repo_url = ?, disabled = ?, updated_at = ?
		 WHERE card_id = ? AND user_id = ?`,
		card.OpenAIEndpoint,
		card.APIModel,
		card.APIKey,
		card.RepoURL,
		card.Disabled,
		card.UpdatedAt,
		card.CardID,
		card.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating card %s: %w", card.CardID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("card", card.CardID)
	}

	return nil
}

// Delete removes a card scoped to its owner. Same RowsAffected pattern as
// Update: zero rows deleted means not found (or not yours — indistinguishable
// on purpose).
func (db *DB) Delete(ctx context.Context, cardID, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM cards WHERE card_id = ? AND user_id = ?`,
		cardID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting card %s: %w", cardID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("card", cardID)
	}

	return nil
}

const selectCard = `SELECT card_id, user_id, openai_endpoint, api_model, api_key, repo_url, disabled, created_at, updated_at FROM cards`

func (db *DB) scanCard(row *sql.Row) (*model.Card, error) {
	var c model.Card
	err := row.Scan(
		&c.CardID, &c.UserID, &c.OpenAIEndpoint, &c.APIModel,
		&c.APIKey, &c.RepoURL, &c.Disabled, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
