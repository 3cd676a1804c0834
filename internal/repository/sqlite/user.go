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

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Upsert inserts a user on first login and refreshes their profile on every
// subsequent one. The uid is the natural key: a repeat login with the same
// provider identity keeps the row (and its created_at) and overwrites
// name, email, avatar and access token.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	var createdAt time.Time
	err := db.conn.QueryRowContext(ctx,
		`SELECT created_at FROM users WHERE uid = ?`, user.UID,
	).Scan(&createdAt)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user %s: %w", user.UID, err)
	}

	now := time.Now()
	user.UpdatedAt = now

	if err == nil {
		// Existing user — refresh everything the provider may have changed.
		user.CreatedAt = createdAt
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users
			 SET name = ?, email = ?, access_token = ?, avatar_url = ?,
			     source_platform = ?, updated_at = ?
			 WHERE uid = ?`,
			user.Name,
			user.Email,
			user.AccessToken,
			user.AvatarURL,
			string(user.SourcePlatform),
			user.UpdatedAt,
			user.UID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.UID, err)
		}
		return nil
	}

	user.CreatedAt = now
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (uid, name, email, access_token, avatar_url, source_platform, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.UID,
		user.Name,
		user.Email,
		user.AccessToken,
		user.AvatarURL,
		string(user.SourcePlatform),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %s: %w", user.UID, err)
	}

	return nil
}

// GetByUID retrieves a user by uid.
// Returns apperror.ErrNotFound if no user exists with that uid.
func (db *DB) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	var (
		u        model.User
		platform string
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT uid, name, email, access_token, avatar_url, source_platform, created_at, updated_at
		 FROM users WHERE uid = ?`,
		uid,
	).Scan(
		&u.UID,
		&u.Name,
		&u.Email,
		&u.AccessToken,
		&u.AvatarURL,
		&platform,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", uid)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", uid, err)
	}

	u.SourcePlatform = model.Platform(platform)
	return &u, nil
}
