package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/models"
	"github.com/soderalohastrom/merge-youtube-playlist-organizer/internal/shared"
)

// SessionRepository persists [models.Session] records. At most one session
// exists per user; the user_id column carries a unique constraint so a
// re-login replaces rather than duplicates.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session with a generated ID. An existing session for
// the same user is replaced.
func (r *SessionRepository) Create(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	session.SetID(id)

	query := `
		INSERT INTO sessions (id, user_id, email, access_token, refresh_token, provider, expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email = excluded.email,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			provider = excluded.provider,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		id, session.UserID(), session.Email(), session.AccessToken(), session.RefreshToken(),
		session.Provider(), session.Expiry(), session.CreatedAt(), session.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := `
		SELECT id, user_id, email, access_token, refresh_token, provider, expiry, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByUserID retrieves the session of a specific user.
func (r *SessionRepository) GetByUserID(userID string) (*models.Session, error) {
	query := `
		SELECT id, user_id, email, access_token, refresh_token, provider, expiry, created_at, updated_at
		FROM sessions
		WHERE user_id = ?
	`
	return r.scanOne(r.db.QueryRow(query, userID))
}

// Latest retrieves the most recently updated session, used to restore
// sign-in state on startup.
func (r *SessionRepository) Latest() (*models.Session, error) {
	query := `
		SELECT id, user_id, email, access_token, refresh_token, provider, expiry, created_at, updated_at
		FROM sessions
		ORDER BY updated_at DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(query))
}

// Update rewrites the mutable fields of an existing session.
func (r *SessionRepository) Update(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	session.SetUpdatedAt(now)

	query := `
		UPDATE sessions
		SET email = ?, access_token = ?, refresh_token = ?, provider = ?, expiry = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		session.Email(), session.AccessToken(), session.RefreshToken(),
		session.Provider(), session.Expiry(), now, session.ID())
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, session.ID())
	}

	return nil
}

// Delete removes a session by ID.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}

	return nil
}

// DeleteByUserID removes the session of a specific user. Deleting a user
// without a session is not an error; sign-out is idempotent.
func (r *SessionRepository) DeleteByUserID(userID string) error {
	if _, err := r.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) scanOne(row *sql.Row) (*models.Session, error) {
	var (
		id           string
		userID       string
		email        string
		accessToken  string
		refreshToken string
		provider     string
		expiry       sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&id, &userID, &email, &accessToken, &refreshToken, &provider, &expiry, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session := models.NewSession(userID, email, accessToken, refreshToken, time.Time{})
	session.SetID(id)
	session.SetProvider(provider)
	session.SetCreatedAt(createdAt)
	session.SetUpdatedAt(updatedAt)
	if expiry.Valid {
		session.SetExpiry(expiry.Time)
	}

	return session, nil
}
