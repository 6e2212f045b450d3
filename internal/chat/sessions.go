package chat

import (
	"context"
	"database/sql"
	"time"

	"govportal/internal/common/errors"
	"govportal/internal/common/logger"
	"govportal/internal/models"

	"github.com/google/uuid"
)

// SessionStore records assistant conversations.
type SessionStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(db *sql.DB, log logger.Logger) *SessionStore {
	return &SessionStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"repository": "chat_sessions"}),
	}
}

// Create opens a new session for a user. Session failures must never break
// the chat reply itself, so callers treat errors as advisory.
func (s *SessionStore) Create(ctx context.Context, userID int64, language models.Language) (*models.ChatSession, error) {
	sessionID := uuid.New().String()

	var id int64
	var createdAt time.Time
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_sessions (user_id, session_id, language, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		userID, sessionID, language, models.ChatActive,
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}

	return &models.ChatSession{
		ID:        id,
		UserID:    userID,
		SessionID: sessionID,
		Language:  language,
		Status:    models.ChatActive,
		CreatedAt: createdAt,
	}, nil
}
