package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"govportal/internal/common/errors"
	"govportal/internal/common/logger"
	"govportal/internal/common/metrics"
	"govportal/internal/models"
	"govportal/internal/realtime"
)

// ComplaintRepository persists citizen complaints and notifies the filing
// user's live connections on creation.
type ComplaintRepository struct {
	db        *sql.DB
	publisher Publisher
	logger    logger.Logger
}

// NewComplaintRepository creates a ComplaintRepository. publisher may be nil.
func NewComplaintRepository(db *sql.DB, publisher Publisher, log logger.Logger) *ComplaintRepository {
	return &ComplaintRepository{
		db:        db,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"repository": "complaints"}),
	}
}

// Submit files a complaint with initial status open and publishes a
// complaint_created event to the user.
func (r *ComplaintRepository) Submit(ctx context.Context, userID int64, subject, description string) (*models.Complaint, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, errors.NewMissingFieldError("subject")
	}
	if strings.TrimSpace(description) == "" {
		return nil, errors.NewMissingFieldError("description")
	}

	var id int64
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO complaints (user_id, subject, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		userID, subject, description, models.ComplaintOpen,
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}

	complaint := &models.Complaint{
		ID:          id,
		UserID:      userID,
		Subject:     subject,
		Description: description,
		Status:      models.ComplaintOpen,
		CreatedAt:   createdAt,
	}

	metrics.ComplaintsFiled.Inc()
	r.logger.Info("Complaint filed", map[string]interface{}{
		"complaint_id": id,
		"user_id":      userID,
	})

	if r.publisher != nil {
		r.publisher.Publish(userID, realtime.EventComplaintCreated, complaint)
	}
	return complaint, nil
}

// ListForUser returns a user's complaints newest first.
func (r *ComplaintRepository) ListForUser(ctx context.Context, userID int64) ([]models.Complaint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, subject, COALESCE(description, ''), status, COALESCE(assigned_officer, ''), created_at
		FROM complaints
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	defer rows.Close()

	var out []models.Complaint
	for rows.Next() {
		var c models.Complaint
		if err := rows.Scan(&c.ID, &c.UserID, &c.Subject, &c.Description, &c.Status, &c.AssignedOfficer, &c.CreatedAt); err != nil {
			return nil, errors.NewStorageError(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(err)
	}
	return out, nil
}

// CountForUser returns how many complaints a user has filed.
func (r *ComplaintRepository) CountForUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM complaints WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, errors.NewStorageError(err)
	}
	return count, nil
}
