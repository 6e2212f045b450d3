package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"govportal/internal/common/errors"
	"govportal/internal/common/logger"
	"govportal/internal/common/metrics"
	"govportal/internal/forms"
	"govportal/internal/models"
	"govportal/internal/realtime"

	"github.com/lib/pq"
)

// maxReferenceAttempts bounds insert retries on a reference number
// collision before the submission fails.
const maxReferenceAttempts = 3

const uniqueViolation = pq.ErrorCode("23505")

// ReferenceGenerator produces the reference number assigned at creation.
type ReferenceGenerator interface {
	Generate() string
}

// Publisher pushes a created-record event to a user's live connections.
// Delivery is best-effort; implementations never return.
type Publisher interface {
	Publish(userID int64, event string, payload interface{})
}

// ApplicationRepository owns application records and their status
// lifecycle. Every successful submit publishes an application_created event
// to the owning user after the row is committed.
type ApplicationRepository struct {
	db        *sql.DB
	services  *ServiceRepository
	refs      ReferenceGenerator
	publisher Publisher
	logger    logger.Logger
	now       func() time.Time
}

// NewApplicationRepository creates an ApplicationRepository. publisher may
// be nil when no realtime layer is running.
func NewApplicationRepository(db *sql.DB, services *ServiceRepository, refs ReferenceGenerator, publisher Publisher, log logger.Logger) *ApplicationRepository {
	return &ApplicationRepository{
		db:        db,
		services:  services,
		refs:      refs,
		publisher: publisher,
		logger:    log.WithFields(map[string]interface{}{"repository": "applications"}),
		now:       time.Now,
	}
}

// SubmitInput carries one application submission. FormData is the raw
// client payload; AppointmentDate is optional loose "date time" text.
type SubmitInput struct {
	UserID          int64
	ServiceID       int64
	AppointmentDate string
	FormData        string
	DocumentRefs    []string
}

// Submit validates and persists a new application. The record is always
// created with status pending and a freshly generated reference number;
// neither is ever client-supplied. Validation runs entirely before any
// persistence attempt.
func (r *ApplicationRepository) Submit(ctx context.Context, input SubmitInput) (*models.Application, error) {
	service, err := r.services.Get(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}

	schema, err := forms.ParseSchema(service.FormFields)
	if err != nil {
		return nil, errors.NewInvalidFormPayloadError(err.Error())
	}

	answers := forms.ParseAnswers(input.FormData)
	if err := forms.Validate(schema, answers); err != nil {
		r.rejectMetric(err)
		return nil, err
	}

	var appointment *time.Time
	if strings.TrimSpace(input.AppointmentDate) != "" {
		ts, _, err := forms.ValidateAppointment(input.AppointmentDate, r.now())
		if err != nil {
			r.rejectMetric(err)
			return nil, err
		}
		appointment = &ts
	}

	formData, err := answers.Encode()
	if err != nil {
		return nil, errors.NewInvalidFormPayloadError(err.Error())
	}

	app, err := r.insert(ctx, input, appointment, formData)
	if err != nil {
		return nil, err
	}
	app.ServiceName = service.Name
	app.ServiceCategory = service.Category

	metrics.ApplicationsSubmitted.WithLabelValues(service.Category).Inc()
	r.logger.Info("Application submitted", map[string]interface{}{
		"application_id":   app.ID,
		"user_id":          app.UserID,
		"service_id":       app.ServiceID,
		"reference_number": app.ReferenceNumber,
	})

	r.publish(input.UserID, realtime.EventApplicationCreated, app)
	return app, nil
}

// insert persists the row, regenerating the reference number on the rare
// uniqueness collision.
func (r *ApplicationRepository) insert(ctx context.Context, input SubmitInput, appointment *time.Time, formData json.RawMessage) (*models.Application, error) {
	documents := strings.Join(input.DocumentRefs, ",")

	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		ref := r.refs.Generate()

		var id int64
		var createdAt time.Time
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO applications (user_id, service_id, status, reference_number, form_data, documents, appointment_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at`,
			input.UserID, input.ServiceID, models.StatusPending, ref, string(formData), documents, appointment,
		).Scan(&id, &createdAt)

		if err == nil {
			return &models.Application{
				ID:              id,
				UserID:          input.UserID,
				ServiceID:       input.ServiceID,
				Status:          models.StatusPending,
				ReferenceNumber: ref,
				FormData:        formData,
				Documents:       documents,
				AppointmentDate: appointment,
				CreatedAt:       createdAt,
			}, nil
		}

		if isReferenceCollision(err) {
			metrics.ReferenceCollisions.Inc()
			r.logger.Warn("Reference number collision, regenerating", map[string]interface{}{
				"attempt":          attempt,
				"reference_number": ref,
			})
			continue
		}
		return nil, errors.NewStorageError(err)
	}

	return nil, errors.NewReferenceExhaustedError(maxReferenceAttempts)
}

func isReferenceCollision(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == uniqueViolation && strings.Contains(pqErr.Constraint, "reference_number")
	}
	return false
}

func (r *ApplicationRepository) publish(userID int64, event string, payload interface{}) {
	if r.publisher == nil {
		return
	}
	r.publisher.Publish(userID, event, payload)
}

func (r *ApplicationRepository) rejectMetric(err error) {
	var stdErr *errors.StandardError
	if errors.As(err, &stdErr) {
		metrics.SubmissionsRejected.WithLabelValues(string(stdErr.Code)).Inc()
	}
}

const applicationListColumns = `a.id, a.user_id, a.service_id, a.status, a.reference_number,
	a.form_data, COALESCE(a.documents, ''), COALESCE(a.department_notes, ''),
	a.appointment_date, a.created_at, s.name, s.category`

func scanApplicationRow(rows *sql.Rows) (*models.Application, error) {
	var app models.Application
	var formData []byte
	var appointment sql.NullTime
	err := rows.Scan(&app.ID, &app.UserID, &app.ServiceID, &app.Status, &app.ReferenceNumber,
		&formData, &app.Documents, &app.DepartmentNotes, &appointment, &app.CreatedAt,
		&app.ServiceName, &app.ServiceCategory)
	if err != nil {
		return nil, err
	}
	if len(formData) > 0 {
		app.FormData = json.RawMessage(formData)
	}
	if appointment.Valid {
		app.AppointmentDate = &appointment.Time
	}
	return &app, nil
}

// ListForUser returns a user's applications newest first, joined with the
// service name and category for display.
func (r *ApplicationRepository) ListForUser(ctx context.Context, userID int64) ([]models.Application, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+applicationListColumns+`
		FROM applications a
		JOIN services s ON s.id = a.service_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC`, userID)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		app, err := scanApplicationRow(rows)
		if err != nil {
			return nil, errors.NewStorageError(err)
		}
		out = append(out, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(err)
	}
	return out, nil
}

// UpdateStatus moves an application along its lifecycle. Transitions are
// validated against the allowed state machine; anything else is rejected.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, next models.ApplicationStatus) error {
	if !next.Valid() {
		return errors.NewInvalidTransitionError("", string(next))
	}

	var current models.ApplicationStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM applications WHERE id = $1`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return errors.NewRecordNotFoundError("application", id)
	}
	if err != nil {
		return errors.NewStorageError(err)
	}

	if !current.CanTransition(next) {
		return errors.NewInvalidTransitionError(string(current), string(next))
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE applications SET status = $1 WHERE id = $2`, next, id); err != nil {
		return errors.NewStorageError(err)
	}

	r.logger.Info("Application status updated", map[string]interface{}{
		"application_id": id,
		"from":           string(current),
		"to":             string(next),
	})
	return nil
}

// DashboardSummary aggregates a user's activity: counts by status, the
// three most recent applications, and the complaint total.
func (r *ApplicationRepository) DashboardSummary(ctx context.Context, userID int64) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'completed')
		FROM applications WHERE user_id = $1`, userID).
		Scan(&summary.TotalApplications, &summary.PendingApplications, &summary.CompletedApplications)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+applicationListColumns+`
		FROM applications a
		JOIN services s ON s.id = a.service_id
		WHERE a.user_id = $1
		ORDER BY a.created_at DESC
		LIMIT 3`, userID)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	defer rows.Close()

	for rows.Next() {
		app, err := scanApplicationRow(rows)
		if err != nil {
			return nil, errors.NewStorageError(err)
		}
		summary.RecentApplications = append(summary.RecentApplications, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(err)
	}

	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM complaints WHERE user_id = $1`, userID).
		Scan(&summary.ComplaintCount)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}

	return summary, nil
}
