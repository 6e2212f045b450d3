package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"govportal/internal/common/errors"
	"govportal/internal/common/logger"
	"govportal/internal/forms"
	"govportal/internal/models"

	"github.com/lib/pq"
)

// UserRepository persists citizen accounts keyed by NIC.
type UserRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *sql.DB, log logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"repository": "users"}),
	}
}

// Register creates a new citizen account. The NIC must be well-formed and
// not already registered.
func (r *UserRepository) Register(ctx context.Context, nic, name, email, phone string, language models.Language) (*models.User, error) {
	nic = strings.TrimSpace(nic)
	if !forms.ValidNIC(nic) {
		return nil, errors.NewInvalidNICError("nic")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewMissingFieldError("name")
	}
	if !language.Valid() {
		language = models.LanguageEnglish
	}

	var id int64
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (nic, name, email, phone, language)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		nic, name, email, phone, language,
	).Scan(&id, &createdAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return nil, errors.NewValidationError("a user with this NIC is already registered")
		}
		return nil, errors.NewStorageError(err)
	}

	r.logger.Info("User registered", map[string]interface{}{
		"user_id": id,
	})

	return &models.User{
		ID:        id,
		NIC:       nic,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Language:  language,
		CreatedAt: createdAt,
	}, nil
}

const userColumns = `id, nic, name, COALESCE(email, ''), COALESCE(phone, ''), language, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.NIC, &u.Name, &u.Email, &u.Phone, &u.Language, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns one user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewUserNotFoundError("no user with that id")
	}
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return u, nil
}

// GetByNIC returns one user by identity card number.
func (r *UserRepository) GetByNIC(ctx context.Context, nic string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE nic = $1`, strings.TrimSpace(nic))
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewUserNotFoundError("no user with that NIC")
	}
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return u, nil
}
