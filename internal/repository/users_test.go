package repository

import (
	"context"
	"testing"
	"time"

	"govportal/internal/common/logger"
	"govportal/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db, logger.NewNoOpLogger()), mock
}

func TestRegister_Success(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`INSERT INTO users .+ RETURNING id, created_at`).
		WithArgs("123456789V", "Nimal Perera", "nimal@example.com", "+94771234567", models.LanguageSinhala).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))

	u, err := repo.Register(context.Background(), "123456789V", "Nimal Perera", "nimal@example.com", "+94771234567", models.LanguageSinhala)
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, models.LanguageSinhala, u.Language)
}

func TestRegister_InvalidNIC(t *testing.T) {
	repo, _ := newUserRepo(t)

	_, err := repo.Register(context.Background(), "12345678V", "Nimal", "", "", models.LanguageEnglish)
	assertErrorCode(t, err, "INVALID_NIC_FORMAT")
}

func TestRegister_DuplicateNIC(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`INSERT INTO users .+ RETURNING id, created_at`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_nic_key"})

	_, err := repo.Register(context.Background(), "123456789V", "Nimal", "", "", models.LanguageEnglish)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestRegister_UnknownLanguageDefaultsToEnglish(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`INSERT INTO users .+ RETURNING id, created_at`).
		WithArgs("123456789V", "Nimal", "", "", models.LanguageEnglish).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(8, time.Now()))

	u, err := repo.Register(context.Background(), "123456789V", "Nimal", "", "", models.Language("klingon"))
	require.NoError(t, err)
	assert.Equal(t, models.LanguageEnglish, u.Language)
}

func TestGetByNIC(t *testing.T) {
	repo, mock := newUserRepo(t)

	rows := sqlmock.NewRows([]string{"id", "nic", "name", "email", "phone", "language", "created_at"}).
		AddRow(7, "123456789V", "Nimal Perera", "", "", "english", time.Now())
	mock.ExpectQuery(`SELECT .+ FROM users WHERE nic = \$1`).
		WithArgs("123456789V").WillReturnRows(rows)

	u, err := repo.GetByNIC(context.Background(), " 123456789V ")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
		WithArgs(int64(99)).WillReturnError(errNoRows())

	_, err := repo.GetByID(context.Background(), 99)
	assertErrorCode(t, err, "USER_NOT_FOUND")
}
