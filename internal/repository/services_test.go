package repository

import (
	"context"
	"testing"
	"time"

	"govportal/internal/common/database"
	"govportal/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceRepoWithCache(t *testing.T) (*ServiceRepository, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	repo := NewServiceRepository(db, cache, nil, logger.NewNoOpLogger())
	return repo, mock, mr
}

func TestGet_CachesAfterFirstLookup(t *testing.T) {
	repo, mock, mr := newServiceRepoWithCache(t)

	expectServiceLookup(mock, 1, testFormFields)

	svc, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "NIC Renewal", svc.Name)
	assert.True(t, mr.Exists("service:1"))

	// Second lookup is served from the cache; no further SQL expected.
	again, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, svc.Name, again.Name)
	// The cache round-trips form_fields through json.Marshal, which compacts
	// whitespace, so compare as JSON rather than bytes.
	assert.JSONEq(t, string(svc.FormFields), string(again.FormFields))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, _ := newServiceRepoWithCache(t)

	mock.ExpectQuery(`SELECT .+ FROM services WHERE id = \$1`).
		WithArgs(int64(99)).WillReturnError(errNoRows())

	_, err := repo.Get(context.Background(), 99)
	assertErrorCode(t, err, "SERVICE_NOT_FOUND")
}

func TestGet_CacheExpiry(t *testing.T) {
	repo, mock, mr := newServiceRepoWithCache(t)

	expectServiceLookup(mock, 1, testFormFields)
	_, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)

	mr.FastForward(serviceCacheTTL + time.Second)

	expectServiceLookup(mock, 1, testFormFields)
	_, err = repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	repo, mock, _ := newServiceRepoWithCache(t)

	rows := sqlmock.NewRows([]string{
		"id", "category", "name", "description", "requirements", "fees",
		"processing_time", "department", "department_contact", "department_email",
		"form_fields", "created_at",
	}).
		AddRow(1, "Benefits & Subsidies", "Samurdhi Benefits", "", "", 0.0, "", "Ministry of Social Welfare", "", "", nil, time.Now()).
		AddRow(2, "Documents & Certificates", "NIC Renewal", "", "", 500.0, "", "Department of Registration of Persons", "", "", []byte(testFormFields), time.Now())
	mock.ExpectQuery(`SELECT .+ FROM services ORDER BY category, name`).WillReturnRows(rows)

	services, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Empty(t, services[0].FormFields)
	assert.NotEmpty(t, services[1].FormFields)
}

func TestListByCategory(t *testing.T) {
	repo, mock, _ := newServiceRepoWithCache(t)

	rows := sqlmock.NewRows([]string{
		"id", "category", "name", "description", "requirements", "fees",
		"processing_time", "department", "department_contact", "department_email",
		"form_fields", "created_at",
	}).AddRow(1, "Business Services", "Business Registration", "", "", 2500.0, "", "", "", "", nil, time.Now())
	mock.ExpectQuery(`SELECT .+ FROM services WHERE category = \$1 ORDER BY name`).
		WithArgs("Business Services").WillReturnRows(rows)

	services, err := repo.ListByCategory(context.Background(), "Business Services")
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Business Registration", services[0].Name)
}

func TestSearch_SQLFallbackWithoutElasticsearch(t *testing.T) {
	repo, mock, _ := newServiceRepoWithCache(t)

	rows := sqlmock.NewRows([]string{
		"id", "category", "name", "description", "requirements", "fees",
		"processing_time", "department", "department_contact", "department_email",
		"form_fields", "created_at",
	}).AddRow(1, "Documents & Certificates", "Passport Application", "", "", 1500.0, "", "", "", "", nil, time.Now())
	mock.ExpectQuery(`SELECT .+ FROM services WHERE name ILIKE \$1 OR description ILIKE \$1 OR department ILIKE \$1`).
		WithArgs("%passport%").WillReturnRows(rows)

	services, err := repo.Search(context.Background(), "passport")
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Passport Application", services[0].Name)
}
