package repository

import (
	"context"
	"testing"
	"time"

	"govportal/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func officeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "department", "address", "city", "district",
		"phone", "email", "latitude", "longitude", "created_at",
	}).
		AddRow(1, "Colombo District Secretariat", "General Administration", "", "Colombo", "Colombo", "", "", 6.9271, 79.8612, time.Now()).
		AddRow(2, "Kandy District Secretariat", "General Administration", "", "Kandy", "Kandy", "", "", 7.2906, 80.6337, time.Now()).
		AddRow(3, "Jaffna District Secretariat", "General Administration", "", "Jaffna", "Jaffna", "", "", 9.6615, 80.0255, time.Now())
}

func TestNearest_SortsByDistance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewOfficeRepository(db, logger.NewNoOpLogger())
	mock.ExpectQuery(`SELECT .+ FROM offices ORDER BY name`).WillReturnRows(officeRows())

	// Query from central Colombo.
	offices, err := repo.Nearest(context.Background(), 6.93, 79.86, "", 2)
	require.NoError(t, err)
	require.Len(t, offices, 2)
	assert.Equal(t, "Colombo District Secretariat", offices[0].Name)
	assert.Equal(t, "Kandy District Secretariat", offices[1].Name)
	assert.Less(t, offices[0].DistanceKm, offices[1].DistanceKm)
}

func TestList_FiltersByDepartment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewOfficeRepository(db, logger.NewNoOpLogger())
	mock.ExpectQuery(`SELECT .+ FROM offices WHERE department = \$1 ORDER BY name`).
		WithArgs("General Administration").
		WillReturnRows(officeRows())

	offices, err := repo.List(context.Background(), "General Administration")
	require.NoError(t, err)
	assert.Len(t, offices, 3)
}

func TestHaversineKm(t *testing.T) {
	// Colombo to Kandy is roughly 94 km as the crow flies.
	d := haversineKm(6.9271, 79.8612, 7.2906, 80.6337)
	assert.InDelta(t, 94, d, 5)

	assert.Zero(t, haversineKm(6.9271, 79.8612, 6.9271, 79.8612))
}
