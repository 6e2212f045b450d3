package repository

import (
	"context"
	"database/sql"
	"math"
	"sort"

	"govportal/internal/common/errors"
	"govportal/internal/common/logger"
	"govportal/internal/models"
)

const earthRadiusKm = 6371.0

// OfficeRepository reads government office locations.
type OfficeRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// NewOfficeRepository creates an OfficeRepository.
func NewOfficeRepository(db *sql.DB, log logger.Logger) *OfficeRepository {
	return &OfficeRepository{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"repository": "offices"}),
	}
}

// List returns all offices, optionally filtered by department.
func (r *OfficeRepository) List(ctx context.Context, department string) ([]models.Office, error) {
	query := `
		SELECT id, name, department, COALESCE(address, ''), COALESCE(city, ''), COALESCE(district, ''),
			COALESCE(phone, ''), COALESCE(email, ''), COALESCE(latitude, 0), COALESCE(longitude, 0), created_at
		FROM offices`
	var args []interface{}
	if department != "" {
		query += ` WHERE department = $1`
		args = append(args, department)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	defer rows.Close()

	var out []models.Office
	for rows.Next() {
		var o models.Office
		if err := rows.Scan(&o.ID, &o.Name, &o.Department, &o.Address, &o.City, &o.District,
			&o.Phone, &o.Email, &o.Latitude, &o.Longitude, &o.CreatedAt); err != nil {
			return nil, errors.NewStorageError(err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(err)
	}
	return out, nil
}

// Nearest returns up to limit offices sorted by great-circle distance from
// the given coordinates, each annotated with its distance in kilometers.
func (r *OfficeRepository) Nearest(ctx context.Context, lat, lng float64, department string, limit int) ([]models.Office, error) {
	offices, err := r.List(ctx, department)
	if err != nil {
		return nil, err
	}

	for i := range offices {
		offices[i].DistanceKm = haversineKm(lat, lng, offices[i].Latitude, offices[i].Longitude)
	}
	sort.Slice(offices, func(i, j int) bool {
		return offices[i].DistanceKm < offices[j].DistanceKm
	})

	if limit > 0 && len(offices) > limit {
		offices = offices[:limit]
	}
	return offices, nil
}

// haversineKm computes the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
