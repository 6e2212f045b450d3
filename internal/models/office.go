package models

import "time"

// Office is a government office location.
type Office struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Department string    `json:"department" db:"department"`
	Address    string    `json:"address" db:"address"`
	City       string    `json:"city" db:"city"`
	District   string    `json:"district" db:"district"`
	Phone      string    `json:"phone,omitempty" db:"phone"`
	Email      string    `json:"email,omitempty" db:"email"`
	Latitude   float64   `json:"latitude" db:"latitude"`
	Longitude  float64   `json:"longitude" db:"longitude"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// DistanceKm is computed per request, never stored.
	DistanceKm float64 `json:"distance_km,omitempty" db:"-"`
}
