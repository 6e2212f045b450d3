package models

import "time"

// Language is a citizen's preferred service language.
type Language string

const (
	LanguageSinhala Language = "sinhala"
	LanguageTamil   Language = "tamil"
	LanguageEnglish Language = "english"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LanguageSinhala, LanguageTamil, LanguageEnglish:
		return true
	}
	return false
}

// User is a registered citizen identified by national identity card number.
type User struct {
	ID        int64     `json:"id" db:"id"`
	NIC       string    `json:"nic" db:"nic"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email,omitempty" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Language  Language  `json:"language" db:"language"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
