package models

import "time"

type User struct {
	UserID        int       `json:"user_id" db:"user_id"`
	Username      string    `json:"username" db:"username"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Address       *string   `json:"address,omitempty" db:"address"`
	ContactNumber *string   `json:"contact_number" db:"contact_number"`
	IsStaff       bool      `json:"is_staff" db:"is_staff"`
	IsSuperuser   bool      `json:"is_superuser" db:"is_superuser"`
	LocationLat   *float64  `json:"location_lat,omitempty" db:"location_lat"`
	LocationLong  *float64  `json:"location_long,omitempty" db:"location_long"`
	Preferences   *string   `json:"preferences,omitempty" db:"preferences"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (User) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS users (
		user_id SERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(254) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		address TEXT,
		contact_number VARCHAR(20),
		is_staff BOOLEAN NOT NULL DEFAULT false,
		is_superuser BOOLEAN NOT NULL DEFAULT false,
		location_lat NUMERIC(10,6),
		location_long NUMERIC(10,6),
		preferences JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
