package models

import (
	"strings"
	"time"
)

type Address struct {
	AddressID    int       `json:"address_id" db:"address_id"`
	UserID       int       `json:"user_id" db:"user_id"`
	Label        *string   `json:"label" db:"label"`
	ContactName  *string   `json:"contact_name" db:"contact_name"`
	ContactPhone *string   `json:"contact_phone" db:"contact_phone"`
	Line1        string    `json:"line1" db:"line1"`
	Line2        *string   `json:"line2" db:"line2"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	Pincode      *string   `json:"pincode" db:"pincode"`
	LocationLat  *float64  `json:"location_lat" db:"location_lat"`
	LocationLong *float64  `json:"location_long" db:"location_long"`
	IsDefault    bool      `json:"is_default" db:"is_default"`
	Instructions *string   `json:"instructions" db:"instructions"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Summary renders the address as a single comma-joined line, skipping empty
// parts. Used for order snapshots and geocoding queries.
func (a Address) Summary() string {
	parts := []string{a.Line1}
	if a.Line2 != nil {
		parts = append(parts, *a.Line2)
	}
	parts = append(parts, a.City, a.State)
	if a.Pincode != nil {
		parts = append(parts, *a.Pincode)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func (Address) TableName() string {
	return "addresses"
}

func (Address) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS addresses (
		address_id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		label VARCHAR(50),
		contact_name VARCHAR(100),
		contact_phone VARCHAR(20),
		line1 VARCHAR(255) NOT NULL,
		line2 VARCHAR(255),
		city VARCHAR(80) NOT NULL DEFAULT 'Visakhapatnam',
		state VARCHAR(80) NOT NULL DEFAULT 'Andhra Pradesh',
		pincode VARCHAR(6),
		location_lat NUMERIC(10,6),
		location_long NUMERIC(10,6),
		is_default BOOLEAN NOT NULL DEFAULT false,
		instructions TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS addr_user_default_idx ON addresses (user_id, is_default);
	CREATE INDEX IF NOT EXISTS addr_pin_idx ON addresses (pincode);`
}
