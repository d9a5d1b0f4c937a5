package models

import "time"

type Mart struct {
	MartID       int       `json:"mart_id" db:"mart_id"`
	Name         string    `json:"name" db:"name"`
	LocationLat  float64   `json:"location_lat" db:"location_lat"`
	LocationLong float64   `json:"location_long" db:"location_long"`
	Address      *string   `json:"address" db:"address"`
	AdminID      *int      `json:"admin_id" db:"admin_id"`
	Approved     bool      `json:"approved" db:"approved"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (Mart) TableName() string {
	return "marts"
}

func (Mart) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS marts (
		mart_id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		location_lat NUMERIC(10,6) NOT NULL,
		location_long NUMERIC(10,6) NOT NULL,
		address TEXT,
		admin_id INT REFERENCES admins(admin_id),
		approved BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS mart_loc_idx ON marts (location_lat, location_long);`
}
