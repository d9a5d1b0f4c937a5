package models

import "time"

// Product categories accepted by the catalog.
var ProductCategories = []string{"grocery", "clothing", "essential", "other", "dairy"}

type Product struct {
	ProductID    int       `json:"product_id" db:"product_id"`
	MartID       int       `json:"mart_id" db:"mart_id"`
	MartName     string    `json:"mart_name,omitempty" db:"-"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category" db:"category"`
	Price        float64   `json:"price" db:"price"`
	Stock        int       `json:"stock" db:"stock"`
	Description  *string   `json:"description,omitempty" db:"description"`
	QualityScore float64   `json:"quality_score" db:"quality_score"`
	UnitWeightKg float64   `json:"unit_weight_kg" db:"unit_weight_kg"`
	ImageURL     *string   `json:"image_url,omitempty" db:"image_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (Product) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS products (
		product_id SERIAL PRIMARY KEY,
		mart_id INT NOT NULL REFERENCES marts(mart_id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(20) NOT NULL DEFAULT 'other',
		price NUMERIC(10,2) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		description TEXT,
		quality_score NUMERIC(3,1) NOT NULL DEFAULT 0,
		unit_weight_kg NUMERIC(6,3) NOT NULL DEFAULT 1.0,
		image_url VARCHAR(255),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS product_name_idx ON products (name);`
}
