package models

import "time"

type Offer struct {
	OfferID            int       `json:"offer_id" db:"offer_id"`
	MartID             *int      `json:"mart_id" db:"mart_id"`
	ProductID          *int      `json:"product_id" db:"product_id"`
	DiscountPercentage float64   `json:"discount_percentage" db:"discount_percentage"`
	StartDate          time.Time `json:"start_date" db:"start_date"`
	EndDate            time.Time `json:"end_date" db:"end_date"`
	Description        *string   `json:"description" db:"description"`
	IsGlobal           bool      `json:"is_global" db:"is_global"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

func (Offer) TableName() string {
	return "offers"
}

func (Offer) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS offers (
		offer_id SERIAL PRIMARY KEY,
		mart_id INT REFERENCES marts(mart_id) ON DELETE CASCADE,
		product_id INT REFERENCES products(product_id) ON DELETE CASCADE,
		discount_percentage NUMERIC(5,2) NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		description TEXT,
		is_global BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
