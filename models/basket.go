package models

import "time"

type Basket struct {
	BasketID      int       `json:"basket_id" db:"basket_id"`
	UserID        int       `json:"user_id" db:"user_id"`
	Items         string    `json:"items" db:"items"`
	OptimizedCost *float64  `json:"optimized_cost" db:"optimized_cost"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func (Basket) TableName() string {
	return "baskets"
}

func (Basket) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS baskets (
		basket_id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		items JSONB NOT NULL,
		optimized_cost NUMERIC(10,2),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
