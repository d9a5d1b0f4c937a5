package models

import "time"

type Review struct {
	ReviewID  int       `json:"review_id" db:"review_id"`
	ProductID int       `json:"product_id" db:"product_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

func (Review) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS reviews (
		review_id SERIAL PRIMARY KEY,
		product_id INT NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
		user_id INT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
