package models

import "time"

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentSuccess  = "success"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

type Payment struct {
	PaymentID         int64     `json:"payment_id" db:"payment_id"`
	OrderID           *int      `json:"order_id" db:"order_id"`
	Provider          string    `json:"provider" db:"provider"`
	ProviderOrderID   *string   `json:"provider_order_id" db:"provider_order_id"`
	ProviderPaymentID *string   `json:"provider_payment_id" db:"provider_payment_id"`
	Amount            float64   `json:"amount" db:"amount"`
	Currency          string    `json:"currency" db:"currency"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (Payment) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS payments (
		payment_id BIGSERIAL PRIMARY KEY,
		order_id INT REFERENCES orders(order_id) ON DELETE SET NULL,
		provider VARCHAR(50) NOT NULL DEFAULT 'cod',
		provider_order_id VARCHAR(255),
		provider_payment_id VARCHAR(255),
		amount NUMERIC(12,2) NOT NULL,
		currency VARCHAR(10) NOT NULL DEFAULT 'INR',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
