package models

import "time"

// Order statuses, in lifecycle order.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

type Order struct {
	OrderID                 int         `json:"order_id" db:"order_id"`
	UserID                  int         `json:"user_id" db:"user_id"`
	TotalCost               float64     `json:"total_cost" db:"total_cost"`
	Status                  string      `json:"status" db:"status"`
	DeliveryAddressID       *int        `json:"delivery_address_id" db:"delivery_address_id"`
	DeliveryAddressSnapshot *string     `json:"delivery_address_snapshot,omitempty" db:"delivery_address_snapshot"`
	DeliveryAddressLat      *float64    `json:"delivery_address_lat,omitempty" db:"delivery_address_lat"`
	DeliveryAddressLong     *float64    `json:"delivery_address_long,omitempty" db:"delivery_address_long"`
	ContactNumber           *string     `json:"contact_number,omitempty" db:"contact_number"`
	CreatedAt               time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at" db:"updated_at"`
	Items                   []OrderItem `json:"order_items,omitempty" db:"-"`
}

type OrderItem struct {
	ItemID          int     `json:"item_id" db:"item_id"`
	OrderID         int     `json:"order_id" db:"order_id"`
	ProductID       int     `json:"product_id" db:"product_id"`
	ProductName     string  `json:"product_name,omitempty" db:"-"`
	MartID          int     `json:"mart_id" db:"mart_id"`
	Quantity        int     `json:"quantity" db:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase" db:"price_at_purchase"`
}

func (Order) TableName() string {
	return "orders"
}

func (Order) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS orders (
		order_id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		total_cost NUMERIC(10,2) NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		delivery_address_id INT REFERENCES addresses(address_id) ON DELETE SET NULL,
		delivery_address_snapshot TEXT,
		delivery_address_lat NUMERIC(10,6),
		delivery_address_long NUMERIC(10,6),
		contact_number VARCHAR(20),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (OrderItem) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS order_items (
		item_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
		product_id INT NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
		mart_id INT NOT NULL REFERENCES marts(mart_id) ON DELETE CASCADE,
		quantity INT NOT NULL,
		price_at_purchase NUMERIC(10,2) NOT NULL
	);`
}
