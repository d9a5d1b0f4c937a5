package models

import "time"

// Delivery statuses.
const (
	DeliveryAssigned  = "assigned"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
)

type DeliveryPartner struct {
	PartnerID    int       `json:"partner_id" db:"partner_id"`
	Name         string    `json:"name" db:"name"`
	Email        *string   `json:"email" db:"email"`
	Phone        *string   `json:"phone" db:"phone"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	LocationLat  *float64  `json:"location_lat" db:"location_lat"`
	LocationLong *float64  `json:"location_long" db:"location_long"`
	Availability bool      `json:"availability" db:"availability"`
	Approved     bool      `json:"approved" db:"approved"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Delivery struct {
	DeliveryID    int       `json:"delivery_id" db:"delivery_id"`
	OrderID       int       `json:"order_id" db:"order_id"`
	PartnerID     *int      `json:"partner_id" db:"partner_id"`
	EstimatedTime *int      `json:"estimated_time" db:"estimated_time"`
	ActualTime    *int      `json:"actual_time" db:"actual_time"`
	Status        string    `json:"status" db:"status"`
	RouteData     *string   `json:"route_data,omitempty" db:"route_data"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func (DeliveryPartner) TableName() string {
	return "delivery_partners"
}

func (DeliveryPartner) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS delivery_partners (
		partner_id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(254) UNIQUE,
		phone VARCHAR(20),
		password_hash VARCHAR(255),
		location_lat NUMERIC(10,6),
		location_long NUMERIC(10,6),
		availability BOOLEAN NOT NULL DEFAULT true,
		approved BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}

func (Delivery) TableName() string {
	return "deliveries"
}

func (Delivery) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS deliveries (
		delivery_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
		partner_id INT REFERENCES delivery_partners(partner_id) ON DELETE SET NULL,
		estimated_time INT,
		actual_time INT,
		status VARCHAR(20) NOT NULL DEFAULT 'assigned',
		route_data JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
