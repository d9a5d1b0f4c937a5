package models

import "time"

// Admin roles mirror the two-tier console: main admins manage everything,
// mart admins manage a single mart's catalog and stock.
const (
	AdminRoleMain = "main_admin"
	AdminRoleMart = "mart_admin"
)

type Admin struct {
	AdminID      int       `json:"admin_id" db:"admin_id"`
	Username     string    `json:"username" db:"username"`
	Email        *string   `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}

func (Admin) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS admins (
		admin_id SERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(254) UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'mart_admin',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
