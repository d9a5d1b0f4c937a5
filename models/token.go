package models

import "time"

type UserToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	TokenKey  string    `json:"token_key" db:"token_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type PartnerToken struct {
	TokenID   int64     `json:"token_id" db:"token_id"`
	PartnerID int       `json:"partner_id" db:"partner_id"`
	TokenKey  string    `json:"token_key" db:"token_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (UserToken) TableName() string {
	return "user_tokens"
}

func (UserToken) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS user_tokens (
		id BIGSERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		token_key VARCHAR(128) UNIQUE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS user_token_key_idx ON user_tokens (token_key);`
}

func (PartnerToken) TableName() string {
	return "delivery_partner_tokens"
}

func (PartnerToken) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS delivery_partner_tokens (
		token_id BIGSERIAL PRIMARY KEY,
		partner_id INT NOT NULL REFERENCES delivery_partners(partner_id) ON DELETE CASCADE,
		token_key VARCHAR(128) UNIQUE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);`
}
