package models

import "time"

// OTP purposes.
const (
	OTPPurposeLogin    = "login"
	OTPPurposeRegister = "register"
)

// OTPTTL is how long a code stays valid after issuance.
const OTPTTL = 5 * time.Minute

type OTPCode struct {
	ID          int64     `json:"id" db:"id"`
	Destination string    `json:"destination" db:"destination"`
	Code        string    `json:"code" db:"code"`
	Purpose     string    `json:"purpose" db:"purpose"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	ExpiresAt   time.Time `json:"expires_at" db:"expires_at"`
	Used        bool      `json:"used" db:"used"`
}

func (OTPCode) TableName() string {
	return "otp_codes"
}

func (OTPCode) CreateTableSQL() string {
	return `
	CREATE TABLE IF NOT EXISTS otp_codes (
		id BIGSERIAL PRIMARY KEY,
		destination VARCHAR(254) NOT NULL,
		code VARCHAR(10) NOT NULL,
		purpose VARCHAR(20) NOT NULL DEFAULT 'login',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		used BOOLEAN NOT NULL DEFAULT false
	);
	CREATE INDEX IF NOT EXISTS otp_dest_idx ON otp_codes (destination, purpose);`
}
