package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"math/big"

	"github.com/Balaga-Lokesh/SAVR-sub000/database"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"
)

// DB is the shared database handle for all handlers.
var DB *database.DB

// Geo resolves address text to coordinates.
var Geo *services.Geocoder

// InitializeHandlers sets up shared handler dependencies.
func InitializeHandlers(db *database.DB, geo *services.Geocoder) {
	DB = db
	Geo = geo
}

// generateTokenKey mints an opaque 64-hex-char session token.
func generateTokenKey() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateOTPCode returns a 6-digit numeric code.
func generateOTPCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "000000"
	}
	code := n.Int64() + 100000
	return big.NewInt(code).String()
}

// logAction records an analytics event, best-effort.
func logAction(adminID *int, actionType string, details interface{}) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}
	if _, err := DB.Exec(
		`INSERT INTO analytics_logs (admin_id, action_type, details) VALUES ($1, $2, $3)`,
		adminID, actionType, string(payload),
	); err != nil {
		log.Printf("analytics log failed: %v", err)
	}
}
