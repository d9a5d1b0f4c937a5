package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"

	"github.com/gin-gonic/gin"
)

type requestOTPBody struct {
	Destination string `json:"destination" binding:"required,email"`
	Purpose     string `json:"purpose"`
}

type verifyOTPBody struct {
	Destination string `json:"destination" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	Purpose     string `json:"purpose"`
}

// issueOTP stores a fresh code for the destination and emails it.
func issueOTP(destination, purpose string) error {
	code := generateOTPCode()
	_, err := DB.Exec(
		`INSERT INTO otp_codes (destination, code, purpose, expires_at) VALUES ($1, $2, $3, $4)`,
		destination, code, purpose, time.Now().Add(models.OTPTTL),
	)
	if err != nil {
		return err
	}
	return services.Mail.SendOTP(destination, purpose, code)
}

// consumeOTP validates the newest unused code for a destination and marks it
// used. Returns false when no live code matches.
func consumeOTP(destination, code, purpose string) (bool, error) {
	var id int64
	var expiresAt time.Time
	err := DB.QueryRow(
		`SELECT id, expires_at FROM otp_codes
		 WHERE destination = $1 AND purpose = $2 AND used = false
		 ORDER BY created_at DESC LIMIT 1`,
		destination, purpose,
	).Scan(&id, &expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if time.Now().After(expiresAt) {
		return false, nil
	}

	// Single-use: the match and the burn happen in one statement so a
	// concurrent verify cannot reuse the code.
	res, err := DB.Exec(
		`UPDATE otp_codes SET used = true WHERE id = $1 AND code = $2 AND used = false`,
		id, code,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// RequestOTP re-sends a code for an existing account.
func RequestOTP(c *gin.Context) {
	var req requestOTPBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dest := strings.ToLower(strings.TrimSpace(req.Destination))
	purpose := req.Purpose
	if purpose == "" {
		purpose = models.OTPPurposeLogin
	}

	var exists bool
	if err := DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, dest).Scan(&exists); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "No account for that email"})
		return
	}

	if err := issueOTP(dest, purpose); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent", "otp_destination": dest})
}

// VerifyOTP burns a valid code and mints a session token for the account.
func VerifyOTP(c *gin.Context) {
	var req verifyOTPBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dest := strings.ToLower(strings.TrimSpace(req.Destination))
	purpose := req.Purpose
	if purpose == "" {
		purpose = models.OTPPurposeLogin
	}

	ok, err := consumeOTP(dest, strings.TrimSpace(req.Code), purpose)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	var user models.User
	err = DB.QueryRow(
		`SELECT user_id, username, email, is_staff, is_superuser FROM users WHERE email = $1`,
		dest,
	).Scan(&user.UserID, &user.Username, &user.Email, &user.IsStaff, &user.IsSuperuser)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "No account for that email"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	key := generateTokenKey()
	if _, err := DB.Exec(
		`INSERT INTO user_tokens (user_id, token_key) VALUES ($1, $2)`,
		user.UserID, key,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        key,
		"user_id":      user.UserID,
		"username":     user.Username,
		"email":        user.Email,
		"is_staff":     user.IsStaff,
		"is_superuser": user.IsSuperuser,
	})
}
