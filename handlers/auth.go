package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username      string `json:"username" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	ContactNumber string `json:"contact_number" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a shopper account and sends a verification code to the
// new email. The account is usable once the code is verified.
func Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var exists bool
	err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		req.Username, req.Email,
	).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	var userID int
	err = DB.QueryRow(
		`INSERT INTO users (username, email, password_hash, contact_number)
		 VALUES ($1, $2, $3, $4) RETURNING user_id`,
		req.Username, req.Email, string(hash), req.ContactNumber,
	).Scan(&userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if err := issueOTP(req.Email, models.OTPPurposeRegister); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Registered. Verify the code sent to your email.",
		"otp_destination": req.Email,
	})
}

// Login checks credentials and, on success, sends a one-time code to the
// account email. No token is issued until the code is verified.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ident := strings.TrimSpace(req.Username)
	if ident == "" {
		ident = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if ident == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username or email is required"})
		return
	}

	var user models.User
	err := DB.QueryRow(
		`SELECT user_id, username, email, password_hash FROM users WHERE username = $1 OR email = $1`,
		ident,
	).Scan(&user.UserID, &user.Username, &user.Email, &user.PasswordHash)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := issueOTP(user.Email, models.OTPPurposeLogin); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Verification code sent",
		"otp_destination": user.Email,
	})
}

// Logout revokes the presented session token.
func Logout(c *gin.Context) {
	key := c.GetString("token_key")
	if _, err := DB.Exec(`DELETE FROM user_tokens WHERE token_key = $1`, key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user's profile, role and default address.
func Me(c *gin.Context) {
	user := currentUser(c)

	role := "user"
	if user.IsStaff || user.IsSuperuser {
		role = "admin"
	}

	var addr models.Address
	var defaultAddress interface{}
	err := DB.QueryRow(
		`SELECT address_id, label, line1, line2, city, state, pincode,
		        location_lat, location_long, is_default
		 FROM addresses WHERE user_id = $1 AND is_default = true`,
		user.UserID,
	).Scan(
		&addr.AddressID, &addr.Label, &addr.Line1, &addr.Line2,
		&addr.City, &addr.State, &addr.Pincode,
		&addr.LocationLat, &addr.LocationLong, &addr.IsDefault,
	)
	if err == nil {
		addr.UserID = user.UserID
		defaultAddress = addr
	} else if err != sql.ErrNoRows {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":         user.UserID,
		"username":        user.Username,
		"email":           user.Email,
		"contact_number":  user.ContactNumber,
		"is_staff":        user.IsStaff,
		"is_superuser":    user.IsSuperuser,
		"role":            role,
		"default_address": defaultAddress,
	})
}
