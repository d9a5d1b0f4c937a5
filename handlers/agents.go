package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type partnerRegisterRequest struct {
	Name         string   `json:"name" binding:"required"`
	Email        string   `json:"email" binding:"required,email"`
	Phone        *string  `json:"phone"`
	LocationLat  *float64 `json:"location_lat"`
	LocationLong *float64 `json:"location_long"`
}

type partnerLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type partnerSetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// PartnerRegister files a delivery partner application. The account stays
// unusable until an admin approves it and the partner sets a password with
// the emailed approval code.
func PartnerRegister(c *gin.Context) {
	var req partnerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var exists bool
	if err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM delivery_partners WHERE email = $1)`, req.Email,
	).Scan(&exists); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	var partnerID int
	err := DB.QueryRow(
		`INSERT INTO delivery_partners (name, email, phone, location_lat, location_long, approved)
		 VALUES ($1, $2, $3, $4, $5, false) RETURNING partner_id`,
		strings.TrimSpace(req.Name), req.Email, req.Phone, req.LocationLat, req.LocationLong,
	).Scan(&partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register partner"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Application received. You will get an email once approved.",
		"partner_id": partnerID,
	})
}

// PartnerSetPassword burns the approval code and sets the partner's
// password, completing onboarding.
func PartnerSetPassword(c *gin.Context) {
	var req partnerSetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ok, err := consumeOTP(email, strings.TrimSpace(req.Code), models.OTPPurposeRegister)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	res, err := DB.Exec(
		`UPDATE delivery_partners SET password_hash = $1, updated_at = now()
		 WHERE email = $2 AND approved = true`,
		string(hash), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No approved partner for that email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password set. You can now log in."})
}

// PartnerLogin authenticates an approved partner and mints a partner token.
func PartnerLogin(c *gin.Context) {
	var req partnerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var partnerID int
	var name string
	var hash *string
	err := DB.QueryRow(
		`SELECT partner_id, name, password_hash FROM delivery_partners
		 WHERE email = $1 AND approved = true`,
		strings.ToLower(strings.TrimSpace(req.Email)),
	).Scan(&partnerID, &name, &hash)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if hash == nil || bcrypt.CompareHashAndPassword([]byte(*hash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	key := generateTokenKey()
	if _, err := DB.Exec(
		`INSERT INTO delivery_partner_tokens (partner_id, token_key) VALUES ($1, $2)`,
		partnerID, key,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": key, "partner_id": partnerID, "name": name})
}

// PartnerDeliveries lists the caller's assigned deliveries with order and
// drop-off details.
func PartnerDeliveries(c *gin.Context) {
	partnerID := c.GetInt("partner_id")

	rows, err := DB.Query(
		`SELECT d.delivery_id, d.order_id, d.status, d.estimated_time, d.actual_time,
		        o.total_cost, o.delivery_address_snapshot, o.delivery_address_lat, o.delivery_address_long,
		        d.created_at
		 FROM deliveries d
		 JOIN orders o ON o.order_id = d.order_id
		 WHERE d.partner_id = $1
		 ORDER BY d.created_at DESC`,
		partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	deliveries := []gin.H{}
	for rows.Next() {
		var d models.Delivery
		var totalCost float64
		var snapshot *string
		var lat, long *float64
		if err := rows.Scan(
			&d.DeliveryID, &d.OrderID, &d.Status, &d.EstimatedTime, &d.ActualTime,
			&totalCost, &snapshot, &lat, &long, &d.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan delivery"})
			return
		}
		deliveries = append(deliveries, gin.H{
			"delivery_id":    d.DeliveryID,
			"order_id":       d.OrderID,
			"status":         d.Status,
			"estimated_time": d.EstimatedTime,
			"actual_time":    d.ActualTime,
			"total_cost":     totalCost,
			"address":        snapshot,
			"address_lat":    lat,
			"address_long":   long,
			"assigned_at":    d.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"deliveries": deliveries, "count": len(deliveries)})
}

// PartnerMarkDelivered completes a delivery: the delivery and its order both
// move to delivered, the payment settles (cash on delivery), and the partner
// becomes available again.
func PartnerMarkDelivered(c *gin.Context) {
	partnerID := c.GetInt("partner_id")
	deliveryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid delivery ID"})
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var orderID int
	err = tx.QueryRow(
		`UPDATE deliveries
		 SET status = $1, actual_time = EXTRACT(EPOCH FROM (now() - created_at))::int / 60, updated_at = now()
		 WHERE delivery_id = $2 AND partner_id = $3 AND status != $1
		 RETURNING order_id`,
		models.DeliveryDelivered, deliveryID, partnerID,
	).Scan(&orderID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found or already delivered"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if _, err := tx.Exec(
		`UPDATE orders SET status = $1, updated_at = now() WHERE order_id = $2`,
		models.OrderDelivered, orderID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if _, err := tx.Exec(
		`UPDATE payments SET status = $1, updated_at = now() WHERE order_id = $2 AND status = $3`,
		models.PaymentSuccess, orderID, models.PaymentPending,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if _, err := tx.Exec(
		`UPDATE delivery_partners SET availability = true, updated_at = now() WHERE partner_id = $1`,
		partnerID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	DeliveryFeed.BroadcastDelivery(deliveryID, orderID, models.DeliveryDelivered)
	c.JSON(http.StatusOK, gin.H{"message": "Delivery completed", "order_id": orderID})
}
