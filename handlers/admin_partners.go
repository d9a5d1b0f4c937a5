package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"

	"github.com/gin-gonic/gin"
)

// AdminListPartners lists every delivery partner with approval and
// availability state, optionally filtered with ?approved=true|false.
func AdminListPartners(c *gin.Context) {
	query := `SELECT partner_id, name, email, phone, location_lat, location_long,
	                 approved, availability, created_at
	          FROM delivery_partners`
	args := []interface{}{}
	if approved := c.Query("approved"); approved == "true" || approved == "false" {
		args = append(args, approved == "true")
		query += ` WHERE approved = $1`
	}
	query += ` ORDER BY partner_id`

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	partners := []models.DeliveryPartner{}
	for rows.Next() {
		var p models.DeliveryPartner
		if err := rows.Scan(
			&p.PartnerID, &p.Name, &p.Email, &p.Phone,
			&p.LocationLat, &p.LocationLong, &p.Approved, &p.Availability, &p.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan partner"})
			return
		}
		partners = append(partners, p)
	}

	c.JSON(http.StatusOK, gin.H{"partners": partners, "count": len(partners)})
}

// AdminPendingPartners lists delivery partner applications awaiting review.
func AdminPendingPartners(c *gin.Context) {
	rows, err := DB.Query(
		`SELECT partner_id, name, email, phone, location_lat, location_long, created_at
		 FROM delivery_partners WHERE approved = false ORDER BY created_at`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	partners := []models.DeliveryPartner{}
	for rows.Next() {
		var p models.DeliveryPartner
		if err := rows.Scan(
			&p.PartnerID, &p.Name, &p.Email, &p.Phone,
			&p.LocationLat, &p.LocationLong, &p.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan partner"})
			return
		}
		partners = append(partners, p)
	}

	c.JSON(http.StatusOK, gin.H{"partners": partners, "count": len(partners)})
}

// AdminApprovePartner approves an application and emails the partner a
// one-time code for setting their password.
func AdminApprovePartner(c *gin.Context) {
	partnerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner ID"})
		return
	}

	var name string
	var email *string
	err = DB.QueryRow(
		`UPDATE delivery_partners SET approved = true, updated_at = now()
		 WHERE partner_id = $1 AND approved = false
		 RETURNING name, email`,
		partnerID,
	).Scan(&name, &email)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found or already approved"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if email != nil {
		code := generateOTPCode()
		if _, err := DB.Exec(
			`INSERT INTO otp_codes (destination, code, purpose, expires_at) VALUES ($1, $2, $3, $4)`,
			*email, code, models.OTPPurposeRegister, time.Now().Add(24*time.Hour),
		); err == nil {
			services.Mail.SendPartnerApproval(*email, name, code)
		}
	}

	adminID := c.GetInt("admin_user_id")
	logAction(&adminID, "partner_approve", gin.H{"partner_id": partnerID})
	c.JSON(http.StatusOK, gin.H{"message": "Partner approved"})
}

// AdminRejectPartner removes a pending application.
func AdminRejectPartner(c *gin.Context) {
	partnerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partner ID"})
		return
	}

	res, err := DB.Exec(
		`DELETE FROM delivery_partners WHERE partner_id = $1 AND approved = false`, partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found or already approved"})
		return
	}

	adminID := c.GetInt("admin_user_id")
	logAction(&adminID, "partner_reject", gin.H{"partner_id": partnerID})
	c.JSON(http.StatusOK, gin.H{"message": "Partner rejected"})
}
