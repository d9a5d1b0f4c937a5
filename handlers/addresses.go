package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"

	"github.com/gin-gonic/gin"
)

type addressRequest struct {
	Label        *string  `json:"label"`
	ContactName  *string  `json:"contact_name"`
	ContactPhone *string  `json:"contact_phone"`
	Line1        string   `json:"line1" binding:"required"`
	Line2        *string  `json:"line2"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Pincode      *string  `json:"pincode"`
	LocationLat  *float64 `json:"location_lat"`
	LocationLong *float64 `json:"location_long"`
	IsDefault    *bool    `json:"is_default"`
	Instructions *string  `json:"instructions"`
}

func (r *addressRequest) normalize() string {
	r.Line1 = strings.TrimSpace(r.Line1)
	if r.City == "" {
		r.City = "Visakhapatnam"
	}
	if r.State == "" {
		r.State = "Andhra Pradesh"
	}
	if r.Pincode != nil {
		pin := strings.TrimSpace(*r.Pincode)
		r.Pincode = &pin
		if !services.ValidPincode(pin) {
			return "Pincode must be 6 digits"
		}
	}
	return ""
}

// geocodeIfNeeded fills in coordinates for an address that arrived without
// them. Geocoding failures are logged, never fatal: an address without
// coordinates still works for snapshots, it just cannot price delivery.
func (r *addressRequest) geocodeIfNeeded() {
	if r.LocationLat != nil && r.LocationLong != nil {
		return
	}
	parts := []string{r.Line1}
	if r.Line2 != nil && *r.Line2 != "" {
		parts = append(parts, *r.Line2)
	}
	parts = append(parts, r.City, r.State)
	if r.Pincode != nil && *r.Pincode != "" {
		parts = append(parts, *r.Pincode)
	}
	lat, lon, err := Geo.Geocode(strings.Join(parts, ", "))
	if err != nil {
		log.Printf("geocode failed for address: %v", err)
		return
	}
	r.LocationLat = &lat
	r.LocationLong = &lon
}

// ListAddresses returns the caller's address book, default first.
func ListAddresses(c *gin.Context) {
	user := currentUser(c)

	rows, err := DB.Query(
		`SELECT address_id, user_id, label, contact_name, contact_phone, line1, line2,
		        city, state, pincode, location_lat, location_long, is_default, instructions,
		        created_at, updated_at
		 FROM addresses WHERE user_id = $1
		 ORDER BY is_default DESC, created_at DESC`,
		user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(
			&a.AddressID, &a.UserID, &a.Label, &a.ContactName, &a.ContactPhone,
			&a.Line1, &a.Line2, &a.City, &a.State, &a.Pincode,
			&a.LocationLat, &a.LocationLong, &a.IsDefault, &a.Instructions,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan address"})
			return
		}
		addresses = append(addresses, a)
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses, "count": len(addresses)})
}

// CreateAddress adds an address. The user's first address becomes the
// default automatically; an explicit is_default demotes all others.
func CreateAddress(c *gin.Context) {
	user := currentUser(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.normalize(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	req.geocodeIfNeeded()

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM addresses WHERE user_id = $1`, user.UserID).Scan(&count); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	makeDefault := count == 0 || (req.IsDefault != nil && *req.IsDefault)
	if makeDefault && count > 0 {
		if _, err := tx.Exec(`UPDATE addresses SET is_default = false WHERE user_id = $1`, user.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	var addressID int
	err = tx.QueryRow(
		`INSERT INTO addresses (user_id, label, contact_name, contact_phone, line1, line2,
		                        city, state, pincode, location_lat, location_long, is_default, instructions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING address_id`,
		user.UserID, req.Label, req.ContactName, req.ContactPhone, req.Line1, req.Line2,
		req.City, req.State, req.Pincode, req.LocationLat, req.LocationLong, makeDefault, req.Instructions,
	).Scan(&addressID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create address"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Address created", "address_id": addressID, "is_default": makeDefault})
}

// UpdateAddress edits an address the caller owns. Setting is_default here
// demotes every other address in the same transaction.
func UpdateAddress(c *gin.Context) {
	user := currentUser(c)
	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.normalize(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	req.geocodeIfNeeded()

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	makeDefault := req.IsDefault != nil && *req.IsDefault
	if makeDefault {
		if _, err := tx.Exec(
			`UPDATE addresses SET is_default = false WHERE user_id = $1 AND address_id != $2`,
			user.UserID, addressID,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	res, err := tx.Exec(
		`UPDATE addresses
		 SET label = $1, contact_name = $2, contact_phone = $3, line1 = $4, line2 = $5,
		     city = $6, state = $7, pincode = $8,
		     location_lat = COALESCE($9, location_lat),
		     location_long = COALESCE($10, location_long),
		     is_default = CASE WHEN $11 THEN true ELSE is_default END,
		     instructions = $12, updated_at = now()
		 WHERE address_id = $13 AND user_id = $14`,
		req.Label, req.ContactName, req.ContactPhone, req.Line1, req.Line2,
		req.City, req.State, req.Pincode, req.LocationLat, req.LocationLong,
		makeDefault, req.Instructions, addressID, user.UserID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address updated"})
}

// DeleteAddress removes an address. Deleting the default promotes the
// newest remaining address so the account always keeps one default.
func DeleteAddress(c *gin.Context) {
	user := currentUser(c)
	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var wasDefault bool
	err = tx.QueryRow(
		`DELETE FROM addresses WHERE address_id = $1 AND user_id = $2 RETURNING is_default`,
		addressID, user.UserID,
	).Scan(&wasDefault)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
		return
	}

	if wasDefault {
		if _, err := tx.Exec(
			`UPDATE addresses SET is_default = true
			 WHERE address_id = (
			     SELECT address_id FROM addresses WHERE user_id = $1
			     ORDER BY created_at DESC LIMIT 1
			 )`,
			user.UserID,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

// SetDefaultAddress flips the default to the given address.
func SetDefaultAddress(c *gin.Context) {
	user := currentUser(c)
	addressID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE addresses SET is_default = true WHERE address_id = $1 AND user_id = $2`,
		addressID, user.UserID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
		return
	}

	if _, err := tx.Exec(
		`UPDATE addresses SET is_default = false WHERE user_id = $1 AND address_id != $2`,
		user.UserID, addressID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Default address updated"})
}
