package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"

	"github.com/gin-gonic/gin"
)

// AdminAssignDelivery assigns an order to the nearest available approved
// partner and confirms the order. The partner is marked busy until they
// complete the drop.
func AdminAssignDelivery(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	var status string
	var addrLat, addrLong *float64
	err = tx.QueryRow(
		`SELECT status, delivery_address_lat, delivery_address_long FROM orders WHERE order_id = $1`,
		orderID,
	).Scan(&status, &addrLat, &addrLong)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if status != models.OrderPending && status != models.OrderConfirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order is not awaiting delivery"})
		return
	}

	var alreadyAssigned bool
	if err := tx.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM deliveries WHERE order_id = $1)`, orderID,
	).Scan(&alreadyAssigned); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if alreadyAssigned {
		c.JSON(http.StatusConflict, gin.H{"error": "Order already has a delivery"})
		return
	}

	// Nearest available partner when the drop-off has coordinates,
	// otherwise any available partner.
	partnerQuery := `SELECT partner_id, location_lat, location_long FROM delivery_partners
	                 WHERE approved = true AND availability = true`
	args := []interface{}{}
	if addrLat != nil && addrLong != nil {
		partnerQuery += ` ORDER BY COALESCE((location_lat - $1)^2 + (location_long - $2)^2, 1e18)`
		args = append(args, *addrLat, *addrLong)
	}
	partnerQuery += ` LIMIT 1`

	var partnerID int
	var pLat, pLong *float64
	err = tx.QueryRow(partnerQuery, args...).Scan(&partnerID, &pLat, &pLong)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusConflict, gin.H{"error": "No delivery partner available"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var estimated *int
	if addrLat != nil && addrLong != nil && pLat != nil && pLong != nil {
		eta := services.ETAMinutes(services.DistanceKm(*pLat, *pLong, *addrLat, *addrLong))
		estimated = &eta
	}

	var deliveryID int
	err = tx.QueryRow(
		`INSERT INTO deliveries (order_id, partner_id, estimated_time, status)
		 VALUES ($1, $2, $3, $4) RETURNING delivery_id`,
		orderID, partnerID, estimated, models.DeliveryAssigned,
	).Scan(&deliveryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create delivery"})
		return
	}

	if _, err := tx.Exec(
		`UPDATE delivery_partners SET availability = false, updated_at = now() WHERE partner_id = $1`,
		partnerID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if _, err := tx.Exec(
		`UPDATE orders SET status = $1, updated_at = now() WHERE order_id = $2`,
		models.OrderConfirmed, orderID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	adminID := c.GetInt("admin_user_id")
	logAction(&adminID, "delivery_assign", gin.H{"order_id": orderID, "partner_id": partnerID})
	DeliveryFeed.BroadcastDelivery(deliveryID, orderID, models.DeliveryAssigned)
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Delivery assigned",
		"delivery_id":    deliveryID,
		"partner_id":     partnerID,
		"estimated_time": estimated,
	})
}

// AdminListDeliveries returns all deliveries with partner and order info.
func AdminListDeliveries(c *gin.Context) {
	rows, err := DB.Query(
		`SELECT d.delivery_id, d.order_id, d.partner_id, p.name, d.status,
		        d.estimated_time, d.actual_time, d.created_at
		 FROM deliveries d
		 LEFT JOIN delivery_partners p ON p.partner_id = d.partner_id
		 ORDER BY d.created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	deliveries := []gin.H{}
	for rows.Next() {
		var d models.Delivery
		var partnerName *string
		if err := rows.Scan(
			&d.DeliveryID, &d.OrderID, &d.PartnerID, &partnerName, &d.Status,
			&d.EstimatedTime, &d.ActualTime, &d.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan delivery"})
			return
		}
		deliveries = append(deliveries, gin.H{
			"delivery_id":    d.DeliveryID,
			"order_id":       d.OrderID,
			"partner_id":     d.PartnerID,
			"partner_name":   partnerName,
			"status":         d.Status,
			"estimated_time": d.EstimatedTime,
			"actual_time":    d.ActualTime,
			"created_at":     d.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"deliveries": deliveries, "count": len(deliveries)})
}
