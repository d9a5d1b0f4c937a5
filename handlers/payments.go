package handlers

import (
	"net/http"
	"strconv"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"

	"github.com/gin-gonic/gin"
)

// ListPayments returns the payment records for the caller's orders.
func ListPayments(c *gin.Context) {
	user := currentUser(c)

	query := `SELECT p.payment_id, p.order_id, p.provider, p.provider_order_id,
	                 p.amount, p.currency, p.status, p.created_at, p.updated_at
	          FROM payments p
	          JOIN orders o ON o.order_id = p.order_id
	          WHERE o.user_id = $1`
	args := []interface{}{user.UserID}

	if orderID, err := strconv.Atoi(c.Query("order_id")); err == nil {
		args = append(args, orderID)
		query += ` AND p.order_id = $2`
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.PaymentID, &p.OrderID, &p.Provider, &p.ProviderOrderID,
			&p.Amount, &p.Currency, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan payment"})
			return
		}
		payments = append(payments, p)
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "count": len(payments)})
}
