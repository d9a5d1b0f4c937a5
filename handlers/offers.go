package handlers

import (
	"net/http"
	"strconv"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"

	"github.com/gin-gonic/gin"
)

// ListOffers returns offers currently in their active date window,
// optionally filtered by mart or product. Global offers match every filter.
func ListOffers(c *gin.Context) {
	query := `SELECT offer_id, mart_id, product_id, discount_percentage,
	                 start_date, end_date, description, is_global, created_at, updated_at
	          FROM offers
	          WHERE start_date <= CURRENT_DATE AND end_date >= CURRENT_DATE`
	args := []interface{}{}

	if martID, err := strconv.Atoi(c.Query("mart_id")); err == nil {
		args = append(args, martID)
		query += ` AND (is_global = true OR mart_id = $` + strconv.Itoa(len(args)) + `)`
	}
	if productID, err := strconv.Atoi(c.Query("product_id")); err == nil {
		args = append(args, productID)
		query += ` AND (is_global = true OR product_id = $` + strconv.Itoa(len(args)) + `)`
	}
	query += ` ORDER BY discount_percentage DESC, offer_id`

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	offers := []models.Offer{}
	for rows.Next() {
		var o models.Offer
		if err := rows.Scan(
			&o.OfferID, &o.MartID, &o.ProductID, &o.DiscountPercentage,
			&o.StartDate, &o.EndDate, &o.Description, &o.IsGlobal,
			&o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan offer"})
			return
		}
		offers = append(offers, o)
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers, "count": len(offers)})
}

// AdminCreateOffer creates a mart, product or global offer.
func AdminCreateOffer(c *gin.Context) {
	var req struct {
		MartID             *int    `json:"mart_id"`
		ProductID          *int    `json:"product_id"`
		DiscountPercentage float64 `json:"discount_percentage" binding:"required"`
		StartDate          string  `json:"start_date" binding:"required"`
		EndDate            string  `json:"end_date" binding:"required"`
		Description        *string `json:"description"`
		IsGlobal           bool    `json:"is_global"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.DiscountPercentage <= 0 || req.DiscountPercentage > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount must be between 0 and 100"})
		return
	}
	if !req.IsGlobal && req.MartID == nil && req.ProductID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Offer needs a mart, a product, or is_global"})
		return
	}

	var offerID int
	err := DB.QueryRow(
		`INSERT INTO offers (mart_id, product_id, discount_percentage, start_date, end_date, description, is_global)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING offer_id`,
		req.MartID, req.ProductID, req.DiscountPercentage,
		req.StartDate, req.EndDate, req.Description, req.IsGlobal,
	).Scan(&offerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create offer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Offer created", "offer_id": offerID})
}

// AdminDeleteOffer removes an offer.
func AdminDeleteOffer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID"})
		return
	}

	res, err := DB.Exec(`DELETE FROM offers WHERE offer_id = $1`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Offer deleted"})
}
