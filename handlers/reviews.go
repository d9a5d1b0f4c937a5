package handlers

import (
	"net/http"
	"strconv"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"

	"github.com/gin-gonic/gin"
)

// ListProductReviews returns all reviews for a product, newest first,
// with the reviewer's name joined in.
func ListProductReviews(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	rows, err := DB.Query(
		`SELECT r.review_id, r.product_id, r.user_id, u.username, r.rating, r.comment, r.created_at
		 FROM reviews r
		 JOIN users u ON u.user_id = r.user_id
		 WHERE r.product_id = $1
		 ORDER BY r.created_at DESC`,
		productID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	type reviewRow struct {
		models.Review
		Username string `json:"username"`
	}
	reviews := []reviewRow{}
	var ratingSum int
	for rows.Next() {
		var r reviewRow
		if err := rows.Scan(
			&r.ReviewID, &r.ProductID, &r.UserID, &r.Username,
			&r.Rating, &r.Comment, &r.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan review"})
			return
		}
		ratingSum += r.Rating
		reviews = append(reviews, r)
	}

	avg := 0.0
	if len(reviews) > 0 {
		avg = float64(ratingSum) / float64(len(reviews))
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"count":          len(reviews),
		"average_rating": avg,
	})
}

// CreateProductReview records or replaces the caller's review of a product.
// A user gets one review per product; posting again overwrites it.
func CreateProductReview(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		Rating  int     `json:"rating" binding:"required"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	var exists bool
	if err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM products WHERE product_id = $1)`, productID,
	).Scan(&exists); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if _, err := DB.Exec(
		`DELETE FROM reviews WHERE product_id = $1 AND user_id = $2`,
		productID, user.UserID,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var reviewID int
	err = DB.QueryRow(
		`INSERT INTO reviews (product_id, user_id, rating, comment)
		 VALUES ($1, $2, $3, $4)
		 RETURNING review_id`,
		productID, user.UserID, req.Rating, req.Comment,
	).Scan(&reviewID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Review saved", "review_id": reviewID})
}
