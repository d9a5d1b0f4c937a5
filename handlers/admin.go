package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Balaga-Lokesh/SAVR-sub000/config"
	"github.com/Balaga-Lokesh/SAVR-sub000/models"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminLogin authenticates a console account and issues a JWT session.
func AdminLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var admin models.Admin
	err := DB.QueryRow(
		`SELECT admin_id, username, email, password_hash, role FROM admins WHERE username = $1`,
		strings.TrimSpace(req.Username),
	).Scan(&admin.AdminID, &admin.Username, &admin.Email, &admin.PasswordHash, &admin.Role)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	email := ""
	if admin.Email != nil {
		email = *admin.Email
	}
	claims := AdminClaims{
		UserID: admin.AdminID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * 24 * time.Hour)), // 15 days
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logAction(&admin.AdminID, "admin_login", gin.H{"username": admin.Username})
	c.JSON(http.StatusOK, gin.H{
		"token":    tokenString,
		"admin_id": admin.AdminID,
		"username": admin.Username,
		"role":     admin.Role,
	})
}

// AdminDashboard returns headline counts for the console landing page.
func AdminDashboard(c *gin.Context) {
	stats := gin.H{}
	counters := map[string]string{
		"users":            `SELECT COUNT(*) FROM users`,
		"marts":            `SELECT COUNT(*) FROM marts WHERE approved = true`,
		"products":         `SELECT COUNT(*) FROM products`,
		"orders":           `SELECT COUNT(*) FROM orders`,
		"pending_orders":   `SELECT COUNT(*) FROM orders WHERE status = 'pending'`,
		"pending_partners": `SELECT COUNT(*) FROM delivery_partners WHERE approved = false`,
	}
	for key, query := range counters {
		var n int
		if err := DB.QueryRow(query).Scan(&n); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		stats[key] = n
	}

	var revenue sql.NullFloat64
	if err := DB.QueryRow(
		`SELECT SUM(total_cost) FROM orders WHERE status != 'cancelled'`,
	).Scan(&revenue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	stats["revenue"] = revenue.Float64

	c.JSON(http.StatusOK, stats)
}

type adminProductRequest struct {
	MartID       int      `json:"mart_id" binding:"required"`
	Name         string   `json:"name" binding:"required"`
	Category     string   `json:"category"`
	Price        float64  `json:"price" binding:"required"`
	Stock        int      `json:"stock"`
	Description  *string  `json:"description"`
	QualityScore *float64 `json:"quality_score"`
	UnitWeightKg *float64 `json:"unit_weight_kg"`
	ImageURL     *string  `json:"image_url"`
}

func validCategory(category string) bool {
	for _, c := range models.ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

// AdminCreateProduct adds a product to a mart's catalog.
func AdminCreateProduct(c *gin.Context) {
	var req adminProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}
	if !validCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}
	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
		return
	}

	quality := 0.0
	if req.QualityScore != nil {
		quality = *req.QualityScore
	}
	weight := 1.0
	if req.UnitWeightKg != nil {
		weight = *req.UnitWeightKg
	}

	var productID int
	err := DB.QueryRow(
		`INSERT INTO products (mart_id, name, category, price, stock, description, quality_score, unit_weight_kg, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING product_id`,
		req.MartID, strings.TrimSpace(req.Name), req.Category, req.Price, req.Stock,
		req.Description, quality, weight, req.ImageURL,
	).Scan(&productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	adminID := c.GetInt("admin_user_id")
	logAction(&adminID, "product_create", gin.H{"product_id": productID, "mart_id": req.MartID})
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product_id": productID})
}

// AdminUpdateProduct edits price, stock and metadata of a product.
func AdminUpdateProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		Name         *string  `json:"name"`
		Category     *string  `json:"category"`
		Price        *float64 `json:"price"`
		Stock        *int     `json:"stock"`
		Description  *string  `json:"description"`
		QualityScore *float64 `json:"quality_score"`
		UnitWeightKg *float64 `json:"unit_weight_kg"`
		ImageURL     *string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Category != nil && !validCategory(*req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}
	if req.Price != nil && *req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
		return
	}

	res, err := DB.Exec(
		`UPDATE products SET
		     name = COALESCE($1, name),
		     category = COALESCE($2, category),
		     price = COALESCE($3, price),
		     stock = COALESCE($4, stock),
		     description = COALESCE($5, description),
		     quality_score = COALESCE($6, quality_score),
		     unit_weight_kg = COALESCE($7, unit_weight_kg),
		     image_url = COALESCE($8, image_url),
		     updated_at = now()
		 WHERE product_id = $9`,
		req.Name, req.Category, req.Price, req.Stock, req.Description,
		req.QualityScore, req.UnitWeightKg, req.ImageURL, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	adminID := c.GetInt("admin_user_id")
	logAction(&adminID, "product_update", gin.H{"product_id": productID})
	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// AdminUpdateStock adjusts stock only, the hot path for mart admins.
func AdminUpdateStock(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req struct {
		Stock int `json:"stock" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := DB.Exec(
		`UPDATE products SET stock = $1, updated_at = now() WHERE product_id = $2`,
		req.Stock, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock updated", "product_id": productID, "stock": req.Stock})
}

// AdminDeleteProduct removes a product (and, via cascade, its image
// reference lives only on the row).
func AdminDeleteProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	res, err := DB.Exec(`DELETE FROM products WHERE product_id = $1`, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	adminID := c.GetInt("admin_user_id")
	logAction(&adminID, "product_delete", gin.H{"product_id": productID})
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// AdminUploadProductImage stores a product image in Cloudinary and saves
// the returned URL on the product.
func AdminUploadProductImage(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	if services.Cloudinary == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage not configured"})
		return
	}

	result, err := services.Cloudinary.UploadImage(file, "products")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	res, err := DB.Exec(
		`UPDATE products SET image_url = $1, updated_at = now() WHERE product_id = $2`,
		result.SecureURL, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image URL"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded", "image_url": result.SecureURL})
}

type adminMartRequest struct {
	Name         string  `json:"name" binding:"required"`
	LocationLat  float64 `json:"location_lat" binding:"required"`
	LocationLong float64 `json:"location_long" binding:"required"`
	Address      *string `json:"address"`
	Approved     *bool   `json:"approved"`
}

// AdminCreateMart registers a mart. New marts default to unapproved so they
// stay invisible to shoppers until reviewed.
func AdminCreateMart(c *gin.Context) {
	var req adminMartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	approved := false
	if req.Approved != nil {
		approved = *req.Approved
	}

	var martID int
	err := DB.QueryRow(
		`INSERT INTO marts (name, location_lat, location_long, address, approved)
		 VALUES ($1, $2, $3, $4, $5) RETURNING mart_id`,
		strings.TrimSpace(req.Name), req.LocationLat, req.LocationLong, req.Address, approved,
	).Scan(&martID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create mart"})
		return
	}

	adminID := c.GetInt("admin_user_id")
	logAction(&adminID, "mart_create", gin.H{"mart_id": martID})
	c.JSON(http.StatusCreated, gin.H{"message": "Mart created", "mart_id": martID})
}

// AdminApproveMart flips a mart to approved.
func AdminApproveMart(c *gin.Context) {
	martID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mart ID"})
		return
	}

	res, err := DB.Exec(
		`UPDATE marts SET approved = true, updated_at = now() WHERE mart_id = $1`, martID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mart not found"})
		return
	}

	adminID := c.GetInt("admin_user_id")
	logAction(&adminID, "mart_approve", gin.H{"mart_id": martID})
	c.JSON(http.StatusOK, gin.H{"message": "Mart approved"})
}

// AdminListOrders returns all orders, optionally filtered by status.
func AdminListOrders(c *gin.Context) {
	query := `SELECT o.order_id, o.user_id, u.username, o.total_cost, o.status,
	                 o.delivery_address_snapshot, o.created_at
	          FROM orders o
	          JOIN users u ON u.user_id = o.user_id`
	args := []interface{}{}
	if status := c.Query("status"); status != "" {
		args = append(args, status)
		query += ` WHERE o.status = $1`
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	orders := []gin.H{}
	for rows.Next() {
		var o models.Order
		var username string
		if err := rows.Scan(
			&o.OrderID, &o.UserID, &username, &o.TotalCost, &o.Status,
			&o.DeliveryAddressSnapshot, &o.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		orders = append(orders, gin.H{
			"order_id":   o.OrderID,
			"user_id":    o.UserID,
			"username":   username,
			"total_cost": o.TotalCost,
			"status":     o.Status,
			"address":    o.DeliveryAddressSnapshot,
			"created_at": o.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// AdminUpdateOrderStatus moves an order along its lifecycle.
func AdminUpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Status {
	case models.OrderPending, models.OrderConfirmed, models.OrderShipped,
		models.OrderDelivered, models.OrderCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	res, err := DB.Exec(
		`UPDATE orders SET status = $1, updated_at = now() WHERE order_id = $2`,
		req.Status, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	adminID := c.GetInt("admin_user_id")
	logAction(&adminID, "order_status", gin.H{"order_id": orderID, "status": req.Status})
	DeliveryFeed.BroadcastOrder(orderID, req.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}
