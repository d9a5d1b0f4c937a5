package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
	"github.com/Balaga-Lokesh/SAVR-sub000/utils"

	"github.com/gin-gonic/gin"
)

// ListProducts returns the catalog across approved marts, optionally
// filtered by category or a name search term.
func ListProducts(c *gin.Context) {
	query := `SELECT p.product_id, p.mart_id, m.name, p.name, p.category, p.price,
	                 p.stock, p.description, p.quality_score, p.unit_weight_kg, p.image_url,
	                 p.created_at, p.updated_at
	          FROM products p
	          JOIN marts m ON m.mart_id = p.mart_id
	          WHERE m.approved = true`
	args := []interface{}{}

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		args = append(args, category)
		query += ` AND p.category = $` + strconv.Itoa(len(args))
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		args = append(args, "%"+search+"%")
		query += ` AND p.name ILIKE $` + strconv.Itoa(len(args))
	}
	if martID, err := strconv.Atoi(c.Query("mart_id")); err == nil {
		args = append(args, martID)
		query += ` AND p.mart_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY p.product_id`

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ProductID, &p.MartID, &p.MartName, &p.Name, &p.Category, &p.Price,
			&p.Stock, &p.Description, &p.QualityScore, &p.UnitWeightKg, &p.ImageURL,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product"})
			return
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// ListProductsWithImages is ListProducts with a placeholder substituted for
// every missing image, so storefront grids never render a broken tile.
func ListProductsWithImages(c *gin.Context) {
	rows, err := DB.Query(
		`SELECT p.product_id, p.mart_id, m.name, p.name, p.category, p.price,
		        p.stock, p.quality_score, p.unit_weight_kg, p.image_url
		 FROM products p
		 JOIN marts m ON m.mart_id = p.mart_id
		 WHERE m.approved = true
		 ORDER BY p.product_id`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ProductID, &p.MartID, &p.MartName, &p.Name, &p.Category, &p.Price,
			&p.Stock, &p.QualityScore, &p.UnitWeightKg, &p.ImageURL,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product"})
			return
		}
		if p.ImageURL == nil || *p.ImageURL == "" {
			placeholder := utils.PlaceholderImage(p.Name)
			p.ImageURL = &placeholder
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProduct returns a single product with its mart name.
func GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var p models.Product
	err = DB.QueryRow(
		`SELECT p.product_id, p.mart_id, m.name, p.name, p.category, p.price,
		        p.stock, p.description, p.quality_score, p.unit_weight_kg, p.image_url,
		        p.created_at, p.updated_at
		 FROM products p
		 JOIN marts m ON m.mart_id = p.mart_id
		 WHERE p.product_id = $1`,
		id,
	).Scan(
		&p.ProductID, &p.MartID, &p.MartName, &p.Name, &p.Category, &p.Price,
		&p.Stock, &p.Description, &p.QualityScore, &p.UnitWeightKg, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListMarts returns every approved mart.
func ListMarts(c *gin.Context) {
	rows, err := DB.Query(
		`SELECT mart_id, name, location_lat, location_long, address, approved, created_at, updated_at
		 FROM marts WHERE approved = true ORDER BY mart_id`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	marts := []models.Mart{}
	for rows.Next() {
		var m models.Mart
		if err := rows.Scan(
			&m.MartID, &m.Name, &m.LocationLat, &m.LocationLong, &m.Address,
			&m.Approved, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan mart"})
			return
		}
		marts = append(marts, m)
	}

	c.JSON(http.StatusOK, gin.H{"marts": marts, "count": len(marts)})
}
