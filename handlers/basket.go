package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type optimizeBasketRequest struct {
	Items      []models.BasketItem `json:"items" binding:"required"`
	AllowSwaps *bool               `json:"allow_swaps"`
	AddressID  *int                `json:"address_id"`
	Lat        *float64            `json:"lat"`
	Long       *float64            `json:"long"`
	Save       bool                `json:"save"`
}

// ListBaskets returns the caller's saved baskets, newest first.
func ListBaskets(c *gin.Context) {
	user := currentUser(c)

	rows, err := DB.Query(
		`SELECT basket_id, user_id, items, optimized_cost, created_at, updated_at
		 FROM baskets WHERE user_id = $1 ORDER BY created_at DESC`,
		user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	baskets := []models.Basket{}
	for rows.Next() {
		var b models.Basket
		if err := rows.Scan(&b.BasketID, &b.UserID, &b.Items, &b.OptimizedCost, &b.CreatedAt, &b.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan basket"})
			return
		}
		baskets = append(baskets, b)
	}

	c.JSON(http.StatusOK, gin.H{"baskets": baskets, "count": len(baskets)})
}

// CreateBasket saves a basket snapshot for later optimization.
func CreateBasket(c *gin.Context) {
	user := currentUser(c)

	var req struct {
		Items []models.BasketItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Basket is empty"})
		return
	}

	payload, err := json.Marshal(req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode items"})
		return
	}

	var basketID int
	err = DB.QueryRow(
		`INSERT INTO baskets (user_id, items) VALUES ($1, $2) RETURNING basket_id`,
		user.UserID, string(payload),
	).Scan(&basketID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save basket"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Basket saved", "basket_id": basketID})
}

// OptimizeBasket computes a multi-mart fulfillment plan for the submitted
// items. The delivery point comes from an explicit lat/long, a chosen
// address, or the caller's default address, in that order.
func OptimizeBasket(c *gin.Context) {
	user := currentUser(c)

	var req optimizeBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Basket is empty"})
		return
	}

	point, errMsg := resolveDeliveryPoint(user.UserID, req.AddressID, req.Lat, req.Long)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	catalog, err := loadOptimizerCatalog(req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	allowSwaps := true
	if req.AllowSwaps != nil {
		allowSwaps = *req.AllowSwaps
	}

	plan, err := services.Optimize(services.OptimizeRequest{
		Items:      req.Items,
		AllowSwaps: allowSwaps,
		AddrLat:    point.Lat,
		AddrLong:   point.Long,
	}, catalog)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Save {
		payload, _ := json.Marshal(req.Items)
		if _, err := DB.Exec(
			`INSERT INTO baskets (user_id, items, optimized_cost) VALUES ($1, $2, $3)`,
			user.UserID, string(payload), plan.GrandTotal,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save basket"})
			return
		}
	}

	itemsCount := 0
	for _, m := range plan.Marts {
		for _, it := range m.Items {
			itemsCount += it.Qty
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"address": gin.H{
			"id":      point.AddressID,
			"summary": point.Summary,
			"lat":     point.Lat,
			"long":    point.Long,
		},
		"items_count": itemsCount,
		"result":      plan,
		"notes":       "Pricing: ₹5/km + ₹5/kg. ETA tie-break when costs are equal. Approved marts & in-stock only.",
	})
}

// deliveryPoint is where a plan is priced against: resolved coordinates
// plus, when they came from a saved address, that address's identity.
type deliveryPoint struct {
	Lat       float64
	Long      float64
	AddressID *int
	Summary   string
}

// resolveDeliveryPoint picks the coordinates the plan prices against.
func resolveDeliveryPoint(userID int, addressID *int, lat, long *float64) (deliveryPoint, string) {
	if lat != nil && long != nil {
		return deliveryPoint{Lat: *lat, Long: *long}, ""
	}

	var query string
	var args []interface{}
	if addressID != nil {
		query = `SELECT address_id, line1, city, pincode, location_lat, location_long
		         FROM addresses WHERE address_id = $1 AND user_id = $2`
		args = []interface{}{*addressID, userID}
	} else {
		query = `SELECT address_id, line1, city, pincode, location_lat, location_long
		         FROM addresses WHERE user_id = $1 AND is_default = true`
		args = []interface{}{userID}
	}

	var id int
	var line1, city string
	var pincode *string
	var aLat, aLong *float64
	err := DB.QueryRow(query, args...).Scan(&id, &line1, &city, &pincode, &aLat, &aLong)
	if err == sql.ErrNoRows {
		return deliveryPoint{}, "No delivery address found. Add an address or pass lat/long."
	}
	if err != nil {
		return deliveryPoint{}, "Database error"
	}
	if aLat == nil || aLong == nil {
		return deliveryPoint{}, "Delivery address has no coordinates. Update the address first."
	}

	summary := line1 + ", " + city
	if pincode != nil && *pincode != "" {
		summary += " " + *pincode
	}
	return deliveryPoint{Lat: *aLat, Long: *aLong, AddressID: &id, Summary: summary}, ""
}

// loadOptimizerCatalog pulls every variant of the requested products: all
// rows sharing a name with any requested product, across all marts, so the
// optimizer can consider same-name swaps.
func loadOptimizerCatalog(items []models.BasketItem) ([]services.OptimizerProduct, error) {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, int64(it.ProductID))
	}

	rows, err := DB.Query(
		`SELECT p.product_id, p.mart_id, m.name, m.location_lat, m.location_long, m.approved,
		        p.name, p.price, p.stock, p.unit_weight_kg, COALESCE(p.image_url, '')
		 FROM products p
		 JOIN marts m ON m.mart_id = p.mart_id
		 WHERE p.name IN (SELECT name FROM products WHERE product_id = ANY($1))`,
		pq.Int64Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	catalog := []services.OptimizerProduct{}
	for rows.Next() {
		var op services.OptimizerProduct
		if err := rows.Scan(
			&op.ProductID, &op.MartID, &op.MartName, &op.MartLat, &op.MartLong, &op.MartApproved,
			&op.Name, &op.Price, &op.Stock, &op.UnitWeightKg, &op.ImageURL,
		); err != nil {
			return nil, err
		}
		catalog = append(catalog, op)
	}
	return catalog, rows.Err()
}
