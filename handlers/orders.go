package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"
	"github.com/Balaga-Lokesh/SAVR-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createOrderRequest struct {
	Items         []models.BasketItem `json:"items" binding:"required"`
	AddressID     *int                `json:"address_id"`
	ContactNumber string              `json:"contact_number"`
}

type createOrderFromPlanRequest struct {
	Plan          models.OptimizationPlan `json:"plan" binding:"required"`
	AddressID     *int                    `json:"address_id"`
	ContactNumber string                  `json:"contact_number"`
}

// orderAddress loads the delivery address for an order, falling back to the
// caller's default when none is named.
func orderAddress(userID int, addressID *int) (*models.Address, string) {
	var query string
	var args []interface{}
	if addressID != nil {
		query = `SELECT address_id, user_id, line1, line2, city, state, pincode, location_lat, location_long
		         FROM addresses WHERE address_id = $1 AND user_id = $2`
		args = []interface{}{*addressID, userID}
	} else {
		query = `SELECT address_id, user_id, line1, line2, city, state, pincode, location_lat, location_long
		         FROM addresses WHERE user_id = $1 AND is_default = true`
		args = []interface{}{userID}
	}

	var a models.Address
	err := DB.QueryRow(query, args...).Scan(
		&a.AddressID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.State, &a.Pincode,
		&a.LocationLat, &a.LocationLong,
	)
	if err == sql.ErrNoRows {
		return nil, "No delivery address found. Add an address first."
	}
	if err != nil {
		return nil, "Database error"
	}
	return &a, ""
}

// CreateOrder places a single order, sourcing every line from the mart
// nearest to the delivery address that has the product in stock. The
// delivery charge comes from the chosen mart's distance and the total
// line weight.
func CreateOrder(c *gin.Context) {
	user := currentUser(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order is empty"})
		return
	}
	contact := strings.TrimSpace(req.ContactNumber)
	if contact == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact_number is required"})
		return
	}

	addr, errMsg := orderAddress(user.UserID, req.AddressID)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}
	if addr.LocationLat == nil || addr.LocationLong == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery address has no coordinates. Update the address first."})
		return
	}

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	itemsTotal := 0.0
	totalWeight := 0.0
	type line struct {
		productID int
		martID    int
		qty       int
		price     float64
	}
	type martInfo struct {
		name string
		lat  float64
		long float64
	}
	lines := make([]line, 0, len(req.Items))
	marts := map[int]martInfo{}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
			return
		}

		// Nearest approved in-stock variant of the same product name.
		var l line
		var unitWeight float64
		var m martInfo
		err := tx.QueryRow(
			`SELECT p.product_id, p.mart_id, p.price, p.unit_weight_kg,
			        m.name, m.location_lat, m.location_long
			 FROM products p
			 JOIN marts m ON m.mart_id = p.mart_id
			 WHERE p.name = (SELECT name FROM products WHERE product_id = $1)
			   AND m.approved = true AND p.stock >= $2
			 ORDER BY (m.location_lat - $3)^2 + (m.location_long - $4)^2
			 LIMIT 1`,
			item.ProductID, item.Quantity, *addr.LocationLat, *addr.LocationLong,
		).Scan(&l.productID, &l.martID, &l.price, &unitWeight, &m.name, &m.lat, &m.long)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A product is out of stock at every mart"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if item.WeightKg != nil {
			unitWeight = *item.WeightKg
		}
		l.qty = item.Quantity
		lines = append(lines, l)
		marts[l.martID] = m
		itemsTotal += services.LinePrice(l.price, l.qty)
		totalWeight += unitWeight * float64(l.qty)
	}

	// Nearest involved mart sets the delivery distance.
	var chosenMartID int
	var chosenMart martInfo
	bestDist := -1.0
	for id, m := range marts {
		d := services.DistanceKm(*addr.LocationLat, *addr.LocationLong, m.lat, m.long)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			chosenMartID = id
			chosenMart = m
		}
	}
	if bestDist < 0 {
		bestDist = 0
	}
	deliveryCharge := services.DeliveryCharge(bestDist, totalWeight)
	total := services.Round2(itemsTotal + float64(deliveryCharge))

	snapshot := addr.Summary()
	var orderID int
	err = tx.QueryRow(
		`INSERT INTO orders (user_id, total_cost, status, delivery_address_id,
		                     delivery_address_snapshot, delivery_address_lat, delivery_address_long,
		                     contact_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING order_id`,
		user.UserID, total, models.OrderPending, addr.AddressID,
		snapshot, addr.LocationLat, addr.LocationLong, contact,
	).Scan(&orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	for _, l := range lines {
		res, err := tx.Exec(
			`UPDATE products SET stock = stock - $1, updated_at = now()
			 WHERE product_id = $2 AND stock >= $1`,
			l.qty, l.productID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Stock changed while placing the order. Try again."})
			return
		}
		if _, err := tx.Exec(
			`INSERT INTO order_items (order_id, product_id, mart_id, quantity, price_at_purchase)
			 VALUES ($1, $2, $3, $4, $5)`,
			orderID, l.productID, l.martID, l.qty, l.price,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO payments (order_id, provider, provider_order_id, amount, status) VALUES ($1, 'cod', $2, $3, $4)`,
		orderID, uuid.NewString(), total, models.PaymentPending,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	DeliveryFeed.BroadcastOrder(orderID, models.OrderPending)
	c.JSON(http.StatusCreated, gin.H{
		"message":          "Order placed",
		"order_id":         orderID,
		"order_ids":        []int{orderID},
		"total_cost":       total,
		"contact_number":   contact,
		"chosen_mart_id":   chosenMartID,
		"chosen_mart_name": chosenMart.name,
		"distance_km":      services.Round3(bestDist),
		"delivery_charge":  deliveryCharge,
		"total_weight_kg":  services.Round3(totalWeight),
	})
}

// CreateOrderFromPlan materializes an optimization plan into one order per
// mart, all inside one transaction so a stock conflict cancels the whole
// checkout. Only the plan's product ids and quantities are trusted: prices
// are re-read from the catalog and each mart's delivery charge is
// recomputed from its distance to the address, so a tampered plan cannot
// change what the order costs. Unapproved marts and unknown products are
// skipped.
func CreateOrderFromPlan(c *gin.Context) {
	user := currentUser(c)

	var req createOrderFromPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Plan.Marts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan has no marts"})
		return
	}
	contact := strings.TrimSpace(req.ContactNumber)
	if contact == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contact_number is required"})
		return
	}

	addr, errMsg := orderAddress(user.UserID, req.AddressID)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}
	if addr.LocationLat == nil || addr.LocationLong == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery address has no coordinates. Update the address first."})
		return
	}
	snapshot := addr.Summary()

	tx, err := DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer tx.Rollback()

	type orderPayload struct {
		OrderID        int     `json:"order_id"`
		MartID         int     `json:"mart_id"`
		MartName       string  `json:"mart_name"`
		TotalCost      float64 `json:"total_cost"`
		DistanceKm     float64 `json:"distance_km"`
		DeliveryCharge int     `json:"delivery_charge"`
		TotalWeightKg  float64 `json:"total_weight_kg"`
	}
	created := make([]orderPayload, 0, len(req.Plan.Marts))
	grandTotal := 0.0

	for _, mart := range req.Plan.Marts {
		if len(mart.Items) == 0 {
			continue
		}

		var martName string
		var martLat, martLong float64
		err := tx.QueryRow(
			`SELECT name, location_lat, location_long FROM marts
			 WHERE mart_id = $1 AND approved = true`,
			mart.MartID,
		).Scan(&martName, &martLat, &martLong)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		type line struct {
			productID int
			qty       int
			price     float64
		}
		lines := make([]line, 0, len(mart.Items))
		itemsTotal := 0.0
		totalWeight := 0.0

		for _, item := range mart.Items {
			if item.Qty <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Plan contains a non-positive quantity"})
				return
			}

			// Catalog is authoritative: the plan's prices are ignored.
			var price, unitWeight float64
			err := tx.QueryRow(
				`SELECT price, unit_weight_kg FROM products
				 WHERE product_id = $1 AND mart_id = $2`,
				item.ProductID, mart.MartID,
			).Scan(&price, &unitWeight)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
				return
			}

			lines = append(lines, line{productID: item.ProductID, qty: item.Qty, price: price})
			itemsTotal += services.LinePrice(price, item.Qty)
			totalWeight += unitWeight * float64(item.Qty)
		}
		if len(lines) == 0 {
			continue
		}

		dist := services.DistanceKm(*addr.LocationLat, *addr.LocationLong, martLat, martLong)
		deliveryCharge := services.DeliveryCharge(dist, totalWeight)
		martTotal := services.Round2(itemsTotal + float64(deliveryCharge))

		var orderID int
		err = tx.QueryRow(
			`INSERT INTO orders (user_id, total_cost, status, delivery_address_id,
			                     delivery_address_snapshot, delivery_address_lat, delivery_address_long,
			                     contact_number)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING order_id`,
			user.UserID, martTotal, models.OrderPending, addr.AddressID,
			snapshot, addr.LocationLat, addr.LocationLong, contact,
		).Scan(&orderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		for _, l := range lines {
			res, err := tx.Exec(
				`UPDATE products SET stock = stock - $1, updated_at = now()
				 WHERE product_id = $2 AND mart_id = $3 AND stock >= $1`,
				l.qty, l.productID, mart.MartID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
				return
			}
			if n, _ := res.RowsAffected(); n == 0 {
				c.JSON(http.StatusConflict, gin.H{"error": "Stock changed since the plan was computed. Re-optimize and try again."})
				return
			}

			if _, err := tx.Exec(
				`INSERT INTO order_items (order_id, product_id, mart_id, quantity, price_at_purchase)
				 VALUES ($1, $2, $3, $4, $5)`,
				orderID, l.productID, mart.MartID, l.qty, l.price,
			); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
				return
			}
		}

		if _, err := tx.Exec(
			`INSERT INTO payments (order_id, provider, provider_order_id, amount, status) VALUES ($1, 'cod', $2, $3, $4)`,
			orderID, uuid.NewString(), martTotal, models.PaymentPending,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		created = append(created, orderPayload{
			OrderID:        orderID,
			MartID:         mart.MartID,
			MartName:       martName,
			TotalCost:      martTotal,
			DistanceKm:     services.Round3(dist),
			DeliveryCharge: deliveryCharge,
			TotalWeightKg:  services.Round3(totalWeight),
		})
		grandTotal += martTotal
	}

	if len(created) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan has no usable marts"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	for _, o := range created {
		DeliveryFeed.BroadcastOrder(o.OrderID, models.OrderPending)
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Orders placed",
		"orders":      created,
		"grand_total": services.Round2(grandTotal),
	})
}

// ListOrders returns the caller's orders with their line items, newest
// first.
func ListOrders(c *gin.Context) {
	user := currentUser(c)

	rows, err := DB.Query(
		`SELECT order_id, user_id, total_cost, status, delivery_address_id,
		        delivery_address_snapshot, created_at, updated_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		user.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.OrderID, &o.UserID, &o.TotalCost, &o.Status, &o.DeliveryAddressID,
			&o.DeliveryAddressSnapshot, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}
		orders = append(orders, o)
	}

	for i := range orders {
		items, err := loadOrderItems(orders[i].OrderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		orders[i].Items = items
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GetOrder returns one of the caller's orders with items.
func GetOrder(c *gin.Context) {
	user := currentUser(c)
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var o models.Order
	err = DB.QueryRow(
		`SELECT order_id, user_id, total_cost, status, delivery_address_id,
		        delivery_address_snapshot, delivery_address_lat, delivery_address_long,
		        created_at, updated_at
		 FROM orders WHERE order_id = $1 AND user_id = $2`,
		orderID, user.UserID,
	).Scan(
		&o.OrderID, &o.UserID, &o.TotalCost, &o.Status, &o.DeliveryAddressID,
		&o.DeliveryAddressSnapshot, &o.DeliveryAddressLat, &o.DeliveryAddressLong,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	o.Items, err = loadOrderItems(o.OrderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, o)
}

func loadOrderItems(orderID int) ([]models.OrderItem, error) {
	rows, err := DB.Query(
		`SELECT oi.item_id, oi.order_id, oi.product_id, p.name, oi.mart_id, oi.quantity, oi.price_at_purchase
		 FROM order_items oi
		 JOIN products p ON p.product_id = oi.product_id
		 WHERE oi.order_id = $1 ORDER BY oi.item_id`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(
			&it.ItemID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.MartID, &it.Quantity, &it.PriceAtPurchase,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
