package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// AdminExportOrders streams every order as an Excel sheet for offline
// reconciliation.
func AdminExportOrders(c *gin.Context) {
	rows, err := DB.Query(
		`SELECT o.order_id, u.username, o.total_cost, o.status,
		        COALESCE(o.delivery_address_snapshot, ''), o.created_at
		 FROM orders o
		 JOIN users u ON u.user_id = o.user_id
		 ORDER BY o.order_id`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}

	headerRow := sheet.AddRow()
	for _, h := range []string{"OrderID", "Username", "TotalCost", "Status", "Address", "CreatedAt"} {
		headerRow.AddCell().SetValue(h)
	}

	for rows.Next() {
		var orderID int
		var username, status, address string
		var totalCost float64
		var createdAt time.Time
		if err := rows.Scan(&orderID, &username, &totalCost, &status, &address, &createdAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan order"})
			return
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(orderID)
		row.AddCell().SetValue(username)
		row.AddCell().SetValue(totalCost)
		row.AddCell().SetValue(status)
		row.AddCell().SetValue(address)
		row.AddCell().SetValue(createdAt.Format("2006-01-02 15:04:05"))
	}

	c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		return
	}
}

// AdminExportProducts streams the full catalog as an Excel sheet.
func AdminExportProducts(c *gin.Context) {
	rows, err := DB.Query(
		`SELECT p.product_id, m.name, p.name, p.category, p.price, p.stock,
		        p.quality_score, p.unit_weight_kg
		 FROM products p
		 JOIN marts m ON m.mart_id = p.mart_id
		 ORDER BY p.product_id`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}

	headerRow := sheet.AddRow()
	for _, h := range []string{"ProductID", "Mart", "Name", "Category", "Price", "Stock", "QualityScore", "UnitWeightKg"} {
		headerRow.AddCell().SetValue(h)
	}

	for rows.Next() {
		var productID, stock int
		var mart, name, category string
		var price, quality, weight float64
		if err := rows.Scan(&productID, &mart, &name, &category, &price, &stock, &quality, &weight); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan product"})
			return
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(productID)
		row.AddCell().SetValue(mart)
		row.AddCell().SetValue(name)
		row.AddCell().SetValue(category)
		row.AddCell().SetValue(price)
		row.AddCell().SetValue(stock)
		row.AddCell().SetValue(quality)
		row.AddCell().SetValue(weight)
	}

	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		return
	}
}
