package handlers

import (
	"net/http"
	"strconv"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"

	"github.com/gin-gonic/gin"
)

// ListAnalyticsLogs returns recent audit events, newest first. Superuser only.
func ListAnalyticsLogs(c *gin.Context) {
	limit := 100
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 1000 {
		limit = v
	}

	query := `SELECT log_id, admin_id, action_type, details, timestamp
	          FROM analytics_logs`
	args := []interface{}{}
	if action := c.Query("action_type"); action != "" {
		args = append(args, action)
		query += ` WHERE action_type = $1`
	}
	args = append(args, limit)
	query += ` ORDER BY timestamp DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	logs := []models.AnalyticsLog{}
	for rows.Next() {
		var l models.AnalyticsLog
		if err := rows.Scan(&l.LogID, &l.AdminID, &l.ActionType, &l.Details, &l.Timestamp); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan log"})
			return
		}
		logs = append(logs, l)
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}
