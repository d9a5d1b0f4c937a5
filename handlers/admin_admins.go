package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminListAdmins returns every console account.
func AdminListAdmins(c *gin.Context) {
	rows, err := DB.Query(
		`SELECT admin_id, username, email, role, created_at, updated_at
		 FROM admins ORDER BY admin_id`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	admins := []models.Admin{}
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.AdminID, &a.Username, &a.Email, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan admin"})
			return
		}
		admins = append(admins, a)
	}

	c.JSON(http.StatusOK, gin.H{"admins": admins, "count": len(admins)})
}

// AdminCreateAdmin provisions a new console account. Role defaults to
// mart_admin.
func AdminCreateAdmin(c *gin.Context) {
	var req struct {
		Username string  `json:"username" binding:"required"`
		Email    *string `json:"email"`
		Password string  `json:"password" binding:"required,min=8"`
		Role     string  `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Role == "" {
		req.Role = models.AdminRoleMart
	}
	if req.Role != models.AdminRoleMain && req.Role != models.AdminRoleMart {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be main_admin or mart_admin"})
		return
	}

	var exists bool
	if err := DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM admins WHERE username = $1)`, req.Username,
	).Scan(&exists); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	var adminID int
	err = DB.QueryRow(
		`INSERT INTO admins (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4) RETURNING admin_id`,
		req.Username, req.Email, string(hash), req.Role,
	).Scan(&adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin"})
		return
	}

	actorID := c.GetInt("admin_user_id")
	logAction(&actorID, "admin_create", gin.H{"admin_id": adminID, "role": req.Role})
	c.JSON(http.StatusCreated, gin.H{"message": "Admin created", "admin_id": adminID})
}

// AdminDeleteAdmin removes a console account. Deleting your own account is
// rejected so the console cannot lock itself out.
func AdminDeleteAdmin(c *gin.Context) {
	adminID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid admin ID"})
		return
	}
	if adminID == c.GetInt("admin_user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	res, err := DB.Exec(`DELETE FROM admins WHERE admin_id = $1`, adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
		return
	}

	actorID := c.GetInt("admin_user_id")
	logAction(&actorID, "admin_delete", gin.H{"admin_id": adminID})
	c.JSON(http.StatusOK, gin.H{"message": "Admin deleted"})
}
