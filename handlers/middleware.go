package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/Balaga-Lokesh/SAVR-sub000/config"
	"github.com/Balaga-Lokesh/SAVR-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims are the JWT claims carried by admin console sessions.
type AdminClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenAuthMiddleware authenticates `Authorization: Token <hex>` headers
// against the user_tokens table. This is the single credential mechanism for
// all shopper-facing protected routes.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := bearerValue(c, "Token")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		var user models.User
		var tokenCreated time.Time
		query := `SELECT u.user_id, u.username, u.email, u.contact_number, u.is_staff, u.is_superuser, t.created_at
		          FROM user_tokens t
		          JOIN users u ON u.user_id = t.user_id
		          WHERE t.token_key = $1`
		err := DB.QueryRow(query, key).Scan(
			&user.UserID, &user.Username, &user.Email, &user.ContactNumber,
			&user.IsStaff, &user.IsSuperuser, &tokenCreated,
		)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			c.Abort()
			return
		}

		if ttl := config.AppConfig.TokenTTLMinutes; ttl > 0 {
			if time.Now().After(tokenCreated.Add(time.Duration(ttl) * time.Minute)) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired. Please login again."})
				c.Abort()
				return
			}
		}

		c.Set("user", &user)
		c.Set("token_key", key)
		c.Next()
	}
}

// SuperuserMiddleware gates admin operations on the is_superuser flag.
// Must run after TokenAuthMiddleware.
func SuperuserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsSuperuser {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// PartnerAuthMiddleware authenticates delivery partner tokens.
func PartnerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := bearerValue(c, "Token")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		var partnerID int
		var name string
		query := `SELECT p.partner_id, p.name
		          FROM delivery_partner_tokens t
		          JOIN delivery_partners p ON p.partner_id = t.partner_id
		          WHERE t.token_key = $1 AND p.approved = true`
		err := DB.QueryRow(query, key).Scan(&partnerID, &name)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			c.Abort()
			return
		}

		c.Set("partner_id", partnerID)
		c.Set("partner_name", name)
		c.Next()
	}
}

// AdminJWTMiddleware validates the admin console's JWT bearer sessions.
func AdminJWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerValue(c, "Bearer")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.AppConfig.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("admin_user_id", claims.UserID)
		c.Set("admin_email", claims.Email)
		c.Next()
	}
}

// bearerValue extracts the value of an `Authorization: <scheme> <value>`
// header, case-insensitive on the scheme.
func bearerValue(c *gin.Context, scheme string) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", false
	}
	value := strings.TrimSpace(parts[1])
	return value, value != ""
}

// currentUser returns the token-authenticated user, nil outside protected
// routes.
func currentUser(c *gin.Context) *models.User {
	v, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
