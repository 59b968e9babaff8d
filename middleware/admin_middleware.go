package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/gin-gonic/gin"
)

// AdminPasswordMiddleware guards the admin API with the shared back-office
// password, sent as "X-Admin-Password" or "Authorization: Bearer <password>".
// An empty password locks the admin API entirely.
func AdminPasswordMiddleware(password string) gin.HandlerFunc {
	if password == "" {
		log.Println("⚠️ ADMIN_PASSWORD not set, admin API is locked")
	}
	expected := []byte(password)

	return func(c *gin.Context) {
		if len(expected) == 0 {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(c, "Admin API disabled"))
			c.Abort()
			return
		}

		given := c.GetHeader("X-Admin-Password")
		if given == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				given = parts[1]
			}
		}
		if given == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(c, "Unauthorized - no password provided"))
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(given), expected) != 1 {
			log.Printf("[auth] rejected admin request from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(c, "Unauthorized - invalid password"))
			c.Abort()
			return
		}

		c.Next()
	}
}
