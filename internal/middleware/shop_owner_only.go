// shop_owner_only.go
package middleware

import (
	"net/http"

	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

func ShopOwnerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") != service.RoleShopOwner {
			c.JSON(http.StatusForbidden, gin.H{"error": "shop owner privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
