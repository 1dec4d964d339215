// auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const authUserKey = "authUser"

// AuthMiddleware valida el JWT del backend y deja el usuario (con su token) en el contexto.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		user, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(authUserKey, user)
		c.Set("userID", user.ID)
		c.Set("userRole", user.Role)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// CurrentUser devuelve el usuario que dejó AuthMiddleware, o nil.
func CurrentUser(c *gin.Context) *service.AuthUser {
	v, ok := c.Get(authUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*service.AuthUser)
	return user
}
