package middleware

import (
	"net/http"
	"strings"

	"equiplend/internal/entity"
	"equiplend/internal/service"
	"equiplend/pkg/auth"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// AuthRequired validates the Bearer token and resolves the full user row,
// so handlers always see current role and name, not a token snapshot.
func AuthRequired(tokens *auth.TokenManager, users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": entity.ErrUnauthorized.Error()})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": entity.ErrUnauthorized.Error()})
			return
		}

		user, err := users.GetUserByEmail(c.Request.Context(), claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": entity.ErrUnauthorized.Error()})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": entity.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthRequired, if any.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*entity.User)
	return user, ok
}
