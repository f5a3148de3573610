package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sigmat-api/models"
	"sigmat-api/repositories"
	"sigmat-api/services"
	"sigmat-api/utils"
)

const (
	identityKey = "identity"
	userIDKey   = "user_id"
)

// AuthMiddleware resolves the bearer token into an Identity. Human callers must
// still exist and must not be blocked.
func AuthMiddleware(tokens *services.TokenService, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		identity, err := tokens.Parse(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		if userID, ok := identity.UserID(); ok {
			user, err := users.GetByID(c.Request.Context(), userID)
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				abort(c, http.StatusUnauthorized, "User not found")
				return
			case err != nil:
				_ = c.Error(err)
				abort(c, http.StatusInternalServerError, "Internal server error")
				return
			case user.Status == models.UserStatusBlocked:
				abort(c, http.StatusForbidden, "Account blocked")
				return
			}
			c.Set(userIDKey, userID)
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireHuman rejects the admin identity on routes that act as a user.
func RequireHuman() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c).UserID(); !ok {
			abort(c, http.StatusForbidden, "Admin cannot use this endpoint")
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentIdentity(c).IsPrivileged() {
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(models.Identity); ok {
			return identity
		}
	}
	return models.Identity{}
}

// CurrentUserID is the caller's user id; empty for the admin.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func abort(c *gin.Context, status int, message string) {
	utils.SendError(c, status, message)
	c.Abort()
}
