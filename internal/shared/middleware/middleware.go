package middleware

import (
	"net/http"
	"strings"

	"darshan/internal/shared/config"
	"darshan/internal/shared/upstream"
	"darshan/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context keys set by GuestAuth
const (
	ContextSessionID = "session_id"
	ContextContact   = "contact"
	ContextChannel   = "channel"
)

// GuestAuth validates the service-issued guest session JWT and tags the
// request with the owning session, so that upstream 401/403 responses can
// tear it down.
func GuestAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})

		if err != nil || !token.Valid {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token claims", nil, nil)
			c.Abort()
			return
		}

		if tokenType, ok := claims["type"]; !ok || tokenType != "guest" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token type", nil, nil)
			c.Abort()
			return
		}

		sessionID, _ := claims["session_id"].(string)
		if sessionID == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "token carries no session", nil, nil)
			c.Abort()
			return
		}

		c.Set(ContextSessionID, sessionID)
		if contact, ok := claims["contact"].(string); ok {
			c.Set(ContextContact, contact)
		}
		if channel, ok := claims["channel"].(string); ok {
			c.Set(ContextChannel, channel)
		}

		// Tag the request context for upstream auth-failure hooks
		c.Request = c.Request.WithContext(
			upstream.ContextWithSessionID(c.Request.Context(), sessionID))

		c.Next()
	}
}
