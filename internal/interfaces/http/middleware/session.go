package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/auth"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/logger"
)

// Session context keys
const (
	SessionClaimsKey = "session_claims"
	SessionIDKey     = "session_id"
	AdminTokenKey    = "admin_token"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

// SessionAuth authenticates storefront endpoints with the anonymous session
// token minted by POST /storefront/session. Valid claims put the session ID
// into the gin context and the request-scoped logger.
func SessionAuth(sessions *auth.SessionService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearer(c)
		if !ok {
			abortSessionError(c, log, nil, "ERR_UNAUTHORIZED", "Session token required")
			return
		}

		claims, err := sessions.Validate(token)
		if err != nil {
			code := "ERR_SESSION_INVALID"
			message := "Session token is invalid"
			if err == auth.ErrExpiredToken {
				code = "ERR_SESSION_EXPIRED"
				message = "Session has expired"
			}
			abortSessionError(c, log, err, code, message)
			return
		}

		sessionID, err := uuid.Parse(claims.SessionID)
		if err != nil {
			abortSessionError(c, log, err, "ERR_SESSION_INVALID", "Session token is invalid")
			return
		}

		c.Set(SessionClaimsKey, claims)
		c.Set(SessionIDKey, sessionID)

		// Also set in request context for the logger
		ctx := c.Request.Context()
		ctx, _ = logger.WithSessionID(ctx, logger.FromContext(ctx), claims.SessionID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AdminProxyAuth guards admin endpoints. The bearer token is not validated
// here; it is captured so handlers forward it to the backend, which owns
// admin authentication. A token query parameter is accepted as a fallback
// because browser WebSocket clients cannot set request headers.
func AdminProxyAuth(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearer(c)
		if !ok {
			token = c.Query("token")
		}
		if token == "" {
			abortSessionError(c, log, nil, "ERR_UNAUTHORIZED", "Admin token required")
			return
		}

		c.Set(AdminTokenKey, token)
		c.Next()
	}
}

// extractBearer pulls the bearer token from the Authorization header
func extractBearer(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" || !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	if token == "" {
		return "", false
	}
	return token, true
}

// abortSessionError rejects the request with a 401 envelope
func abortSessionError(c *gin.Context, log *zap.Logger, err error, code, message string) {
	if log != nil {
		log.Warn("Session authentication failed",
			zap.Error(err),
			zap.String("code", code),
			zap.String("path", c.Request.URL.Path),
		)
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetSessionID retrieves the authenticated session ID from gin.Context
func GetSessionID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(SessionIDKey)
	if !exists {
		return uuid.Nil, false
	}
	sessionID, ok := value.(uuid.UUID)
	return sessionID, ok
}

// GetSessionClaims retrieves session claims from gin.Context
func GetSessionClaims(c *gin.Context) *auth.SessionClaims {
	if value, exists := c.Get(SessionClaimsKey); exists {
		if claims, ok := value.(*auth.SessionClaims); ok {
			return claims
		}
	}
	return nil
}

// GetAdminToken retrieves the admin bearer token captured for forwarding
func GetAdminToken(c *gin.Context) string {
	if value, exists := c.Get(AdminTokenKey); exists {
		if token, ok := value.(string); ok {
			return token
		}
	}
	return ""
}
