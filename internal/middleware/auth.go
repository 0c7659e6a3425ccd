package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/services"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

// IdentityKey is where RequireAuth stores the caller's identity on the
// gin context.
const IdentityKey = "identity"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "jeton manquant ou invalide"})
			return
		}
		identity, err := am.authService.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "jeton manquant ou invalide"})
			return
		}
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. ADMIN always passes.
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles)+1)
	allowed[types.RoleAdmin] = true
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = true
	}
	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "jeton manquant ou invalide"})
			return
		}
		if !allowed[identity.Role] {
			am.log.Warn("Role denied", "user_id", identity.UserID.String(), "role", identity.Role, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "accès refusé"})
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity RequireAuth attached, or nil on
// unauthenticated routes.
func GetIdentity(c *gin.Context) *services.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*services.Identity)
	if !ok {
		return nil
	}
	return identity
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
