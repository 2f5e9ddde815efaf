package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"expiry-scanner-api/internal/infrastructure/jwt"
)

const (
	CtxUserID = "userID"
	CtxEmail  = "userEmail"
	CtxClaims = "claims"
)

type TokenValidator interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}

func AuthMiddleware(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, "missing Authorization header")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			abort(c, "invalid token format")
			return
		}

		claims, err := v.ValidateToken(tokenStr)
		if err != nil {
			abort(c, "invalid token")
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

func abort(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(
		http.StatusUnauthorized,
		gin.H{"success": false, "message": msg},
	)
}
