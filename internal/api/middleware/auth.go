package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TRHS-OMNIA/crew-backend/pkg/jwt"
	"github.com/TRHS-OMNIA/crew-backend/pkg/response"
)

// JWTAuth extracts and verifies the session token from
// Authorization: Bearer <token> and injects the session identity into the
// request context.
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseAuthHeader(c, jwtMgr)
		if !ok {
			response.Unauthorized(c, "Sign in to use this part of the application.")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth injects the session identity when a valid token is present and
// lets the request through anonymously otherwise. Public event pages render
// differently for signed-in viewers.
func OptionalAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseAuthHeader(c, jwtMgr); ok {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// AdminOnly gates a route on the admin claim. Must run after JWTAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, exists := c.Get("admin")
		if !exists || !admin.(bool) {
			response.Forbidden(c, "This action is restricted to administrators.")
			c.Abort()
			return
		}
		c.Next()
	}
}

func parseAuthHeader(c *gin.Context, jwtMgr *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := jwtMgr.ParseToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims *jwt.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("display_name", claims.DisplayName)
	c.Set("period", claims.Period)
	c.Set("grade", claims.Grade)
	c.Set("admin", claims.Admin)
}
