package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token's user id in the context.
func (api *API) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			jsonError(c, http.StatusUnauthorized, "missing Authorization header")
			c.Abort()
			return
		}
		if !api.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through. A token that is sent must
// still be valid.
func (api *API) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" && !api.authenticate(c, authHeader) {
			return
		}
		c.Next()
	}
}

func (api *API) authenticate(c *gin.Context, authHeader string) bool {
	// Expect: "Bearer token"
	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tokenString == "" {
		jsonError(c, http.StatusUnauthorized, "invalid token format")
		c.Abort()
		return false
	}

	claims, err := api.tokens.Parse(tokenString)
	if err != nil {
		api.logger.Debug("token rejected", "err", err, "request_id", c.GetString(requestIDKey))
		jsonError(c, http.StatusUnauthorized, "invalid token")
		c.Abort()
		return false
	}
	userID, err := claims.UserID()
	if err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid token claims")
		c.Abort()
		return false
	}

	c.Set(userIDKey, userID)
	return true
}
