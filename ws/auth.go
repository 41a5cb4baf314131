package ws

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"drill"
)

const userIDKey = "user_id"

// Interface compliance check.
var _ drill.UserResolver = StaticResolver{}

// StaticResolver resolves a single configured bearer token to a fixed user
// identity. It stands in for the external auth provider at the boundary;
// with no token configured it rejects every request.
type StaticResolver struct {
	Token  string
	UserID string
}

// Resolve returns the configured user identity when the token matches.
func (r StaticResolver) Resolve(_ context.Context, token string) (string, error) {
	if r.Token == "" || token != r.Token {
		return "", errors.New("invalid token")
	}
	return r.UserID, nil
}

// requireUser resolves the bearer token on each request and stores the
// user identity in the request context.
func requireUser(resolver drill.UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		userID, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}
