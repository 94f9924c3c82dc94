package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"ctchen222/Prompt-Benchmark/internal/api/models"
	"ctchen222/Prompt-Benchmark/internal/api/response"
	"ctchen222/Prompt-Benchmark/internal/apperror"
	"ctchen222/Prompt-Benchmark/internal/auth"
)

const ctxUserKey = "user"

// Authenticator resolves a bearer token to a stored user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// CurrentUser returns the user set by the auth middleware, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// OptionalAuth identifies the caller when an Authorization header is present.
// Without a header the request continues anonymously. An unusable token also
// continues anonymously unless strict is set, in which case it is a 401.
func OptionalAuth(authn Authenticator, strict bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := auth.BearerToken(header)
		if !ok {
			if strict {
				response.Error(c, apperror.Unauthorized("could not validate credentials"))
				return
			}
			c.Next()
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			if strict || !apperror.Is(err, apperror.CodeUnauthorized) {
				response.Error(c, err)
				return
			}
			c.Next()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// RequireAuth rejects requests without a valid bearer token naming an existing user.
func RequireAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, apperror.Unauthorized("not authenticated"))
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth. The admin flag comes from the
// user row loaded for this request, never from the token.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, apperror.Unauthorized("not authenticated"))
			return
		}
		if !user.IsAdmin {
			response.Error(c, apperror.Forbidden("admin privileges required"))
			return
		}
		c.Next()
	}
}

// QueryToken copies a ?token= query parameter into the Authorization header
// when the header is absent. Browsers cannot set headers on WebSocket upgrades.
func QueryToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		c.Next()
	}
}
