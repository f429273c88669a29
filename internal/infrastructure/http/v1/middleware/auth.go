package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"metatype/internal/core/apperror"
	appctx "metatype/internal/core/context"
)

const (
	HeaderAPIClient = "X-API-Client"
	HeaderAPIKey    = "X-API-Key"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.CallerContext, error)
}

// APIKeyValidator verifies service account keys.
type APIKeyValidator interface {
	ValidateKey(client, key string) (*appctx.CallerContext, error)
}

// Auth middleware authenticates the request and populates caller context.
// Bearer tokens are checked first; service accounts may authenticate with
// X-API-Client / X-API-Key headers instead.
func Auth(tokens JWTValidator, keys APIKeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			if keys != nil && c.GetHeader(HeaderAPIKey) != "" {
				authenticateAPIKey(c, keys)
				return
			}
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		caller, err := tokens.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		setCaller(c, caller)
		c.Next()
	}
}

func authenticateAPIKey(c *gin.Context, keys APIKeyValidator) {
	caller, err := keys.ValidateKey(c.GetHeader(HeaderAPIClient), c.GetHeader(HeaderAPIKey))
	if err != nil {
		_ = c.Error(apperror.NewUnauthorized("invalid api key"))
		c.Abort()
		return
	}
	setCaller(c, caller)
	c.Next()
}

func setCaller(c *gin.Context, caller *appctx.CallerContext) {
	ctx := appctx.WithCaller(c.Request.Context(), caller)
	c.Request = c.Request.WithContext(ctx)

	// Store in gin context for easy access
	c.Set("subject", caller.Subject)
	c.Set("roles", caller.Roles)
}

// RequireRole middleware checks if the caller has one of the required roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := appctx.GetCaller(c.Request.Context())
		if caller == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, required := range roles {
			for _, role := range caller.Roles {
				if role == required {
					c.Next()
					return
				}
			}
		}
		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
