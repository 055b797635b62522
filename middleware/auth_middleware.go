package middleware

import (
	"strings"

	"orgdrive/models"
	"orgdrive/utils"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// OptionalAuth attaches the caller identified by the bearer token to the
// request. Requests without a valid token continue as anonymous callers; the
// services decide what anonymous callers may see.
func OptionalAuth(jwtSecret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := models.Anonymous()

		if token := extractBearerToken(c); token != "" {
			claims, err := utils.VerifyIdentityToken(token, jwtSecret, issuer)
			if err != nil {
				utils.Component("auth").WithError(err).WithField("path", c.FullPath()).Warn("ignoring invalid bearer token")
			} else {
				caller = models.Caller{TokenIdentifier: claims.Identity()}
			}
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom returns the caller attached by OptionalAuth, or an anonymous
// caller when the middleware did not run.
func CallerFrom(c *gin.Context) models.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(models.Caller); ok {
			return caller
		}
	}
	return models.Anonymous()
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}
