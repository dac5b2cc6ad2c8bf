package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/practicedesk/internal/intake"
	"github.com/lalith-99/practicedesk/internal/models"
)

// HeaderSiriToken carries the shortcut's secret. HTTP headers are case
// insensitive, so shortcuts sending "x-siri-token" match too.
const HeaderSiriToken = "X-Siri-Token"

// ContextKeyPrincipal is where SiriToken stores the resolved principal.
//
// Why a constant?
//   - c.Get("principle") compiles fine and silently returns nothing.
//     Handlers go through GetPrincipal instead.
const ContextKeyPrincipal = "principal"

// Authenticator resolves a token. *intake.Service satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

// SiriToken returns a Gin middleware that authenticates the request from
// the X-Siri-Token header.
//
// On failure the chain is aborted with the status and message of the
// intake error: 401 for a missing or unknown token, 403 for a wrong
// firm-wide token, 500 (with a generic message) when the store failed.
// The handler never runs, so nothing is written.
func SiriToken(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := auth.Authenticate(c.Request.Context(), c.GetHeader(HeaderSiriToken))
		if err != nil {
			if intake.KindOf(err) == intake.KindInternal {
				// The cause is only ever logged; see RequestLogger.
				_ = c.Error(err)
			}
			Abort(c, intake.StatusCode(err), intake.PublicMessage(err))
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal returns the principal stored by SiriToken. ok is false on
// routes that are not behind the middleware.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	val, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return models.Principal{}, false
	}
	p, ok := val.(models.Principal)
	return p, ok
}

// Abort stops the chain with the JSON error envelope every shortcut
// response uses.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
