package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/models"
)

const principalKey = "principal"

// Authorize runs the gate for every request of the route. With no roles any
// authenticated user passes.
func Authorize(gate *auth.Gate, roles ...models.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := gate.Authorize(c.Request.Context(), c.GetHeader("Authorization"), roles...)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Set("userID", principal.UserID())
		c.Next()
	}
}

// CurrentPrincipal returns the caller stored by Authorize, or nil
func CurrentPrincipal(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}
