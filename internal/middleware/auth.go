package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/util"
)

// AuthProtected requires the bearer token of the session the console holds.
func AuthProtected(holder StateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		t := strings.Split(authHeader, " ")
		if len(t) < 2 || t[0] != "Bearer" {
			resputil.HTTPError(c, http.StatusUnauthorized, "Invalid token", resputil.TokenInvalid)
			c.Abort()
			return
		}

		state := holder.State()
		current := holder.AccessToken()
		if state.Principal == nil || current == "" {
			resputil.HTTPError(c, http.StatusUnauthorized, "Session expired", resputil.TokenExpired)
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(t[1]), []byte(current)) != 1 {
			resputil.HTTPError(c, http.StatusUnauthorized, "Token does not match the console session", resputil.TokenInvalid)
			c.Abort()
			return
		}

		c.Set(util.PrincipalKey, *state.Principal)
		c.Next()
	}
}
