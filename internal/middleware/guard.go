package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/guard"
	"github.com/raids-lab/siteadmin/pkg/session"
)

// StateSource is the part of the session holder the middleware reads.
type StateSource interface {
	State() session.State
	AccessToken() string
}

// Guard routes every request through the console's decision table: a
// session still resolving answers 503, redirects answer 302.
func Guard(holder StateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := guard.Decide(holder.State(), c.Request.URL.Path)
		switch decision {
		case guard.ShowLoading:
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resputil.Response[gin.H]{
				Code: resputil.SessionLoading,
				Data: gin.H{"loading": true},
				Msg:  "session is loading",
			})
		case guard.RedirectLogin:
			c.Redirect(http.StatusFound, guard.LoginPath)
			c.Abort()
		case guard.RedirectAdmin:
			c.Redirect(http.StatusFound, guard.AdminPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}
