package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/session"
	"github.com/raids-lab/siteadmin/pkg/util"
)

type fakeSource struct {
	state session.State
	token string
}

func (f fakeSource) State() session.State { return f.state }
func (f fakeSource) AccessToken() string  { return f.token }

func newEngine(src StateSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Guard(src))
	admin := r.Group("/admin", AuthProtected(src))
	admin.GET("/whoami", func(c *gin.Context) {
		p, err := util.GetPrincipalFromGinContext(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, p.Email)
	})
	r.GET("/login", func(c *gin.Context) { c.String(http.StatusOK, "login") })
	return r
}

func serve(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuardAndAuth(t *testing.T) {
	operator := &gateway.Principal{ID: "u-1", Email: "admin@example.com"}

	tests := []struct {
		name     string
		src      fakeSource
		path     string
		token    string
		code     int
		location string
		body     string
	}{
		{"loading", fakeSource{state: session.State{Loading: true}}, "/admin/whoami", "", http.StatusServiceUnavailable, "", ""},
		{"signed out admin", fakeSource{}, "/admin/whoami", "", http.StatusFound, "/login", ""},
		{"signed out login", fakeSource{}, "/login", "", http.StatusOK, "", "login"},
		{"signed in login", fakeSource{state: session.State{Principal: operator}, token: "t"}, "/login", "", http.StatusFound, "/admin", ""},
		{"missing bearer", fakeSource{state: session.State{Principal: operator}, token: "t"}, "/admin/whoami", "", http.StatusUnauthorized, "", ""},
		{"wrong bearer", fakeSource{state: session.State{Principal: operator}, token: "t"}, "/admin/whoami", "x", http.StatusUnauthorized, "", ""},
		{"session bearer", fakeSource{state: session.State{Principal: operator}, token: "t"}, "/admin/whoami", "t", http.StatusOK, "", "admin@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newEngine(tt.src), tt.path, tt.token)
			assert.Equal(t, tt.code, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
