package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/session"
)

func TestDecide(t *testing.T) {
	operator := &gateway.Principal{ID: "u-1", Email: "admin@example.com"}
	loading := session.State{Loading: true}
	loadingWithUser := session.State{Loading: true, Principal: operator}
	signedIn := session.State{Principal: operator}
	signedOut := session.State{}

	tests := []struct {
		name  string
		state session.State
		path  string
		want  Decision
	}{
		{"loading on login", loading, "/login", ShowLoading},
		{"loading on admin", loading, "/admin/orders", ShowLoading},
		{"loading wins over principal", loadingWithUser, "/admin", ShowLoading},
		{"signed in on login", signedIn, "/login", RedirectAdmin},
		{"signed in on admin", signedIn, "/admin", Render},
		{"signed in on admin subpath", signedIn, "/admin/messages/3", Render},
		{"signed out on login", signedOut, "/login", Render},
		{"signed out on admin", signedOut, "/admin/services", RedirectLogin},
		{"root always redirects", signedOut, "/", RedirectAdmin},
		{"root while loading", loading, "/", RedirectAdmin},
		{"unguarded path", signedOut, "/v1/healthz", Render},
		{"prefix lookalike is unguarded", signedOut, "/administrator", Render},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state, tt.path), "got %s", Decide(tt.state, tt.path))
		})
	}
}
