// Package guard decides what a request for a console path gets, given the
// operator's session state.
package guard

import (
	"strings"

	"github.com/raids-lab/siteadmin/pkg/session"
)

type Decision int

const (
	Render Decision = iota
	ShowLoading
	RedirectLogin
	RedirectAdmin
)

func (d Decision) String() string {
	switch d {
	case ShowLoading:
		return "loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectAdmin:
		return "redirect-admin"
	default:
		return "render"
	}
}

const (
	RootPath  = "/"
	LoginPath = "/login"
	AdminPath = "/admin"
)

func IsAdminPath(path string) bool {
	return path == AdminPath || strings.HasPrefix(path, AdminPath+"/")
}

// Decide applies the console's routing table. Paths outside /login and
// /admin are not guarded, except the root which always goes to /admin.
func Decide(state session.State, path string) Decision {
	if path == RootPath {
		return RedirectAdmin
	}
	login := path == LoginPath
	if !login && !IsAdminPath(path) {
		return Render
	}
	switch {
	case state.Loading:
		return ShowLoading
	case state.SignedIn() && login:
		return RedirectAdmin
	case !state.SignedIn() && !login:
		return RedirectLogin
	}
	return Render
}
