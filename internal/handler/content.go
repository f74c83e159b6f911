package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/site"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewContentMgr)
}

// ContentMgr serves the plain CRUD screens: services, team and packages.
type ContentMgr struct {
	name     string
	services crud[model.Service, site.ServiceForm]
	team     crud[model.TeamMember, site.TeamMemberForm]
	packages crud[model.Package, site.PackageForm]
}

func NewContentMgr(conf *RegisterConfig) Manager {
	s := conf.Site
	return &ContentMgr{
		name: "content",
		services: crud[model.Service, site.ServiceForm]{
			rows:    s.Services.Manager,
			prefill: s.Services.Prefill,
			submit:  s.Services.Submit,
			setID:   func(f *site.ServiceForm, id *int64) { f.ID = id },
		},
		team: crud[model.TeamMember, site.TeamMemberForm]{
			rows:    s.Team.Manager,
			prefill: s.Team.Prefill,
			submit:  s.Team.Submit,
			setID:   func(f *site.TeamMemberForm, id *int64) { f.ID = id },
		},
		packages: crud[model.Package, site.PackageForm]{
			rows:    s.Packages.Manager,
			prefill: s.Packages.Prefill,
			submit:  s.Packages.Submit,
			setID:   func(f *site.PackageForm, id *int64) { f.ID = id },
		},
	}
}

func (mgr *ContentMgr) GetName() string { return mgr.name }

func (mgr *ContentMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ContentMgr) RegisterProtected(g *gin.RouterGroup) {
	mgr.services.register(g.Group("/services"))
	mgr.team.register(g.Group("/team"))
	mgr.packages.register(g.Group("/packages"))
}
