package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/site"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewDashboardMgr)
}

type DashboardMgr struct {
	name      string
	dashboard *site.Dashboard
}

func NewDashboardMgr(conf *RegisterConfig) Manager {
	return &DashboardMgr{name: "dashboard", dashboard: conf.Site.Dashboard}
}

func (mgr *DashboardMgr) GetName() string { return mgr.name }

func (mgr *DashboardMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *DashboardMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("", mgr.Counts)
}

// Counts godoc
// @Summary 控制台概览
// @Description 统计服务、项目、评价、订单、留言与团队成员数量
// @Tags Dashboard
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[site.Counts] "各集合数量"
// @Failure 500 {object} resputil.Response[any] "任一统计失败"
// @Router /admin [get]
func (mgr *DashboardMgr) Counts(c *gin.Context) {
	counts, err := mgr.dashboard.Load(c.Request.Context())
	if err != nil {
		writeError(c, "count collections", err)
		return
	}
	resputil.Success(c, counts)
}
