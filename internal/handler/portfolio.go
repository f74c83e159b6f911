package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/manager"
	"github.com/raids-lab/siteadmin/pkg/site"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewPortfolioMgr)
}

type PortfolioMgr struct {
	name       string
	portfolio  *site.Portfolio
	projects   crud[model.PortfolioProject, site.ProjectForm]
	categories crud[model.PortfolioCategory, site.CategoryForm]
}

func NewPortfolioMgr(conf *RegisterConfig) Manager {
	p := conf.Site.Portfolio
	mgr := &PortfolioMgr{name: "portfolio", portfolio: p}
	mgr.projects = crud[model.PortfolioProject, site.ProjectForm]{
		rows:    p.Projects,
		prefill: p.Prefill,
		submit:  p.Submit,
		setID:   func(f *site.ProjectForm, id *int64) { f.ID = id },
		search:  mgr.searchProjects,
		refresh: p.Load,
	}
	mgr.categories = crud[model.PortfolioCategory, site.CategoryForm]{
		rows: p.Categories,
		prefill: func(c model.PortfolioCategory) site.CategoryForm {
			id := c.ID
			return site.CategoryForm{ID: &id, Name: c.Name}
		},
		submit: p.SubmitCategory,
		setID:  func(f *site.CategoryForm, id *int64) { f.ID = id },
	}
	return mgr
}

func (mgr *PortfolioMgr) GetName() string { return mgr.name }

func (mgr *PortfolioMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *PortfolioMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/portfolio", mgr.Overview)
	mgr.projects.register(g.Group("/portfolio/projects"))
	mgr.categories.register(g.Group("/portfolio/categories"))
}

type PortfolioResp struct {
	Projects   []model.PortfolioProject  `json:"projects"`
	Categories []model.PortfolioCategory `json:"categories"`
	Status     []manager.Status          `json:"status"`
}

// Overview godoc
// @Summary 作品集页面数据
// @Description 同时加载项目与分类，任一失败则保留上次结果
// @Tags Portfolio
// @Produce json
// @Security Bearer
// @Param search query string false "标题或描述关键字"
// @Param category query int false "分类 ID"
// @Success 200 {object} resputil.Response[PortfolioResp] "项目（附带分类）与分类列表"
// @Router /admin/portfolio [get]
func (mgr *PortfolioMgr) Overview(c *gin.Context) {
	if err := mgr.portfolio.Load(c.Request.Context()); err != nil {
		log.Info("portfolio load failed, serving previous rows", "err", err.Error())
	}
	projects, err := mgr.searchProjects(c, c.Query("search"))
	if err != nil {
		writeError(c, "filter projects", err)
		return
	}
	resputil.Success(c, PortfolioResp{
		Projects:   projects,
		Categories: mgr.portfolio.Categories.Rows(),
		Status:     []manager.Status{mgr.portfolio.Projects.Status(), mgr.portfolio.Categories.Status()},
	})
}

func (mgr *PortfolioMgr) searchProjects(c *gin.Context, term string) ([]model.PortfolioProject, error) {
	var category *int64
	if raw := c.Query("category"); raw != "" && raw != "all" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: category %q", site.ErrInvalidFilter, raw)
		}
		category = &id
	}
	return mgr.portfolio.Filter(term, category), nil
}
