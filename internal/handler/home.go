package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/manager"
	"github.com/raids-lab/siteadmin/pkg/site"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewHomeMgr)
}

type HomeMgr struct {
	name     string
	home     *site.Home
	images   crud[model.HeroImage, site.HeroImageForm]
	stats    crud[model.HomeStat, site.HomeStatForm]
	previews crud[model.HomeServicePreview, site.ServicePreviewForm]
}

func NewHomeMgr(conf *RegisterConfig) Manager {
	h := conf.Site.Home
	return &HomeMgr{
		name: "home",
		home: h,
		images: crud[model.HeroImage, site.HeroImageForm]{
			rows: h.Images,
			prefill: func(row model.HeroImage) site.HeroImageForm {
				id := row.ID
				return site.HeroImageForm{ID: &id, ImageURL: row.ImageURL, DisplayOrder: row.DisplayOrder}
			},
			submit: h.SubmitImage,
			setID:  func(f *site.HeroImageForm, id *int64) { f.ID = id },
		},
		stats: crud[model.HomeStat, site.HomeStatForm]{
			rows: h.Stats,
			prefill: func(row model.HomeStat) site.HomeStatForm {
				id := row.ID
				return site.HomeStatForm{ID: &id, Number: row.Number, Label: row.Label, Icon: row.Icon, DisplayOrder: row.DisplayOrder}
			},
			submit: h.SubmitStat,
			setID:  func(f *site.HomeStatForm, id *int64) { f.ID = id },
		},
		previews: crud[model.HomeServicePreview, site.ServicePreviewForm]{
			rows: h.Previews,
			prefill: func(row model.HomeServicePreview) site.ServicePreviewForm {
				id := row.ID
				return site.ServicePreviewForm{
					ID: &id, Title: row.Title, Description: row.Description,
					ImageURL: row.ImageURL, DisplayOrder: row.DisplayOrder,
				}
			},
			submit: h.SubmitPreview,
			setID:  func(f *site.ServicePreviewForm, id *int64) { f.ID = id },
		},
	}
}

func (mgr *HomeMgr) GetName() string { return mgr.name }

func (mgr *HomeMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *HomeMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/home", mgr.Overview)
	g.PUT("/home/content", mgr.SaveContent)
	mgr.images.register(g.Group("/home/images"))
	mgr.stats.register(g.Group("/home/stats"))
	mgr.previews.register(g.Group("/home/previews"))
}

type HomeResp struct {
	Content  site.HomeContentForm       `json:"content"`
	Images   []model.HeroImage          `json:"images"`
	Stats    []model.HomeStat           `json:"stats"`
	Previews []model.HomeServicePreview `json:"previews"`
	Status   []manager.Status           `json:"status"`
}

// Overview godoc
// @Summary 首页内容
// @Description 同时加载首页文案、轮播图、数据统计与服务预览
// @Tags Home
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[HomeResp] "首页内容"
// @Router /admin/home [get]
func (mgr *HomeMgr) Overview(c *gin.Context) {
	if err := mgr.home.Load(c.Request.Context()); err != nil {
		log.Info("home load failed, serving previous rows", "err", err.Error())
	}
	mgr.respond(c)
}

func (mgr *HomeMgr) respond(c *gin.Context) {
	h := mgr.home
	resputil.Success(c, HomeResp{
		Content:  h.ContentForm(),
		Images:   h.Images.Rows(),
		Stats:    h.Stats.Rows(),
		Previews: h.Previews.Rows(),
		Status:   []manager.Status{h.Content.Status(), h.Images.Status(), h.Stats.Status(), h.Previews.Status()},
	})
}

func (mgr *HomeMgr) SaveContent(c *gin.Context) {
	var form site.HomeContentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.home.SaveContent(c.Request.Context(), form); err != nil {
		writeError(c, "save home content", err)
		return
	}
	mgr.respond(c)
}
