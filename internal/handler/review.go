package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/site"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewReviewMgr)
}

type ReviewMgr struct {
	name    string
	reviews *site.Reviews
	rows    crud[model.Review, site.ReviewForm]
	stats   crud[model.ReviewStat, site.ReviewStatForm]
}

func NewReviewMgr(conf *RegisterConfig) Manager {
	r := conf.Site.Reviews
	return &ReviewMgr{
		name:    "reviews",
		reviews: r,
		rows: crud[model.Review, site.ReviewForm]{
			rows:    r.Manager,
			prefill: r.Prefill,
			submit:  r.Submit,
			setID:   func(f *site.ReviewForm, id *int64) { f.ID = id },
			search: func(c *gin.Context, term string) ([]model.Review, error) {
				return r.FilterApproval(term, c.Query("approval"))
			},
			refresh: r.Load,
		},
		stats: crud[model.ReviewStat, site.ReviewStatForm]{
			rows: r.Stats,
			prefill: func(s model.ReviewStat) site.ReviewStatForm {
				id := s.ID
				return site.ReviewStatForm{ID: &id, Number: s.Number, Label: s.Label, Order: s.Order}
			},
			submit: r.SubmitStat,
			setID:  func(f *site.ReviewStatForm, id *int64) { f.ID = id },
		},
	}
}

func (mgr *ReviewMgr) GetName() string { return mgr.name }

func (mgr *ReviewMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ReviewMgr) RegisterProtected(g *gin.RouterGroup) {
	// stats first so /reviews/stats is not taken for an id
	mgr.stats.register(g.Group("/reviews/stats"))
	mgr.rows.register(g.Group("/reviews"))
	g.PUT("/reviews/:id/approval", patchOnly(mgr.setApproval, func(c *gin.Context) {
		mgr.rows.respond(c, "")
	}))
}

type ApprovalReq struct {
	Approved *bool `json:"approved" binding:"required"`
}

func (mgr *ReviewMgr) setApproval(ctx context.Context, id int64, req ApprovalReq) error {
	return mgr.reviews.SetApproval(ctx, id, *req.Approved)
}
