package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/internal/payload"
	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/site"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewOrderMgr)
}

// OrderMgr exposes orders read-only apart from status changes and deletes.
type OrderMgr struct {
	name   string
	orders *site.Orders
}

func NewOrderMgr(conf *RegisterConfig) Manager {
	return &OrderMgr{name: "orders", orders: conf.Site.Orders}
}

func (mgr *OrderMgr) GetName() string { return mgr.name }

func (mgr *OrderMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *OrderMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/orders", mgr.List)
	g.GET("/orders/statuses", mgr.Statuses)
	g.PUT("/orders/:id/status", patchOnly(mgr.setStatus, mgr.respond))
	g.DELETE("/orders/:id", mgr.Delete)
}

type OrderListResp struct {
	ListResp[model.Order]
	StatusCounts map[model.OrderStatus]int `json:"statusCounts"`
}

// List godoc
// @Summary 订单列表
// @Description 按关键字与状态筛选订单，附带各状态数量
// @Tags Orders
// @Produce json
// @Security Bearer
// @Param search query string false "姓名、邮箱、公司、套餐或订单号关键字"
// @Param status query string false "all 或订单状态"
// @Success 200 {object} resputil.Response[OrderListResp] "订单列表"
// @Router /admin/orders [get]
func (mgr *OrderMgr) List(c *gin.Context) {
	listOrStale(c.Request.Context(), mgr.orders.Manager)
	mgr.respond(c)
}

func (mgr *OrderMgr) respond(c *gin.Context) {
	rows, err := mgr.orders.FilterStatus(c.Query("search"), c.Query("status"))
	if err != nil {
		writeError(c, "filter orders", err)
		return
	}
	resputil.Success(c, OrderListResp{
		ListResp:     newListResp(rows, mgr.orders.Status()),
		StatusCounts: mgr.orders.StatusCounts(),
	})
}

// Statuses lists the closed set of order statuses the console offers.
func (mgr *OrderMgr) Statuses(c *gin.Context) {
	resputil.Success(c, model.OrderStatuses)
}

type StatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (mgr *OrderMgr) setStatus(ctx context.Context, id int64, req StatusReq) error {
	return mgr.orders.SetStatus(ctx, id, req.Status)
}

func (mgr *OrderMgr) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var q payload.DeleteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.orders.Delete(c.Request.Context(), id, func() bool { return q.Confirm }); err != nil {
		writeError(c, "delete order", err)
		return
	}
	mgr.respond(c)
}
