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
	Registers = append(Registers, NewMessageMgr)
}

type MessageMgr struct {
	name     string
	messages *site.Messages
}

func NewMessageMgr(conf *RegisterConfig) Manager {
	return &MessageMgr{name: "messages", messages: conf.Site.Messages}
}

func (mgr *MessageMgr) GetName() string { return mgr.name }

func (mgr *MessageMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *MessageMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/messages", mgr.List)
	g.GET("/messages/:id", mgr.Open)
	g.PUT("/messages/:id/read", patchOnly(mgr.setRead, mgr.respond))
	g.POST("/messages/:id/reply", mgr.Reply)
	g.DELETE("/messages/:id", mgr.Delete)
}

type MessageListResp struct {
	ListResp[model.Message]
	UnreadCount int `json:"unreadCount"`
}

// List godoc
// @Summary 留言列表
// @Description 按关键字与已读状态筛选留言，附带未读数量
// @Tags Messages
// @Produce json
// @Security Bearer
// @Param search query string false "姓名、邮箱、主题或内容关键字"
// @Param read query string false "all, read 或 unread"
// @Success 200 {object} resputil.Response[MessageListResp] "留言列表"
// @Router /admin/messages [get]
func (mgr *MessageMgr) List(c *gin.Context) {
	listOrStale(c.Request.Context(), mgr.messages.Manager)
	mgr.respond(c)
}

func (mgr *MessageMgr) respond(c *gin.Context) {
	rows, err := mgr.messages.FilterRead(c.Query("search"), c.Query("read"))
	if err != nil {
		writeError(c, "filter messages", err)
		return
	}
	resputil.Success(c, MessageListResp{
		ListResp:    newListResp(rows, mgr.messages.Status()),
		UnreadCount: mgr.messages.UnreadCount(),
	})
}

// Open godoc
// @Summary 查看留言
// @Description 返回留言内容，未读留言会被标记为已读
// @Tags Messages
// @Produce json
// @Security Bearer
// @Param id path int true "留言 ID"
// @Success 200 {object} resputil.Response[model.Message] "留言"
// @Failure 404 {object} resputil.Response[any] "留言不存在"
// @Router /admin/messages/{id} [get]
func (mgr *MessageMgr) Open(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	msg, err := mgr.messages.Open(c.Request.Context(), id)
	if err != nil {
		writeError(c, "open message", err)
		return
	}
	resputil.Success(c, msg)
}

type ReadReq struct {
	Read *bool `json:"read" binding:"required"`
}

func (mgr *MessageMgr) setRead(ctx context.Context, id int64, req ReadReq) error {
	return mgr.messages.SetRead(ctx, id, *req.Read)
}

type ReplyReq struct {
	ReplyBody string `json:"replyBody" binding:"required"`
}

// Reply godoc
// @Summary 回复留言
// @Description 通过邮件服务把回复发送给留言者，不保存回复内容
// @Tags Messages
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "留言 ID"
// @Param data body ReplyReq true "回复内容"
// @Success 200 {object} resputil.Response[string] "收件人邮箱"
// @Failure 502 {object} resputil.Response[any] "邮件服务返回的错误信息"
// @Router /admin/messages/{id}/reply [post]
func (mgr *MessageMgr) Reply(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ReplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.messages.Reply(c.Request.Context(), id, req.ReplyBody); err != nil {
		writeError(c, "reply", err)
		return
	}
	msg, _ := mgr.messages.Find(id)
	resputil.Success(c, msg.Email)
}

func (mgr *MessageMgr) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var q payload.DeleteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.messages.Delete(c.Request.Context(), id, func() bool { return q.Confirm }); err != nil {
		writeError(c, "delete message", err)
		return
	}
	mgr.respond(c)
}
