package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/internal/payload"
	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/logutils"
	"github.com/raids-lab/siteadmin/pkg/manager"
	"github.com/raids-lab/siteadmin/pkg/reply"
	"github.com/raids-lab/siteadmin/pkg/site"
)

var log = logutils.Named("handler")

// ListResp is a list answer together with the outcome of the fetch behind
// it. A failed fetch still answers with the previous rows.
type ListResp[T any] struct {
	payload.ListResp[T]
	Status manager.Status `json:"status"`
}

func newListResp[T any](rows []T, status manager.Status) ListResp[T] {
	return ListResp[T]{ListResp: payload.NewListResp(rows), Status: status}
}

func idParam(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil {
		resputil.BadRequestError(c, fmt.Sprintf("invalid %s %q", key, c.Param(key)))
		return 0, false
	}
	return id, true
}

// writeError renders err with the code matching its cause.
func writeError(c *gin.Context, action string, err error) {
	var replyErr *reply.Error
	switch {
	case errors.Is(err, manager.ErrNotConfirmed):
		resputil.Error(c, "delete must be confirmed with confirm=true", resputil.NotConfirmed)
	case site.IsFormError(err), errors.Is(err, reply.ErrEmptyReply):
		resputil.Error(c, err.Error(), resputil.InvalidRequest)
	case errors.Is(err, site.ErrNotFound):
		resputil.Error(c, err.Error(), resputil.NotFound)
	case errors.As(err, &replyErr):
		resputil.Error(c, replyErr.Message, resputil.ReplyFailed)
	case errors.Is(err, reply.ErrNotConfigured):
		resputil.Error(c, err.Error(), resputil.ReplyFailed)
	default:
		log.Error(err, action)
		resputil.Error(c, fmt.Sprintf("%s: %v", action, err), resputil.NotSpecified)
	}
}

// listOrStale refreshes m. A failure is logged and recorded in the status;
// the caller still answers with the snapshot.
func listOrStale[T any](ctx context.Context, m *manager.Manager[T]) {
	if err := m.List(ctx); err != nil && !errors.Is(err, manager.ErrStale) {
		log.Info("serving previous rows", "collection", m.Name(), "err", err.Error())
	}
}

// crud serves the list, prefill, create, update and delete routes of one
// collection. F is the collection's form type.
type crud[T any, F any] struct {
	rows    *manager.Manager[T]
	prefill func(T) F
	submit  func(context.Context, F) error
	setID   func(*F, *int64)
	// search filters the snapshot; defaults to the manager's own fields.
	search func(c *gin.Context, term string) ([]T, error)
	// refresh reloads the snapshot before reads; defaults to a list of rows.
	refresh func(ctx context.Context) error
}

func (r crud[T, F]) reload(ctx context.Context) {
	if r.refresh == nil {
		listOrStale(ctx, r.rows)
		return
	}
	if err := r.refresh(ctx); err != nil && !errors.Is(err, manager.ErrStale) {
		log.Info("serving previous rows", "collection", r.rows.Name(), "err", err.Error())
	}
}

func (r crud[T, F]) register(g *gin.RouterGroup) {
	g.GET("", r.list)
	g.GET("/:id", r.get)
	g.POST("", r.create)
	g.PUT("/:id", r.update)
	g.DELETE("/:id", r.delete)
}

func (r crud[T, F]) list(c *gin.Context) {
	var q payload.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	r.reload(c.Request.Context())
	r.respond(c, q.Search)
}

func (r crud[T, F]) respond(c *gin.Context, term string) {
	search := r.search
	if search == nil {
		search = func(_ *gin.Context, term string) ([]T, error) { return r.rows.Filter(term), nil }
	}
	rows, err := search(c, term)
	if err != nil {
		writeError(c, "filter "+r.rows.Name(), err)
		return
	}
	resputil.Success(c, newListResp(rows, r.rows.Status()))
}

// get returns the form prefilled from row id.
func (r crud[T, F]) get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	row, found := r.rows.Find(id)
	if !found {
		r.reload(c.Request.Context())
		row, found = r.rows.Find(id)
	}
	if !found {
		resputil.Error(c, fmt.Sprintf("%s %d not found", r.rows.Name(), id), resputil.NotFound)
		return
	}
	resputil.Success(c, r.prefill(row))
}

func (r crud[T, F]) create(c *gin.Context) {
	var form F
	if err := c.ShouldBindJSON(&form); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	r.setID(&form, nil)
	r.write(c, "create", form)
}

func (r crud[T, F]) update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var form F
	if err := c.ShouldBindJSON(&form); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	r.setID(&form, &id)
	r.write(c, "update", form)
}

func (r crud[T, F]) write(c *gin.Context, action string, form F) {
	if err := r.submit(c.Request.Context(), form); err != nil {
		writeError(c, fmt.Sprintf("%s %s", action, r.rows.Name()), err)
		return
	}
	r.respond(c, "")
}

func (r crud[T, F]) delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var q payload.DeleteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := r.rows.Delete(c.Request.Context(), id, func() bool { return q.Confirm }); err != nil {
		writeError(c, "delete "+r.rows.Name(), err)
		return
	}
	r.respond(c, "")
}

// patchOnly serves a route that writes a single field of row :id.
func patchOnly[B any](write func(ctx context.Context, id int64, body B) error, after func(*gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var body B
		if err := c.ShouldBindJSON(&body); err != nil {
			resputil.BadRequestError(c, err.Error())
			return
		}
		if err := write(c.Request.Context(), id, body); err != nil {
			writeError(c, "update", err)
			return
		}
		after(c)
	}
}
