package internal

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/internal/handler"
	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/config"
	"github.com/raids-lab/siteadmin/pkg/cronjob"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/gateway/memory"
	"github.com/raids-lab/siteadmin/pkg/objstore"
	"github.com/raids-lab/siteadmin/pkg/session"
	"github.com/raids-lab/siteadmin/pkg/site"
)

const (
	operatorEmail    = "admin@example.com"
	operatorPassword = "correct horse"
)

type console struct {
	t       *testing.T
	engine  *gin.Engine
	backend *memory.Backend
	objects *objstore.Memory
	session *session.Holder
	token   string
}

func newConsole(t *testing.T) *console {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Driver = config.DriverMemory
	store := objstore.NewMemory()
	backend := memory.New(memory.WithStorage(objstore.NewBucket(store, cfg.Storage.Bucket, cfg.PublicStorageBase())))
	_, err := backend.Users().AddUser(operatorEmail, operatorPassword)
	require.NoError(t, err)

	holder := session.NewHolder(backend.Auth())
	s := site.New(backend, nil)
	cronJobs := cronjob.NewCronJobManager(time.Second)
	_, err = cronJobs.AddCronJob(cronjob.RefreshJob(cfg.Cron.RefreshSpec, s))
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
		holder.Close()
	})

	return &console{
		t: t,
		engine: Register(&handler.RegisterConfig{
			Config:   cfg,
			Backend:  backend,
			Session:  holder,
			Site:     s,
			Objects:  store,
			CronJobs: cronJobs,
		}),
		backend: backend,
		objects: store,
		session: holder,
	}
}

func (c *console) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	return w
}

func (c *console) json(method, target string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}
	return c.do(method, target, r, "application/json")
}

func (c *console) signIn() {
	c.t.Helper()
	require.NoError(c.t, c.session.Init(c.t.Context()))
	w := c.json(http.MethodPost, "/login", handler.LoginReq{Email: operatorEmail, Password: operatorPassword})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[handler.LoginResp](c.t, w)
	require.NotEmpty(c.t, resp.Data.AccessToken)
	c.token = resp.Data.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) resputil.Response[T] {
	t.Helper()
	var resp resputil.Response[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestGuardWhileSessionLoads(t *testing.T) {
	c := newConsole(t)

	w := c.do(http.MethodGet, "/admin/services", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, resputil.SessionLoading, decode[map[string]bool](t, w).Code)

	// unguarded paths are served regardless
	w = c.do(http.MethodGet, "/v1/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuardRedirects(t *testing.T) {
	c := newConsole(t)
	require.NoError(t, c.session.Init(t.Context()))

	w := c.do(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))

	w = c.do(http.MethodGet, "/admin/orders", nil, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = c.do(http.MethodGet, "/login", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	c.signIn()
	w = c.do(http.MethodGet, "/login", nil, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	c := newConsole(t)
	require.NoError(t, c.session.Init(t.Context()))

	w := c.json(http.MethodPost, "/login", handler.LoginReq{Email: operatorEmail, Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, resputil.InvalidCredentials, decode[any](t, w).Code)
	assert.False(t, c.session.State().SignedIn())
}

func TestAdminRequiresSessionToken(t *testing.T) {
	c := newConsole(t)
	c.signIn()
	token := c.token

	c.token = ""
	w := c.do(http.MethodGet, "/admin/services", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.token = "forged"
	w = c.do(http.MethodGet, "/admin/services", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, resputil.TokenInvalid, decode[any](t, w).Code)

	c.token = token
	w = c.do(http.MethodGet, "/admin/session", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, operatorEmail, decode[map[string]any](t, w).Data["email"])
}

func TestServicesCrud(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	w := c.json(http.MethodPost, "/admin/services", site.ServiceForm{
		Title:    "Web Design",
		Features: []string{"Responsive", "  "},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decode[handler.ListResp[map[string]any]](t, w).Data
	require.EqualValues(t, 1, list.Count)
	assert.Equal(t, []any{"Responsive"}, list.Rows[0]["features"])
	id := int64(list.Rows[0]["id"].(float64))

	w = c.do(http.MethodGet, "/admin/services/"+itoa(id), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Web Design", decode[site.ServiceForm](t, w).Data.Title)

	w = c.json(http.MethodPut, "/admin/services/"+itoa(id), site.ServiceForm{Title: "Branding"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Branding", decode[handler.ListResp[map[string]any]](t, w).Data.Rows[0]["title"])

	w = c.json(http.MethodPost, "/admin/services", map[string]any{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodDelete, "/admin/services/"+itoa(id), nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, resputil.NotConfirmed, decode[any](t, w).Code)

	w = c.do(http.MethodDelete, "/admin/services/"+itoa(id)+"?confirm=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode[handler.ListResp[map[string]any]](t, w).Data.Count)
}

func TestUploadAndServeObject(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "logo mark.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := c.do(http.MethodPost, "/admin/uploads", &body, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[handler.UploadResp](t, w).Data
	require.Len(t, resp.URLs, 1)
	assert.Equal(t, resp.URLs[0], resp.Preview)

	u, err := url.Parse(resp.URLs[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Path, "/storage/v1/object/public/images/public/"), u.Path)
	assert.True(t, strings.HasSuffix(u.Path, "-logo mark.png"), u.Path)

	c.token = ""
	w = c.do(http.MethodGet, u.EscapedPath(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())

	w = c.do(http.MethodGet, "/storage/v1/object/public/images/public/missing.png", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSingleUploadStoresOneFile(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range []string{"first.png", "second.png"} {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("multiple", "false"))
	require.NoError(t, mw.Close())

	w := c.do(http.MethodPost, "/admin/uploads", &body, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[handler.UploadResp](t, w).Data
	require.Len(t, resp.URLs, 1)
	assert.True(t, strings.HasSuffix(resp.URLs[0], "-first.png"), resp.URLs[0])
	assert.Equal(t, 1, c.objects.Len())
}

func TestTypedURLIsEchoed(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	w := c.json(http.MethodPost, "/admin/uploads/url", handler.URLReq{Value: "not a url"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[handler.UploadResp](t, w).Data
	assert.Equal(t, []string{"not a url"}, resp.URLs)
	assert.Equal(t, "not a url", resp.Preview)
}

func TestMetricsExposeCollections(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	w := c.json(http.MethodPost, "/admin/packages", site.PackageForm{Title: "Starter"})
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `siteadmin_collection_rows{collection="packages"} 1`)
	assert.Contains(t, w.Body.String(), "siteadmin_session_signed_in 1")
}

func TestOrderStatusRoute(t *testing.T) {
	c := newConsole(t)
	c.signIn()
	orders := gateway.From[model.Order](c.backend, model.TableOrders)
	require.NoError(t, orders.Insert(t.Context(), &model.Order{OrderID: "A-1", Name: "Ada", Status: model.OrderPending}))

	w := c.json(http.MethodPut, "/admin/orders/1/status", handler.StatusReq{Status: "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.json(http.MethodPut, "/admin/orders/1/status", handler.StatusReq{Status: string(model.OrderCompleted)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[handler.OrderListResp](t, w).Data
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, model.OrderCompleted, resp.Rows[0].Status)
	assert.Equal(t, 1, resp.StatusCounts[model.OrderCompleted])
	assert.Equal(t, 0, resp.StatusCounts[model.OrderPending])
}

func TestMessageReplyWithoutBackend(t *testing.T) {
	c := newConsole(t)
	c.signIn()
	messages := gateway.From[model.Message](c.backend, model.TableMessages)
	require.NoError(t, messages.Insert(t.Context(), &model.Message{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello"}))

	w := c.do(http.MethodGet, "/admin/messages/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[model.Message](t, w).Data.Read)

	w = c.json(http.MethodPost, "/admin/messages/1/reply", handler.ReplyReq{ReplyBody: "Thanks"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, resputil.ReplyFailed, decode[any](t, w).Code)

	w = c.json(http.MethodPost, "/admin/messages/9/reply", handler.ReplyReq{ReplyBody: "Thanks"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunRefreshJob(t *testing.T) {
	c := newConsole(t)
	c.signIn()

	w := c.do(http.MethodPost, "/admin/jobs/"+cronjob.RefreshSnapshots+"/run", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	records := decode[[]cronjob.Record](t, w).Data
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Runs)
	assert.True(t, records[0].Succeeded)

	w = c.do(http.MethodPost, "/admin/jobs/unknown/run", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
