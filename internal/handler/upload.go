package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/objstore"
	"github.com/raids-lab/siteadmin/pkg/upload"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewUploadMgr)
}

type UploadMgr struct {
	name        string
	storage     gateway.Storage
	objects     objstore.Store
	concurrency int
}

func NewUploadMgr(conf *RegisterConfig) Manager {
	return &UploadMgr{
		name:        "uploads",
		storage:     conf.Backend.Storage(),
		objects:     conf.Objects,
		concurrency: conf.Config.Upload.Concurrency,
	}
}

func (mgr *UploadMgr) GetName() string { return mgr.name }

// RegisterPublic serves objects kept by the console itself. The rest driver
// stores media with the hosted backend, which serves its own URLs.
func (mgr *UploadMgr) RegisterPublic(g *gin.RouterGroup) {
	if mgr.objects == nil {
		return
	}
	g.GET("/storage/v1/object/public/:bucket/*path", mgr.ServeObject)
}

func (mgr *UploadMgr) RegisterProtected(g *gin.RouterGroup) {
	g.POST("/uploads", mgr.UploadFiles)
	g.POST("/uploads/url", mgr.TypeURL)
}

type (
	UploadResp struct {
		URLs    []string `json:"urls"`
		Preview string   `json:"preview"`
	}

	URLReq struct {
		Value string `json:"value"`
	}
)

// UploadFiles godoc
// @Summary 上传图片到对象存储
// @Description 并发上传 multipart 中的 files 字段，失败的文件被跳过
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param files formData file true "图片文件"
// @Param multiple formData bool false "是否保留全部 URL"
// @Success 200 {object} resputil.Response[UploadResp] "上传成功的 URL"
// @Failure 400 {object} resputil.Response[any] "Request parameter error"
// @Router /admin/uploads [post]
func (mgr *UploadMgr) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		resputil.BadRequestError(c, "no files in request")
		return
	}
	multiple, _ := strconv.ParseBool(c.PostForm("multiple"))
	if !multiple {
		// single mode takes one file; the rest would only be orphaned objects
		headers = headers[:1]
	}

	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, upload.FromMultipart(fh))
	}

	h := upload.New(mgr.storage, nil,
		upload.WithMultiple(multiple),
		upload.WithConcurrency(mgr.concurrency),
		upload.WithObserver(observeUpload),
	)
	urls := h.Upload(c.Request.Context(), files)
	if urls == nil {
		urls = []string{}
	}
	resputil.Success(c, UploadResp{URLs: urls, Preview: h.Preview()})
}

// TypeURL godoc
// @Summary 手动输入图片 URL
// @Description 原样返回输入的 URL，不做校验
// @Tags Upload
// @Accept json
// @Produce json
// @Security Bearer
// @Param data body URLReq true "URL"
// @Success 200 {object} resputil.Response[UploadResp] "URL"
// @Router /admin/uploads/url [post]
func (mgr *UploadMgr) TypeURL(c *gin.Context) {
	var req URLReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	var value string
	h := upload.New(mgr.storage, func(u string) { value = u })
	h.SetMode(upload.ModeURL)
	h.Type(req.Value)
	resputil.Success(c, UploadResp{URLs: []string{value}, Preview: h.Preview()})
}

// ServeObject streams an object under "<bucket>/<path>".
func (mgr *UploadMgr) ServeObject(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" {
		c.Status(http.StatusNotFound)
		return
	}
	info, body, err := mgr.objects.Get(c.Request.Context(), c.Param("bucket")+"/"+path)
	if err != nil {
		if !errors.Is(err, objstore.ErrNotFound) {
			log.Error(err, "get object", "bucket", c.Param("bucket"), "path", path)
		}
		c.Status(http.StatusNotFound)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.DataFromReader(http.StatusOK, info.Size, contentType, body, nil)
}
