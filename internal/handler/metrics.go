package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raids-lab/siteadmin/pkg/session"
	"github.com/raids-lab/siteadmin/pkg/site"
)

type MetricsMgr struct {
	name        string
	path        string
	observables []site.Observable
	session     *session.Holder
}

func NewMetricsMgr(conf *RegisterConfig) Manager {
	return &MetricsMgr{
		name:        "metrics",
		path:        conf.Config.MetricsPath,
		observables: conf.Site.Observables(),
		session:     conf.Session,
	}
}

func (mgr *MetricsMgr) GetName() string { return mgr.name }

func (mgr *MetricsMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET(mgr.path, mgr.GetMetrics)
}

func (mgr *MetricsMgr) RegisterProtected(_ *gin.RouterGroup) {}

// 声明一个自定义的注册表
var registry *prometheus.Registry

// 声明一个prom HTTP Handler
var promHTTPHandler http.Handler

// 各集合快照中的行数
var collectionRowsGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "siteadmin_collection_rows",
		Help: "Rows in the last fetched snapshot of each collection",
	},
	[]string{"collection"},
)

// 最近一次拉取失败的集合为 1
var collectionErrorGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "siteadmin_collection_fetch_failed",
		Help: "1 when the latest fetch of the collection failed and stale rows are served",
	},
	[]string{"collection"},
)

var signedInGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "siteadmin_session_signed_in",
		Help: "1 while an operator is signed in to the console",
	},
)

var uploadFilesCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "siteadmin_upload_files_total",
		Help: "Files uploaded to object storage, by result",
	},
	[]string{"result"},
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewMetricsMgr)
	registry = prometheus.NewRegistry()
	promHTTPHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	registry.MustRegister(collectionRowsGauge)
	registry.MustRegister(collectionErrorGauge)
	registry.MustRegister(signedInGauge)
	registry.MustRegister(uploadFilesCounter)
}

// GetMetrics godoc
// @Summary 获取各集合快照的行数与拉取状态
// @Description 返回Prometheus能够识别的信息
// @Tags Metrics
// @Produce plain
// @Success 200 {string} string "Prometheus 文本格式"
// @Router /metrics [get]
func (mgr *MetricsMgr) GetMetrics(c *gin.Context) {
	collectStatus(mgr.observables)
	if mgr.session != nil && mgr.session.State().SignedIn() {
		signedInGauge.Set(1)
	} else {
		signedInGauge.Set(0)
	}
	// 暴露自定义指标
	promHTTPHandler.ServeHTTP(c.Writer, c.Request)
}

func collectStatus(observables []site.Observable) {
	for _, o := range observables {
		st := o.Status()
		collectionRowsGauge.WithLabelValues(st.Collection).Set(float64(st.Rows))
		failed := 0.0
		if st.LastError != "" {
			failed = 1
		}
		collectionErrorGauge.WithLabelValues(st.Collection).Set(failed)
	}
}

func observeUpload(_ string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	uploadFilesCounter.WithLabelValues(result).Inc()
}
