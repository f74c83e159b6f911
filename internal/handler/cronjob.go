package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/cronjob"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewCronJobMgr)
}

type CronJobMgr struct {
	name     string
	cronJobs *cronjob.CronJobManager
}

func NewCronJobMgr(conf *RegisterConfig) Manager {
	return &CronJobMgr{name: "cronjobs", cronJobs: conf.CronJobs}
}

func (mgr *CronJobMgr) GetName() string { return mgr.name }

func (mgr *CronJobMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *CronJobMgr) RegisterProtected(g *gin.RouterGroup) {
	if mgr.cronJobs == nil {
		return
	}
	g.GET("/jobs", mgr.List)
	g.POST("/jobs/:name/run", mgr.Run)
}

// List godoc
// @Summary 后台任务
// @Description 列出定时任务及其最近一次运行结果
// @Tags CronJob
// @Produce json
// @Security Bearer
// @Success 200 {object} resputil.Response[[]cronjob.Record] "任务列表"
// @Router /admin/jobs [get]
func (mgr *CronJobMgr) List(c *gin.Context) {
	resputil.Success(c, mgr.cronJobs.Records())
}

// Run triggers a job immediately; the answer carries the updated records.
func (mgr *CronJobMgr) Run(c *gin.Context) {
	name := c.Param("name")
	if err := mgr.cronJobs.Trigger(c.Request.Context(), name); err != nil {
		if errors.Is(err, cronjob.ErrUnknownJob) {
			resputil.Error(c, err.Error(), resputil.NotFound)
			return
		}
		log.Info("job run failed", "job", name, "err", err.Error())
	}
	resputil.Success(c, mgr.cronJobs.Records())
}
