package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/pkg/config"
	"github.com/raids-lab/siteadmin/pkg/cronjob"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/objstore"
	"github.com/raids-lab/siteadmin/pkg/session"
	"github.com/raids-lab/siteadmin/pkg/site"
)

type Manager interface {
	GetName() string
	RegisterPublic(group *gin.RouterGroup)
	// RegisterProtected receives the /admin group, behind the guard and
	// the bearer check.
	RegisterProtected(group *gin.RouterGroup)
}

// RegisterConfig carries what the managers are built from.
type RegisterConfig struct {
	Config  *config.Config
	Backend gateway.Backend
	Session *session.Holder
	Site    *site.Site
	// Objects is the store behind the orm and memory drivers; nil for the
	// hosted backend, which serves its own public URLs.
	Objects objstore.Store
	// CronJobs runs the background refresh; nil when it is disabled.
	CronJobs *cronjob.CronJobManager
}

var Registers = []func(conf *RegisterConfig) Manager{}
