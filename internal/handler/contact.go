package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/site"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewContactMgr)
}

type ContactMgr struct {
	name    string
	contact *site.Contact
}

func NewContactMgr(conf *RegisterConfig) Manager {
	return &ContactMgr{name: "contact", contact: conf.Site.Contact}
}

func (mgr *ContactMgr) GetName() string { return mgr.name }

func (mgr *ContactMgr) RegisterPublic(_ *gin.RouterGroup) {}

func (mgr *ContactMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/contact", mgr.Get)
	g.PUT("/contact", mgr.Save)
}

func (mgr *ContactMgr) Get(c *gin.Context) {
	if err := mgr.contact.Load(c.Request.Context()); err != nil {
		writeError(c, "load contact info", err)
		return
	}
	resputil.Success(c, mgr.contact.Form())
}

// Save reports success and failure explicitly, unlike the other screens.
func (mgr *ContactMgr) Save(c *gin.Context) {
	var form site.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}
	if err := mgr.contact.Submit(c.Request.Context(), form); err != nil {
		writeError(c, "save contact info", err)
		return
	}
	resputil.Success(c, mgr.contact.Form())
}
