package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/internal/resputil"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/guard"
	"github.com/raids-lab/siteadmin/pkg/session"
	"github.com/raids-lab/siteadmin/pkg/util"
)

//nolint:gochecknoinits // This is the standard way to register a gin handler.
func init() {
	Registers = append(Registers, NewAuthMgr)
}

type AuthMgr struct {
	name    string
	session *session.Holder
}

func NewAuthMgr(conf *RegisterConfig) Manager {
	return &AuthMgr{name: "auth", session: conf.Session}
}

func (mgr *AuthMgr) GetName() string { return mgr.name }

func (mgr *AuthMgr) RegisterPublic(g *gin.RouterGroup) {
	g.GET(guard.LoginPath, mgr.LoginPage)
	g.POST(guard.LoginPath, mgr.Login)
}

func (mgr *AuthMgr) RegisterProtected(g *gin.RouterGroup) {
	g.GET("/session", mgr.Session)
	g.POST("/logout", mgr.Logout)
}

type (
	LoginReq struct {
		Email    string `json:"email" binding:"required"`    // 邮箱
		Password string `json:"password" binding:"required"` // 密码
	}

	LoginResp struct {
		AccessToken string            `json:"accessToken"`
		ExpiresAt   time.Time         `json:"expiresAt"`
		User        gateway.Principal `json:"user"`
	}
)

// LoginPage answers the signed-out session state; a signed-in operator is
// redirected to /admin by the guard before reaching it.
func (mgr *AuthMgr) LoginPage(c *gin.Context) {
	resputil.Success(c, mgr.session.State())
}

// Login godoc
// @Summary 管理员登录
// @Description 使用邮箱与密码登录，返回访问 /admin 接口所需的 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param data body LoginReq true "登录参数"
// @Success 200 {object} resputil.Response[LoginResp] "登录成功，返回 Token"
// @Failure 400 {object} resputil.Response[any]	"请求参数错误"
// @Failure 401 {object} resputil.Response[any]	"邮箱或密码错误"
// @Router /login [post]
func (mgr *AuthMgr) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resputil.BadRequestError(c, err.Error())
		return
	}

	sess, err := mgr.session.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidCredentials) {
			log.Info("invalid credentials", "email", req.Email)
			resputil.HTTPError(c, http.StatusUnauthorized, "Invalid credentials", resputil.InvalidCredentials)
			return
		}
		writeError(c, "sign in", err)
		return
	}
	resputil.Success(c, LoginResp{
		AccessToken: sess.AccessToken,
		ExpiresAt:   sess.ExpiresAt,
		User:        sess.User,
	})
}

func (mgr *AuthMgr) Session(c *gin.Context) {
	principal, err := util.GetPrincipalFromGinContext(c)
	if err != nil {
		resputil.Error(c, err.Error(), resputil.TokenInvalid)
		return
	}
	resputil.Success(c, principal)
}

// Logout clears the console session even when the backend call fails.
func (mgr *AuthMgr) Logout(c *gin.Context) {
	if err := mgr.session.SignOut(c.Request.Context()); err != nil {
		log.Error(err, "sign out at backend failed, session cleared locally")
	}
	resputil.Success(c, mgr.session.State())
}
