package internal

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/raids-lab/siteadmin/docs"
	"github.com/raids-lab/siteadmin/internal/handler"
	"github.com/raids-lab/siteadmin/internal/middleware"
	"github.com/raids-lab/siteadmin/pkg/guard"
)

// Register builds the console's HTTP engine. Every request goes through the
// session guard first; /admin additionally requires the operator's token.
func Register(registerConfig *handler.RegisterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Guard(registerConfig.Session))

	// Kubernetes health check
	r.GET("/v1/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ok",
		})
	})

	// Swagger
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	managers := registerManagers(registerConfig)

	///////////////////////////////////////
	//// Public routers, no need login ////
	///////////////////////////////////////

	publicRouter := r.Group("")
	for _, mgr := range managers {
		mgr.RegisterPublic(publicRouter)
	}

	///////////////////////////////////////
	//// Protected routers, need login ////
	///////////////////////////////////////

	protectedRouter := r.Group(guard.AdminPath)
	protectedRouter.Use(middleware.AuthProtected(registerConfig.Session))
	for _, mgr := range managers {
		mgr.RegisterProtected(protectedRouter)
	}

	return r
}
