package util

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/raids-lab/siteadmin/pkg/gateway"
)

const PrincipalKey = "x-principal"

// GetPrincipalFromGinContext returns the operator stored by the auth middleware.
func GetPrincipalFromGinContext(ctx *gin.Context) (gateway.Principal, error) {
	v, exists := ctx.Get(PrincipalKey)
	if !exists {
		return gateway.Principal{}, fmt.Errorf("principal not found in context")
	}
	p, ok := v.(gateway.Principal)
	if !ok {
		return gateway.Principal{}, fmt.Errorf("principal has unexpected type %T", v)
	}
	return p, nil
}
