package targeting

import (
	apphttp "github.com/aipress24/aipress24-sub001/internal/http"
	"github.com/aipress24/aipress24-sub001/platform/httpkit"
	"github.com/aipress24/aipress24-sub001/platform/validator"
)

// Module represents the targeting domain module
type Module struct {
	handler *Handler
	Service *Service
}

// NewModule creates a new targeting module with all dependencies wired.
func NewModule(svc *Service, guard NoticeGuard, val *validator.Validator) *Module {
	return &Module{
		handler: NewHandler(svc, guard, val),
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "targeting"
}

// RegisterRoutes registers the module's routes under /api/v1.
// Targeting is a newsroom-side tool, so the whole group requires the
// journalist role on top of authentication.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	rg := ctx.Protected.Group("")
	rg.Use(httpkit.RequireRole(httpkit.RoleJournalist))
	m.handler.RegisterRoutes(rg)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
