// Package newsroom provides investigation notices, expert outreach and
// the appointment negotiation between journalists and experts.
package newsroom

import (
	"github.com/aipress24/aipress24-sub001/internal/events"
	apphttp "github.com/aipress24/aipress24-sub001/internal/http"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/handler"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/repository"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/service"
	"github.com/aipress24/aipress24-sub001/platform/logger"
	"github.com/aipress24/aipress24-sub001/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the newsroom domain module
type Module struct {
	handler *handler.Handler

	Notices     *service.NoticeService
	Negotiation *service.Negotiation
	Outreach    *service.Outreach
	Repository  *repository.Repository
}

// NewModule creates a new newsroom module with all dependencies wired.
// The selection source and reminder scheduler are injected from the
// composition root; reminders may be nil to disable RDV reminders.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, bus events.Bus, selection service.SelectionSource, reminders service.ReminderScheduler, log *logger.Logger) *Module {
	repo := repository.New(pool)
	notices := service.NewNoticeService(repo, repo, bus, log)
	negotiation := service.NewNegotiation(repo, bus, reminders, log)
	outreach := service.NewOutreach(repo, repo, selection, bus, log)
	h := handler.New(notices, negotiation, outreach, val)

	return &Module{
		handler:     h,
		Notices:     notices,
		Negotiation: negotiation,
		Outreach:    outreach,
		Repository:  repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "newsroom"
}

// RegisterRoutes registers the module's routes under /api/v1
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
