// Package notification provides event handlers for sending notifications
// (emails and in-app messages) in response to domain events.
// This module subscribes to events and inverts the dependency: the newsroom
// module does not need to know about email providers or templates.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aipress24/aipress24-sub001/internal/email"
	"github.com/aipress24/aipress24-sub001/internal/events"
	apphttp "github.com/aipress24/aipress24-sub001/internal/http"
	notifhandler "github.com/aipress24/aipress24-sub001/internal/notification/handler"
	"github.com/aipress24/aipress24-sub001/internal/notification/inapp"
	"github.com/aipress24/aipress24-sub001/platform/config"
	"github.com/aipress24/aipress24-sub001/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	pool         *pgxpool.Pool
	sender       email.Sender
	cfg          config.NotificationConfig
	log          *logger.Logger
	inAppService *inapp.Service
	inAppHandler *notifhandler.HTTPHandler
}

// New creates a new notification module.
func New(pool *pgxpool.Pool, sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	inAppRepo := inapp.NewRepository(pool)
	inAppSvc := inapp.NewService(inAppRepo, log)

	return &Module{
		pool:         pool,
		sender:       sender,
		cfg:          cfg,
		log:          log,
		inAppService: inAppSvc,
		inAppHandler: notifhandler.NewHTTPHandler(inAppSvc),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterRoutes registers notification API routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	notifications := ctx.Protected.Group("/notifications")
	m.inAppHandler.RegisterRoutes(notifications)
}

// InAppService exposes the in-app notification service for integration points.
func (m *Module) InAppService() *inapp.Service { return m.inAppService }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.ExpertContacted{}.EventName(), m)
	bus.Subscribe(events.ContactResponded{}.EventName(), m)
	bus.Subscribe(events.RDVProposed{}.EventName(), m)
	bus.Subscribe(events.RDVAccepted{}.EventName(), m)
	bus.Subscribe(events.RDVDeclined{}.EventName(), m)
	bus.Subscribe(events.RDVConfirmed{}.EventName(), m)
	bus.Subscribe(events.RDVCancelled{}.EventName(), m)
	bus.Subscribe(events.RDVReminderDue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ExpertContacted:
		return m.handleExpertContacted(ctx, e)
	case events.ContactResponded:
		return m.handleContactResponded(ctx, e)
	case events.RDVProposed:
		return m.handleRDVProposed(ctx, e)
	case events.RDVAccepted:
		return m.handleRDVAccepted(ctx, e)
	case events.RDVDeclined:
		return m.handleRDVDeclined(ctx, e)
	case events.RDVConfirmed:
		return m.handleRDVConfirmed(ctx, e)
	case events.RDVCancelled:
		return m.handleRDVCancelled(ctx, e)
	case events.RDVReminderDue:
		return m.handleRDVReminderDue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

// person holds the resolved name and email of an event participant.
type person struct {
	Name  string
	Email string
}

// resolveExpert fetches the expert's name and email from the directory.
func (m *Module) resolveExpert(ctx context.Context, expertID uuid.UUID) (person, error) {
	var first, last, addr string
	err := m.pool.QueryRow(ctx,
		`SELECT first_name, last_name, email FROM directory_members WHERE id = $1`,
		expertID,
	).Scan(&first, &last, &addr)
	if err != nil {
		return person{}, fmt.Errorf("resolve expert %s: %w", expertID, err)
	}
	return person{Name: strings.TrimSpace(first + " " + last), Email: addr}, nil
}

// resolveUser fetches a platform user's name and email.
func (m *Module) resolveUser(ctx context.Context, userID uuid.UUID) (person, error) {
	var name, addr string
	err := m.pool.QueryRow(ctx,
		`SELECT full_name, email FROM users WHERE id = $1`,
		userID,
	).Scan(&name, &addr)
	if err != nil {
		return person{}, fmt.Errorf("resolve user %s: %w", userID, err)
	}
	return person{Name: strings.TrimSpace(name), Email: addr}, nil
}

// resolveCoordinates returns the channel coordinates stored on the contact,
// picked by RDV type.
func (m *Module) resolveCoordinates(ctx context.Context, contactID uuid.UUID) (string, error) {
	var rdvType, phone, videoLink, address *string
	err := m.pool.QueryRow(ctx,
		`SELECT rdv_type, rdv_phone, rdv_video_link, rdv_address FROM contacts WHERE id = $1`,
		contactID,
	).Scan(&rdvType, &phone, &videoLink, &address)
	if err != nil {
		return "", fmt.Errorf("resolve coordinates for contact %s: %w", contactID, err)
	}

	switch deref(rdvType) {
	case "PHONE":
		return deref(phone), nil
	case "VIDEO":
		return deref(videoLink), nil
	case "IN_PERSON":
		return deref(address), nil
	}
	return "", nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// resolveNoticeTitle fetches the notice title for notification texts.
func (m *Module) resolveNoticeTitle(ctx context.Context, noticeID uuid.UUID) string {
	var title string
	if err := m.pool.QueryRow(ctx, `SELECT title FROM notices WHERE id = $1`, noticeID).Scan(&title); err != nil {
		return ""
	}
	return title
}

func (m *Module) contactURL(contactID uuid.UUID) string {
	return fmt.Sprintf("%s/newsroom/contacts/%s", strings.TrimRight(m.cfg.GetAppBaseURL(), "/"), contactID)
}

func (m *Module) noticeURL(noticeID uuid.UUID) string {
	return fmt.Sprintf("%s/newsroom/notices/%s", strings.TrimRight(m.cfg.GetAppBaseURL(), "/"), noticeID)
}

// frTime renders a timestamp the way the emails show it.
func frTime(t time.Time) string {
	return t.Format("02/01/2006 à 15h04")
}

func (m *Module) handleExpertContacted(ctx context.Context, e events.ExpertContacted) error {
	expert, err := m.resolveExpert(ctx, e.ExpertID)
	if err != nil {
		return err
	}

	contactID := e.ContactID
	inAppErr := m.inAppService.Send(ctx, inapp.SendParams{
		UserID:       e.ExpertID,
		Title:        "Nouvel avis d'enquête",
		Content:      fmt.Sprintf("Un nouvel avis d'enquête est disponible : %s", e.NoticeTitle),
		ResourceID:   &contactID,
		ResourceType: "contact",
	})

	if err := m.sender.SendExpertContactedEmail(ctx, expert.Email, expert.Name, e.NoticeTitle, m.noticeURL(e.NoticeID)); err != nil {
		m.log.NotifyError("email", expert.Email, err)
		return err
	}
	return inAppErr
}

func (m *Module) handleContactResponded(ctx context.Context, e events.ContactResponded) error {
	expert, err := m.resolveExpert(ctx, e.ExpertID)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("%s a décliné votre sollicitation.", expert.Name)
	category := "warning"
	if e.Accepted {
		content = fmt.Sprintf("%s a accepté votre sollicitation. Vous pouvez proposer un rendez-vous.", expert.Name)
		category = "success"
	}

	contactID := e.ContactID
	return m.inAppService.Send(ctx, inapp.SendParams{
		UserID:       e.JournalistID,
		Title:        "Réponse d'un expert",
		Content:      content,
		ResourceID:   &contactID,
		ResourceType: "contact",
		Category:     category,
	})
}

func (m *Module) handleRDVProposed(ctx context.Context, e events.RDVProposed) error {
	expert, err := m.resolveExpert(ctx, e.ExpertID)
	if err != nil {
		return err
	}

	slots := make([]string, len(e.Slots))
	for i, s := range e.Slots {
		slots[i] = frTime(s)
	}

	contactID := e.ContactID
	inAppErr := m.inAppService.Send(ctx, inapp.SendParams{
		UserID:       e.ExpertID,
		Title:        "Proposition de rendez-vous",
		Content:      fmt.Sprintf("Un journaliste vous propose %d créneau(x) de rendez-vous.", len(e.Slots)),
		ResourceID:   &contactID,
		ResourceType: "contact",
	})

	if err := m.sender.SendRDVProposedEmail(ctx, expert.Email, expert.Name, e.RDVType, slots, m.contactURL(e.ContactID)); err != nil {
		m.log.NotifyError("email", expert.Email, err)
		return err
	}
	return inAppErr
}

func (m *Module) handleRDVAccepted(ctx context.Context, e events.RDVAccepted) error {
	expert, err := m.resolveExpert(ctx, e.ExpertID)
	if err != nil {
		return err
	}
	journalist, err := m.resolveUser(ctx, e.JournalistID)
	if err != nil {
		return err
	}

	contactID := e.ContactID
	inAppErr := m.inAppService.Send(ctx, inapp.SendParams{
		UserID:       e.JournalistID,
		Title:        "Créneau accepté",
		Content:      fmt.Sprintf("%s a accepté le créneau du %s.", expert.Name, frTime(e.Slot)),
		ResourceID:   &contactID,
		ResourceType: "contact",
		Category:     "success",
	})

	if err := m.sender.SendRDVAcceptedEmail(ctx, journalist.Email, journalist.Name, expert.Name, frTime(e.Slot), m.contactURL(e.ContactID)); err != nil {
		m.log.NotifyError("email", journalist.Email, err)
		return err
	}
	return inAppErr
}

func (m *Module) handleRDVDeclined(ctx context.Context, e events.RDVDeclined) error {
	expert, err := m.resolveExpert(ctx, e.ExpertID)
	if err != nil {
		return err
	}
	journalist, err := m.resolveUser(ctx, e.JournalistID)
	if err != nil {
		return err
	}

	contactID := e.ContactID
	inAppErr := m.inAppService.Send(ctx, inapp.SendParams{
		UserID:       e.JournalistID,
		Title:        "Créneaux déclinés",
		Content:      fmt.Sprintf("%s a décliné les créneaux proposés. Proposez-en de nouveaux.", expert.Name),
		ResourceID:   &contactID,
		ResourceType: "contact",
		Category:     "warning",
	})

	if err := m.sender.SendRDVDeclinedEmail(ctx, journalist.Email, journalist.Name, expert.Name, m.contactURL(e.ContactID)); err != nil {
		m.log.NotifyError("email", journalist.Email, err)
		return err
	}
	return inAppErr
}

func (m *Module) handleRDVConfirmed(ctx context.Context, e events.RDVConfirmed) error {
	expert, err := m.resolveExpert(ctx, e.ExpertID)
	if err != nil {
		return err
	}
	journalist, err := m.resolveUser(ctx, e.JournalistID)
	if err != nil {
		return err
	}
	coordinates, err := m.resolveCoordinates(ctx, e.ContactID)
	if err != nil {
		m.log.Warn("rdv coordinates unavailable", "error", err, "contactId", e.ContactID)
	}

	contactID := e.ContactID
	content := fmt.Sprintf("Votre rendez-vous est confirmé pour le %s.", frTime(e.At))
	var errs []error
	for _, userID := range []uuid.UUID{e.ExpertID, e.JournalistID} {
		if err := m.inAppService.Send(ctx, inapp.SendParams{
			UserID:       userID,
			Title:        "Rendez-vous confirmé",
			Content:      content,
			ResourceID:   &contactID,
			ResourceType: "contact",
			Category:     "success",
		}); err != nil {
			errs = append(errs, err)
		}
	}

	for _, p := range []person{expert, journalist} {
		if err := m.sender.SendRDVConfirmedEmail(ctx, p.Email, p.Name, e.RDVType, frTime(e.At), coordinates); err != nil {
			m.log.NotifyError("email", p.Email, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Module) handleRDVCancelled(ctx context.Context, e events.RDVCancelled) error {
	expert, err := m.resolveExpert(ctx, e.ExpertID)
	if err != nil {
		return err
	}
	journalist, err := m.resolveUser(ctx, e.JournalistID)
	if err != nil {
		return err
	}
	title := m.resolveNoticeTitle(ctx, e.NoticeID)

	contactID := e.ContactID
	var errs []error
	for _, userID := range []uuid.UUID{e.ExpertID, e.JournalistID} {
		if err := m.inAppService.Send(ctx, inapp.SendParams{
			UserID:       userID,
			Title:        "Rendez-vous annulé",
			Content:      "Le rendez-vous a été annulé. La négociation peut reprendre avec une nouvelle proposition.",
			ResourceID:   &contactID,
			ResourceType: "contact",
			Category:     "warning",
		}); err != nil {
			errs = append(errs, err)
		}
	}

	for _, p := range []person{expert, journalist} {
		if err := m.sender.SendRDVCancelledEmail(ctx, p.Email, p.Name, title); err != nil {
			m.log.NotifyError("email", p.Email, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Module) handleRDVReminderDue(ctx context.Context, e events.RDVReminderDue) error {
	expert, err := m.resolveExpert(ctx, e.ExpertID)
	if err != nil {
		return err
	}
	journalist, err := m.resolveUser(ctx, e.JournalistID)
	if err != nil {
		return err
	}
	coordinates, err := m.resolveCoordinates(ctx, e.ContactID)
	if err != nil {
		m.log.Warn("rdv coordinates unavailable", "error", err, "contactId", e.ContactID)
	}

	contactID := e.ContactID
	var errs []error
	for _, userID := range []uuid.UUID{e.ExpertID, e.JournalistID} {
		if err := m.inAppService.Send(ctx, inapp.SendParams{
			UserID:       userID,
			Title:        "Rappel de rendez-vous",
			Content:      fmt.Sprintf("Votre rendez-vous a lieu le %s.", frTime(e.At)),
			ResourceID:   &contactID,
			ResourceType: "contact",
		}); err != nil {
			errs = append(errs, err)
		}
	}

	for _, p := range []person{expert, journalist} {
		if err := m.sender.SendRDVReminderEmail(ctx, p.Email, p.Name, e.RDVType, frTime(e.At), coordinates); err != nil {
			m.log.NotifyError("email", p.Email, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compile-time checks
var (
	_ apphttp.Module = (*Module)(nil)
	_ events.Handler = (*Module)(nil)
)
