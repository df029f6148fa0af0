package scheduler

import (
	"context"
	"fmt"

	"github.com/aipress24/aipress24-sub001/internal/events"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/domain"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/repository"
	"github.com/aipress24/aipress24-sub001/platform/config"
	"github.com/aipress24/aipress24-sub001/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes scheduled reminder tasks and re-publishes them as
// domain events for the notification module.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	addr := cfg.GetRedisAddr()
	if addr == "" {
		return nil, fmt.Errorf("redis address not configured")
	}

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: addr}, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			defaultQueue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskRDVReminder, w.handleRDVReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleRDVReminder re-checks the contact at fire time: the reminder is
// only due while the RDV is still confirmed.
func (w *Worker) handleRDVReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRDVReminderPayload(task)
	if err != nil {
		return err
	}

	contactID, err := uuid.Parse(payload.ContactID)
	if err != nil {
		return err
	}

	contact, err := w.repo.GetContact(ctx, contactID)
	if err != nil {
		return err
	}

	if contact.RDVStatus != domain.RDVConfirmed || contact.RDVAt == nil {
		w.log.Info("skipping reminder, RDV no longer confirmed", "contactId", contactID)
		return nil
	}

	return w.bus.PublishSync(ctx, events.RDVReminderDue{
		BaseEvent:    events.NewBaseEvent(),
		ContactID:    contact.ID,
		NoticeID:     contact.NoticeID,
		ExpertID:     contact.ExpertID,
		JournalistID: contact.JournalistID,
		RDVType:      string(contact.RDVType),
		At:           *contact.RDVAt,
	})
}
