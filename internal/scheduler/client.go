// Package scheduler enqueues and processes delayed RDV reminder tasks
// through asynq over Redis.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aipress24/aipress24-sub001/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const defaultQueue = "default"

// Client schedules RDV reminders. It implements the newsroom service's
// reminder port.
type Client struct {
	client    *asynq.Client
	inspector *asynq.Inspector
	lead      time.Duration
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	addr := cfg.GetRedisAddr()
	if addr == "" {
		return nil, fmt.Errorf("redis address not configured")
	}

	opt := asynq.RedisClientOpt{Addr: addr}
	return &Client{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
		lead:      cfg.GetReminderLead(),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleRDVReminder enqueues a reminder one lead interval before the
// RDV. An RDV closer than the lead gets no reminder. Rescheduling the
// same contact replaces the previous task.
func (c *Client) ScheduleRDVReminder(ctx context.Context, contactID uuid.UUID, rdvAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	runAt := rdvAt.Add(-c.lead)
	if !runAt.After(time.Now()) {
		return nil
	}

	task, err := NewRDVReminderTask(RDVReminderPayload{ContactID: contactID.String()})
	if err != nil {
		return err
	}

	// Drop any previously scheduled reminder so the TaskID slot is free.
	_ = c.deleteReminder(contactID)

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(runAt),
		asynq.Queue(defaultQueue),
		asynq.TaskID(reminderTaskID(contactID.String())),
	)
	return err
}

// CancelRDVReminder removes the scheduled reminder for a contact, if any.
func (c *Client) CancelRDVReminder(ctx context.Context, contactID uuid.UUID) error {
	if c == nil || c.inspector == nil {
		return nil
	}
	return c.deleteReminder(contactID)
}

func (c *Client) deleteReminder(contactID uuid.UUID) error {
	err := c.inspector.DeleteTask(defaultQueue, reminderTaskID(contactID.String()))
	if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
		return err
	}
	return nil
}
