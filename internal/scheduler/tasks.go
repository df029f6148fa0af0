package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskRDVReminder = "newsroom.rdv.reminder"

type RDVReminderPayload struct {
	ContactID string `json:"contactId"`
}

func NewRDVReminderTask(payload RDVReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRDVReminder, data), nil
}

func ParseRDVReminderPayload(task *asynq.Task) (RDVReminderPayload, error) {
	var payload RDVReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RDVReminderPayload{}, err
	}
	return payload, nil
}

// reminderTaskID keys the scheduled task by contact so a reschedule
// replaces the previous reminder and a cancel can find it.
func reminderTaskID(contactID string) string {
	return TaskRDVReminder + ":" + contactID
}
