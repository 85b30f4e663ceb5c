package tasks

import (
	"encoding/json"
	"time"

	"huduma/config"
	"huduma/models"

	"github.com/hibiken/asynq"
)

const TypeSegmentReminder = "segment:reminder"

// NewSegmentReminderTask builds a queued segment due-date reminder.
func NewSegmentReminderTask(payload models.SegmentReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSegmentReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues reminder tasks on the shared Redis-backed queue.
type Scheduler struct {
	client *asynq.Client
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisTaskQueueDB,
		}),
	}
}

// ScheduleSegmentReminder queues a reminder push for the given segment.
func (s *Scheduler) ScheduleSegmentReminder(payload models.SegmentReminderPayload, fireAt time.Time) error {
	task, opts, err := NewSegmentReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	_, err = s.client.Enqueue(task, opts...)
	return err
}
