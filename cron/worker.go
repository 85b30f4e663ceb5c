package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"huduma/config"
	"huduma/models"
	"huduma/services/notification"
	"huduma/services/tasks"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSegmentReminder, handleSegmentReminder(notifSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleSegmentReminder(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.SegmentReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderWorker] invalid payload: %v", err)
			return err
		}

		title := "Payment due soon"
		body := fmt.Sprintf("Installment %d of %.2f for your booking is due.", p.Sequence, p.Amount)
		data := map[string]string{
			"bookingId": p.BookingID,
			"sequence":  fmt.Sprintf("%d", p.Sequence),
			"fireDate":  p.FireDate,
		}

		if err := notifSvc.SendUserPushNotification(ctx, p.UserID, title, body, data); err != nil {
			log.Printf("[ReminderWorker] failed to send reminder push: %v", err)
			return err
		}
		return nil
	}
}
