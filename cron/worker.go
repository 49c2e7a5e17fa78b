package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"clinicflow/config"
	"clinicflow/models"
	"clinicflow/services/patient"
	"clinicflow/services/reminder"
	"clinicflow/services/tasks"
	"clinicflow/utils"
)

// InitDeliveryWorker runs the async delivery worker in background.
// It drains the reminder queue and "delivers" through the configured
// transport; delivery failures are retried by asynq up to the task's
// MaxRetry before the queue gives up.
func InitDeliveryWorker(directory patient.DirectoryService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
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
	mux.HandleFunc(tasks.TypeReminderDeliver, handleDeliveryTask(directory))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[DeliveryWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[DeliveryWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[DeliveryWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleDeliveryTask(directory patient.DirectoryService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderNotification
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("delivery: invalid payload", zap.Error(err))
			return err
		}

		record, err := directory.GetRecord(ctx, p.PatientID)
		if err != nil {
			logger.Error("delivery: patient lookup failed",
				zap.String("patientID", p.PatientID), zap.Error(err))
			return err
		}

		recipient := record.Email
		if p.Channel == "sms" {
			recipient = record.Phone
		}

		// Transport is modeled, not real: the delivery is logged with
		// the resolved recipient.
		logger.Info("reminder delivered",
			zap.String("bookingID", p.BookingID),
			zap.String("kind", string(p.Kind)),
			zap.String("channel", p.Channel),
			zap.String("recipient", recipient))
		return nil
	}
}

// RunReminderTicker polls the reminder scheduler against wall-clock
// time until the context is cancelled. The tick is idempotent, so a
// missed or doubled interval is harmless.
func RunReminderTicker(ctx context.Context, sched *reminder.Scheduler, interval time.Duration) {
	logger := utils.GetLogger()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("reminder ticker started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("reminder ticker stopped")
			return
		case now := <-ticker.C:
			sched.Tick(ctx, now.UTC())
		}
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[DeliveryWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
