package cron

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"stayhaven/config"
	bookingRepo "stayhaven/database/repository/booking"
	"stayhaven/services/booking"
)

const TypeCompleteSweep = "booking:complete_sweep"

// InitCompletionWorker runs the background sweep that flips confirmed
// bookings whose stay has ended to completed. This is the time-driven
// confirmed → completed transition; guests never trigger it.
func InitCompletionWorker(repo bookingRepo.BookingRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCompleteSweep, handleCompleteSweep(repo))

	go func() {
		log.Println("[CompletionWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[CompletionWorker] failed to start worker: %v", err)
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register("@every 1h", asynq.NewTask(TypeCompleteSweep, nil)); err != nil {
		log.Fatalf("[CompletionWorker] failed to register sweep schedule: %v", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[CompletionWorker] scheduler failed: %v", err)
		}
	}()
}

func handleCompleteSweep(repo bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		// Stays whose checkout day has arrived are over: [check_in, check_out)
		// excludes the checkout day itself.
		today := time.Now().Format(booking.DateLayout)
		updated, err := repo.MarkCompletedBefore(today)
		if err != nil {
			log.Printf("[CompletionWorker] sweep failed: %v", err)
			return err
		}
		if updated > 0 {
			log.Printf("[CompletionWorker] marked %d booking(s) completed", updated)
		}
		return nil
	}
}
