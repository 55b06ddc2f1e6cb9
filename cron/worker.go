package cron

import (
	"context"
	"encoding/json"
	"log"

	"voicebook/config"
	bookingsRepo "voicebook/database/repository/bookings"
	ai "voicebook/services/intelligence"

	"github.com/hibiken/asynq"
)

const TypeSummaryGenerate = "summary:generate"

// summaryFallback replaces the summary when generation fails; the failure
// is non-fatal for the call itself.
const summaryFallback = "No se pudo generar el resumen"

// SummaryPayload is the queued task body.
type SummaryPayload struct {
	BookingID  string `json:"bookingId"`
	Transcript string `json:"transcript"`
}

// Enqueuer pushes summary tasks onto the Redis-backed queue.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer() *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(queueRedisOpts())}
}

func (e *Enqueuer) EnqueueSummary(ctx context.Context, bookingID, transcript string) error {
	b, err := json.Marshal(SummaryPayload{BookingID: bookingID, Transcript: transcript})
	if err != nil {
		return err
	}
	// Best effort: a failed summary is replaced, not retried.
	_, err = e.client.EnqueueContext(ctx, asynq.NewTask(TypeSummaryGenerate, b), asynq.MaxRetry(0))
	return err
}

// InitSummaryWorker runs the queue consumer in the background.
func InitSummaryWorker(aiSvc ai.Service, repo bookingsRepo.Repository) {
	srv := asynq.NewServer(
		queueRedisOpts(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSummaryGenerate, handleSummaryTask(aiSvc, repo))

	go func() {
		log.Println("[SummaryWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[SummaryWorker] worker stopped: %v", err)
		}
	}()
}

func handleSummaryTask(aiSvc ai.Service, repo bookingsRepo.Repository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p SummaryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[SummaryWorker] invalid payload: %v", err)
			return err
		}

		summary, err := aiSvc.Summarize(ctx, p.Transcript)
		if err != nil {
			log.Printf("[SummaryWorker] summary generation failed for %s: %v", p.BookingID, err)
			summary = summaryFallback
		}
		if err := repo.SetSummary(ctx, p.BookingID, summary); err != nil {
			log.Printf("[SummaryWorker] failed to store summary for %s: %v", p.BookingID, err)
		}
		return nil
	}
}

func queueRedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}
