package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueEmail = "jobs:email"

// Job types.
const (
	JobCrediarioConfirmacao = "crediario_confirmacao"
	JobParcelaAtrasada      = "parcela_atrasada"
)

// MaxJobAttempts before a job moves to the dead letter queue.
const MaxJobAttempts = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Tipo     string                 `json:"tipo"`
	Payload  map[string]interface{} `json:"payload"`
	Attempts int                    `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueEmail, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the email queue.
// Each goroutine blocks on BRPOP, so the pool costs nothing while idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, emails *EmailWorker) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, emails)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, emails *EmailWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx.
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[1], emails)
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, raw string, emails *EmailWorker) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}

	if err := emails.Process(ctx, job); err != nil {
		job.Attempts++
		if job.Attempts >= MaxJobAttempts {
			descartar(ctx, rdb, QueueEmail, job, err.Error())
			return
		}
		encoded, merr := json.Marshal(job)
		if merr != nil {
			return
		}
		if rerr := rdb.LPush(ctx, QueueEmail, encoded).Err(); rerr != nil {
			log.Error().Err(rerr).Str("tipo", job.Tipo).Msg("failed to requeue job")
		}
		return
	}
	log.Info().Str("tipo", job.Tipo).Msg("job processed")
}
