package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueComprobante = "jobs:comprobante"
	QueueEmail       = "jobs:email"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
	// Replays counts how many times the job came back from the DLQ.
	Replays int `json:"replays,omitempty"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// listPusher is the subset of the Redis client used to requeue jobs and feed
// the DLQ.
type listPusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb listPusher
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueComprobante pushes a public-sale receipt job.
func (d *Dispatcher) EnqueueComprobante(ctx context.Context, payload ComprobanteJobPayload) error {
	return enqueue(ctx, d.rdb, QueueComprobante, Job{Type: "comprobante"}, payload)
}

// EnqueueEmail pushes an email job.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return enqueue(ctx, d.rdb, QueueEmail, Job{Type: "email"}, payload)
}

func enqueue(ctx context.Context, rdb listPusher, queue string, job Job, payload interface{}) error {
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		job.Payload = data
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers wires one handler per queue.
type WorkerHandlers struct {
	Comprobante Handler
	Email       Handler
}

func (h *WorkerHandlers) forQueue(queue string) Handler {
	switch queue {
	case QueueComprobante:
		return h.Comprobante
	case QueueEmail:
		return h.Email
	}
	return nil
}

// Pool is a set of goroutines consuming the job queues.
type Pool struct {
	wg sync.WaitGroup
}

// Wait blocks until every worker has observed ctx cancellation.
func (p *Pool) Wait() { p.wg.Wait() }

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) *Pool {
	p := &Pool{}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			runWorker(ctx, rdb, handlers, id)
		}(i)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
	return p
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueComprobante, QueueEmail}
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		// Blocking pop; waits up to 5s then loops to check ctx
		result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Error().Int("worker", id).Err(err).Msg("brpop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		processJob(ctx, rdb, handlers, result[0], result[1])
	}
}

// processJob runs the job's handler. Failures are requeued with an increased
// attempt count until MaxAttempts, then moved to the DLQ.
func processJob(ctx context.Context, rdb listPusher, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, rdb, queue, Job{Type: "unknown", Payload: quoted}, "payload invalido: "+err.Error())
		return
	}

	h := handlers.forQueue(queue)
	if h == nil {
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("no handler for queue")
		return
	}

	job.Attempts++
	log.Debug().Str("type", job.Type).Str("queue", queue).Int("attempt", job.Attempts).Msg("processing job")

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	if job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, rdb, queue, job, err.Error())
		return
	}

	log.Warn().Str("queue", queue).Str("type", job.Type).Int("attempt", job.Attempts).Err(err).Msg("job failed, requeueing")
	if qerr := enqueue(ctx, rdb, queue, job, nil); qerr != nil {
		log.Error().Str("queue", queue).Err(qerr).Msg("requeue failed")
	}
}
