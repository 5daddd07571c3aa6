package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rutaventas/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	replayTickInterval = 5 * time.Minute
	replayBatchSize    = 10

	// MaxReplays bounds how many times one email comes back from the DLQ.
	MaxReplays = 2
)

// dlqStore is the subset of the Redis client the replay loop needs.
type dlqStore interface {
	listPusher
	RPop(ctx context.Context, key string) *redis.StringCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// StartEmailReplay periodically moves dead-lettered receipt emails back onto
// QueueEmail once the SMTP breaker lets traffic through again. Emails that
// already used MaxReplays stay parked.
func StartEmailReplay(ctx context.Context, rdb *redis.Client, breaker *infra.CircuitBreaker) {
	go func() {
		ticker := time.NewTicker(replayTickInterval)
		defer ticker.Stop()

		log.Info().Msg("email_replay: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("email_replay: shutting down")
				return
			case <-ticker.C:
				replayEmails(ctx, rdb, breaker)
			}
		}
	}()
}

// replayEmails handles at most one batch and returns how many jobs it requeued.
func replayEmails(ctx context.Context, rdb dlqStore, breaker *infra.CircuitBreaker) int {
	if breaker.State() == infra.CBOpen {
		log.Debug().Msg("email_replay: circuit breaker is open, skipping tick")
		return 0
	}

	key := DLQPrefix + QueueEmail
	pending, err := rdb.LLen(ctx, key).Result()
	if err != nil {
		log.Error().Err(err).Msg("email_replay: llen failed")
		return 0
	}
	if pending > replayBatchSize {
		pending = replayBatchSize
	}

	requeued := 0
	for i := int64(0); i < pending; i++ {
		raw, err := rdb.RPop(ctx, key).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Error().Err(err).Msg("email_replay: rpop failed")
			}
			break
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("email_replay: dropping unreadable dlq entry")
			continue
		}
		if entry.Replays >= MaxReplays || entry.JobType != "email" {
			repark(ctx, rdb, key, raw)
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Replays: entry.Replays + 1}
		if err := enqueue(ctx, rdb, QueueEmail, job, nil); err != nil {
			log.Error().Err(err).Msg("email_replay: requeue failed")
			repark(ctx, rdb, key, raw)
			break
		}
		requeued++
	}

	if requeued > 0 {
		log.Info().Int("count", requeued).Msg("email_replay: emails requeued")
	}
	return requeued
}

// repark puts an entry back at the head of the DLQ, behind the ones still to
// be examined in this tick.
func repark(ctx context.Context, rdb listPusher, key, raw string) {
	if err := rdb.LPush(ctx, key, raw).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("email_replay: could not repark entry")
	}
}
