package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQPrefix namespaces the dead-letter list of each queue: dlq:jobs:email.
const DLQPrefix = "dlq:"

// DLQEntry is a job that exhausted its attempts, kept for manual inspection
// or a later replay.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // RFC 3339, UTC
	Attempts      int             `json:"attempts"`
	Replays       int             `json:"replays,omitempty"`
}

// SendToDLQ parks a failed job. Errors are logged; there is nowhere further
// to send the job.
func SendToDLQ(ctx context.Context, rdb listPusher, queue string, job Job, reason string) {
	pushDLQ(ctx, rdb, DLQEntry{
		OriginalQueue: queue,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      job.Attempts,
		Replays:       job.Replays,
	})
}

func pushDLQ(ctx context.Context, rdb listPusher, entry DLQEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", entry.OriginalQueue).Msg("dlq: marshal entry")
		return
	}

	key := DLQPrefix + entry.OriginalQueue
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push failed")
		return
	}

	log.Warn().
		Str("queue", entry.OriginalQueue).
		Str("job_type", entry.JobType).
		Str("reason", entry.Reason).
		Int("attempts", entry.Attempts).
		Int("replays", entry.Replays).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of parked jobs of a queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
