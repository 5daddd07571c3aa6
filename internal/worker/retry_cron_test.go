package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"rutaventas/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (m *memLists) RPop(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewStringCmd(ctx)
	l := m.lists[key]
	if len(l) == 0 {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(l[len(l)-1])
	m.lists[key] = l[:len(l)-1]
	return cmd
}

func (m *memLists) LLen(ctx context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(m.lists[key])))
	return cmd
}

func parkEmail(t *testing.T, lists *memLists, to string, replays int) {
	t.Helper()
	payload, err := json.Marshal(EmailJobPayload{ToEmail: to, Subject: "Comprobante", PDFPath: "/tmp/c.pdf"})
	require.NoError(t, err)
	SendToDLQ(context.Background(), lists, QueueEmail, Job{Type: "email", Payload: payload, Attempts: MaxAttempts, Replays: replays}, "smtp down")
}

func TestReplayEmails_RequeuesWhenBreakerClosed(t *testing.T) {
	lists := newMemLists()
	parkEmail(t, lists, "a@example.com", 0)
	parkEmail(t, lists, "b@example.com", MaxReplays)

	cb := infra.NewCircuitBreaker("smtp", infra.CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute})
	n := replayEmails(context.Background(), lists, cb)
	assert.Equal(t, 1, n)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(lists.pop(t, QueueEmail)), &job))
	assert.Equal(t, "email", job.Type)
	assert.Zero(t, job.Attempts)
	assert.Equal(t, 1, job.Replays)
	var payload EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "a@example.com", payload.ToEmail)

	// The exhausted one stays parked.
	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(lists.pop(t, DLQPrefix+QueueEmail)), &entry))
	assert.Equal(t, MaxReplays, entry.Replays)
	assert.Empty(t, lists.lists[DLQPrefix+QueueEmail])
}

func TestReplayEmails_SkipsWhileBreakerOpen(t *testing.T) {
	lists := newMemLists()
	parkEmail(t, lists, "a@example.com", 0)

	cb := infra.NewCircuitBreaker("smtp", infra.CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour})
	_ = cb.Execute(func() error { return assert.AnError })
	require.Equal(t, infra.CBOpen, cb.State())

	assert.Zero(t, replayEmails(context.Background(), lists, cb))
	assert.Len(t, lists.lists[DLQPrefix+QueueEmail], 1)
	assert.Empty(t, lists.lists[QueueEmail])
}
