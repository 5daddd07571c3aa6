package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLists is an in-memory listPusher.
type memLists struct {
	mu    sync.Mutex
	lists map[string][]string
}

func newMemLists() *memLists { return &memLists{lists: make(map[string][]string)} }

func (m *memLists) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range values {
		var s string
		switch v := v.(type) {
		case []byte:
			s = string(v)
		case string:
			s = v
		}
		m.lists[key] = append([]string{s}, m.lists[key]...)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(m.lists[key])))
	return cmd
}

func (m *memLists) pop(t *testing.T, key string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.lists[key]
	require.NotEmpty(t, l, "list %s is empty", key)
	last := l[len(l)-1]
	m.lists[key] = l[:len(l)-1]
	return last
}

type handlerFunc func(ctx context.Context, payload json.RawMessage) error

func (f handlerFunc) Process(ctx context.Context, payload json.RawMessage) error { return f(ctx, payload) }

func TestDispatcher_EncolaJob(t *testing.T) {
	lists := newMemLists()
	d := &Dispatcher{rdb: lists}

	require.NoError(t, d.EnqueueComprobante(context.Background(), ComprobanteJobPayload{VentaID: "v1", Correo: "a@b.c"}))

	var job Job
	require.NoError(t, json.Unmarshal([]byte(lists.pop(t, QueueComprobante)), &job))
	assert.Equal(t, "comprobante", job.Type)
	assert.Zero(t, job.Attempts)
	assert.JSONEq(t, `{"venta_id":"v1","correo":"a@b.c"}`, string(job.Payload))
}

func TestProcessJob_ReintentaYLuegoDLQ(t *testing.T) {
	lists := newMemLists()
	ctx := context.Background()
	calls := 0
	handlers := &WorkerHandlers{Email: handlerFunc(func(context.Context, json.RawMessage) error {
		calls++
		return errors.New("smtp down")
	})}

	require.NoError(t, (&Dispatcher{rdb: lists}).EnqueueEmail(ctx, EmailJobPayload{ToEmail: "x@y.z"}))
	for i := 0; i < MaxAttempts; i++ {
		processJob(ctx, lists, handlers, QueueEmail, lists.pop(t, QueueEmail))
	}

	assert.Equal(t, MaxAttempts, calls)
	assert.Empty(t, lists.lists[QueueEmail])

	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(lists.pop(t, DLQPrefix+QueueEmail)), &entry))
	assert.Equal(t, QueueEmail, entry.OriginalQueue)
	assert.Equal(t, "email", entry.JobType)
	assert.Equal(t, MaxAttempts, entry.Attempts)
	assert.Equal(t, "smtp down", entry.Reason)
	assert.JSONEq(t, `{"to_email":"x@y.z","subject":"","body":"","pdf_path":""}`, string(entry.Payload))
}

func TestProcessJob_Exito(t *testing.T) {
	lists := newMemLists()
	var got ComprobanteJobPayload
	handlers := &WorkerHandlers{Comprobante: handlerFunc(func(_ context.Context, raw json.RawMessage) error {
		return json.Unmarshal(raw, &got)
	})}

	processJob(context.Background(), lists, handlers, QueueComprobante, `{"type":"comprobante","payload":{"venta_id":"v9"}}`)

	assert.Equal(t, "v9", got.VentaID)
	assert.Empty(t, lists.lists)
}

func TestProcessJob_PayloadInvalidoVaAlDLQ(t *testing.T) {
	lists := newMemLists()
	processJob(context.Background(), lists, &WorkerHandlers{}, QueueEmail, "no-json")

	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(lists.pop(t, DLQPrefix+QueueEmail)), &entry))
	assert.Equal(t, "unknown", entry.JobType)
	assert.Equal(t, `"no-json"`, string(entry.Payload))
}
