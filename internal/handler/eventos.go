package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"rutaventas/internal/apierror"
	"rutaventas/internal/middleware"
	"rutaventas/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const ssePingInterval = 30 * time.Second

// Subscriber opens a seller's event channel.
type Subscriber interface {
	Subscribe(ctx context.Context, sellerID uuid.UUID) *redis.PubSub
}

type EventosHandler struct {
	subs   Subscriber
	secret string
}

func NewEventosHandler(subs Subscriber, jwtSecret string) *EventosHandler {
	return &EventosHandler{subs: subs, secret: jwtSecret}
}

// Stream godoc
// @Summary Eventos del vendedor (SSE)
// @Description EventSource no puede enviar cabeceras, por eso el token viaja en la query.
// @Tags eventos
// @Produce text/event-stream
// @Param token query string true "Access token"
// @Success 200 {string} string "text/event-stream"
// @Failure 401 {object} apierror.APIError
// @Router /api/vendedor/eventos [get]
func (h *EventosHandler) Stream(c *gin.Context) {
	p, err := middleware.ParseToken(c.Query("token"), h.secret)
	if err != nil {
		fail(c, err)
		return
	}
	if p.Rol != model.RolVendedor {
		fail(c, apierror.Forbidden("Solo vendedores reciben eventos"))
		return
	}

	ctx := c.Request.Context()
	sub := h.subs.Subscribe(ctx, p.ID)
	defer sub.Close()
	msgs := sub.Channel()

	ping := time.NewTicker(ssePingInterval)
	defer ping.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	logger := log.With().Str("vendedor_id", p.ID.String()).Logger()
	logger.Debug().Msg("sse: stream opened")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case msg, open := <-msgs:
			if !open {
				return false
			}
			c.SSEvent("message", msg.Payload)
			return true
		case <-ping.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
	logger.Debug().Msg("sse: stream closed")
}
