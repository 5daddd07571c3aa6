package handler

import (
	"net/http"
	"testing"

	"rutaventas/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEventosStream_RechazaAntesDeSuscribir(t *testing.T) {
	// A nil subscriber panics if a rejected request ever reaches Subscribe.
	h := NewEventosHandler(nil, testSecret)
	r := gin.New()
	r.GET("/api/vendedor/eventos", h.Stream)

	w := doJSON(t, r, http.MethodGet, "/api/vendedor/eventos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/vendedor/eventos?token=basura", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := signToken(t, uuid.New(), model.RolCargador)
	w = doJSON(t, r, http.MethodGet, "/api/vendedor/eventos?token="+token, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
