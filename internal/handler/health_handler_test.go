package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"khata/internal/handler"
	"khata/internal/repository/memory"
)

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

func TestHealthHandler_Readiness(t *testing.T) {
	h := handler.NewHealthHandler(memory.New())
	c, w := newRequest(http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	h = handler.NewHealthHandler(downStore{})
	c, w = newRequest(http.MethodGet, "/readyz", nil)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(downStore{})
	c, w := newRequest(http.MethodGet, "/healthz", nil)
	h.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
