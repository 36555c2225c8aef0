package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/core"
)

const statsTimeout = 2 * time.Second

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		hub: hub,
		log: logger,
	}
}

// StatsResponse holds aggregate counters. Room names are never listed.
type StatsResponse struct {
	Rooms         int   `json:"rooms"`
	Messages      int   `json:"messages"`
	Clients       int   `json:"clients"`
	LastMessageID int64 `json:"last_message_id"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
// GET /health
func (h *APIHandlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Stats returns hub counters.
// GET /api/stats
func (h *APIHandlers) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), statsTimeout)
	defer cancel()

	stats, err := h.hub.Stats(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to read hub stats")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "hub unavailable"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		Rooms:         stats.Rooms,
		Messages:      stats.Messages,
		Clients:       stats.Clients,
		LastMessageID: stats.LastMessageID,
	})
}
