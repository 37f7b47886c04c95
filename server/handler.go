package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/shop-assist/assistant"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Assistant interface {
	HandleQuery(ctx context.Context, query, sessionID string) (*assistant.ChatResult, error)
	ResetSession(sessionID string) bool
	Stats() assistant.Stats
}

type Handler struct {
	asst Assistant
}

func NewHandler(asst Assistant) *Handler {
	return &Handler{asst: asst}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", h.Chat)
	e.POST("/api/reset", h.Reset)
	e.GET("/api/health", h.Health)
	e.GET("/api/session/status", h.SessionStatus)
}

type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type ResetRequest struct {
	SessionID string `json:"session_id"`
}

type ResetResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// Chat answers one query.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return errorJSON(c, http.StatusBadRequest, "Missing query parameter")
	}

	res, err := h.asst.HandleQuery(c.Request().Context(), req.Query, req.SessionID)
	if err != nil {
		return statusError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Reset clears the history of a session.
// POST /api/reset
func (h *Handler) Reset(c echo.Context) error {
	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return errorJSON(c, http.StatusBadRequest, "Missing session_id parameter")
	}

	return c.JSON(http.StatusOK, ResetResponse{
		Success:   h.asst.ResetSession(req.SessionID),
		SessionID: req.SessionID,
	})
}

// Health is a liveness probe.
// GET /api/health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SessionStatus reports live sessions.
// GET /api/session/status
func (h *Handler) SessionStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.asst.Stats())
}

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// statusError maps a gRPC status to HTTP. Only the status message reaches the
// client.
func statusError(c echo.Context, err error) error {
	st := status.Convert(err)
	switch st.Code() {
	case codes.InvalidArgument:
		return errorJSON(c, http.StatusBadRequest, st.Message())
	case codes.Unavailable, codes.Internal:
		return errorJSON(c, http.StatusInternalServerError, st.Message())
	default:
		logger.Error("Unclassified error", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}
