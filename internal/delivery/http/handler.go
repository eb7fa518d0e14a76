package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopchat/backend/internal/domain"
	"github.com/shopchat/backend/internal/logger"
	"github.com/shopchat/backend/internal/usecase"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// ChatService is the use case surface the handlers depend on
type ChatService interface {
	HandleMessage(ctx context.Context, req usecase.ChatRequest) (*domain.ChatResponse, error)
	Recommend(ctx context.Context, req usecase.ChatRequest) (*domain.ChatResponse, error)
	SavePreferences(ctx context.Context, sessionID string, prefs usecase.PreferenceUpdate) (*domain.UserProfile, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	chat ChatService
	log  logger.Logger
}

// NewHandler creates a new HTTP handler. A nil chat service makes the chat
// endpoints answer 503.
func NewHandler(chat ChatService, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{chat: chat, log: log}
}

// MessageRequest is the body of POST /api/v1/chat/message
type MessageRequest struct {
	Message             string                    `json:"message"`
	SessionID           string                    `json:"session_id"`
	ConversationHistory []domain.ConversationTurn `json:"conversation_history"`
}

// RecommendationRequest is the body of POST /api/v1/chat/recommendations
type RecommendationRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// PreferencesRequest is the body of POST /api/v1/chat/preferences
type PreferencesRequest struct {
	SessionID    string `json:"session_id"`
	Category     string `json:"category"`
	Budget       string `json:"budget"`
	Satisfaction *int   `json:"satisfaction"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopchat-backend",
		"version": Version,
	})
}

// SendMessage answers one chat message
func (h *Handler) SendMessage(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var body MessageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid message")
		return
	}

	resp, err := h.chat.HandleMessage(c.Request.Context(), usecase.ChatRequest{
		Message:   body.Message,
		SessionID: body.SessionID,
		History:   body.ConversationHistory,
		Meta:      requestMeta(c),
	})
	if err != nil {
		h.handleError(c, err, "Invalid message")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

// GetRecommendations runs the recommendation pipeline without classifying the query
func (h *Handler) GetRecommendations(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var body RecommendationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid query")
		return
	}

	resp, err := h.chat.Recommend(c.Request.Context(), usecase.ChatRequest{
		Message:   body.Query,
		SessionID: body.SessionID,
		Meta:      requestMeta(c),
	})
	if err != nil {
		h.handleError(c, err, "Invalid query")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

// SavePreferences stores explicit shopper preferences on the session profile
func (h *Handler) SavePreferences(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var body PreferencesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid preferences")
		return
	}

	profile, err := h.chat.SavePreferences(c.Request.Context(), body.SessionID, usecase.PreferenceUpdate{
		Category:     body.Category,
		Budget:       body.Budget,
		Satisfaction: body.Satisfaction,
	})
	if err != nil {
		h.handleError(c, err, "Invalid preferences")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.chat == nil {
		h.fail(c, http.StatusServiceUnavailable, "Chat service not configured")
		return false
	}
	return true
}

func (h *Handler) handleError(c *gin.Context, err error, invalidMsg string) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		h.fail(c, http.StatusBadRequest, invalidMsg)
		return
	}

	h.log.WithError(err).Error("chat request failed", map[string]interface{}{
		"path":       c.FullPath(),
		"request_id": c.GetString(requestIDKey),
	})
	h.fail(c, http.StatusInternalServerError, "Something went wrong, please try again")
}

func (h *Handler) fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func requestMeta(c *gin.Context) domain.RequestMeta {
	return domain.RequestMeta{
		RequestID: c.GetString(requestIDKey),
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
