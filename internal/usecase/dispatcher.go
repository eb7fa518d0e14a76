package usecase

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopchat/backend/internal/domain"
	"github.com/shopchat/backend/internal/logger"
	"github.com/shopchat/backend/internal/metrics"
)

var productRequestKeywords = []string{
	"recommend", "suggestion", "find", "looking for", "need", "want", "buy",
	"purchase", "show me", "product", "item", "shopping", "gift", "present",
}

// IsProductRequest reports whether a message should go to the recommendation pipeline
func IsProductRequest(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range productRequestKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ChatRequest is one inbound chat message
type ChatRequest struct {
	Message   string
	SessionID string
	History   []domain.ConversationTurn
	Meta      domain.RequestMeta
}

// PreferenceUpdate is an explicit preference submission from the widget
type PreferenceUpdate struct {
	Category     string
	Budget       string
	Satisfaction *int
}

// Dispatcher routes each message to the recommendation pipeline or the
// general responder, then records the exchange
type Dispatcher struct {
	recommender *RecommendationService
	general     *GeneralResponder
	profiles    *ProfileService
	extractor   *IntentExtractor
	convLog     domain.ConversationLog
	log         logger.Logger
	now         func() time.Time
}

// NewDispatcher creates a dispatcher
func NewDispatcher(
	recommender *RecommendationService,
	general *GeneralResponder,
	profiles *ProfileService,
	convLog domain.ConversationLog,
	log logger.Logger,
) *Dispatcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Dispatcher{
		recommender: recommender,
		general:     general,
		profiles:    profiles,
		extractor:   NewIntentExtractor(),
		convLog:     convLog,
		log:         log,
		now:         time.Now,
	}
}

// HandleMessage classifies and answers one message
func (d *Dispatcher) HandleMessage(ctx context.Context, req ChatRequest) (*domain.ChatResponse, error) {
	if IsProductRequest(req.Message) {
		return d.Recommend(ctx, req)
	}
	return d.answer(ctx, req)
}

// Recommend runs the recommendation pipeline regardless of classification
func (d *Dispatcher) Recommend(ctx context.Context, req ChatRequest) (*domain.ChatResponse, error) {
	if err := validateChatRequest(&req); err != nil {
		return nil, err
	}
	start := d.now()

	payload, intent, err := d.recommender.Recommend(ctx, req.SessionID, req.Message, req.History)
	if err != nil {
		return nil, err
	}

	resp := &domain.ChatResponse{
		ResponseType: domain.ResponseProductRecommendation,
		Payload:      payload,
	}
	d.finish(ctx, req, resp, intent, start)
	return resp, nil
}

func (d *Dispatcher) answer(ctx context.Context, req ChatRequest) (*domain.ChatResponse, error) {
	if err := validateChatRequest(&req); err != nil {
		return nil, err
	}
	start := d.now()

	answer := d.general.Respond(ctx, req.Message, req.History)
	metrics.AnswersBySource.WithLabelValues(answer.Source).Inc()

	resp := &domain.ChatResponse{
		ResponseType: domain.ResponseRegularChat,
		Payload:      answer,
	}
	d.finish(ctx, req, resp, d.extractor.Extract(req.Message, req.History), start)
	return resp, nil
}

// SavePreferences applies an explicit preference update to the session profile
func (d *Dispatcher) SavePreferences(ctx context.Context, sessionID string, prefs PreferenceUpdate) (*domain.UserProfile, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return d.profiles.Update(ctx, sessionID, domain.ProfileUpdate{
		Intent:             "preferences",
		CategoryPreference: strings.TrimSpace(prefs.Category),
		BudgetRange:        domain.ParseBudgetTier(prefs.Budget),
		Satisfaction:       prefs.Satisfaction,
	})
}

func validateChatRequest(req *ChatRequest) error {
	req.Message = strings.TrimSpace(req.Message)
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.Message == "" || req.SessionID == "" {
		return domain.ErrInvalidRequest
	}
	return nil
}

// finish stamps the processing time, then logs the exchange and updates the
// profile. Neither side effect can fail the turn.
func (d *Dispatcher) finish(ctx context.Context, req ChatRequest, resp *domain.ChatResponse, intent domain.Intent, start time.Time) {
	elapsed := d.now().Sub(start)
	resp.ProcessingTime = math.Round(elapsed.Seconds()*100) / 100

	metrics.MessagesHandled.WithLabelValues(string(resp.ResponseType)).Inc()
	metrics.PipelineDuration.WithLabelValues(string(resp.ResponseType)).Observe(elapsed.Seconds())

	d.logConversation(ctx, req, resp, intent)

	update := domain.ProfileUpdate{
		Intent:      intent.Summary(),
		BudgetRange: intent.Budget,
	}
	if intent.Category.Known() {
		update.CategoryPreference = string(intent.Category)
	}
	if _, err := d.profiles.Update(ctx, req.SessionID, update); err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorProfile).Inc()
		d.log.WithError(err).Warn("failed to update profile", map[string]interface{}{
			"session_id": req.SessionID,
		})
	}
}

func (d *Dispatcher) logConversation(ctx context.Context, req ChatRequest, resp *domain.ChatResponse, intent domain.Intent) {
	if d.convLog == nil {
		return
	}

	contextData, err := json.Marshal(resp)
	if err != nil {
		d.log.WithError(err).Debug("failed to encode response context", nil)
	}

	record := &domain.ConversationRecord{
		ID:           uuid.NewString(),
		SessionID:    req.SessionID,
		UserMessage:  req.Message,
		BotResponse:  resp.Summary(),
		Intent:       intent.Summary(),
		ResponseType: string(resp.ResponseType),
		ContextData:  contextData,
		ResponseTime: resp.ProcessingTime,
		Source:       resp.Source(),
		UserIP:       req.Meta.ClientIP,
		UserAgent:    req.Meta.UserAgent,
		CreatedAt:    d.now(),
	}
	if answer, ok := resp.Payload.(domain.AnswerPayload); ok {
		confidence := answer.Confidence
		record.Confidence = &confidence
	}

	if err := d.convLog.AppendConversation(ctx, record); err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorLog).Inc()
		d.log.WithError(err).Warn("failed to write conversation log", map[string]interface{}{
			"session_id": req.SessionID,
			"request_id": req.Meta.RequestID,
		})
	}
}
