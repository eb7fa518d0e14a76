package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopchat/backend/internal/domain"
	"github.com/shopchat/backend/internal/logger"
	"github.com/shopchat/backend/internal/metrics"
)

// AlgorithmVersion tags recommendation log records
const AlgorithmVersion = "2.0"

const topSellersCacheKey = "recommendations:top_sellers"

// Recommendation outcome labels
const (
	outcomeClarification   = "clarification"
	outcomeRecommendations = "recommendations"
	outcomeNoProducts      = "no_products"
)

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	CandidateLimit      int
	FallbackLimit       int
	MaxResults          int
	TopSellerLimit      int
	SalesWindow         time.Duration
	CollaboratorTimeout time.Duration
	FallbackCacheTTL    time.Duration
	CurrencySymbol      string
	PlaceholderImage    string
}

// RecommendationService runs the product pipeline:
// extract intent -> clarify or retrieve -> score -> format -> log
type RecommendationService struct {
	extractor *IntentExtractor
	profiles  *ProfileService
	retriever *CandidateRetriever
	scorer    *Scorer
	formatter *CardFormatter
	catalog   domain.ProductCatalog
	cache     domain.CacheRepository
	convLog   domain.ConversationLog
	log       logger.Logger

	topSellerLimit   int
	fallbackCacheTTL time.Duration
	timeout          time.Duration
}

// NewRecommendationService creates a new recommendation service with dependencies
func NewRecommendationService(
	catalog domain.ProductCatalog,
	sales domain.SalesCounter,
	cache domain.CacheRepository,
	profiles *ProfileService,
	convLog domain.ConversationLog,
	log logger.Logger,
	config RecommendationServiceConfig,
) *RecommendationService {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	topSellerLimit := config.TopSellerLimit
	if topSellerLimit <= 0 {
		topSellerLimit = 3
	}

	fallbackTTL := config.FallbackCacheTTL
	if fallbackTTL == 0 {
		fallbackTTL = 15 * time.Minute
	}

	return &RecommendationService{
		extractor:        NewIntentExtractor(),
		profiles:         profiles,
		retriever:        NewCandidateRetriever(catalog, config.CandidateLimit, config.FallbackLimit, config.CollaboratorTimeout, log),
		scorer:           NewScorer(sales, config.SalesWindow, config.MaxResults, config.CollaboratorTimeout, log),
		formatter:        NewCardFormatter(config.CurrencySymbol, config.PlaceholderImage),
		catalog:          catalog,
		cache:            cache,
		convLog:          convLog,
		log:              log,
		topSellerLimit:   topSellerLimit,
		fallbackCacheTTL: fallbackTTL,
		timeout:          config.CollaboratorTimeout,
	}
}

// Recommend turns one shopper message into a recommendations, clarification
// or no-products payload. Collaborator failures degrade the result and never
// surface as errors; only an empty message does.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	sessionID string,
	message string,
	history []domain.ConversationTurn,
) (domain.Payload, domain.Intent, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.Intent{}, domain.ErrInvalidRequest
	}

	intent := s.extractor.Extract(message, history)

	if NeedsClarification(intent) {
		metrics.RecommendationOutcomes.WithLabelValues(outcomeClarification).Inc()
		return GenerateClarification(intent), intent, nil
	}

	profile := s.loadProfile(ctx, sessionID)

	items, err := s.retriever.Retrieve(ctx, intent)
	if err != nil {
		s.log.WithError(err).Warn("catalog unavailable, treating as empty result", map[string]interface{}{
			"session_id": sessionID,
		})
	}

	candidates := s.scorer.Rank(ctx, items, intent, profile)

	var fallback []domain.CatalogItem
	if len(candidates) == 0 {
		fallback = s.topSellers(ctx)
		metrics.RecommendationOutcomes.WithLabelValues(outcomeNoProducts).Inc()
	} else {
		metrics.RecommendationOutcomes.WithLabelValues(outcomeRecommendations).Inc()
	}

	payload := s.formatter.Format(candidates, intent, fallback)

	s.logRecommendation(ctx, sessionID, message, intent, candidates)

	return payload, intent, nil
}

// loadProfile falls back to a default profile when the store is unavailable
func (s *RecommendationService) loadProfile(ctx context.Context, sessionID string) *domain.UserProfile {
	if s.profiles == nil || sessionID == "" {
		return nil
	}
	profile, err := s.profiles.Get(ctx, sessionID)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorProfile).Inc()
		s.log.WithError(err).Warn("profile unavailable, using defaults", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil
	}
	return profile
}

// topSellers returns in-stock best sellers, cached for the fallback TTL
func (s *RecommendationService) topSellers(ctx context.Context) []domain.CatalogItem {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, topSellersCacheKey); err == nil {
			var cached []domain.CatalogItem
			if json.Unmarshal(data, &cached) == nil {
				return cached
			}
		}
	}

	queryCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	items, err := s.catalog.Find(queryCtx, domain.CatalogQuery{
		OrderBy: domain.OrderPopularity,
		Limit:   s.topSellerLimit,
	})
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorCatalog).Inc()
		s.log.WithError(err).Warn("top sellers unavailable", nil)
		return []domain.CatalogItem{}
	}

	if s.cache != nil && len(items) > 0 {
		if data, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, topSellersCacheKey, data, s.fallbackCacheTTL); err != nil {
				s.log.WithError(err).Debug("failed to cache top sellers", nil)
			}
		}
	}

	return items
}

func (s *RecommendationService) logRecommendation(ctx context.Context, sessionID, message string, intent domain.Intent, candidates []domain.Candidate) {
	if s.convLog == nil {
		return
	}

	record := &domain.RecommendationRecord{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		Query:            message,
		Intent:           intent,
		ProductIDs:       make([]int64, 0, len(candidates)),
		Scores:           make([]float64, 0, len(candidates)),
		AlgorithmVersion: AlgorithmVersion,
		CreatedAt:        time.Now(),
	}
	for _, c := range candidates {
		record.ProductIDs = append(record.ProductIDs, c.Item.ID)
		record.Scores = append(record.Scores, c.Score)
	}

	if err := s.convLog.AppendRecommendation(ctx, record); err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorLog).Inc()
		s.log.WithError(err).Warn("failed to write recommendation log", map[string]interface{}{
			"session_id": sessionID,
		})
	}
}
