package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopchat/backend/internal/domain"
	"github.com/shopchat/backend/internal/logger"
	"github.com/shopchat/backend/internal/metrics"
)

// CandidateRetriever queries the catalog for items matching an intent
type CandidateRetriever struct {
	catalog        domain.ProductCatalog
	candidateLimit int
	fallbackLimit  int
	timeout        time.Duration
	log            logger.Logger
}

// NewCandidateRetriever creates a retriever. Zero limits fall back to 12 and 6.
func NewCandidateRetriever(catalog domain.ProductCatalog, candidateLimit, fallbackLimit int, timeout time.Duration, log logger.Logger) *CandidateRetriever {
	if candidateLimit <= 0 {
		candidateLimit = 12
	}
	if fallbackLimit <= 0 {
		fallbackLimit = 6
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CandidateRetriever{
		catalog:        catalog,
		candidateLimit: candidateLimit,
		fallbackLimit:  fallbackLimit,
		timeout:        timeout,
		log:            log,
	}
}

// BuildQuery turns an intent into the primary catalog filter
func (r *CandidateRetriever) BuildQuery(intent domain.Intent) domain.CatalogQuery {
	q := domain.CatalogQuery{
		OrderBy: domain.OrderRelevance,
		Limit:   r.candidateLimit,
	}
	if intent.Category.Known() {
		q.CategorySlugs = intent.Category.Slugs()
	}
	if band, ok := intent.Budget.Band(); ok {
		q.PriceRange = &band
	}
	if len(intent.Keywords) > 0 {
		q.SearchText = strings.Join(intent.Keywords, " ")
	}
	return q
}

// broaden drops category and keyword filters, keeps the price band and
// orders by popularity
func (r *CandidateRetriever) broaden(q domain.CatalogQuery) domain.CatalogQuery {
	return domain.CatalogQuery{
		PriceRange: q.PriceRange,
		OrderBy:    domain.OrderPopularity,
		Limit:      r.fallbackLimit,
	}
}

// Retrieve runs the primary query and, when it yields nothing, one broadened
// retry. The result order is provisional.
func (r *CandidateRetriever) Retrieve(ctx context.Context, intent domain.Intent) ([]domain.CatalogItem, error) {
	query := r.BuildQuery(intent)

	items, err := r.find(ctx, query)
	if err != nil {
		r.log.WithError(err).Warn("primary catalog query failed, trying broadened query", map[string]interface{}{
			"category": intent.Category,
			"budget":   intent.Budget,
		})
	}
	if len(items) > 0 {
		return items, nil
	}

	items, err = r.find(ctx, r.broaden(query))
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CandidateRetriever) find(ctx context.Context, q domain.CatalogQuery) ([]domain.CatalogItem, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	items, err := r.catalog.Find(ctx, q)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorCatalog).Inc()
		return nil, err
	}
	return items, nil
}
