package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shopchat/backend/internal/domain"
	"github.com/shopchat/backend/internal/logger"
	"github.com/shopchat/backend/internal/metrics"
)

// Factor weights. The maximum total is 100.
const (
	weightPriceMatch     = 25.0
	weightCategoryMatch  = 20.0
	weightRating         = 15.0
	weightPopularity     = 15.0
	weightAvailability   = 10.0
	weightUserPreference = 10.0
	weightSalesVelocity  = 5.0

	popularitySalesScale = 100.0 // total sales for full popularity
	velocitySalesScale   = 10.0  // recent sales for full velocity
	maxRating            = 5.0
)

// Reason thresholds
const (
	highlyRatedThreshold = 4.5
	wellRatedThreshold   = 4.0
	popularSalesCount    = 100
)

const maxConcurrentSalesLookups = 4

// Scorer ranks candidates by a weighted sum of independent factors
type Scorer struct {
	sales       domain.SalesCounter
	salesWindow time.Duration
	maxResults  int
	timeout     time.Duration
	now         func() time.Time
	log         logger.Logger
}

// NewScorer creates a scorer. sales may be nil, in which case velocity is 0.
func NewScorer(sales domain.SalesCounter, salesWindow time.Duration, maxResults int, timeout time.Duration, log logger.Logger) *Scorer {
	if salesWindow <= 0 {
		salesWindow = 30 * 24 * time.Hour
	}
	if maxResults <= 0 {
		maxResults = 6
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Scorer{
		sales:       sales,
		salesWindow: salesWindow,
		maxResults:  maxResults,
		timeout:     timeout,
		now:         time.Now,
		log:         log,
	}
}

// Rank scores every item, sorts descending (stable on ties) and keeps the top results
func (s *Scorer) Rank(ctx context.Context, items []domain.CatalogItem, intent domain.Intent, profile *domain.UserProfile) []domain.Candidate {
	preferred := profile.PreferredSlugs()
	recent := s.recentSalesAll(ctx, items)

	candidates := make([]domain.Candidate, 0, len(items))
	for i, item := range items {
		breakdown := s.score(item, intent, preferred, recent[i])
		candidates = append(candidates, domain.Candidate{
			Item:      item,
			Score:     roundTo2(breakdown.Total()),
			Breakdown: breakdown,
			Reasons:   recommendationReasons(item, intent),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > s.maxResults {
		candidates = candidates[:s.maxResults]
	}
	return candidates
}

func (s *Scorer) score(item domain.CatalogItem, intent domain.Intent, preferredSlugs []string, recentSales int) domain.ScoreBreakdown {
	var b domain.ScoreBreakdown

	if band, ok := intent.Budget.Band(); ok && band.Contains(item.Price) {
		b.PriceMatch = weightPriceMatch
	}

	if intent.Category.Known() && item.HasAnyCategory(intent.Category.Slugs()) {
		b.CategoryMatch = weightCategoryMatch
	}

	rating := math.Max(0, math.Min(item.AverageRating, maxRating))
	b.Rating = rating / maxRating * weightRating

	if item.TotalSales > 0 {
		b.Popularity = math.Min(float64(item.TotalSales)/popularitySalesScale*weightPopularity, weightPopularity)
	}

	if item.InStock() {
		b.Availability = weightAvailability
	}

	if len(preferredSlugs) > 0 && item.HasAnyCategory(preferredSlugs) {
		b.UserPreference = weightUserPreference
	}

	if recentSales > 0 {
		b.SalesVelocity = math.Min(float64(recentSales)/velocitySalesScale*weightSalesVelocity, weightSalesVelocity)
	}

	return b
}

// recentSalesAll looks up sales velocity for every item under one shared
// deadline. Lookups not finished when it passes count as zero.
func (s *Scorer) recentSalesAll(ctx context.Context, items []domain.CatalogItem) []int {
	counts := make([]int, len(items))
	if s.sales == nil || len(items) == 0 {
		return counts
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	since := s.now().Add(-s.salesWindow)

	var g errgroup.Group
	g.SetLimit(maxConcurrentSalesLookups)
	for i, item := range items {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			counts[i] = s.recentSales(ctx, item.ID, since)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		s.log.Warn("sales lookups cut short, remaining velocity scored as zero", map[string]interface{}{
			"items": len(items),
		})
	}
	return counts
}

// recentSales asks the sales counter for one product; failures count as zero
func (s *Scorer) recentSales(ctx context.Context, productID int64, since time.Time) int {
	n, err := s.sales.RecentSales(ctx, productID, since)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorSales).Inc()
		s.log.WithError(err).Debug("recent sales unavailable", map[string]interface{}{"product_id": productID})
		return 0
	}
	return n
}

// recommendationReasons is presentational only and never feeds the score
func recommendationReasons(item domain.CatalogItem, intent domain.Intent) []string {
	reasons := []string{}

	if band, ok := intent.Budget.Band(); ok && band.Contains(item.Price) {
		reasons = append(reasons, "💰 Perfect for your budget range")
	}

	switch {
	case item.AverageRating >= highlyRatedThreshold:
		reasons = append(reasons, fmt.Sprintf("⭐ Highly rated (%.1f/5 stars)", item.AverageRating))
	case item.AverageRating >= wellRatedThreshold:
		reasons = append(reasons, fmt.Sprintf("⭐ Great customer reviews (%.1f/5 stars)", item.AverageRating))
	}

	if item.TotalSales > popularSalesCount {
		reasons = append(reasons, fmt.Sprintf("🔥 Popular choice (%d+ sold)", item.TotalSales))
	}

	return reasons
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
