package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopchat/backend/internal/domain"
)

// MockCacheRepository is an in-memory domain.CacheRepository
type MockCacheRepository struct {
	data     map[string][]byte
	ttls     map[string]time.Duration
	getError error
	setError error
	setCalls int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockCatalog answers catalog queries from a queue of canned results
type MockCatalog struct {
	results [][]domain.CatalogItem
	errs    []error
	queries []domain.CatalogQuery
}

func (m *MockCatalog) Find(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogItem, error) {
	i := len(m.queries)
	m.queries = append(m.queries, query)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i < len(m.results) {
		return m.results[i], nil
	}
	return nil, nil
}

// MockSalesCounter returns fixed recent sales per product
type MockSalesCounter struct {
	mu    sync.Mutex
	sales map[int64]int
	err   error
	since []time.Time
}

func (m *MockSalesCounter) RecentSales(ctx context.Context, productID int64, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.since = append(m.since, since)
	if m.err != nil {
		return 0, m.err
	}
	return m.sales[productID], nil
}

// HangingSalesCounter blocks every call until its context ends
type HangingSalesCounter struct {
	calls atomic.Int32
}

func (h *HangingSalesCounter) RecentSales(ctx context.Context, productID int64, since time.Time) (int, error) {
	h.calls.Add(1)
	<-ctx.Done()
	return 0, ctx.Err()
}

// MockOrderLookup returns a fixed order or error
type MockOrderLookup struct {
	order   *domain.Order
	err     error
	lookups []string
}

func (m *MockOrderLookup) LookupOrder(ctx context.Context, number string) (*domain.Order, error) {
	m.lookups = append(m.lookups, number)
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

// MockKnowledgeBase returns a fixed match
type MockKnowledgeBase struct {
	match       *domain.KnowledgeMatch
	searchError error
	info        []domain.CompanyInfo
	queries     []string
	used        []int64
}

func (m *MockKnowledgeBase) Search(ctx context.Context, query string) (*domain.KnowledgeMatch, error) {
	m.queries = append(m.queries, query)
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.match, nil
}

func (m *MockKnowledgeBase) RecordUsage(ctx context.Context, id int64) error {
	m.used = append(m.used, id)
	return nil
}

func (m *MockKnowledgeBase) CompanyInfo(ctx context.Context) ([]domain.CompanyInfo, error) {
	return m.info, nil
}

// MockCompletion records its inputs and returns a fixed reply
type MockCompletion struct {
	reply    string
	err      error
	preamble string
	history  []domain.ConversationTurn
	calls    int
}

func (m *MockCompletion) Complete(ctx context.Context, preamble string, history []domain.ConversationTurn) (string, error) {
	m.calls++
	m.preamble = preamble
	m.history = history
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

// MockConversationLog keeps appended records in memory
type MockConversationLog struct {
	conversations   []*domain.ConversationRecord
	recommendations []*domain.RecommendationRecord
	err             error
}

func (m *MockConversationLog) AppendConversation(ctx context.Context, record *domain.ConversationRecord) error {
	if m.err != nil {
		return m.err
	}
	m.conversations = append(m.conversations, record)
	return nil
}

func (m *MockConversationLog) AppendRecommendation(ctx context.Context, record *domain.RecommendationRecord) error {
	if m.err != nil {
		return m.err
	}
	m.recommendations = append(m.recommendations, record)
	return nil
}

func knownIntent(category domain.Category, budget domain.BudgetTier, purpose domain.Purpose) domain.Intent {
	intent := domain.NewIntent()
	intent.Category = category
	intent.Budget = budget
	intent.Purpose = purpose
	return intent
}
