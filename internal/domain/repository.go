package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductCatalog searches in-stock, catalog-visible products
type ProductCatalog interface {
	Find(ctx context.Context, query CatalogQuery) ([]CatalogItem, error)
}

// SalesCounter reports how many units of a product sold since a point in time
type SalesCounter interface {
	RecentSales(ctx context.Context, productID int64, since time.Time) (int, error)
}

// OrderLookup fetches a store order by its number.
// Returns ErrOrderNotFound when the store has no such order.
type OrderLookup interface {
	LookupOrder(ctx context.Context, number string) (*Order, error)
}

// KnowledgeBase answers store questions from curated entries
type KnowledgeBase interface {
	// Search returns the best entry for the query, or nil when nothing matches
	Search(ctx context.Context, query string) (*KnowledgeMatch, error)
	RecordUsage(ctx context.Context, id int64) error
	CompanyInfo(ctx context.Context) ([]CompanyInfo, error)
}

// CompletionService produces free text from a system preamble and message history
type CompletionService interface {
	Complete(ctx context.Context, preamble string, history []ConversationTurn) (string, error)
}

// ConversationLog is the append-only store of chat exchanges
type ConversationLog interface {
	AppendConversation(ctx context.Context, record *ConversationRecord) error
	AppendRecommendation(ctx context.Context, record *RecommendationRecord) error
}
