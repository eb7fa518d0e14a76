package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/shopchat/backend/config"
)

// Postgres holds the knowledge base, company info and the append-only chat logs
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool
func NewPostgres(cfg config.PostgresConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &Postgres{db: db}, nil
}

// NewPostgresFromDB wraps an existing pool
func NewPostgresFromDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Ping tests the database connection
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection
func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS chatbot_knowledge (
		id BIGSERIAL PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		keywords TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'knowledge_base',
		usage_count INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_used_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		search_vector TSVECTOR GENERATED ALWAYS AS (
			setweight(to_tsvector('english', question), 'A') ||
			setweight(to_tsvector('english', keywords), 'A') ||
			setweight(to_tsvector('english', answer), 'B')
		) STORED
	)`,
	`CREATE INDEX IF NOT EXISTS chatbot_knowledge_search_idx ON chatbot_knowledge USING GIN (search_vector)`,
	`CREATE TABLE IF NOT EXISTS chatbot_company_info (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS chatbot_conversations (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		user_message TEXT NOT NULL,
		bot_response TEXT NOT NULL,
		intent TEXT NOT NULL,
		response_type TEXT NOT NULL,
		context_data JSONB,
		response_time DOUBLE PRECISION NOT NULL,
		knowledge_source TEXT NOT NULL,
		confidence_level DOUBLE PRECISION,
		user_ip TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chatbot_conversations_session_idx ON chatbot_conversations (session_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS chatbot_recommendations (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		query TEXT NOT NULL,
		intent JSONB NOT NULL,
		product_ids BIGINT[] NOT NULL,
		scores DOUBLE PRECISION[] NOT NULL,
		algorithm_version TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// seeds fill an empty knowledge base and company info table. A table that
// already holds rows is left untouched.
var seeds = []string{
	`INSERT INTO chatbot_knowledge (category, question, answer, keywords)
	SELECT v.category, v.question, v.answer, v.keywords FROM (VALUES
		('product_inquiry', 'Can you recommend products for me?',
			'I''d love to help you find the perfect products! Let me ask a few questions to give you personalized recommendations.',
			'recommend products suggestion help find'),
		('product_inquiry', 'What''s your budget range?',
			'Great! Knowing your budget helps me recommend the best products for you. What price range are you comfortable with?',
			'budget price range cost money'),
		('shipping', 'What is your shipping policy?',
			'We offer free shipping on orders over $50. Standard shipping takes 2-3 business days, express shipping takes 1-2 business days.',
			'shipping policy delivery free standard express'),
		('returns', 'What is your return policy?',
			'You can return items within 30 days of purchase for a full refund. Items must be in original condition with tags attached.',
			'return policy refund 30 days original condition')
	) AS v(category, question, answer, keywords)
	WHERE NOT EXISTS (SELECT 1 FROM chatbot_knowledge)`,
	`INSERT INTO chatbot_company_info (title, content, priority)
	SELECT v.title, v.content, v.priority FROM (VALUES
		('Our Story',
			'We are a leading e-commerce company dedicated to providing high-quality products and exceptional customer service. Founded in 2020, we have grown to serve thousands of customers worldwide.',
			10),
		('Our Mission',
			'Our mission is to make online shopping easy, affordable, and enjoyable for everyone. We believe in quality products, fair prices, and outstanding customer service.',
			9),
		('Privacy Policy',
			'We take your privacy seriously. We collect only necessary information to process your orders and improve your shopping experience. We never sell or share your personal information with third parties.',
			8)
	) AS v(title, content, priority)
	WHERE NOT EXISTS (SELECT 1 FROM chatbot_company_info)`,
}

// Migrate creates the tables when they do not exist and seeds empty ones
func (p *Postgres) Migrate(ctx context.Context) error {
	steps := append(append([]string{}, schema...), seeds...)
	for i, stmt := range steps {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	return nil
}
