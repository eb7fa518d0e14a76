package domain

import "time"

// KnowledgeMatch is the best knowledge base entry for a query
type KnowledgeMatch struct {
	ID        int64   `json:"id"`
	Question  string  `json:"question"`
	Answer    string  `json:"answer"`
	Source    string  `json:"source"`
	Relevance float64 `json:"relevance"`
}

// CompanyInfo is a store fact injected into the completion preamble
type CompanyInfo struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority int    `json:"priority"`
}

// Order is the subset of a store order the assistant reports on
type Order struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	Total     string    `json:"total"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationRecord is one logged chat exchange
type ConversationRecord struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	UserMessage  string    `json:"user_message"`
	BotResponse  string    `json:"bot_response"`
	Intent       string    `json:"intent"`
	ResponseType string    `json:"response_type"`
	ContextData  []byte    `json:"-"`
	ResponseTime float64   `json:"response_time"`
	Source       string    `json:"knowledge_source"`
	Confidence   *float64  `json:"confidence_level,omitempty"`
	UserIP       string    `json:"user_ip,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecommendationRecord is the persisted trace of one recommendation run
type RecommendationRecord struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	Query            string    `json:"query"`
	Intent           Intent    `json:"intent"`
	ProductIDs       []int64   `json:"product_ids"`
	Scores           []float64 `json:"scores"`
	AlgorithmVersion string    `json:"algorithm_version"`
	CreatedAt        time.Time `json:"created_at"`
}

// RequestMeta describes the client that sent a message
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
}
