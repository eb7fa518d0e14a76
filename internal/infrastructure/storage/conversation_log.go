package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/shopchat/backend/internal/domain"
)

// AppendConversation inserts one chat exchange
func (p *Postgres) AppendConversation(ctx context.Context, r *domain.ConversationRecord) error {
	var contextData interface{}
	if len(r.ContextData) > 0 {
		contextData = string(r.ContextData)
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO chatbot_conversations
			(id, session_id, user_message, bot_response, intent, response_type, context_data,
			 response_time, knowledge_source, confidence_level, user_ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		r.ID, r.SessionID, r.UserMessage, r.BotResponse, r.Intent, r.ResponseType, contextData,
		r.ResponseTime, r.Source, r.Confidence, r.UserIP, r.UserAgent, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLogWriteFailed, err)
	}
	return nil
}

// AppendRecommendation inserts one recommendation trace
func (p *Postgres) AppendRecommendation(ctx context.Context, r *domain.RecommendationRecord) error {
	intent, err := json.Marshal(r.Intent)
	if err != nil {
		return fmt.Errorf("%w: encode intent: %v", domain.ErrLogWriteFailed, err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO chatbot_recommendations
			(id, session_id, query, intent, product_ids, scores, algorithm_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.SessionID, r.Query, string(intent),
		pq.Array(r.ProductIDs), pq.Array(r.Scores), r.AlgorithmVersion, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLogWriteFailed, err)
	}
	return nil
}
