package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopchat/backend/internal/domain"
)

// Search returns the best matching active entry. Terms are OR-ed, so any
// shared word matches. Relevance is the ts_rank of the match, where a hit on
// the question or keywords weighs more than one on the answer. Ties go to
// the entry used most often.
func (p *Postgres) Search(ctx context.Context, query string) (*domain.KnowledgeMatch, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, nil
	}
	tsQuery := strings.Join(terms, " | ")

	var m domain.KnowledgeMatch
	err := p.db.QueryRowContext(ctx, `
		SELECT id, question, answer, source, ts_rank(search_vector, to_tsquery('english', $1)) AS relevance
		FROM chatbot_knowledge
		WHERE is_active AND search_vector @@ to_tsquery('english', $1)
		ORDER BY relevance DESC, usage_count DESC, id
		LIMIT 1`, tsQuery).Scan(&m.ID, &m.Question, &m.Answer, &m.Source, &m.Relevance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKnowledgeUnavailable, err)
	}
	return &m, nil
}

// RecordUsage bumps the usage counter of an entry
func (p *Postgres) RecordUsage(ctx context.Context, id int64) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE chatbot_knowledge
		SET usage_count = usage_count + 1, last_used_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrKnowledgeUnavailable, err)
	}
	return nil
}

// CompanyInfo lists active company facts by descending priority
func (p *Postgres) CompanyInfo(ctx context.Context) ([]domain.CompanyInfo, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT title, content, priority
		FROM chatbot_company_info
		WHERE is_active
		ORDER BY priority DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKnowledgeUnavailable, err)
	}
	defer rows.Close()

	var info []domain.CompanyInfo
	for rows.Next() {
		var c domain.CompanyInfo
		if err := rows.Scan(&c.Title, &c.Content, &c.Priority); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrKnowledgeUnavailable, err)
		}
		info = append(info, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKnowledgeUnavailable, err)
	}
	return info, nil
}
