package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopchat/backend/internal/domain"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresFromDB(db), mock
}

func TestPostgres_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("best match", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		rows := sqlmock.NewRows([]string{"id", "question", "answer", "source", "relevance"}).
			AddRow(7, "What is your return policy?", "30 days, no questions asked.", "knowledge_base", 0.61)
		mock.ExpectQuery(`SELECT id, question, answer, source, ts_rank\(search_vector, to_tsquery\('english', \$1\)\) AS relevance FROM chatbot_knowledge`).
			WithArgs("return | policy").
			WillReturnRows(rows)

		match, err := p.Search(ctx, "return policy")
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, int64(7), match.ID)
		assert.Equal(t, "30 days, no questions asked.", match.Answer)
		assert.Equal(t, 0.61, match.Relevance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ties break on usage count", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery(`ORDER BY relevance DESC, usage_count DESC, id LIMIT 1`).
			WithArgs("shipping").
			WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "source", "relevance"}).
				AddRow(3, "What is your shipping policy?", "Free over $50.", "knowledge_base", 0.7))

		match, err := p.Search(ctx, "shipping")
		require.NoError(t, err)
		assert.Equal(t, int64(3), match.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery(`FROM chatbot_knowledge`).
			WithArgs("warranty").
			WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "source", "relevance"}))

		match, err := p.Search(ctx, "warranty")
		require.NoError(t, err)
		assert.Nil(t, match)
	})

	t.Run("empty query skips the database", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		match, err := p.Search(ctx, "   ")
		require.NoError(t, err)
		assert.Nil(t, match)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery(`FROM chatbot_knowledge`).WillReturnError(errors.New("connection reset"))

		_, err := p.Search(ctx, "shipping")
		assert.ErrorIs(t, err, domain.ErrKnowledgeUnavailable)
	})
}

func TestPostgres_RecordUsage(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectExec(`UPDATE chatbot_knowledge SET usage_count = usage_count \+ 1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, p.RecordUsage(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CompanyInfo(t *testing.T) {
	p, mock := newMockPostgres(t)
	rows := sqlmock.NewRows([]string{"title", "content", "priority"}).
		AddRow("Hours", "Mon-Fri 9-5", 10).
		AddRow("Returns", "30 days", 5)
	mock.ExpectQuery(`SELECT title, content, priority FROM chatbot_company_info`).WillReturnRows(rows)

	info, err := p.CompanyInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, info, 2)
	assert.Equal(t, domain.CompanyInfo{Title: "Hours", Content: "Mon-Fri 9-5", Priority: 10}, info[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AppendConversation(t *testing.T) {
	p, mock := newMockPostgres(t)
	confidence := 0.8
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	record := &domain.ConversationRecord{
		ID:           "c1",
		SessionID:    "s1",
		UserMessage:  "hello",
		BotResponse:  "hi!",
		Intent:       "unknown",
		ResponseType: "regular_chat",
		ContextData:  []byte(`{"type":"answer"}`),
		ResponseTime: 0.12,
		Source:       "completion",
		Confidence:   &confidence,
		UserIP:       "10.0.0.1",
		UserAgent:    "curl",
		CreatedAt:    created,
	}

	mock.ExpectExec(`INSERT INTO chatbot_conversations`).
		WithArgs("c1", "s1", "hello", "hi!", "unknown", "regular_chat", `{"type":"answer"}`,
			0.12, "completion", 0.8, "10.0.0.1", "curl", created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, p.AppendConversation(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AppendConversationFailure(t *testing.T) {
	p, mock := newMockPostgres(t)
	mock.ExpectExec(`INSERT INTO chatbot_conversations`).WillReturnError(sql.ErrConnDone)

	err := p.AppendConversation(context.Background(), &domain.ConversationRecord{ID: "c1"})
	assert.ErrorIs(t, err, domain.ErrLogWriteFailed)
}

func TestPostgres_AppendRecommendation(t *testing.T) {
	p, mock := newMockPostgres(t)
	created := time.Now()

	mock.ExpectExec(`INSERT INTO chatbot_recommendations`).
		WithArgs("r1", "s1", "cheap shoes", sqlmock.AnyArg(), "{1,2}", sqlmock.AnyArg(), "2.0", created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := p.AppendRecommendation(context.Background(), &domain.RecommendationRecord{
		ID:               "r1",
		SessionID:        "s1",
		Query:            "cheap shoes",
		Intent:           domain.NewIntent(),
		ProductIDs:       []int64{1, 2},
		Scores:           []float64{88.5, 70},
		AlgorithmVersion: "2.0",
		CreatedAt:        created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Migrate(t *testing.T) {
	t.Run("runs every statement", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		for range schema {
			mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectExec(`INSERT INTO chatbot_knowledge .* WHERE NOT EXISTS \(SELECT 1 FROM chatbot_knowledge\)`).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`INSERT INTO chatbot_company_info .* WHERE NOT EXISTS \(SELECT 1 FROM chatbot_company_info\)`).
			WillReturnResult(sqlmock.NewResult(0, 3))

		require.NoError(t, p.Migrate(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at first failure", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS chatbot_knowledge`).WillReturnError(errors.New("permission denied"))

		err := p.Migrate(context.Background())
		assert.ErrorContains(t, err, "migration step 1")
	})

	t.Run("seed failure reports its step", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		for range schema {
			mock.ExpectExec(`CREATE`).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectExec(`INSERT INTO chatbot_knowledge`).WillReturnError(errors.New("disk full"))

		err := p.Migrate(context.Background())
		assert.ErrorContains(t, err, fmt.Sprintf("migration step %d", len(schema)+1))
	})
}

func TestSeedsCoverDefaultContent(t *testing.T) {
	require.Len(t, seeds, 2)
	for _, topic := range []string{"recommend products", "budget range", "shipping policy", "return policy"} {
		assert.Contains(t, seeds[0], topic)
	}
	for _, title := range []string{"Our Story", "Our Mission", "Privacy Policy"} {
		assert.Contains(t, seeds[1], title)
	}
}
