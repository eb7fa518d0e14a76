package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopchat/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTerms(t *testing.T) {
	testCases := []struct {
		message string
		want    []string
	}{
		{"What is your return policy?", []string{"return", "policy"}},
		{"How do I return, return an item?!", []string{"return", "item"}},
		{"Is it ok?", []string{}},
		{"Warranty for the X-200 model", []string{"warranty", "200", "model"}},
	}
	for _, tc := range testCases {
		t.Run(tc.message, func(t *testing.T) {
			assert.Equal(t, tc.want, SearchTerms(tc.message))
		})
	}
}

func TestGeneralResponder_KnowledgeBase(t *testing.T) {
	ctx := context.Background()

	t.Run("relevant match answers", func(t *testing.T) {
		kb := &MockKnowledgeBase{match: &domain.KnowledgeMatch{ID: 4, Answer: "30 days.", Relevance: 1.4}}
		g := NewGeneralResponder(kb, nil, nil, StoreProfile{}, 0, 0, nil)

		answer := g.Respond(ctx, "What is your return policy?", nil)
		assert.Equal(t, "30 days.", answer.Response)
		assert.True(t, answer.KnowledgeUsed)
		assert.Equal(t, domain.SourceKnowledgeBase, answer.Source)
		assert.Equal(t, 1.0, answer.Confidence)
		assert.Equal(t, []int64{4}, kb.used)
		assert.Equal(t, []string{"return policy"}, kb.queries)
	})

	t.Run("relevance at threshold is rejected", func(t *testing.T) {
		kb := &MockKnowledgeBase{match: &domain.KnowledgeMatch{ID: 4, Answer: "30 days.", Relevance: 0.5}}
		g := NewGeneralResponder(kb, nil, nil, StoreProfile{}, 0, 0, nil)

		answer := g.Respond(ctx, "What is your return policy?", nil)
		assert.Equal(t, domain.SourceFallback, answer.Source)
		assert.Empty(t, kb.used)
	})

	t.Run("search failure falls through", func(t *testing.T) {
		kb := &MockKnowledgeBase{searchError: errors.New("db down")}
		completion := &MockCompletion{reply: "We accept returns."}
		g := NewGeneralResponder(kb, nil, completion, StoreProfile{}, 0, 0, nil)

		answer := g.Respond(ctx, "What is your return policy?", nil)
		assert.Equal(t, domain.SourceCompletion, answer.Source)
		assert.Equal(t, 0.8, answer.Confidence)
		assert.False(t, answer.KnowledgeUsed)
	})

	t.Run("only stop words skips the search", func(t *testing.T) {
		kb := &MockKnowledgeBase{}
		g := NewGeneralResponder(kb, nil, nil, StoreProfile{}, 0, 0, nil)

		g.Respond(ctx, "is it?", nil)
		assert.Empty(t, kb.queries)
	})
}

func TestGeneralResponder_OrderTotalUsesOrderCurrency(t *testing.T) {
	created := time.Date(2024, 2, 14, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		currency string
		want     string
	}{
		{"store symbol when absent", "", "£42.00"},
		{"known code", "EUR", "€42.00"},
		{"lower case code", "usd", "$42.00"},
		{"code without symbol", "CHF", "CHF 42.00"},
		{"invalid code", "XX1", "£42.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orders := &MockOrderLookup{order: &domain.Order{ID: 7777, Status: "completed", Total: "42.00", Currency: tc.currency, CreatedAt: created}}
			g := NewGeneralResponder(nil, orders, nil, StoreProfile{CurrencySymbol: "£"}, 0, 0, nil)

			answer := g.Respond(context.Background(), "order 7777", nil)

			assert.Contains(t, answer.Response, "💰 **Total:** "+tc.want+"\n")
		})
	}
}

func TestGeneralResponder_Orders(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 2, 14, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		message string
		orders  *MockOrderLookup
		want    string
	}{
		{
			name:    "found",
			message: "where is my order 12345",
			orders:  &MockOrderLookup{order: &domain.Order{ID: 12345, Number: "12345", Status: "processing", Total: "89.90", CreatedAt: created}},
			want:    "📦 **Order #12345**\n\n📅 **Date:** 2024-02-14\n💰 **Total:** $89.90\n📊 **Status:** Processing\n\n⚙️ Great! We're preparing your order for shipment.",
		},
		{
			name:    "unknown status",
			message: "track 5555",
			orders:  &MockOrderLookup{order: &domain.Order{ID: 5555, Status: "on-hold", Total: "10.00", CreatedAt: created}},
			want:    "📦 **Order #5555**\n\n📅 **Date:** 2024-02-14\n💰 **Total:** $10.00\n📊 **Status:** On-hold\n\n📋 Order status: On-hold",
		},
		{
			name:    "not found",
			message: "order 9999",
			orders:  &MockOrderLookup{err: domain.ErrOrderNotFound},
			want:    "❌ I couldn't find order #9999. Please check the order number and try again, or contact support if you need assistance.",
		},
		{
			name:    "no number",
			message: "can you track my delivery",
			orders:  &MockOrderLookup{},
			want:    orderPromptAnswer,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGeneralResponder(nil, tc.orders, nil, StoreProfile{}, 0, 0, nil)
			answer := g.Respond(ctx, tc.message, nil)

			assert.Equal(t, tc.want, answer.Response)
			assert.Equal(t, domain.SourceOrderSystem, answer.Source)
			assert.Equal(t, 1.0, answer.Confidence)
			assert.True(t, answer.KnowledgeUsed)
		})
	}

	t.Run("number too short is ignored", func(t *testing.T) {
		orders := &MockOrderLookup{}
		g := NewGeneralResponder(nil, orders, nil, StoreProfile{}, 0, 0, nil)

		answer := g.Respond(ctx, "order 123", nil)
		assert.Equal(t, orderPromptAnswer, answer.Response)
		assert.Empty(t, orders.lookups)
	})

	t.Run("lookup failure falls through", func(t *testing.T) {
		orders := &MockOrderLookup{err: errors.New("store api down")}
		g := NewGeneralResponder(nil, orders, nil, StoreProfile{}, 0, 0, nil)

		answer := g.Respond(ctx, "order 123456", nil)
		assert.Equal(t, domain.SourceFallback, answer.Source)
		assert.Equal(t, []string{"123456"}, orders.lookups)
	})
}

func TestGeneralResponder_Discounts(t *testing.T) {
	g := NewGeneralResponder(nil, nil, nil, StoreProfile{}, 0, 0, nil)

	answer := g.Respond(context.Background(), "Any coupon available?", nil)
	assert.Equal(t, discountAnswer, answer.Response)
	assert.Equal(t, domain.SourceDiscounts, answer.Source)
	assert.True(t, answer.KnowledgeUsed)

	answer = g.Respond(context.Background(), "discounted items", nil)
	assert.Equal(t, domain.SourceFallback, answer.Source, "word boundary required")
}

func TestGeneralResponder_Completion(t *testing.T) {
	ctx := context.Background()

	t.Run("preamble and bounded history", func(t *testing.T) {
		kb := &MockKnowledgeBase{info: []domain.CompanyInfo{{Title: "Hours", Content: "9-5"}}}
		completion := &MockCompletion{reply: "  Hello there!  "}
		g := NewGeneralResponder(kb, nil, completion, StoreProfile{Name: "Acme", Description: "Gadgets"}, 3, 0, nil)

		var history []domain.ConversationTurn
		for i := 0; i < 5; i++ {
			history = append(history, domain.ConversationTurn{Role: domain.RoleUser, Content: fmt.Sprintf("turn %d", i)})
		}

		answer := g.Respond(ctx, "hello", history)
		assert.Equal(t, "Hello there!", answer.Response)
		assert.Equal(t, domain.SourceCompletion, answer.Source)

		assert.True(t, strings.HasPrefix(completion.preamble, "You are a helpful customer service AI"))
		assert.Contains(t, completion.preamble, "Store context: Store: Acme\nDescription: Gadgets\n")
		assert.Contains(t, completion.preamble, "Company Information:\n- Hours: 9-5\n")

		require.Len(t, completion.history, 4)
		assert.Equal(t, "turn 2", completion.history[0].Content)
		assert.Equal(t, domain.ConversationTurn{Role: domain.RoleUser, Content: "hello"}, completion.history[3])
	})

	t.Run("failure yields fallback", func(t *testing.T) {
		completion := &MockCompletion{err: domain.ErrCompletionFailed}
		g := NewGeneralResponder(nil, nil, completion, StoreProfile{}, 0, 0, nil)

		answer := g.Respond(ctx, "hello", nil)
		assert.Equal(t, fallbackAnswer, answer.Response)
		assert.Equal(t, 0.5, answer.Confidence)
		assert.False(t, answer.KnowledgeUsed)
	})

	t.Run("empty reply yields fallback", func(t *testing.T) {
		completion := &MockCompletion{reply: "   "}
		g := NewGeneralResponder(nil, nil, completion, StoreProfile{}, 0, 0, nil)

		answer := g.Respond(ctx, "hello", nil)
		assert.Equal(t, domain.SourceFallback, answer.Source)
		assert.Equal(t, 1, completion.calls)
	})
}
