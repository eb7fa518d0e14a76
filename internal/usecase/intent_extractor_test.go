package usecase

import (
	"testing"

	"github.com/shopchat/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIntentExtractor_Dimensions(t *testing.T) {
	e := NewIntentExtractor()

	testCases := []struct {
		name       string
		message    string
		category   domain.Category
		budget     domain.BudgetTier
		purpose    domain.Purpose
		urgency    domain.Urgency
		quality    domain.QualityTier
		confidence int
	}{
		{
			name:       "cheap phone gift",
			message:    "I need a cheap phone as a gift",
			category:   domain.CategoryElectronics,
			budget:     domain.BudgetUnder50,
			purpose:    domain.PurposeGift,
			urgency:    domain.UrgencyNormal,
			quality:    domain.QualityBudget,
			confidence: 75,
		},
		{
			name:       "no signal",
			message:    "show me something nice",
			category:   domain.CategoryUnknown,
			budget:     domain.BudgetUnknown,
			purpose:    domain.PurposeUnknown,
			urgency:    domain.UrgencyNormal,
			quality:    domain.QualityGood,
			confidence: 15,
		},
		{
			name:       "category only",
			message:    "a novel please",
			category:   domain.CategoryBooks,
			budget:     domain.BudgetUnknown,
			purpose:    domain.PurposeUnknown,
			urgency:    domain.UrgencyNormal,
			quality:    domain.QualityGood,
			confidence: 40,
		},
		{
			name:       "first declared category wins",
			message:    "laptop for the kitchen",
			category:   domain.CategoryElectronics,
			budget:     domain.BudgetUnknown,
			purpose:    domain.PurposeUnknown,
			urgency:    domain.UrgencyNormal,
			quality:    domain.QualityGood,
			confidence: 40,
		},
		{
			name:       "premium resolves to the earlier budget band",
			message:    "premium watch",
			category:   domain.CategoryUnknown,
			budget:     domain.Budget250To500,
			purpose:    domain.PurposeUnknown,
			urgency:    domain.UrgencyNormal,
			quality:    domain.QualityPremium,
			confidence: 35,
		},
		{
			name:       "urgency detected",
			message:    "need a gym bag asap",
			category:   domain.CategorySports,
			budget:     domain.BudgetUnknown,
			purpose:    domain.PurposeUnknown,
			urgency:    domain.UrgencyUrgent,
			quality:    domain.QualityGood,
			confidence: 40,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Extract(tc.message, nil)

			assert.Equal(t, tc.category, got.Category)
			assert.Equal(t, tc.budget, got.Budget)
			assert.Equal(t, tc.purpose, got.Purpose)
			assert.Equal(t, tc.urgency, got.Urgency)
			assert.Equal(t, tc.quality, got.Quality)
			assert.Equal(t, tc.confidence, got.ConfidenceScore)
		})
	}
}

func TestIntentExtractor_Entities(t *testing.T) {
	e := NewIntentExtractor()

	got := e.Extract("looking for iphone 15 in black", nil)

	assert.Equal(t, []string{"iphone", "black"}, got.Keywords)
	assert.Equal(t, []string{"iphone", "iphone 15"}, got.SpecificItems)
	assert.Empty(t, got.BrandPreference)
	assert.Equal(t, []string{"black"}, got.ColorPreference)
	assert.Equal(t, domain.CategoryElectronics, got.Category)
	assert.Equal(t, 65, got.ConfidenceScore)
}

func TestIntentExtractor_Sizes(t *testing.T) {
	e := NewIntentExtractor()

	got := e.Extract("running shoes size 10.5 and a 15-inch laptop bag in xl", nil)

	assert.Equal(t, map[string]string{
		domain.SizeClothing: "XL",
		domain.SizeShoe:     "10.5",
		domain.SizeScreen:   "15 inch",
	}, got.SizePreference)
}

func TestIntentExtractor_ConfidenceCapped(t *testing.T) {
	e := NewIntentExtractor()

	got := e.Extract("best cheap gift iphone from apple in red", nil)

	assert.Equal(t, 100, got.ConfidenceScore)
}

func TestIntentExtractor_KeywordsDeduplicated(t *testing.T) {
	e := NewIntentExtractor()

	got := e.Extract("Shoes, shoes! SHOES?", nil)

	assert.Equal(t, []string{"shoes"}, got.Keywords)
}

func TestIntentExtractor_HistoryBackfill(t *testing.T) {
	e := NewIntentExtractor()

	t.Run("oldest user turn wins", func(t *testing.T) {
		history := []domain.ConversationTurn{
			{Role: domain.RoleUser, Content: "do you sell books?"},
			{Role: domain.RoleAssistant, Content: "Yes, we do"},
			{Role: domain.RoleUser, Content: "what about a phone?"},
		}

		got := e.Extract("something cheap", history)

		assert.Equal(t, domain.CategoryBooks, got.Category)
		assert.Equal(t, domain.BudgetUnder50, got.Budget)
		// confidence is scored on the message before back-fill
		assert.Equal(t, 35, got.ConfidenceScore)
	})

	t.Run("assistant turns are ignored", func(t *testing.T) {
		history := []domain.ConversationTurn{
			{Role: domain.RoleAssistant, Content: "Check out our laptop deals"},
		}

		got := e.Extract("something cheap", history)

		assert.Equal(t, domain.CategoryUnknown, got.Category)
	})

	t.Run("known fields are not overwritten", func(t *testing.T) {
		history := []domain.ConversationTurn{
			{Role: domain.RoleUser, Content: "a premium laptop"},
		}

		got := e.Extract("cheap shoes", history)

		assert.Equal(t, domain.CategoryFashion, got.Category)
		assert.Equal(t, domain.BudgetUnder50, got.Budget)
	})

	t.Run("purpose is never back-filled", func(t *testing.T) {
		history := []domain.ConversationTurn{
			{Role: domain.RoleUser, Content: "it is a birthday gift"},
		}

		got := e.Extract("cheap shoes", history)

		assert.Equal(t, domain.PurposeUnknown, got.Purpose)
	})
}

func TestIntentExtractor_MissingFieldsMonotonicConfidence(t *testing.T) {
	e := NewIntentExtractor()

	messages := []string{
		"something",
		"something for the kitchen",
		"something cheap for the kitchen",
		"something cheap for the kitchen as a gift",
	}

	prev := -1
	for i, msg := range messages {
		got := e.Extract(msg, nil)
		assert.GreaterOrEqual(t, got.ConfidenceScore, prev, msg)
		assert.LessOrEqual(t, got.ConfidenceScore, 100)
		assert.Len(t, got.MissingFields(), 3-i, msg)
		prev = got.ConfidenceScore
	}
}
