package usecase

import "github.com/shopchat/backend/internal/domain"

const clarificationMessage = "I'd love to help you find the perfect products! Let me ask a few quick questions to give you the best recommendations:"

var categoryQuestion = domain.ClarificationQuestion{
	FieldName: "category",
	Type:      "category_selection",
	Question:  "What type of product are you looking for?",
	Options: []domain.ChoiceOption{
		{Value: "electronics", Label: "📱 Electronics", Emoji: "📱"},
		{Value: "fashion", Label: "👕 Fashion & Clothing", Emoji: "👕"},
		{Value: "home", Label: "🏠 Home & Garden", Emoji: "🏠"},
		{Value: "sports", Label: "⚽ Sports & Outdoors", Emoji: "⚽"},
		{Value: "beauty", Label: "💄 Beauty & Health", Emoji: "💄"},
		{Value: "books", Label: "📚 Books & Media", Emoji: "📚"},
	},
}

var purposeQuestion = domain.ClarificationQuestion{
	FieldName: "purpose",
	Type:      "purpose_selection",
	Question:  "What's this for?",
	Options: []domain.ChoiceOption{
		{Value: "personal", Label: "👤 For myself", Emoji: "👤"},
		{Value: "gift", Label: "🎁 As a gift", Emoji: "🎁"},
		{Value: "work", Label: "💼 For work/business", Emoji: "💼"},
		{Value: "hobby", Label: "🎨 For hobby/fun", Emoji: "🎨"},
	},
}

var budgetLabels = []struct {
	tier  domain.BudgetTier
	label string
}{
	{domain.BudgetUnder50, "💰 Under $50"},
	{domain.Budget50To100, "💰💰 $50 - $100"},
	{domain.Budget100To250, "💰💰💰 $100 - $250"},
	{domain.Budget250To500, "💰💰💰💰 $250 - $500"},
	{domain.BudgetOver500, "💎 Over $500"},
}

func budgetQuestion() domain.ClarificationQuestion {
	q := domain.ClarificationQuestion{
		FieldName: "budget",
		Type:      "budget_selection",
		Question:  "What's your budget range?",
	}
	for _, b := range budgetLabels {
		band, _ := b.tier.Band()
		q.Options = append(q.Options, domain.ChoiceOption{
			Value: string(b.tier),
			Label: b.label,
			Range: &band,
		})
	}
	return q
}

// NeedsClarification reports whether category, budget or purpose is unknown
func NeedsClarification(intent domain.Intent) bool {
	return len(intent.MissingFields()) > 0
}

// GenerateClarification builds one question per missing field, in the
// order category, budget, purpose
func GenerateClarification(intent domain.Intent) domain.ClarificationPayload {
	payload := domain.ClarificationPayload{
		Message:        clarificationMessage,
		Questions:      []domain.ClarificationQuestion{},
		ResponseFormat: "interactive_questions",
		Intent:         intent,
	}

	for _, field := range intent.MissingFields() {
		switch field {
		case "category":
			payload.Questions = append(payload.Questions, categoryQuestion)
		case "budget":
			payload.Questions = append(payload.Questions, budgetQuestion())
		case "purpose":
			payload.Questions = append(payload.Questions, purposeQuestion)
		}
	}

	return payload
}
