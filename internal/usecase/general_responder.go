package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/currency"

	"github.com/shopchat/backend/internal/domain"
	"github.com/shopchat/backend/internal/logger"
	"github.com/shopchat/backend/internal/metrics"
)

const (
	minKnowledgeRelevance = 0.5
	orderSystemConfidence = 1.0
	completionConfidence  = 0.8
	fallbackConfidence    = 0.5
)

const fallbackAnswer = "I'd be happy to help! I can assist you with:\n\n" +
	"🛍️ Product recommendations\n📦 Order status\n📋 Store policies\n🎫 Discount codes\n\n" +
	"What would you like to know more about?"

const discountAnswer = "🎉 Here are our current discount codes:\n\n" +
	"💰 **WELCOME10** - 10% off your first order\n" +
	"🎁 **SAVE20** - 20% off orders over $100\n" +
	"✨ **NEWCUSTOMER** - 15% off for new customers\n\n" +
	"Just enter the code at checkout!"

const orderPromptAnswer = "📦 I can help you check your order status! Please provide your order number (usually 4-8 digits) and I'll look it up for you.\n\n" +
	"💡 You can find your order number in:\n• Your email confirmation\n• Your account order history\n• Your receipt"

const completionPreamble = "You are a helpful customer service AI for an e-commerce store. " +
	"You specialize in product recommendations, order help, and general store assistance. " +
	"Be friendly, helpful, and concise. Store context: "

var (
	orderInquiryPattern    = regexp.MustCompile(`(?i)\b(order|track|shipping|delivery)\b`)
	orderNumberPattern     = regexp.MustCompile(`\b(\d{4,8})\b`)
	discountInquiryPattern = regexp.MustCompile(`(?i)\b(discount|coupon|promo|code|sale)\b`)
	nonWordPattern         = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

var knowledgeStopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true, "may": true, "might": true,
	"can": true, "what": true, "where": true, "when": true, "how": true, "why": true, "who": true,
	"i": true, "you": true, "we": true, "they": true, "my": true, "your": true, "our": true, "their": true,
}

var orderStatusMessages = map[string]string{
	"pending":    "⏳ Your order is pending payment. Please complete your payment to proceed.",
	"processing": "⚙️ Great! We're preparing your order for shipment.",
	"shipped":    "🚚 Your order is on its way! You should receive it soon.",
	"completed":  "✅ Your order has been delivered! Thank you for your purchase.",
	"cancelled":  "❌ This order has been cancelled. Contact us if you have questions.",
	"refunded":   "💰 This order has been refunded.",
}

// StoreProfile describes the shop in the completion preamble
type StoreProfile struct {
	Name           string
	Description    string
	CurrencySymbol string
}

// GeneralResponder answers non-product messages by trying, in order, the
// knowledge base, order and discount handlers, the completion service and
// a canned fallback. Every failure moves on to the next strategy.
type GeneralResponder struct {
	kb            domain.KnowledgeBase
	orders        domain.OrderLookup
	completion    domain.CompletionService
	store         StoreProfile
	historyWindow int
	timeout       time.Duration
	log           logger.Logger
}

// NewGeneralResponder creates a responder. Any collaborator may be nil.
func NewGeneralResponder(
	kb domain.KnowledgeBase,
	orders domain.OrderLookup,
	completion domain.CompletionService,
	store StoreProfile,
	historyWindow int,
	timeout time.Duration,
	log logger.Logger,
) *GeneralResponder {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	if store.CurrencySymbol == "" {
		store.CurrencySymbol = "$"
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &GeneralResponder{
		kb:            kb,
		orders:        orders,
		completion:    completion,
		store:         store,
		historyWindow: historyWindow,
		timeout:       timeout,
		log:           log,
	}
}

// Respond always produces an answer
func (g *GeneralResponder) Respond(ctx context.Context, message string, history []domain.ConversationTurn) domain.AnswerPayload {
	if answer, ok := g.fromKnowledgeBase(ctx, message); ok {
		return answer
	}
	if answer, ok := g.fromSpecialRequests(ctx, message); ok {
		return answer
	}
	if answer, ok := g.fromCompletion(ctx, message, history); ok {
		return answer
	}
	return domain.AnswerPayload{
		Response:   fallbackAnswer,
		Source:     domain.SourceFallback,
		Confidence: fallbackConfidence,
	}
}

// SearchTerms lowercases the message, strips punctuation and drops stop
// words and short tokens
func SearchTerms(message string) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(message), " ")

	terms := []string{}
	seen := make(map[string]bool)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 || knowledgeStopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		terms = append(terms, word)
	}
	return terms
}

func (g *GeneralResponder) fromKnowledgeBase(ctx context.Context, message string) (domain.AnswerPayload, bool) {
	if g.kb == nil {
		return domain.AnswerPayload{}, false
	}
	terms := SearchTerms(message)
	if len(terms) == 0 {
		return domain.AnswerPayload{}, false
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	match, err := g.kb.Search(ctx, strings.Join(terms, " "))
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorKnowledge).Inc()
		g.log.WithError(err).Warn("knowledge base search failed", nil)
		return domain.AnswerPayload{}, false
	}
	if match == nil || match.Relevance <= minKnowledgeRelevance {
		return domain.AnswerPayload{}, false
	}

	if err := g.kb.RecordUsage(ctx, match.ID); err != nil {
		g.log.WithError(err).Debug("failed to record knowledge usage", map[string]interface{}{"entry_id": match.ID})
	}

	source := match.Source
	if source == "" {
		source = domain.SourceKnowledgeBase
	}
	return domain.AnswerPayload{
		Response:      match.Answer,
		KnowledgeUsed: true,
		Source:        source,
		Confidence:    math.Min(match.Relevance, 1),
	}, true
}

func (g *GeneralResponder) fromSpecialRequests(ctx context.Context, message string) (domain.AnswerPayload, bool) {
	if orderInquiryPattern.MatchString(message) {
		if text, ok := g.orderAnswer(ctx, message); ok {
			return domain.AnswerPayload{
				Response:      text,
				KnowledgeUsed: true,
				Source:        domain.SourceOrderSystem,
				Confidence:    orderSystemConfidence,
			}, true
		}
	}

	if discountInquiryPattern.MatchString(message) {
		return domain.AnswerPayload{
			Response:      discountAnswer,
			KnowledgeUsed: true,
			Source:        domain.SourceDiscounts,
			Confidence:    orderSystemConfidence,
		}, true
	}

	return domain.AnswerPayload{}, false
}

// orderAnswer reports false when the order system could not be consulted
func (g *GeneralResponder) orderAnswer(ctx context.Context, message string) (string, bool) {
	m := orderNumberPattern.FindStringSubmatch(message)
	if m == nil {
		return orderPromptAnswer, true
	}
	number := m[1]

	if g.orders == nil {
		return "", false
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	order, err := g.orders.LookupOrder(ctx, number)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return fmt.Sprintf("❌ I couldn't find order #%s. Please check the order number and try again, or contact support if you need assistance.", number), true
	}
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorOrders).Inc()
		g.log.WithError(err).Warn("order lookup failed", map[string]interface{}{"order_number": number})
		return "", false
	}

	return g.formatOrder(order), true
}

func (g *GeneralResponder) formatOrder(order *domain.Order) string {
	status := capitalize(order.Status)
	statusMsg, ok := orderStatusMessages[strings.ToLower(order.Status)]
	if !ok {
		statusMsg = "📋 Order status: " + status
	}

	number := order.Number
	if number == "" {
		number = fmt.Sprintf("%d", order.ID)
	}

	return fmt.Sprintf("📦 **Order #%s**\n\n📅 **Date:** %s\n💰 **Total:** %s\n📊 **Status:** %s\n\n%s",
		number, order.CreatedAt.Format("2006-01-02"), g.orderTotal(order), status, statusMsg)
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// orderTotal prices the order in its own currency, falling back to the store
// symbol when the order carries no valid ISO code.
func (g *GeneralResponder) orderTotal(order *domain.Order) string {
	if order.Currency == "" {
		return g.store.CurrencySymbol + order.Total
	}
	unit, err := currency.ParseISO(order.Currency)
	if err != nil {
		return g.store.CurrencySymbol + order.Total
	}
	if sym, ok := currencySymbols[unit.String()]; ok {
		return sym + order.Total
	}
	return unit.String() + " " + order.Total
}

func (g *GeneralResponder) fromCompletion(ctx context.Context, message string, history []domain.ConversationTurn) (domain.AnswerPayload, bool) {
	if g.completion == nil {
		return domain.AnswerPayload{}, false
	}

	if len(history) > g.historyWindow {
		history = history[len(history)-g.historyWindow:]
	}
	turns := make([]domain.ConversationTurn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, domain.ConversationTurn{Role: domain.RoleUser, Content: message})

	text, err := g.completion.Complete(ctx, g.preamble(ctx), turns)
	if err == nil && strings.TrimSpace(text) == "" {
		err = domain.ErrCompletionEmpty
	}
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues(metrics.CollaboratorCompletion).Inc()
		g.log.WithError(err).Warn("completion unavailable, using fallback answer", nil)
		return domain.AnswerPayload{}, false
	}

	return domain.AnswerPayload{
		Response:   strings.TrimSpace(text),
		Source:     domain.SourceCompletion,
		Confidence: completionConfidence,
	}, true
}

// preamble builds the system prompt from the store profile and company facts
func (g *GeneralResponder) preamble(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(completionPreamble)
	fmt.Fprintf(&b, "Store: %s\nDescription: %s\n", g.store.Name, g.store.Description)

	if g.kb == nil {
		return b.String()
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	info, err := g.kb.CompanyInfo(ctx)
	if err != nil {
		g.log.WithError(err).Debug("company info unavailable", nil)
		return b.String()
	}
	if len(info) > 0 {
		b.WriteString("Company Information:\n")
		for _, item := range info {
			fmt.Fprintf(&b, "- %s: %s\n", item.Title, item.Content)
		}
	}
	return b.String()
}

func (g *GeneralResponder) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return ctx, func() {}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
