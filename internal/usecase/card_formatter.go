package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopchat/backend/internal/domain"
)

// Badge thresholds
const (
	hotPickScore      = 80.0
	greatChoiceScore  = 60.0
	bestSellerSales   = 100
	newProductMaxAge  = 30 * 24 * time.Hour
	topRatedMinRating = 4.5

	freeShippingThreshold = 50.0
	budgetFriendlyPrice   = 50.0
	premiumPrice          = 200.0
	maxKeyFeatures        = 3
	maxCardReasons        = 3
	descriptionWordLimit  = 25
)

var (
	budgetMessages = map[domain.BudgetTier]string{
		domain.BudgetUnder50:  "All within your budget-friendly range! 💰",
		domain.Budget50To100:  "Great value in your $50-$100 range! 💰💰",
		domain.Budget100To250: "Quality picks in your $100-$250 range! 💰💰💰",
		domain.Budget250To500: "Premium options in your $250-$500 range! 💰💰💰💰",
		domain.BudgetOver500:  "Luxury choices for your premium budget! 💎",
	}

	stockLabels = map[domain.StockStatus][2]string{
		domain.StockInStock:     {"✅ In Stock", "✅"},
		domain.StockOutOfStock:  {"❌ Out of Stock", "❌"},
		domain.StockOnBackorder: {"⏳ Backordered", "⏳"},
	}

	bulletFeaturePattern = regexp.MustCompile(`•\s*([^•\n]+)`)
	htmlTagPattern       = regexp.MustCompile(`<[^>]*>`)
)

// CardFormatter renders ranked candidates into display payloads
type CardFormatter struct {
	currency         string
	placeholderImage string
	printer          *message.Printer
	now              func() time.Time
}

// NewCardFormatter creates a formatter for the store currency symbol
func NewCardFormatter(currency, placeholderImage string) *CardFormatter {
	if currency == "" {
		currency = "$"
	}
	return &CardFormatter{
		currency:         currency,
		placeholderImage: placeholderImage,
		printer:          message.NewPrinter(language.English),
		now:              time.Now,
	}
}

// Format emits recommendations when there are candidates and the
// no-products payload otherwise
func (f *CardFormatter) Format(candidates []domain.Candidate, intent domain.Intent, fallback []domain.CatalogItem) domain.Payload {
	if len(candidates) == 0 {
		return f.FormatNoProducts(intent, fallback)
	}
	return f.FormatRecommendations(candidates, intent)
}

// FormatRecommendations builds the recommendations payload, one card per candidate in rank order
func (f *CardFormatter) FormatRecommendations(candidates []domain.Candidate, intent domain.Intent) domain.RecommendationsPayload {
	cards := make([]domain.ProductCard, 0, len(candidates))
	for _, c := range candidates {
		cards = append(cards, f.Card(c, intent))
	}

	return domain.RecommendationsPayload{
		Message:             introMessage(len(cards), intent),
		Products:            cards,
		AdditionalInfo:      additionalInfo(intent),
		FollowUpSuggestions: followUpSuggestions(intent),
		Intent:              intent,
	}
}

// FormatNoProducts builds the empty-result payload with top-seller alternatives
func (f *CardFormatter) FormatNoProducts(intent domain.Intent, fallback []domain.CatalogItem) domain.NoProductsPayload {
	summaries := make([]domain.ProductSummary, 0, len(fallback))
	for _, item := range fallback {
		summaries = append(summaries, domain.ProductSummary{
			ID:         item.ID,
			Name:       item.Name,
			Price:      item.Price,
			ImageURL:   f.image(item),
			Permalink:  item.Permalink,
			TotalSales: item.TotalSales,
		})
	}

	return domain.NoProductsPayload{
		Message: "😔 I couldn't find products matching your exact criteria, but let me help you find something great!",
		Suggestions: []domain.Suggestion{
			{Text: "🔍 Broaden search criteria", Action: "broaden_search"},
			{Text: "💰 Try different price range", Action: "change_budget"},
			{Text: "📂 Browse popular categories", Action: "browse_categories"},
			{Text: "🆘 Get personal assistance", Action: "human_help"},
		},
		AlternativeMessage: "Here are some popular products you might like instead:",
		FallbackProducts:   summaries,
		Intent:             intent,
	}
}

// Card renders one candidate
func (f *CardFormatter) Card(c domain.Candidate, intent domain.Intent) domain.ProductCard {
	item := c.Item

	categories := item.CategoryNames
	if categories == nil {
		categories = []string{}
	}

	reasons := []string{}
	if len(c.Reasons) > 0 {
		reasons = c.Reasons[:min(len(c.Reasons), maxCardReasons)]
	}

	return domain.ProductCard{
		ID:           item.ID,
		Name:         item.Name,
		Description:  productDescription(item),
		ImageURL:     f.image(item),
		Price:        f.price(item),
		Rating:       rating(item),
		Availability: availability(item.StockStatus),
		Shipping:     shipping(item),
		Badges:       f.badges(c),
		Categories:   categories,
		Permalink:    item.Permalink,
		AddToCartURL: item.AddToCartURL,
		Recommendation: domain.CardRecommendation{
			Score:          c.Score,
			Reasons:        reasons,
			WhyRecommended: whyRecommended(item, intent),
		},
		KeyFeatures:      keyFeatures(item),
		ComparisonPoints: comparisonPoints(item),
	}
}

func (f *CardFormatter) image(item domain.CatalogItem) string {
	if item.ImageURL != "" {
		return item.ImageURL
	}
	return f.placeholderImage
}

func (f *CardFormatter) money(v float64) string {
	return f.currency + f.printer.Sprintf("%.2f", v)
}

func (f *CardFormatter) price(item domain.CatalogItem) domain.CardPrice {
	p := domain.CardPrice{
		Current:  item.Price,
		Regular:  item.RegularPrice,
		Currency: f.currency,
	}

	if !item.OnSale() {
		current := f.money(item.Price)
		p.Formatted = domain.FormattedPrice{Current: current, Display: current}
		return p
	}

	savings := item.RegularPrice - item.SalePrice
	percent := int(math.Round(savings / item.RegularPrice * 100))

	p.Sale = item.SalePrice
	p.Formatted = domain.FormattedPrice{
		Current:        f.money(item.SalePrice),
		Original:       f.money(item.RegularPrice),
		Savings:        f.money(savings),
		SavingsPercent: percent,
		IsOnSale:       true,
	}
	p.Formatted.Display = fmt.Sprintf("%s %s Save %d%%!", p.Formatted.Current, p.Formatted.Original, percent)
	return p
}

// starString renders five slots: full stars, one half star shown as full,
// then empty stars
func starString(avg float64) string {
	avg = math.Max(0, math.Min(avg, maxRating))
	full := int(math.Floor(avg))
	half := avg-float64(full) >= 0.5

	var b strings.Builder
	for i := 1; i <= 5; i++ {
		switch {
		case i <= full:
			b.WriteString("⭐")
		case i == full+1 && half:
			b.WriteString("⭐")
		default:
			b.WriteString("☆")
		}
	}
	return b.String()
}

func rating(item domain.CatalogItem) domain.CardRating {
	stars := starString(item.AverageRating)
	formatted := "No reviews yet"
	if item.AverageRating > 0 {
		formatted = fmt.Sprintf("%s %.1f/5 (%d reviews)", stars, item.AverageRating, item.ReviewCount)
	}
	return domain.CardRating{
		Average:   item.AverageRating,
		Count:     item.ReviewCount,
		Stars:     stars,
		Formatted: formatted,
	}
}

func availability(status domain.StockStatus) domain.CardAvailability {
	label, ok := stockLabels[status]
	if !ok {
		label = [2]string{"❓ Unknown", "❓"}
	}
	return domain.CardAvailability{Status: status, Text: label[0], Icon: label[1]}
}

func shipping(item domain.CatalogItem) domain.ShippingInfo {
	info := domain.ShippingInfo{
		DeliveryTime: "3-5 business days",
		Cost:         "Calculated at checkout",
		Icon:         "📦",
	}
	if item.Price >= freeShippingThreshold {
		info.FreeShipping = true
		info.Cost = "FREE"
		info.Icon = "🚚"
	}
	for _, slug := range item.CategorySlugs {
		if slug == "electronics" {
			info.ExpressAvailable = true
			info.ExpressTime = "1-2 business days"
			break
		}
	}
	return info
}

// badges includes every qualifying badge in a fixed order
func (f *CardFormatter) badges(c domain.Candidate) []domain.Badge {
	item := c.Item
	badges := []domain.Badge{}

	if c.Score >= hotPickScore {
		badges = append(badges, domain.Badge{Text: "🔥 Hot Pick", Class: "badge-hot", Color: "#ff4757"})
	}
	if c.Score >= greatChoiceScore {
		badges = append(badges, domain.Badge{Text: "⭐ Great Choice", Class: "badge-great", Color: "#ffa502"})
	}
	if item.OnSale() {
		badges = append(badges, domain.Badge{Text: "💰 On Sale", Class: "badge-sale", Color: "#26de81"})
	}
	if item.TotalSales > bestSellerSales {
		badges = append(badges, domain.Badge{Text: "🏆 Best Seller", Class: "badge-bestseller", Color: "#fd79a8"})
	}
	if !item.CreatedAt.IsZero() && f.now().Sub(item.CreatedAt) <= newProductMaxAge {
		badges = append(badges, domain.Badge{Text: "✨ New", Class: "badge-new", Color: "#a29bfe"})
	}
	if item.AverageRating >= topRatedMinRating {
		badges = append(badges, domain.Badge{Text: "⭐ Top Rated", Class: "badge-rated", Color: "#fdcb6e"})
	}

	return badges
}

func productDescription(item domain.CatalogItem) string {
	if short := strings.TrimSpace(stripTags(item.ShortDescription)); short != "" {
		return short
	}
	if words := strings.Fields(stripTags(item.Description)); len(words) > 0 {
		if len(words) > descriptionWordLimit {
			return strings.Join(words[:descriptionWordLimit], " ") + "…"
		}
		return strings.Join(words, " ")
	}
	category := "product"
	if len(item.CategoryNames) > 0 {
		category = item.CategoryNames[0]
	}
	return fmt.Sprintf("High-quality %s - %s", category, item.Name)
}

func stripTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, " ")
}

func whyRecommended(item domain.CatalogItem, intent domain.Intent) string {
	var parts []string
	if intent.Category.Known() {
		parts = append(parts, fmt.Sprintf("Perfect match for %s category", intent.Category))
	}
	if intent.Budget.Known() {
		parts = append(parts, "Fits your budget range perfectly")
	}
	if item.AverageRating >= wellRatedThreshold {
		parts = append(parts, "Highly rated by customers")
	}
	if len(parts) == 0 {
		return "Great quality product with excellent value"
	}
	return strings.Join(parts, " • ")
}

func keyFeatures(item domain.CatalogItem) []string {
	features := []string{}

	for _, attr := range item.Attributes {
		if !attr.Visible || len(attr.Values) == 0 {
			continue
		}
		features = append(features, fmt.Sprintf("%s: %s", attr.Name, strings.Join(attr.Values, ", ")))
		if len(features) == maxKeyFeatures {
			return features
		}
	}
	if len(features) > 0 {
		return features
	}

	for _, m := range bulletFeaturePattern.FindAllStringSubmatch(stripTags(item.Description), maxKeyFeatures) {
		if feature := strings.TrimSpace(m[1]); feature != "" {
			features = append(features, feature)
		}
	}
	return features
}

func comparisonPoints(item domain.CatalogItem) []string {
	var points []string

	switch {
	case item.Price < budgetFriendlyPrice:
		points = append(points, "💰 Budget-friendly option")
	case item.Price > premiumPrice:
		points = append(points, "💎 Premium quality")
	default:
		points = append(points, "⚖️ Great value for money")
	}

	switch {
	case item.AverageRating >= highlyRatedThreshold:
		points = append(points, "⭐ Customer favorite")
	case item.AverageRating >= wellRatedThreshold:
		points = append(points, "👍 Well-reviewed")
	}

	if item.TotalSales > popularSalesCount {
		points = append(points, "🔥 Popular choice")
	}

	return points
}

func introMessage(count int, intent domain.Intent) string {
	var msg string
	if intent.Category.Known() {
		msg = fmt.Sprintf("🎯 I found %d perfect %s for you!", count, intent.Category.DisplayName())
	} else {
		msg = fmt.Sprintf("✨ Here are %d amazing products I think you'll love!", count)
	}
	if budget, ok := budgetMessages[intent.Budget]; ok {
		msg += " " + budget
	}
	return msg
}

func additionalInfo(intent domain.Intent) []string {
	var info []string
	if intent.Purpose == domain.PurposeGift {
		info = append(info, "🎁 All items come with beautiful gift wrapping options")
	}
	if intent.Urgency == domain.UrgencyUrgent {
		info = append(info, "⚡ Express shipping available for faster delivery")
	}
	return append(info,
		"🔄 30-day return policy on all items",
		"💬 Need help deciding? Just ask me more questions!",
	)
}

func followUpSuggestions(intent domain.Intent) []domain.Suggestion {
	suggestions := []domain.Suggestion{
		{Text: "🔍 Show me more details", Action: "show_more_details"},
		{Text: "⚖️ Compare these products", Action: "compare_products"},
	}
	if intent.Category.Known() {
		suggestions = append(suggestions, domain.Suggestion{Text: "🎯 Find similar products", Action: "find_similar", Category: intent.Category})
	}
	return append(suggestions,
		domain.Suggestion{Text: "💰 Show different price range", Action: "change_budget"},
		domain.Suggestion{Text: "🎁 Gift wrapping options", Action: "gift_options"},
	)
}
