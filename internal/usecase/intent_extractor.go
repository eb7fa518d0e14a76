package usecase

import (
	"regexp"
	"strings"

	"github.com/shopchat/backend/internal/domain"
)

// intentPattern is one labelled keyword list. Lists are evaluated in
// declaration order and the first label with any substring hit wins.
type intentPattern struct {
	label    string
	keywords []string
}

var categoryPatterns = []intentPattern{
	{"electronics", []string{"phone", "computer", "laptop", "tablet", "electronics", "tech", "gadget", "smartphone", "pc", "mac", "iphone", "android"}},
	{"fashion", []string{"clothes", "clothing", "shirt", "dress", "pants", "shoes", "fashion", "style", "wear", "outfit", "jacket", "jeans"}},
	{"home", []string{"home", "house", "furniture", "decor", "kitchen", "bedroom", "living room", "garden", "appliance"}},
	{"sports", []string{"sports", "fitness", "exercise", "gym", "outdoor", "bike", "run", "workout", "athletic"}},
	{"beauty", []string{"beauty", "makeup", "skincare", "cosmetics", "health", "wellness", "care", "lotion", "cream"}},
	{"books", []string{"book", "read", "novel", "study", "education", "learning", "magazine", "ebook"}},
}

var budgetPatterns = []intentPattern{
	{"under_50", []string{"cheap", "budget", "affordable", "under 50", "less than 50", "inexpensive"}},
	{"50_100", []string{"mid-range", "moderate", "50 to 100", "around 75", "between 50 and 100"}},
	{"100_250", []string{"good quality", "decent price", "100 to 250", "around 150", "mid-high"}},
	{"250_500", []string{"premium", "high quality", "250 to 500", "expensive", "luxury"}},
	{"over_500", []string{"top tier", "best", "luxury", "premium", "over 500", "high-end"}},
}

var purposePatterns = []intentPattern{
	{"gift", []string{"gift", "present", "birthday", "anniversary", "surprise", "someone else"}},
	{"personal", []string{"myself", "for me", "personal", "own use"}},
	{"work", []string{"work", "office", "business", "professional", "job"}},
	{"hobby", []string{"hobby", "fun", "entertainment", "leisure", "passion"}},
}

var urgencyPatterns = []intentPattern{
	{"urgent", []string{"urgent", "asap", "immediately", "rush", "quick", "fast", "today"}},
	{"normal", []string{"normal", "regular", "when possible", "no rush"}},
	{"flexible", []string{"flexible", "anytime", "no hurry", "whenever"}},
}

var qualityPatterns = []intentPattern{
	{"premium", []string{"best", "top quality", "premium", "luxury", "high-end", "professional"}},
	{"good", []string{"good quality", "decent", "reliable", "solid"}},
	{"budget", []string{"basic", "simple", "budget", "cheap", "affordable"}},
}

// Vocabularies for entity extraction; every hit is kept
var (
	specificProducts = []string{
		"iphone", "iphone 15", "iphone 14", "iphone 13",
		"macbook", "thinkpad", "dell laptop", "hp laptop",
		"nike", "adidas", "sneakers", "running shoes",
		"apple watch", "smartwatch", "rolex",
	}
	knownBrands = []string{"apple", "samsung", "nike", "adidas", "sony", "dell", "hp", "microsoft", "google", "amazon"}
	knownColors = []string{"black", "white", "red", "blue", "green", "yellow", "pink", "purple", "orange", "brown", "gray", "silver", "gold"}
)

var intentStopWords = map[string]bool{
	"i": true, "need": true, "want": true, "looking": true, "for": true,
	"can": true, "you": true, "help": true, "me": true, "find": true,
	"the": true, "a": true, "an": true, "and": true, "or": true,
}

var (
	clothingSizePattern = regexp.MustCompile(`(?i)\b(xs|s|m|l|xl|xxl|xxxl)\b`)
	shoeSizePattern     = regexp.MustCompile(`(?i)\bsize (\d+(?:\.\d+)?)\b`)
	screenSizePattern   = regexp.MustCompile(`(?i)(\d+)[\s-]?inch`)
)

// Confidence rubric weights
const (
	confidenceCategory     = 25
	confidenceBudget       = 20
	confidencePurpose      = 15
	confidenceKeywords     = 15
	confidenceItems        = 15
	confidenceBrandOrColor = 10
	maxConfidence          = 100
)

// IntentExtractor turns a free-text message into a structured Intent
type IntentExtractor struct{}

// NewIntentExtractor creates a new intent extractor
func NewIntentExtractor() *IntentExtractor {
	return &IntentExtractor{}
}

// Extract reads the message and back-fills category and budget from the
// history. History is scanned oldest first and the first known value wins.
// Confidence reflects the message alone.
func (e *IntentExtractor) Extract(message string, history []domain.ConversationTurn) domain.Intent {
	intent := e.analyze(message)

	if len(history) == 0 {
		return intent
	}

	for _, turn := range history {
		if turn.Role != domain.RoleUser {
			continue
		}
		prev := e.analyze(turn.Content)

		if !intent.Category.Known() && prev.Category.Known() {
			intent.Category = prev.Category
		}
		if !intent.Budget.Known() && prev.Budget.Known() {
			intent.Budget = prev.Budget
		}
	}

	return intent
}

func (e *IntentExtractor) analyze(message string) domain.Intent {
	intent := domain.NewIntent()

	lower := strings.ToLower(message)

	intent.Keywords = extractMeaningfulKeywords(strings.Fields(lower))

	intent.Category = domain.Category(matchIntentPattern(lower, categoryPatterns, string(intent.Category)))
	intent.Budget = domain.BudgetTier(matchIntentPattern(lower, budgetPatterns, string(intent.Budget)))
	intent.Purpose = domain.Purpose(matchIntentPattern(lower, purposePatterns, string(intent.Purpose)))
	intent.Urgency = domain.Urgency(matchIntentPattern(lower, urgencyPatterns, string(intent.Urgency)))
	intent.Quality = domain.QualityTier(matchIntentPattern(lower, qualityPatterns, string(intent.Quality)))

	intent.SpecificItems = collectSubstrings(lower, specificProducts)
	intent.BrandPreference = collectSubstrings(lower, knownBrands)
	intent.ColorPreference = collectSubstrings(lower, knownColors)
	intent.SizePreference = extractSizes(lower)

	intent.ConfidenceScore = intentConfidence(intent)

	return intent
}

func matchIntentPattern(message string, patterns []intentPattern, fallback string) string {
	for _, p := range patterns {
		for _, kw := range p.keywords {
			if strings.Contains(message, kw) {
				return p.label
			}
		}
	}
	return fallback
}

// extractMeaningfulKeywords drops stop words and tokens of two characters or
// fewer, keeping first occurrence order
func extractMeaningfulKeywords(words []string) []string {
	keywords := []string{}
	seen := make(map[string]bool)

	for _, word := range words {
		word = strings.Trim(word, ".,!?")
		if len(word) <= 2 || intentStopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	return keywords
}

func collectSubstrings(message string, vocabulary []string) []string {
	found := []string{}
	for _, term := range vocabulary {
		if strings.Contains(message, term) {
			found = append(found, term)
		}
	}
	return found
}

func extractSizes(message string) map[string]string {
	sizes := map[string]string{}

	if m := clothingSizePattern.FindStringSubmatch(message); m != nil {
		sizes[domain.SizeClothing] = strings.ToUpper(m[1])
	}
	if m := shoeSizePattern.FindStringSubmatch(message); m != nil {
		sizes[domain.SizeShoe] = m[1]
	}
	if m := screenSizePattern.FindStringSubmatch(message); m != nil {
		sizes[domain.SizeScreen] = m[1] + " inch"
	}

	return sizes
}

func intentConfidence(intent domain.Intent) int {
	score := 0

	if intent.Category.Known() {
		score += confidenceCategory
	}
	if intent.Budget.Known() {
		score += confidenceBudget
	}
	if intent.Purpose.Known() {
		score += confidencePurpose
	}
	if len(intent.Keywords) > 0 {
		score += confidenceKeywords
	}
	if len(intent.SpecificItems) > 0 {
		score += confidenceItems
	}
	if len(intent.BrandPreference) > 0 || len(intent.ColorPreference) > 0 {
		score += confidenceBrandOrColor
	}

	if score > maxConfidence {
		score = maxConfidence
	}
	return score
}
