package domain

// Unknown marks an intent dimension with no signal in the message
const Unknown = "unknown"

// Category is the product family a shopper is asking about
type Category string

const (
	CategoryUnknown     Category = Unknown
	CategoryElectronics Category = "electronics"
	CategoryFashion     Category = "fashion"
	CategoryHome        Category = "home"
	CategorySports      Category = "sports"
	CategoryBeauty      Category = "beauty"
	CategoryBooks       Category = "books"
)

// categorySlugs maps each category to the store taxonomy slugs it covers
var categorySlugs = map[Category][]string{
	CategoryElectronics: {"electronics", "computers", "phones", "tablets"},
	CategoryFashion:     {"clothing", "fashion", "apparel", "shoes"},
	CategoryHome:        {"home-garden", "furniture", "decor", "kitchen"},
	CategorySports:      {"sports", "fitness", "outdoor", "recreation"},
	CategoryBeauty:      {"beauty", "health", "cosmetics", "skincare"},
	CategoryBooks:       {"books", "media", "entertainment"},
}

var categoryNames = map[Category]string{
	CategoryElectronics: "electronics",
	CategoryFashion:     "fashion items",
	CategoryHome:        "home products",
	CategorySports:      "sports equipment",
	CategoryBeauty:      "beauty products",
	CategoryBooks:       "books",
}

// Known reports whether the category carries a real value
func (c Category) Known() bool {
	_, ok := categorySlugs[c]
	return ok
}

// Slugs returns the taxonomy slugs for the category, or nil when unknown
func (c Category) Slugs() []string {
	return categorySlugs[c]
}

// DisplayName returns the plural noun used in recommendation intros
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "products"
}

// ParseCategory converts free input into a Category, falling back to unknown
func ParseCategory(s string) Category {
	c := Category(s)
	if c.Known() {
		return c
	}
	return CategoryUnknown
}

// BudgetTier is one of the five fixed price bands
type BudgetTier string

const (
	BudgetUnknown  BudgetTier = Unknown
	BudgetUnder50  BudgetTier = "under_50"
	Budget50To100  BudgetTier = "50_100"
	Budget100To250 BudgetTier = "100_250"
	Budget250To500 BudgetTier = "250_500"
	BudgetOver500  BudgetTier = "over_500"
)

// PriceRange is an inclusive price interval
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies inside the inclusive bounds
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// OpenEndedMax stands in for "no upper limit" on the top band
const OpenEndedMax = 999999

var budgetBands = map[BudgetTier]PriceRange{
	BudgetUnder50:  {Min: 0, Max: 50},
	Budget50To100:  {Min: 50, Max: 100},
	Budget100To250: {Min: 100, Max: 250},
	Budget250To500: {Min: 250, Max: 500},
	BudgetOver500:  {Min: 500, Max: OpenEndedMax},
}

// Known reports whether the tier is one of the five bands
func (b BudgetTier) Known() bool {
	_, ok := budgetBands[b]
	return ok
}

// Band returns the price range for the tier
func (b BudgetTier) Band() (PriceRange, bool) {
	r, ok := budgetBands[b]
	return r, ok
}

// ParseBudgetTier converts free input into a BudgetTier, falling back to unknown
func ParseBudgetTier(s string) BudgetTier {
	b := BudgetTier(s)
	if b.Known() {
		return b
	}
	return BudgetUnknown
}

// Purpose is who or what the purchase is for
type Purpose string

const (
	PurposeUnknown  Purpose = Unknown
	PurposeGift     Purpose = "gift"
	PurposePersonal Purpose = "personal"
	PurposeWork     Purpose = "work"
	PurposeHobby    Purpose = "hobby"
)

// Known reports whether the purpose carries a real value
func (p Purpose) Known() bool {
	return p != "" && p != PurposeUnknown
}

// Urgency is how soon the shopper needs the item
type Urgency string

const (
	UrgencyUrgent   Urgency = "urgent"
	UrgencyNormal   Urgency = "normal"
	UrgencyFlexible Urgency = "flexible"
)

// QualityTier is the expected quality level
type QualityTier string

const (
	QualityPremium QualityTier = "premium"
	QualityGood    QualityTier = "good"
	QualityBudget  QualityTier = "budget"
)

// Size preference keys
const (
	SizeClothing = "clothing"
	SizeShoe     = "shoe"
	SizeScreen   = "screen"
)

// Intent is the structured reading of one shopper message
type Intent struct {
	Category        Category          `json:"category"`
	Budget          BudgetTier        `json:"budget"`
	Purpose         Purpose           `json:"purpose"`
	Urgency         Urgency           `json:"urgency"`
	Quality         QualityTier       `json:"quality"`
	Keywords        []string          `json:"keywords"`
	SpecificItems   []string          `json:"specific_items"`
	BrandPreference []string          `json:"brand_preference"`
	ColorPreference []string          `json:"color_preference"`
	SizePreference  map[string]string `json:"size_preference"`
	ConfidenceScore int               `json:"confidence_score"`
}

// NewIntent returns an Intent with every dimension at its default
func NewIntent() Intent {
	return Intent{
		Category:        CategoryUnknown,
		Budget:          BudgetUnknown,
		Purpose:         PurposeUnknown,
		Urgency:         UrgencyNormal,
		Quality:         QualityGood,
		Keywords:        []string{},
		SpecificItems:   []string{},
		BrandPreference: []string{},
		ColorPreference: []string{},
		SizePreference:  map[string]string{},
	}
}

// MissingFields lists the required dimensions still unknown, in question order
func (i Intent) MissingFields() []string {
	var missing []string
	if !i.Category.Known() {
		missing = append(missing, "category")
	}
	if !i.Budget.Known() {
		missing = append(missing, "budget")
	}
	if !i.Purpose.Known() {
		missing = append(missing, "purpose")
	}
	return missing
}

// Summary is the short label stored in the interaction log
func (i Intent) Summary() string {
	if i.Category.Known() {
		return string(i.Category)
	}
	return Unknown
}

// Role values for conversation turns
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is one prior message in the chat window
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
