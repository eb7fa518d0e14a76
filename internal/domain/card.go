package domain

// ProductCard is the display record for one recommended product
type ProductCard struct {
	ID               int64              `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	ImageURL         string             `json:"image_url"`
	Price            CardPrice          `json:"price"`
	Rating           CardRating         `json:"rating"`
	Availability     CardAvailability   `json:"availability"`
	Shipping         ShippingInfo       `json:"shipping"`
	Badges           []Badge            `json:"badges"`
	Categories       []string           `json:"categories"`
	Permalink        string             `json:"permalink"`
	AddToCartURL     string             `json:"add_to_cart_url,omitempty"`
	Recommendation   CardRecommendation `json:"recommendation"`
	KeyFeatures      []string           `json:"key_features"`
	ComparisonPoints []string           `json:"comparison_points"`
}

// CardPrice is the price block of a card
type CardPrice struct {
	Current   float64        `json:"current"`
	Regular   float64        `json:"regular"`
	Sale      float64        `json:"sale,omitempty"`
	Currency  string         `json:"currency"`
	Formatted FormattedPrice `json:"formatted"`
}

// FormattedPrice holds human readable price strings
type FormattedPrice struct {
	Current        string `json:"current"`
	Original       string `json:"original,omitempty"`
	Savings        string `json:"savings,omitempty"`
	SavingsPercent int    `json:"savings_percent"`
	IsOnSale       bool   `json:"is_on_sale"`
	Display        string `json:"display"`
}

// CardRating is the rating block of a card
type CardRating struct {
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
	Stars     string  `json:"stars"`
	Formatted string  `json:"formatted"`
}

// CardAvailability is the stock block of a card
type CardAvailability struct {
	Status StockStatus `json:"status"`
	Text   string      `json:"text"`
	Icon   string      `json:"icon"`
}

// ShippingInfo is the shipping estimate shown on a card
type ShippingInfo struct {
	FreeShipping     bool   `json:"free_shipping"`
	DeliveryTime     string `json:"delivery_time"`
	Cost             string `json:"cost"`
	Icon             string `json:"icon"`
	ExpressAvailable bool   `json:"express_available,omitempty"`
	ExpressTime      string `json:"express_time,omitempty"`
}

// Badge is a highlighted label on a card
type Badge struct {
	Text  string `json:"text"`
	Class string `json:"class"`
	Color string `json:"color"`
}

// CardRecommendation explains why the card was picked
type CardRecommendation struct {
	Score          float64  `json:"score"`
	Reasons        []string `json:"reasons"`
	WhyRecommended string   `json:"why_recommended"`
}

// Suggestion is a follow-up chip offered to the shopper
type Suggestion struct {
	Text     string   `json:"text"`
	Action   string   `json:"action"`
	Category Category `json:"category,omitempty"`
}

// ProductSummary is the compact product shape used for fallback lists
type ProductSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image_url,omitempty"`
	Permalink  string  `json:"permalink"`
	TotalSales int     `json:"total_sales"`
}
