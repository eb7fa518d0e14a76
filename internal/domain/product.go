package domain

import "time"

// StockStatus mirrors the store's stock states
type StockStatus string

const (
	StockInStock     StockStatus = "instock"
	StockOutOfStock  StockStatus = "outofstock"
	StockOnBackorder StockStatus = "onbackorder"
)

// CatalogItem represents a product as returned by the catalog search
type CatalogItem struct {
	ID               int64              `json:"id"`
	Name             string             `json:"name"`
	ShortDescription string             `json:"short_description,omitempty"`
	Description      string             `json:"description,omitempty"`
	Price            float64            `json:"price"`
	RegularPrice     float64            `json:"regular_price"`
	SalePrice        float64            `json:"sale_price,omitempty"`
	AverageRating    float64            `json:"average_rating"`
	ReviewCount      int                `json:"review_count"`
	StockStatus      StockStatus        `json:"stock_status"`
	CategorySlugs    []string           `json:"category_slugs"`
	CategoryNames    []string           `json:"category_names"`
	ImageURL         string             `json:"image_url,omitempty"`
	Permalink        string             `json:"permalink"`
	AddToCartURL     string             `json:"add_to_cart_url,omitempty"`
	TotalSales       int                `json:"total_sales"`
	CreatedAt        time.Time          `json:"created_at"`
	Attributes       []ProductAttribute `json:"attributes,omitempty"`
}

// ProductAttribute is a named product property such as "Color: Black, Red"
type ProductAttribute struct {
	Name    string   `json:"name"`
	Values  []string `json:"values"`
	Visible bool     `json:"visible"`
}

// InStock reports whether the item can be bought now
func (p CatalogItem) InStock() bool {
	return p.StockStatus == StockInStock
}

// OnSale reports whether a sale price below the regular price is active
func (p CatalogItem) OnSale() bool {
	return p.SalePrice > 0 && p.SalePrice < p.RegularPrice
}

// HasAnyCategory reports whether the item belongs to any of the given slugs
func (p CatalogItem) HasAnyCategory(slugs []string) bool {
	for _, own := range p.CategorySlugs {
		for _, s := range slugs {
			if own == s {
				return true
			}
		}
	}
	return false
}

// CatalogOrder selects how the catalog sorts its results
type CatalogOrder string

const (
	OrderRelevance  CatalogOrder = "relevance"
	OrderPopularity CatalogOrder = "popularity"
)

// CatalogQuery is the filter sent to the catalog collaborator.
// Stock and visibility filters are always applied by the catalog.
type CatalogQuery struct {
	CategorySlugs []string     `json:"category_slugs,omitempty"`
	PriceRange    *PriceRange  `json:"price_range,omitempty"`
	SearchText    string       `json:"search_text,omitempty"`
	OrderBy       CatalogOrder `json:"order_by"`
	Limit         int          `json:"limit"`
}

// ScoreBreakdown holds the weighted factors behind a candidate score
type ScoreBreakdown struct {
	PriceMatch     float64 `json:"price_match"`
	CategoryMatch  float64 `json:"category_match"`
	Rating         float64 `json:"rating"`
	Popularity     float64 `json:"popularity"`
	Availability   float64 `json:"availability"`
	UserPreference float64 `json:"user_preference"`
	SalesVelocity  float64 `json:"sales_velocity"`
}

// Total sums every factor
func (b ScoreBreakdown) Total() float64 {
	return b.PriceMatch + b.CategoryMatch + b.Rating + b.Popularity +
		b.Availability + b.UserPreference + b.SalesVelocity
}

// Candidate is a catalog item under consideration in one recommendation run
type Candidate struct {
	Item      CatalogItem    `json:"item"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Reasons   []string       `json:"reasons"`
}
