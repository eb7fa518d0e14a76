package catalog

import (
	"time"

	"github.com/shopchat/backend/internal/domain"
)

// productDocument is the indexed shape of a store product
type productDocument struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	ShortDescription  string              `json:"short_description"`
	Description       string              `json:"description"`
	Price             float64             `json:"price"`
	RegularPrice      float64             `json:"regular_price"`
	SalePrice         float64             `json:"sale_price"`
	AverageRating     float64             `json:"average_rating"`
	RatingCount       int                 `json:"rating_count"`
	StockStatus       string              `json:"stock_status"`
	CatalogVisibility string              `json:"catalog_visibility"`
	CategorySlugs     []string            `json:"category_slugs"`
	CategoryNames     []string            `json:"category_names"`
	Images            []imageDocument     `json:"images"`
	Permalink         string              `json:"permalink"`
	AddToCartURL      string              `json:"add_to_cart_url"`
	TotalSales        int                 `json:"total_sales"`
	DateCreated       string              `json:"date_created"`
	Attributes        []attributeDocument `json:"attributes"`
}

type imageDocument struct {
	Src string `json:"src"`
}

type attributeDocument struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
	Visible bool     `json:"visible"`
}

// searchResponse is the subset of the _search response we read
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source productDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Date layouts seen in indexed documents
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// toCatalogItem converts an indexed document into a domain item
func toCatalogItem(doc productDocument) domain.CatalogItem {
	item := domain.CatalogItem{
		ID:               doc.ID,
		Name:             doc.Name,
		ShortDescription: doc.ShortDescription,
		Description:      doc.Description,
		Price:            doc.Price,
		RegularPrice:     doc.RegularPrice,
		SalePrice:        doc.SalePrice,
		AverageRating:    doc.AverageRating,
		ReviewCount:      doc.RatingCount,
		StockStatus:      domain.StockStatus(doc.StockStatus),
		CategorySlugs:    doc.CategorySlugs,
		CategoryNames:    doc.CategoryNames,
		Permalink:        doc.Permalink,
		AddToCartURL:     doc.AddToCartURL,
		TotalSales:       doc.TotalSales,
		CreatedAt:        parseDate(doc.DateCreated),
	}

	if item.RegularPrice == 0 {
		item.RegularPrice = item.Price
	}
	if len(doc.Images) > 0 {
		item.ImageURL = doc.Images[0].Src
	}
	if item.CategorySlugs == nil {
		item.CategorySlugs = []string{}
	}
	if item.CategoryNames == nil {
		item.CategoryNames = []string{}
	}

	for _, attr := range doc.Attributes {
		item.Attributes = append(item.Attributes, domain.ProductAttribute{
			Name:    attr.Name,
			Values:  attr.Options,
			Visible: attr.Visible,
		})
	}

	return item
}
