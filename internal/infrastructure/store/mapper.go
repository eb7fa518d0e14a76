package store

import (
	"strconv"
	"time"

	"github.com/shopchat/backend/internal/domain"
)

// orderResponse is the subset of a WooCommerce order we read
type orderResponse struct {
	ID          int64  `json:"id"`
	Number      string `json:"number"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	DateCreated string `json:"date_created"`
}

// WooCommerce returns site-local timestamps without a zone
var dateLayouts = []string{"2006-01-02T15:04:05", time.RFC3339}

func toOrder(r orderResponse) *domain.Order {
	order := &domain.Order{
		ID:       r.ID,
		Number:   r.Number,
		Status:   r.Status,
		Total:    r.Total,
		Currency: r.Currency,
	}
	if order.Number == "" {
		order.Number = strconv.FormatInt(r.ID, 10)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, r.DateCreated); err == nil {
			order.CreatedAt = t
			break
		}
	}
	return order
}
