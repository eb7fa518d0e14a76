package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shopchat/backend/config"
	"github.com/shopchat/backend/internal/domain"
	"github.com/shopchat/backend/internal/logger"
)

const apiPrefix = "/wp-json/wc/v3"

// Order statuses that count as a sale
var salesStatuses = []string{"processing", "completed", "on-hold"}

// Client talks to the store's WooCommerce-compatible REST API. Calls are
// single attempts; the caller decides what a failure means.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	rateLimiter    *rate.Limiter
	log            logger.Logger
}

// NewClient creates a store API client allowing requestsPerHour calls
func NewClient(cfg config.StoreConfig, requestsPerHour int, log logger.Logger) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 3600
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		rateLimiter:    limiter,
		log:            log.With(map[string]interface{}{"collaborator": "store_api"}),
	}
}

// doRequest waits for the limiter and executes an authenticated GET
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	reqURL := c.baseURL + apiPrefix + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ShopChat/1.0")
	req.Header.Set("Accept", "application/json")
	if c.consumerKey != "" {
		req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreAPIFailure, err)
	}
	return resp, nil
}

// LookupOrder fetches an order by number
func (c *Client) LookupOrder(ctx context.Context, number string) (*domain.Order, error) {
	if _, err := strconv.ParseInt(number, 10, 64); err != nil {
		return nil, domain.ErrOrderNotFound
	}

	resp, err := c.doRequest(ctx, "/orders/"+number, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrOrderNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Warn("order lookup failed", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return nil, fmt.Errorf("%w: status %d", domain.ErrStoreAPIFailure, resp.StatusCode)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: failed to decode order: %v", domain.ErrStoreAPIFailure, err)
	}

	return toOrder(order), nil
}

// RecentSales counts orders containing the product created after since.
// The count comes from the X-WP-Total header so only one row is transferred.
func (c *Client) RecentSales(ctx context.Context, productID int64, since time.Time) (int, error) {
	params := url.Values{}
	params.Set("product", strconv.FormatInt(productID, 10))
	params.Set("after", since.UTC().Format(time.RFC3339))
	params.Set("status", strings.Join(salesStatuses, ","))
	params.Set("per_page", "1")

	resp, err := c.doRequest(ctx, "/orders", params)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", domain.ErrStoreAPIFailure, resp.StatusCode)
	}

	total := resp.Header.Get("X-WP-Total")
	if total == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("%w: bad X-WP-Total %q", domain.ErrStoreAPIFailure, total)
	}
	return n, nil
}
