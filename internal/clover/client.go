package clover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// page is the envelope every Clover list resource responds with.
type page struct {
	Elements []json.RawMessage `json:"elements"`
}

// Client talks to the Clover merchant API. It is stateless across calls;
// the only pacing it applies is a fixed delay between successive pages of
// the same listing to stay under the provider's rate limit.
type Client struct {
	baseURL    string
	apiKey     string
	merchantID string
	pageSize   int
	pageDelay  time.Duration
	httpClient *http.Client
	logger     *zap.Logger

	// sleep is swapped out in tests to observe inter-page pacing.
	sleep func(ctx context.Context, d time.Duration) error
}

type Options struct {
	BaseURL    string
	APIKey     string
	MerchantID string
	PageSize   int
	PageDelay  time.Duration
	Timeout    time.Duration
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		merchantID: opts.MerchantID,
		pageSize:   pageSize,
		pageDelay:  opts.PageDelay,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ListItems fetches every catalog item with categories and tags expanded.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	params := url.Values{}
	params.Set("expand", "categories,tags")
	raws, err := c.fetchAllPages(ctx, "items", params)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		var item Item
		if err := json.Unmarshal(raw, &item); err != nil {
			c.logger.Warn("Skipping undecodable item record", zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ListCategories fetches every category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	raws, err := c.fetchAllPages(ctx, "categories", nil)
	if err != nil {
		return nil, err
	}
	categories := make([]Category, 0, len(raws))
	for _, raw := range raws {
		var cat Category
		if err := json.Unmarshal(raw, &cat); err != nil {
			c.logger.Warn("Skipping undecodable category record", zap.Error(err))
			continue
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

// ListItemStocks fetches every stock record.
func (c *Client) ListItemStocks(ctx context.Context) ([]ItemStock, error) {
	raws, err := c.fetchAllPages(ctx, "item_stocks", nil)
	if err != nil {
		return nil, err
	}
	stocks := make([]ItemStock, 0, len(raws))
	for _, raw := range raws {
		var stock ItemStock
		if err := json.Unmarshal(raw, &stock); err != nil {
			c.logger.Warn("Skipping undecodable stock record", zap.Error(err))
			continue
		}
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

// fetchAllPages walks a list resource at increasing offsets until a page
// comes back short or empty. Records are accumulated in upstream order.
//
// Partial-result policy: if a page beyond the first fails, pagination
// aborts and whatever has been accumulated so far is returned without an
// error. Callers must treat the result as possibly incomplete. Only a
// failure on the very first page is surfaced as an error.
func (c *Client) fetchAllPages(ctx context.Context, resource string, params url.Values) ([]json.RawMessage, error) {
	var all []json.RawMessage
	offset := 0

	for {
		pg, err := c.fetchPage(ctx, resource, params, offset)
		if err != nil {
			if len(all) == 0 {
				return nil, err
			}
			c.logger.Warn("Page fetch failed, returning partial result",
				zap.String("resource", resource),
				zap.Int("offset", offset),
				zap.Int("accumulated", len(all)),
				zap.Error(err),
			)
			return all, nil
		}

		if len(pg.Elements) == 0 {
			break
		}
		all = append(all, pg.Elements...)
		if len(pg.Elements) < c.pageSize {
			// Last page: no delay needed after it.
			break
		}
		offset += c.pageSize

		if err := c.sleep(ctx, c.pageDelay); err != nil {
			return all, nil
		}
	}

	c.logger.Debug("Fetched all pages",
		zap.String("resource", resource),
		zap.Int("records", len(all)),
	)
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, resource string, params url.Values, offset int) (*page, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v3/merchants/%s/%s", c.baseURL, c.merchantID, resource))
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}

	query := url.Values{}
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	query.Set("limit", strconv.Itoa(c.pageSize))
	query.Set("offset", strconv.Itoa(offset))
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("clover responded %d: %s", resp.StatusCode, string(body))
	}

	var pg page
	if err := json.NewDecoder(resp.Body).Decode(&pg); err != nil {
		return nil, fmt.Errorf("decoding clover response: %w", err)
	}
	return &pg, nil
}
