package pancake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/tamnguyenvan/timegroup/pkg/models/api"
	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

// ErrFetch wraps any transport or HTTP failure while paging through an
// upstream resource. A single failed page fails the whole fetch; no
// partial collection is returned.
var ErrFetch = errors.New("fetch failed")

// pageSentinel keeps the pagination loop running until the first real
// response supplies the authoritative total_pages.
const pageSentinel = 1 << 20

// ProgressFunc receives a notification after every fetched page. A nil
// callback is a no-op.
type ProgressFunc func(page, totalPages int)

// Query carries the upstream filter for one paged fetch. UpdateStatus is
// passed through opaquely: "1" filters confirmed orders,
// "partner_inserted_at" orders handed to a carrier.
type Query struct {
	UpdateStatus string
	Range        domain.TimeRange
}

// Config tunes the upstream client.
type Config struct {
	Endpoint string
	PageSize int
	Timeout  time.Duration
	RetryMax int
}

// Client pages through Pancake list endpoints, retrying transient
// failures with backoff and a per-request timeout.
type Client struct {
	http     *retryablehttp.Client
	endpoint string
	pageSize int
}

// NewClient builds a Client from cfg. Zero values fall back to sane
// defaults: page size 100, 30s request timeout, 3 retries.
func NewClient(cfg Config) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = nil

	return &Client{
		http:     rc,
		endpoint: cfg.Endpoint,
		pageSize: cfg.PageSize,
	}
}

type pagedResponse[T any] struct {
	Success    bool `json:"success"`
	Data       []T  `json:"data"`
	TotalPages int  `json:"total_pages"`
}

// FetchOrders pages through a shop's orders matching q, in server order.
func (c *Client) FetchOrders(
	ctx context.Context,
	shop domain.Shop,
	q Query,
	progress ProgressFunc,
) ([]api.Order, error) {
	path := fmt.Sprintf("shops/%d/orders", shop.ID)
	return fetchPages[api.Order](ctx, c, path, shop, q, progress)
}

// FetchVariations pages through a shop's product variations.
func (c *Client) FetchVariations(
	ctx context.Context,
	shop domain.Shop,
	q Query,
	progress ProgressFunc,
) ([]api.Variation, error) {
	path := fmt.Sprintf("shops/%d/products/variations", shop.ID)
	return fetchPages[api.Variation](ctx, c, path, shop, q, progress)
}

func fetchPages[T any](
	ctx context.Context,
	c *Client,
	path string,
	shop domain.Shop,
	q Query,
	progress ProgressFunc,
) ([]T, error) {
	logger := zerolog.Ctx(ctx)

	var records []T
	page := 1
	totalPages := pageSentinel

	for page <= totalPages {
		resp, err := getPage[T](ctx, c, path, shop, q, page)
		if err != nil {
			return nil, fmt.Errorf("%w: %s page %d: %w", ErrFetch, path, page, err)
		}

		if !resp.Success {
			// The server answered but did not flag success; stop paging
			// and keep what we have rather than erroring out.
			logger.Warn().
				Str("path", path).
				Int("page", page).
				Msg("page response not successful, stopping pagination")
			break
		}

		records = append(records, resp.Data...)
		totalPages = resp.TotalPages

		logger.Debug().
			Str("path", path).
			Int64("shop_id", shop.ID).
			Int("page", page).
			Int("total_pages", totalPages).
			Msg("fetched page")

		if progress != nil {
			progress(page, totalPages)
		}
		page++
	}

	return records, nil
}

func getPage[T any](
	ctx context.Context,
	c *Client,
	path string,
	shop domain.Shop,
	q Query,
	page int,
) (*pagedResponse[T], error) {
	params := url.Values{}
	params.Set("api_key", shop.APIKey)
	if q.UpdateStatus != "" {
		params.Set("updateStatus", q.UpdateStatus)
	}
	params.Set("startDateTime", strconv.FormatInt(q.Range.Start, 10))
	params.Set("endDateTime", strconv.FormatInt(q.Range.End, 10))
	params.Set("page_size", strconv.Itoa(c.pageSize))
	params.Set("page_number", strconv.Itoa(page))

	reqURL := fmt.Sprintf("%s/%s?%s", c.endpoint, path, params.Encode())
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var parsed pagedResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &parsed, nil
}
