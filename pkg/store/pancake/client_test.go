package pancake

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
)

var testShop = domain.Shop{Code: "shop1", ID: 20002121, Name: "Shop 1", APIKey: "key"}

func newTestClient(endpoint string) *Client {
	return NewClient(Config{Endpoint: endpoint, PageSize: 2, RetryMax: 0})
}

func TestClient_FetchOrders_AllPages(t *testing.T) {
	var requests []int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "1", r.URL.Query().Get("updateStatus"))

		page, err := strconv.Atoi(r.URL.Query().Get("page_number"))
		require.NoError(t, err)
		requests = append(requests, page)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"total_pages": 3,
			"data": []map[string]any{
				{"id": page*10 + 1},
				{"id": page*10 + 2},
			},
		})
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)

	var pages []string
	orders, err := c.FetchOrders(context.Background(), testShop,
		Query{UpdateStatus: "1", Range: domain.TimeRange{Start: 100, End: 200}},
		func(page, total int) {
			pages = append(pages, fmt.Sprintf("%d/%d", page, total))
		})
	require.NoError(t, err)

	// Three requests with incrementing page numbers, server order kept.
	assert.Equal(t, []int{1, 2, 3}, requests)
	require.Len(t, orders, 6)
	assert.Equal(t, int64(11), orders[0].ID)
	assert.Equal(t, int64(32), orders[5].ID)
	assert.Equal(t, []string{"1/3", "2/3", "3/3"}, pages)
}

func TestClient_FetchOrders_FirstPageFails(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusBadRequest)
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	orders, err := c.FetchOrders(context.Background(), testShop, Query{}, nil)

	assert.ErrorIs(t, err, ErrFetch)
	assert.Nil(t, orders)
	// 4xx is not retried and pagination never reaches a second page.
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchOrders_UnsuccessfulPageStops(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page_number")
		if page == "2" {
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"total_pages": 5,
			"data":        []map[string]any{{"id": 1}},
		})
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	orders, err := c.FetchOrders(context.Background(), testShop, Query{}, nil)

	// Defensive stop, not an error: the first page's records survive.
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestClient_FetchVariations(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/products/variations")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"total_pages": 1,
			"data": []map[string]any{
				{"display_id": "MM1", "product": map[string]any{"display_id": "SP1"}},
			},
		})
	}))
	defer ts.Close()

	c := newTestClient(ts.URL)
	variations, err := c.FetchVariations(context.Background(), testShop, Query{}, nil)
	require.NoError(t, err)
	require.Len(t, variations, 1)
	assert.Equal(t, "MM1", variations[0].DisplayID)
	assert.Equal(t, "SP1", variations[0].Product.DisplayID)
}
