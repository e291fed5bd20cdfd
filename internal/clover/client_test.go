package clover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, baseURL string, pageSize int) (*Client, *int) {
	t.Helper()
	client := NewClient(Options{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		MerchantID: "M123",
		PageSize:   pageSize,
		PageDelay:  300 * time.Millisecond,
	}, zap.NewNop())

	delays := 0
	client.sleep = func(ctx context.Context, d time.Duration) error {
		delays++
		return nil
	}
	return client, &delays
}

func itemsPage(offset, count int) []byte {
	elements := make([]map[string]interface{}, count)
	for i := 0; i < count; i++ {
		elements[i] = map[string]interface{}{
			"id":    fmt.Sprintf("ITEM-%d", offset+i),
			"name":  fmt.Sprintf("Item %d", offset+i),
			"price": 1999,
		}
	}
	body, _ := json.Marshal(map[string]interface{}{"elements": elements})
	return body
}

func TestListItems_TwoPages(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)

		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		switch offset {
		case 0:
			w.Write(itemsPage(0, 1000))
		case 1000:
			w.Write(itemsPage(1000, 500))
		default:
			t.Fatalf("unexpected offset %d", offset)
		}
	}))
	defer server.Close()

	client, delays := newTestClient(t, server.URL, 1000)

	items, err := client.ListItems(context.Background())
	require.NoError(t, err)

	// 1500 records across two pages, in upstream order, one inter-page delay.
	require.Len(t, items, 1500)
	assert.Equal(t, "ITEM-0", items[0].ID)
	assert.Equal(t, "ITEM-999", items[999].ID)
	assert.Equal(t, "ITEM-1499", items[1499].ID)
	assert.Equal(t, 2, len(requests))
	assert.Equal(t, 1, *delays)
}

func TestListItems_SinglePartialPage_NoDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(itemsPage(0, 3))
	}))
	defer server.Close()

	client, delays := newTestClient(t, server.URL, 1000)

	items, err := client.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 0, *delays)
}

func TestListItems_EmptyFirstPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements": []}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 1000)

	items, err := client.ListItems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListItems_FirstPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 1000)

	_, err := client.ListItems(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestListItems_LaterPageFailure_ReturnsPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if offset == 0 {
			w.Write(itemsPage(0, 1000))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 1000)

	items, err := client.ListItems(context.Background())
	require.NoError(t, err)
	// First page survived; the failed second page aborts pagination but
	// does not discard what was already fetched.
	assert.Len(t, items, 1000)
}

func TestListCategoriesAndStocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v3/merchants/M123/categories":
			w.Write([]byte(`{"elements":[{"id":"C1","name":"Wine"},{"id":"C2","name":"Spirits"}]}`))
		case r.URL.Path == "/v3/merchants/M123/item_stocks":
			w.Write([]byte(`{"elements":[{"item":{"id":"ITEM-1"},"quantity":12}]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL, 1000)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Wine", categories[0].Name)

	stocks, err := client.ListItemStocks(context.Background())
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "ITEM-1", stocks[0].Item.ID)
	assert.Equal(t, float64(12), stocks[0].Quantity)
}
