package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"medisupply/mobile/internal/cart"
	"medisupply/mobile/internal/config"
	"medisupply/mobile/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitSendsIdempotencyKeyAndPayload(t *testing.T) {
	var mu sync.Mutex
	var keys []string
	var got Order

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		mu.Unlock()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Receipt{ID: "ord-1", Status: "CREATED"})
	}))
	defer srv.Close()

	c := NewClient(config.OrdersConfig{Timeout: 5}, srv.URL)
	order := Order{
		CustomerID: "cust-42",
		Items:      []Item{{SKU: "AMX-500", Qty: 3}},
	}

	receipt, err := c.Submit(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "ord-1", receipt.ID)
	assert.Equal(t, "CREATED", receipt.Status)
	assert.Equal(t, order, got)

	_, err = c.Submit(context.Background(), order)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, keys, 2)
	for _, key := range keys {
		_, err := uuid.Parse(key)
		assert.NoError(t, err, "idempotency key must be a UUID")
	}
	assert.NotEqual(t, keys[0], keys[1], "every submission gets a fresh key")
}

func TestSubmitSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(config.OrdersConfig{Timeout: 5}, srv.URL)
	_, err := c.Submit(context.Background(), Order{CustomerID: "cust-42"})

	require.Error(t, err)
	var httpErr *domain.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
}

func TestSubmitNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(config.OrdersConfig{Timeout: 5}, url)
	_, err := c.Submit(context.Background(), Order{CustomerID: "cust-42"})

	require.Error(t, err)
	var netErr *domain.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestItemsFromCart(t *testing.T) {
	lines := []cart.Line{
		{ItemID: "a", SKU: "AMX-500", Quantity: 2},
		{ItemID: "b", SKU: "GZ-10", Quantity: 1},
	}

	items := ItemsFromCart(lines)

	assert.Equal(t, []Item{{SKU: "AMX-500", Qty: 2}, {SKU: "GZ-10", Qty: 1}}, items)
}

func TestItemsFromCartEmpty(t *testing.T) {
	assert.Empty(t, ItemsFromCart(nil))
}
