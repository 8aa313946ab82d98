package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newKeyStore(t *testing.T, keys *Keys) *KeyStore {
	t.Helper()
	store := NewKeyStore(filepath.Join(t.TempDir(), "gateway_keys.json"))
	if keys != nil {
		require.NoError(t, store.Save(*keys))
	}
	return store
}

func TestKeyStoreLoadBeforeSave(t *testing.T) {
	store := newKeyStore(t, nil)

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoKeys)
}

func TestKeyStoreRoundTrip(t *testing.T) {
	store := newKeyStore(t, &Keys{KeyID: "rzp_test_abc", KeySecret: "secret", Mode: "test"})

	keys, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "rzp_test_abc", keys.KeyID)
	require.Equal(t, "test", keys.Mode)
}

func TestCreateOrderWithoutKeys(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", newKeyStore(t, nil))

	_, err := client.CreateOrder(context.Background(), 100)
	require.ErrorIs(t, err, ErrNoKeys)
}

func TestCreateOrderScalesToPaise(t *testing.T) {
	var gotAuthUser string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)
		gotAuthUser, _, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       "order_123",
			"amount":   gotBody["amount"],
			"currency": "INR",
			"status":   "created",
		})
	}))
	defer server.Close()

	store := newKeyStore(t, &Keys{KeyID: "rzp_test_abc", KeySecret: "secret", Mode: "test"})
	client := NewClient(server.URL, store)

	order, err := client.CreateOrder(context.Background(), 350.50)
	require.NoError(t, err)
	require.Equal(t, "order_123", order.OrderID)
	require.Equal(t, 350.50, order.Amount)
	require.Equal(t, "INR", order.Currency)
	require.Equal(t, "created", order.Status)
	require.Equal(t, "rzp_test_abc", order.KeyID)
	require.NotEmpty(t, order.Receipt)

	require.Equal(t, "rzp_test_abc", gotAuthUser)
	require.Equal(t, float64(35050), gotBody["amount"])
	require.Equal(t, order.Receipt, gotBody["receipt"])
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := newKeyStore(t, &Keys{KeyID: "rzp_test_abc", KeySecret: "bad", Mode: "test"})
	client := NewClient(server.URL, store)

	_, err := client.CreateOrder(context.Background(), 100)
	require.Error(t, err)
}

func TestPaymentStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/payments/pay_42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "pay_42", "status": "captured"})
	}))
	defer server.Close()

	store := newKeyStore(t, &Keys{KeyID: "rzp_test_abc", KeySecret: "secret", Mode: "test"})
	client := NewClient(server.URL, store)

	status, err := client.PaymentStatus(context.Background(), "pay_42")
	require.NoError(t, err)
	require.Equal(t, "captured", status)
}
