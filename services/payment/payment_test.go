package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("order_1|pay_1"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, ComputeSignature("secret", "order_1", "pay_1"))
	assert.True(t, VerifySignature("secret", "order_1", "pay_1", expected))

	assert.False(t, VerifySignature("secret", "order_1", "pay_2", expected))
	assert.False(t, VerifySignature("other", "order_1", "pay_1", expected))
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", ""))
}

func TestCreateOrder(t *testing.T) {
	var got OrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_key", user)
		assert.Equal(t, "rzp_secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Order{
			ID:       "order_abc",
			Entity:   "order",
			Amount:   got.Amount,
			Currency: got.Currency,
			Receipt:  got.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := NewRazorpayClient(server.URL+"/", "rzp_key", "rzp_secret")
	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Amount:   49900,
		Currency: "INR",
		Receipt:  "receipt_1",
	})
	require.NoError(t, err)

	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(49900), order.Amount)
	assert.Equal(t, int64(49900), got.Amount)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, "receipt_1", got.Receipt)
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`))
	}))
	defer server.Close()

	client := NewRazorpayClient(server.URL, "rzp_key", "rzp_secret")
	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "The amount must be atleast INR 1.00")
}

func TestCreateOrderNotConfigured(t *testing.T) {
	client := NewRazorpayClient("http://127.0.0.1:1", "", "")
	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}
