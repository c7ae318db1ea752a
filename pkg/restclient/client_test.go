package restclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, time.Second, zap.NewNop())
}

func TestGetUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/ping", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("userId"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"value": 7},
		})
	})

	var out struct {
		Value int `json:"value"`
	}
	query := make(map[string][]string)
	query["userId"] = []string{"42"}
	err := client.Get(context.Background(), "/ping", query, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Value)
}

func TestSuccessFalseIsBusinessError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "insufficient credits",
			"code":    402,
		})
	})

	err := client.Post(context.Background(), "/credits/check", map[string]any{}, nil)
	require.Error(t, err)

	business, ok := AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, 402, business.Code)
	assert.Equal(t, "insufficient credits", business.Message)
	assert.False(t, IsTransport(err))
}

func TestNon2xxWithoutEnvelopeIsBusinessError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	err := client.Get(context.Background(), "/down", nil, nil)
	require.Error(t, err)

	business, ok := AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, business.Code)
}

func TestTimeoutIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, 20*time.Millisecond, zap.NewNop())
	err := client.Get(context.Background(), "/slow", nil, nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, "request timeout", err.Error())
}

func TestConnectionRefusedIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, time.Second, zap.NewNop())
	err := client.Get(context.Background(), "/gone", nil, nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestDeleteSendsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			IDs []int64 `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int64{1, 2}, body.IDs)

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	err := client.Delete(context.Background(), "/history/batch", map[string]any{"ids": []int64{1, 2}}, nil)
	require.NoError(t, err)
}
