package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embedServer(t *testing.T, handler func(req embedRequest) interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(handler(req))
	}))
}

func TestEmbedBatchedResponse(t *testing.T) {
	srv := embedServer(t, func(req embedRequest) interface{} {
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "hello", req.Input)
		return map[string]interface{}{
			"embeddings": [][]float64{{0.1, 0.2, 0.3}},
		}
	})
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", 3)
	vec, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestEmbedLegacyResponseKey(t *testing.T) {
	srv := embedServer(t, func(embedRequest) interface{} {
		return map[string]interface{}{
			"embedding": []float64{0.4, 0.5},
		}
	})
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "custom-model", 2)
	vec, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.4, 0.5}, vec)
}

func TestEmbedEmptyResponse(t *testing.T) {
	srv := embedServer(t, func(embedRequest) interface{} {
		return map[string]interface{}{}
	})
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", 0)
	_, err := client.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestEmbedDimensionMismatch(t *testing.T) {
	srv := embedServer(t, func(embedRequest) interface{} {
		return map[string]interface{}{
			"embeddings": [][]float64{{0.1, 0.2}},
		}
	})
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", 768)
	_, err := client.Embed(context.Background(), "hello")
	assert.ErrorContains(t, err, "dimension")
}

func TestEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", 0)
	_, err := client.Embed(context.Background(), "hello")
	assert.ErrorContains(t, err, "status 500")
}
