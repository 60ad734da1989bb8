package adapter_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/deedhub/land-registry/internal/adapter"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"12 Elm Street"}`))
	}))
	defer server.Close()

	client := adapter.NewHTTPClient(5 * time.Second)

	var result struct {
		Name string `json:"name"`
	}
	err := client.GetJSON(context.Background(), server.URL, map[string]string{"X-API-KEY": "secret"}, &result)

	assert.NoError(t, err)
	assert.Equal(t, "12 Elm Street", result.Name)
}

func TestGetJSONPermanentStatusError(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such token"))
	}))
	defer server.Close()

	client := adapter.NewHTTPClient(5 * time.Second)

	var result map[string]string
	err := client.GetJSON(context.Background(), server.URL, nil, &result)

	var statusErr *adapter.StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "no such token", statusErr.Body)
	// Non-429 client errors are permanent: exactly one attempt
	assert.Equal(t, 1, attempts)
}

func TestPostSendsBufferedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, `{"cid":"QmDeed"}`, string(body))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := adapter.NewHTTPClient(5 * time.Second)

	respBody, err := client.Post(context.Background(), server.URL, "application/json", nil,
		strings.NewReader(`{"cid":"QmDeed"}`))

	assert.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(respBody))
}

func TestGetResponseDoesNotRetry(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := adapter.NewHTTPClient(5 * time.Second)

	resp, err := client.GetResponse(context.Background(), server.URL, nil)
	assert.NoError(t, err)
	defer func() {
		assert.NoError(t, resp.Body.Close())
	}()

	// GetResponse hands back the raw response; status handling is the
	// caller's job and nothing is retried.
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, 1, attempts)
}

func TestGetJSONNetworkFailure(t *testing.T) {
	client := adapter.NewHTTPClient(200 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var result map[string]string
	err := client.GetJSON(ctx, "http://127.0.0.1:1/unreachable", nil, &result)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
