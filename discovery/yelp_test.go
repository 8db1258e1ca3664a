package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"surplus-food-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(url string) *Client {
	return New(config.DiscoveryConfig{
		BaseURL:       url,
		APIKey:        "key-123",
		Timeout:       time.Second,
		DefaultRadius: 5000,
		Limit:         10,
	})
}

func TestSearchForwardsParamsAndRelaysBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/businesses/search", r.URL.Path)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "restaurants", q.Get("term"))
		assert.Equal(t, "40.7", q.Get("latitude"))
		assert.Equal(t, "-74", q.Get("longitude"))
		assert.Equal(t, "5000", q.Get("radius"))
		assert.Equal(t, "restaurants,food", q.Get("categories"))
		assert.Equal(t, "10", q.Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"businesses":[{"name":"Joe's"}],"total":1}`))
	}))
	defer srv.Close()

	body, err := newClient(srv.URL).Search(context.Background(), Query{Latitude: "40.7", Longitude: "-74"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"businesses":[{"name":"Joe's"}],"total":1}`, string(body))
}

func TestSearchUsesGivenTermAndRadius(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tacos", r.URL.Query().Get("term"))
		assert.Equal(t, "1200", r.URL.Query().Get("radius"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Search(context.Background(), Query{Term: "tacos", Radius: 1200})
	assert.NoError(t, err)
}

func TestSearchReportsUpstreamFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("term") {
		case "broken":
			_, _ = w.Write([]byte(`<html>`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"TOKEN_INVALID"}}`))
		}
	}))

	c := newClient(srv.URL)
	_, err := c.Search(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "401")

	_, err = c.Search(context.Background(), Query{Term: "broken"})
	assert.ErrorIs(t, err, ErrUpstream)

	srv.Close()
	_, err = c.Search(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrUpstream)
}
