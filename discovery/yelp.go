// Package discovery proxies restaurant discovery searches to the Yelp Fusion API.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"surplus-food-api/config"
)

// ErrUpstream reports any failure talking to the discovery provider
var ErrUpstream = errors.New("discovery upstream failed")

const (
	defaultTerm       = "restaurants"
	defaultCategories = "restaurants,food"
	maxErrorBody      = 512
)

// Query is a nearby-business search. Empty fields fall back to client defaults.
type Query struct {
	Term      string
	Latitude  string
	Longitude string
	Radius    int // meters
}

type Client struct {
	baseURL       string
	apiKey        string
	defaultRadius int
	limit         int
	httpClient    *http.Client
}

func New(cfg config.DiscoveryConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		defaultRadius: cfg.DefaultRadius,
		limit:         cfg.Limit,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// Search runs a business search and returns the provider's JSON body untouched
func (c *Client) Search(ctx context.Context, q Query) (json.RawMessage, error) {
	params := url.Values{}
	term := strings.TrimSpace(q.Term)
	if term == "" {
		term = defaultTerm
	}
	radius := q.Radius
	if radius <= 0 {
		radius = c.defaultRadius
	}
	params.Set("term", term)
	params.Set("latitude", q.Latitude)
	params.Set("longitude", q.Longitude)
	params.Set("radius", strconv.Itoa(radius))
	params.Set("categories", defaultCategories)
	params.Set("limit", strconv.Itoa(c.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v3/businesses/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, body)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrUpstream)
	}
	return json.RawMessage(body), nil
}
