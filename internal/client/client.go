package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/pageza/recipe-catalog/internal/model"
)

// ErrNotFound is matched by StatusError for 404 responses.
var ErrNotFound = errors.New("recipe not found")

// StatusError is returned for any non-2xx response from the recipe store.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// Is makes errors.Is(err, ErrNotFound) work for 404s.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// ListQuery carries the optional server-side filters of GET /recipes.
type ListQuery struct {
	Category   string `url:"category,omitempty"`
	Title      string `url:"title,omitempty"`
	Ingredient string `url:"ingredient,omitempty"`
	Favorite   *bool  `url:"favorite,omitempty"`
	Sort       string `url:"sort,omitempty"`
	Page       int    `url:"page,omitempty"`
	Limit      int    `url:"limit,omitempty"`
}

// ListResult is the normalized list response. For a bare array response
// Total is the array length and Page/Pages are 1.
type ListResult struct {
	Recipes []model.Recipe `json:"recipes"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Pages   int            `json:"pages"`
}

// Store is the recipe store as seen by the catalog.
type Store interface {
	List(ctx context.Context, q ListQuery) (*ListResult, error)
	Get(ctx context.Context, id string) (*model.Recipe, error)
	Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error)
	Update(ctx context.Context, id string, in model.RecipeInput) error
	Delete(ctx context.Context, id string) error
	ToggleFavorite(ctx context.Context, id string) error
}

// HTTPClient talks to the recipe store's REST API. Requests are never retried.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// New creates a client for baseURL, e.g. "http://localhost:3000/recipes".
func New(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithHTTPClient lets callers supply their own transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), client: hc}
}

// List fetches the recipe list.
func (c *HTTPClient) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list query: %w", err)
	}

	endpoint := c.baseURL
	if encoded := values.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeList(body)
}

func decodeList(body []byte) (*ListResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty list response")
	}

	if trimmed[0] == '[' {
		var recipes []model.Recipe
		if err := json.Unmarshal(trimmed, &recipes); err != nil {
			return nil, fmt.Errorf("failed to decode recipe list: %w", err)
		}
		return &ListResult{Recipes: recipes, Total: len(recipes), Page: 1, Pages: 1}, nil
	}

	var envelope ListResult
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode recipe list envelope: %w", err)
	}
	if envelope.Recipes == nil {
		envelope.Recipes = []model.Recipe{}
	}
	if envelope.Total == 0 {
		envelope.Total = len(envelope.Recipes)
	}
	if envelope.Page == 0 {
		envelope.Page = 1
	}
	if envelope.Pages == 0 {
		envelope.Pages = 1
	}
	return &envelope, nil
}

// ListAll walks every page of a paginated store and returns the full list.
func (c *HTTPClient) ListAll(ctx context.Context) ([]model.Recipe, error) {
	return ListAll(ctx, c)
}

// ListAll collects the complete list from s, following the envelope's page
// count when the store paginates.
func ListAll(ctx context.Context, s Store) ([]model.Recipe, error) {
	first, err := s.List(ctx, ListQuery{})
	if err != nil {
		return nil, err
	}
	all := append([]model.Recipe{}, first.Recipes...)
	for page := 2; page <= first.Pages; page++ {
		next, err := s.List(ctx, ListQuery{Page: page})
		if err != nil {
			return nil, err
		}
		all = append(all, next.Recipes...)
	}
	return all, nil
}

// Get fetches one recipe.
func (c *HTTPClient) Get(ctx context.Context, id string) (*model.Recipe, error) {
	body, err := c.do(ctx, http.MethodGet, c.recipeURL(id), nil)
	if err != nil {
		return nil, err
	}
	var r model.Recipe
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("failed to decode recipe: %w", err)
	}
	return &r, nil
}

// Create posts a new recipe and returns the record echoed back.
func (c *HTTPClient) Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, c.baseURL, payload)
	if err != nil {
		return nil, err
	}
	var r model.Recipe
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, fmt.Errorf("failed to decode created recipe: %w", err)
		}
	}
	return &r, nil
}

// Update replaces the recipe id.
func (c *HTTPClient) Update(ctx context.Context, id string, in model.RecipeInput) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}
	_, err = c.do(ctx, http.MethodPut, c.recipeURL(id), payload)
	return err
}

// Delete removes the recipe id.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.recipeURL(id), nil)
	return err
}

// ToggleFavorite flips the favorite flag server side.
func (c *HTTPClient) ToggleFavorite(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPut, c.recipeURL(id)+"/favorite", nil)
	return err
}

func (c *HTTPClient) recipeURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method: method,
			URL:    endpoint,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
