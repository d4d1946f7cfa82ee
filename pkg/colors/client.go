package colors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mydressline-hue/stockpile/pkg/httputil"
)

// suggestTimeout bounds a single suggestion call.
const suggestTimeout = 30 * time.Second

// Suggestion is one remote answer for a suspected abbreviation code.
type Suggestion struct {
	BadColor   string  `json:"badColor"`
	GoodColor  string  `json:"goodColor"`
	Confidence float64 `json:"confidence"`
}

// Suggester proposes full color names for abbreviation codes.
type Suggester interface {
	Suggest(ctx context.Context, codes []string) ([]Suggestion, error)
}

// Client calls the remote color-correction service over HTTP.
type Client struct {
	http   *http.Client
	url    string
	logger *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client's logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTimeout overrides the default per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient creates a suggestion client for the given endpoint URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{Timeout: suggestTimeout},
		url:    url,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type suggestRequest struct {
	Codes []string `json:"codes"`
}

type suggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggest asks the remote service for corrections. Transient failures are
// retried; a persistent failure returns an error that callers treat as
// "zero new mappings", never as fatal.
func (c *Client) Suggest(ctx context.Context, codes []string) ([]Suggestion, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	var resp suggestResponse
	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.post(ctx, suggestRequest{Codes: codes}, &resp)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("color suggestions received",
		"codes", len(codes), "suggestions", len(resp.Suggestions))
	return resp.Suggestions, nil
}

func (c *Client) post(ctx context.Context, req suggestRequest, out *suggestResponse) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httputil.Do(c.http, httpReq)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("color service: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("color service: status %d", resp.StatusCode)}
	default:
		return fmt.Errorf("color service: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed color service response: %w", err)
	}
	return nil
}

var _ Suggester = (*Client)(nil)
