package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mydressline-hue/stockpile/pkg/errors"
	"github.com/mydressline-hue/stockpile/pkg/httputil"
)

// classifyTimeout bounds a single classification call. On timeout or
// transport failure the classifier fails closed rather than blocking the
// pipeline or guessing a layout.
const classifyTimeout = 30 * time.Second

// Service classifies a file sample into a layout decision.
type Service interface {
	Classify(ctx context.Context, req Request) (*Result, error)
}

// Client calls the remote classification service over HTTP.
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

// NewClient creates a classification client for the given endpoint URL.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{Timeout: classifyTimeout},
		url:    url,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify sends the sample to the remote service and validates the answer.
// Transient failures (network errors, 5xx responses) are retried with
// backoff; contract violations are returned immediately. Either way a
// failure means the file stays unclassified - the caller must treat it as
// unparsed.
func (c *Client) Classify(ctx context.Context, req Request) (*Result, error) {
	var result Result

	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.post(ctx, req, &result)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeClassifyFailed, err,
			"classification request for %s", req.Filename)
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	c.logger.Debug("classified file",
		"filename", req.Filename,
		"format", result.Format,
		"confidence", result.Confidence)

	return &result, nil
}

func (c *Client) post(ctx context.Context, req Request, out *Result) error {
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
		return &httputil.RetryableError{Err: fmt.Errorf("classification service: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("classification service: status %d", resp.StatusCode)}
	default:
		return fmt.Errorf("classification service: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed classification response: %w", err)
	}
	return nil
}

// Ensure Client implements Service.
var _ Service = (*Client)(nil)
