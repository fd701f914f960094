package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bleupos/sales-service/pkg/db/models"
	"github.com/bleupos/sales-service/pkg/enums"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
)

const (
	defaultTimeout              = 5 * time.Second
	responseBodyReadLimit int64 = 1024
)

var (
	errEndpointRequired = errors.New("inventory endpoint is required")
	errInvalidTarget    = errors.New("inventory target is invalid")
)

// Deductor sends one deduction batch to a single inventory service.
type Deductor interface {
	Target() enums.InventoryTarget
	Deduct(ctx context.Context, token string, lines []models.DeductionLine) error
}

// Client posts deductions to an inventory endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	target     enums.InventoryTarget
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout, Transport: c.httpClient.Transport}
		}
	}
}

// NewClient builds a deduction client for the given target.
func NewClient(target enums.InventoryTarget, endpoint string, opts ...Option) (*Client, error) {
	if !target.IsValid() {
		return nil, errInvalidTarget
	}
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errEndpointRequired
	}

	client := &Client{
		endpoint:   trimmed,
		target:     target,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func (c *Client) Target() enums.InventoryTarget { return c.target }

type deductionRequest struct {
	CartItems []models.DeductionLine `json:"cartItems"`
}

// Deduct posts the lines with the caller's bearer token. Any non-2xx answer is a dependency error.
func (c *Client) Deduct(ctx context.Context, token string, lines []models.DeductionLine) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "inventory client not configured")
	}
	if lines == nil {
		lines = []models.DeductionLine{}
	}
	payload, err := json.Marshal(deductionRequest{CartItems: lines})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal deduction request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build deduction request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute deduction request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			fmt.Sprintf("%s deduction failed", c.target))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
	return nil
}
