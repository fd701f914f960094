package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bleupos/sales-service/pkg/enums"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
)

const defaultMePath = "/auth/users/me"

const responseBodyReadLimit int64 = 1024

var errBaseURLRequired = errors.New("identity base url is required")

// Principal is the acting user as reported by the identity service.
type Principal struct {
	Username string     `json:"username"`
	Role     enums.Role `json:"userRole"`
}

// Verifier resolves a bearer token into a principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// Client calls the identity service's current-user endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	mePath     string
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

// WithMePath overrides the current-user path.
func WithMePath(path string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(path)
		if trimmed != "" {
			c.mePath = "/" + strings.TrimLeft(trimmed, "/")
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds an identity client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		mePath:     defaultMePath,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Verify asks the identity service who owns token.
// Rejections map to UNAUTHORIZED; transport failures and 5xx map to DEPENDENCY_ERROR.
func (c *Client) Verify(ctx context.Context, token string) (*Principal, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "identity client not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.mePath, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build identity request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity service unavailable")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "identity service unavailable")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token").
			WithDetails(map[string]any{"upstream_status": resp.StatusCode})
	}

	var principal Principal
	if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode identity response")
	}
	principal.Username = strings.TrimSpace(principal.Username)
	principal.Role = enums.NormalizeRole(principal.Role.String())
	if principal.Username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity response missing username")
	}
	return &principal, nil
}
