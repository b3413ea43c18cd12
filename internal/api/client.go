package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	customErrors "github.com/abisalde/storefront-client/internal/errors"
	"github.com/abisalde/storefront-client/pkg/observer"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// UnauthorizedEvent is published whenever the backend answers 401.
type UnauthorizedEvent struct {
	Method    string
	Path      string
	RequestID string
}

type Options struct {
	BaseURL     string
	Timeout     time.Duration
	Credentials Credentials
	// Transport is the innermost round tripper, http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// Client is the commerce backend client. Every call is a single round trip;
// nothing is retried.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	unauthorized observer.Registry[UnauthorizedEvent]
}

func NewClient(opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &identityTransport{
				base:  otelhttp.NewTransport(base),
				creds: opts.Credentials,
			},
		},
	}
}

// OnUnauthorized registers fn for 401 responses. Handlers run synchronously
// before the failing call returns.
func (c *Client) OnUnauthorized(fn func(UnauthorizedEvent)) (unsubscribe func()) {
	return c.unauthorized.Subscribe(fn)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dest)
}

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, dest)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return customErrors.Wrap(err, customErrors.ErrorTypeNetwork, "%s %s failed", method, path)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return customErrors.Wrap(err, customErrors.ErrorTypeNetwork, "failed to read %s %s response", method, path)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		apiErr := newAPIError(res.StatusCode, eb, requestID)

		if res.StatusCode == http.StatusUnauthorized {
			log.Printf("🔒 %s %s returned 401 (request %s)", method, path, requestID)
			c.unauthorized.Publish(UnauthorizedEvent{Method: method, Path: path, RequestID: requestID})
		}
		return apiErr
	}

	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
