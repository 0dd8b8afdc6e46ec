// Package backend talks to the external portfolio API over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	apperrors "github.com/folioworks/folio/internal/errors"
	obserrors "github.com/folioworks/folio/internal/observability/errors"
	"github.com/folioworks/folio/internal/observability/metrics"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultErrorExpr    = "message"
	maxErrorBodyBytes   = 64 << 10
	maxSuccessBodyBytes = 4 << 20

	msgUnreachable = "Unable to reach the server"
)

// Options configures a Client.
type Options struct {
	BaseURL          string           // Required: API root, e.g. https://host/api
	HTTPClient       *http.Client     // Optional: base client; its transport is reused
	Timeout          time.Duration    // Optional: per-request bound; defaults to 15s
	ErrorMessageExpr string           // Optional: JMESPath for error messages; defaults to "message"
	Logger           *slog.Logger     // Optional: structured logger
	Metrics          metrics.Recorder // Optional: metrics recorder
}

// Client is a JSON HTTP client for the portfolio API. Every request carries
// a JSON content type and, when a Credential Token is given, a bearer header.
type Client struct {
	baseURL   string
	base      http.RoundTripper
	timeout   time.Duration
	errorExpr string
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// New constructs a Client.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	expr := strings.TrimSpace(opts.ErrorMessageExpr)
	if expr == "" {
		expr = defaultErrorExpr
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid error message expression %q: %w", expr, err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		base = opts.HTTPClient.Transport
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   baseURL,
		base:      base,
		timeout:   timeout,
		errorExpr: expr,
		logger:    logger.With("component", "backend_client"),
		metrics:   metrics.OrNop(opts.Metrics),
	}, nil
}

// request describes one API call.
type request struct {
	op     string
	method string
	path   string
	bearer string
	body   any
}

// do sends req and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.op, err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", req.op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient(req.bearer).Do(httpReq)
	if err != nil {
		c.metrics.RecordBackendRequest(req.op, 0, time.Since(start))
		c.logger.WarnContext(ctx, "backend request failed",
			"op", req.op,
			"error", err,
			"error_class", obserrors.Classify(err),
		)
		return apperrors.Unavailable(err, msgUnreachable)
	}
	defer resp.Body.Close()
	c.metrics.RecordBackendRequest(req.op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(ctx, req.op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxSuccessBodyBytes))
		return nil
	}
	err = json.NewDecoder(io.LimitReader(resp.Body, maxSuccessBodyBytes)).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "Unexpected response from the server")
	}
	return nil
}

// httpClient returns a client that attaches bearer when it is non-empty.
func (c *Client) httpClient(bearer string) *http.Client {
	if bearer == "" {
		return &http.Client{Transport: c.base}
	}
	return &http.Client{Transport: &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearer, TokenType: "Bearer"}),
		Base:   c.base,
	}}
}

// statusError converts a non-2xx response into an upstream AppError carrying
// the body's message, or "Error <status>" when there is none.
func (c *Client) statusError(ctx context.Context, op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	msg := c.extractMessage(raw)
	if msg == "" {
		msg = "Error " + strconv.Itoa(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.metrics.RecordBackendUnauthorized(op)
		c.logger.WarnContext(ctx, "session expired or invalid", "op", op)
	}

	return apperrors.Upstream(resp.StatusCode, msg)
}

func (c *Client) extractMessage(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return ""
	}
	v, err := jmespath.Search(c.errorExpr, data)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
