// Package authority talks to the remote API that issues, validates and
// invalidates operator tokens and holds the customer and user collections.
package authority

import (
	"bytes"
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

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/api/metrics"
	"github.com/99minutos/admin-console/internal/core/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// Config captures the settings for reaching the remote API.
type Config struct {
	BaseURL string
	Prefix  string
	Timeout time.Duration
	// HTTPClient overrides the transport; tests point it at httptest servers.
	HTTPClient *http.Client
}

// Client issues JSON requests to the remote API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.Trim(cfg.Prefix, "/"),
		http:    hc,
		log:     log,
	}
}

// APIError is a non-2xx reply from the remote API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authority: %s (status %d)", e.Message, e.Status)
}

// Unwrap maps the status onto the domain taxonomy so callers can use errors.Is.
// Both 401 and 403 count as an authentication rejection.
func (e *APIError) Unwrap() []error {
	switch e.Status {
	case http.StatusUnauthorized:
		return []error{domain.ErrAuthRejected}
	case http.StatusForbidden:
		return []error{domain.ErrAuthRejected, domain.ErrForbidden}
	case http.StatusNotFound:
		return []error{domain.ErrNotFound}
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return []error{domain.ErrValidation}
	default:
		return nil
	}
}

// IsAuthRejection reports whether err is a 401/403 from the authority.
func IsAuthRejection(err error) bool {
	return errors.Is(err, domain.ErrAuthRejected)
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// request describes one call. Token is sent as a bearer credential when set.
type request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Token  string
}

// do sends req and decodes a 2xx JSON reply into out (when non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", req.Method, req.Path, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.AuthorityRequestDuration.WithLabelValues(req.Method, "error").Observe(time.Since(start).Seconds())
		c.log.Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("authority request failed")
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUnavailable, req.Method, req.Path, err)
	}
	defer resp.Body.Close()
	metrics.AuthorityRequestDuration.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s %s: empty body", domain.ErrMalformedResponse, req.Method, req.Path)
		}
		return fmt.Errorf("%w: %s %s: %v", domain.ErrMalformedResponse, req.Method, req.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(raw) > 0 && json.Unmarshal(raw, &eb) == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
		apiErr.Fields = eb.Errors
	}
	if apiErr.Message == "" {
		apiErr.Message = "HTTP " + strconv.Itoa(resp.StatusCode)
	}
	return apiErr
}

// envelope is the {success, data, message} wrapper most endpoints reply with.
type envelope[T any] struct {
	Success bool                `json:"success"`
	Data    *T                  `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// unwrap returns the payload or an error carrying fallback when the envelope
// reports failure or carries no data.
func (e envelope[T]) unwrap(fallback string) (*T, error) {
	if !e.Success || e.Data == nil {
		msg := e.Message
		if msg == "" {
			msg = fallback
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrMalformedResponse, msg)
	}
	return e.Data, nil
}

// check is unwrap for endpoints that carry no payload.
func (e envelope[T]) check(fallback string) error {
	if !e.Success {
		msg := e.Message
		if msg == "" {
			msg = fallback
		}
		return fmt.Errorf("%w: %s", domain.ErrMalformedResponse, msg)
	}
	return nil
}

// PublicMessage is the authority's own wording of the failure.
func (e *APIError) PublicMessage() string {
	return e.Message
}
