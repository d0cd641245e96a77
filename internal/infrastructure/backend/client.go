// Package backend is the portal's client for the remote back-office REST API.
//
// Every response is wrapped in the envelope
//
//	{"code": "OK", "data": ...}            on success
//	{"code": "<ERROR_CODE>", "error": "…"} on failure
//
// and every private call carries the session's bearer token. A 401 always
// surfaces as domain.ErrUnauthorized so the portal can end the session.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerline/backoffice-portal/internal/api/metrics"
	"github.com/ledgerline/backoffice-portal/internal/core/domain"
	"github.com/ledgerline/backoffice-portal/internal/core/ports"
)

const (
	codeOK           = "OK"
	codeUnauthorized = "UNAUTHORIZED"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// Config captures the settings for reaching the back-office API.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.AuthAPI, ports.ClientAPI and ports.AdminAPI.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
}

var (
	_ ports.AuthAPI   = (*Client)(nil)
	_ ports.ClientAPI = (*Client)(nil)
	_ ports.AdminAPI  = (*Client)(nil)
)

// New validates cfg and returns a Client. Requests are never retried.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: invalid base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

type envelope struct {
	Code   string            `json:"code"`
	Data   json.RawMessage   `json:"data,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// call describes one request.
type call struct {
	endpoint string // metrics label
	method   string
	path     string
	token    string
	query    url.Values
	body     io.Reader
	ctype    string
}

// url joins the base URL and path. Callers escape id segments themselves, so
// path is taken as already escaped and kept verbatim in RawPath.
func (c *Client) url(path string, query url.Values) string {
	u := *c.baseURL
	raw := c.baseURL.EscapedPath() + path
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	u.Path, u.RawPath = decoded, raw
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doJSON sends in (if non-nil) as JSON and decodes the envelope's data into out.
func (c *Client) doJSON(ctx context.Context, cl call, in, out any) error {
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.endpoint, err)
		}
		cl.body = bytes.NewReader(b)
		cl.ctype = "application/json"
	}
	return c.do(ctx, cl, out)
}

// doMultipart streams fields plus an optional file part.
func (c *Client) doMultipart(ctx context.Context, cl call, fields map[string]string, fileField string, file *ports.Upload, out any) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(mw, fields, fileField, file)
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	cl.body = pr
	cl.ctype = mw.FormDataContentType()
	err := c.do(ctx, cl, out)
	_ = pr.Close()
	return err
}

func writeMultipart(mw *multipart.Writer, fields map[string]string, fileField string, file *ports.Upload) error {
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if file == nil || file.Content == nil {
		return nil
	}
	part, err := mw.CreateFormFile(fileField, file.Filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file.Content)
	return err
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.BackendRequestsTotal.WithLabelValues(cl.endpoint, outcome).Inc()
		metrics.BackendRequestDuration.WithLabelValues(cl.endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, cl.method, c.url(cl.path, cl.query), cl.body)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("%s: build request: %w", cl.endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.ctype != "" {
		req.Header.Set("Content-Type", cl.ctype)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// The browser went away: the caller has already lost interest in the
		// answer, so report cancellation rather than an outage.
		if ctxErr := ctx.Err(); ctxErr != nil {
			outcome = "cancelled"
			return fmt.Errorf("%s: %w", cl.endpoint, ctxErr)
		}
		outcome = "unavailable"
		c.log.Warn().Err(err).Str("endpoint", cl.endpoint).Msg("backend request failed")
		return fmt.Errorf("%s: %w: %v", cl.endpoint, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if apiErr := decodeError(resp); apiErr != nil {
		outcome = outcomeFor(apiErr.Kind)
		if apiErr.Status >= http.StatusInternalServerError {
			c.log.Error().
				Int("status", apiErr.Status).
				Str("code", apiErr.Code).
				Str("endpoint", cl.endpoint).
				Msg("backend server error")
		}
		return apiErr
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) && out == nil {
			return nil
		}
		outcome = "error"
		return fmt.Errorf("%s: decode response: %w", cl.endpoint, err)
	}
	if env.Code != "" && env.Code != codeOK {
		apiErr := fromEnvelope(resp.StatusCode, env)
		outcome = outcomeFor(apiErr.Kind)
		return apiErr
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			outcome = "error"
			return fmt.Errorf("%s: decode data: %w", cl.endpoint, err)
		}
	}
	return nil
}

// decodeError returns nil for 2xx responses.
func decodeError(resp *http.Response) *domain.APIError {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var env envelope
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(body, &env)
	return fromEnvelope(resp.StatusCode, env)
}

func fromEnvelope(status int, env envelope) *domain.APIError {
	return &domain.APIError{
		Status:  status,
		Code:    env.Code,
		Message: env.Error,
		Fields:  env.Fields,
		Kind:    classify(status, env.Code),
	}
}

// classify maps a failed response onto a domain sentinel.
func classify(status int, code string) error {
	if status == http.StatusUnauthorized || strings.EqualFold(code, codeUnauthorized) {
		return domain.ErrUnauthorized
	}
	switch {
	case status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity, status == http.StatusConflict:
		return domain.ErrValidation
	case status >= http.StatusInternalServerError:
		return domain.ErrBackendUnavailable
	}
	// 2xx with a non-OK code: the backend rejected the request on business grounds.
	return domain.ErrValidation
}

func outcomeFor(kind error) string {
	switch {
	case errors.Is(kind, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(kind, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(kind, domain.ErrNotFound):
		return "not_found"
	case errors.Is(kind, domain.ErrValidation):
		return "invalid"
	case errors.Is(kind, domain.ErrBackendUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// Ping checks that the backend answers at all; any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/health", nil), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func listQuery(q ports.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", fmt.Sprint(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", fmt.Sprint(q.Limit))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}
