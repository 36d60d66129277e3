// Package client talks to a running assessor server over its JSON API.
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

	"maturity.app/assessor/internal/http/dto"
	"maturity.app/assessor/internal/report"
	"maturity.app/assessor/internal/trend"
)

var ErrNotFound = errors.New("not found")

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type Health struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Policy  string `json:"policy"`
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Session(ctx context.Context) (*dto.SessionResponse, error) {
	var out dto.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/session", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveSession(ctx context.Context) (*dto.SaveSessionResponse, error) {
	var out dto.SaveSessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/session/save", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Trend(ctx context.Context) (*trend.Series, error) {
	var out trend.Series
	if err := c.do(ctx, http.MethodGet, "/api/v1/trend", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report fetches the structured report of the latest snapshot.
func (c *Client) Report(ctx context.Context, details bool) (*report.Report, error) {
	var out report.Report
	if err := c.do(ctx, http.MethodGet, "/api/v1/report?"+reportQuery(dto.ReportFormatJSON, details), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenderedReport fetches the report as Markdown or HTML text.
func (c *Client) RenderedReport(ctx context.Context, format string, details bool) (string, error) {
	var buf bytes.Buffer
	if err := c.do(ctx, http.MethodGet, "/api/v1/report?"+reportQuery(format, details), nil, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ClearSnapshots deletes the whole snapshot history.
func (c *Client) ClearSnapshots(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/snapshots", nil, nil)
}

func reportQuery(format string, details bool) string {
	q := url.Values{}
	q.Set("format", format)
	if details {
		q.Set("details", "true")
	}
	return q.Encode()
}

// do sends body as JSON and decodes the response into out. A *bytes.Buffer
// out receives the raw body instead.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *bytes.Buffer:
		dst.Write(data)
		return nil
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}
}
