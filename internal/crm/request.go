package crm

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

// APIError is a non-2xx response from the CRM backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crm api: status %d: %s", e.StatusCode, e.Message)
}

// IsRateLimit reports whether the error looks like a rate-limit rejection.
// The backend is not consistent here: some deployments answer with a proper
// 429, others with a 400 carrying a "Rate limit" message.
func (e *APIError) IsRateLimit() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}

	return strings.Contains(e.Message, "Rate limit") || strings.Contains(e.Message, "429")
}

// listEntities makes a GET request and decodes the returned array into the
// typed slice pointed to by target.
func (c *Client) listEntities(path string, q url.Values, target any) error {
	var items []any
	if err := c.getJSON(c.APIURL+path, q, &items); err != nil {
		return fmt.Errorf("list %s: %w", strings.TrimPrefix(path, "/"), err)
	}

	c.logger.Debug("got list response", zap.String("path", path), zap.Int("items", len(items)))

	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	if err := decoder.Decode(items); err != nil {
		return fmt.Errorf("decode %s: %w", strings.TrimPrefix(path, "/"), err)
	}

	return nil
}

func (c *Client) getJSON(u string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	return c.do(req, target)
}

func (c *Client) postJSON(u string, body, target any) error {
	return c.sendJSON(http.MethodPost, u, body, target)
}

func (c *Client) putJSON(u string, body, target any) error {
	return c.sendJSON(http.MethodPut, u, body, target)
}

func (c *Client) delete(u string) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)

	return c.do(req, nil)
}

func (c *Client) sendJSON(method, u string, body, target any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(c.ctx, method, u, &buf)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	return c.do(req, target)
}

func (c *Client) do(req *http.Request, target any) error {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode/100 != 2 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    messageFromBody(data, resp.Status),
		}
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

// messageFromBody pulls the backend's error detail out of the response body,
// falling back to the raw body or the HTTP status line.
func messageFromBody(data []byte, status string) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	if body := strings.TrimSpace(string(data)); body != "" {
		const maxLen = 512
		if len(body) > maxLen {
			body = body[:maxLen]
		}
		return body
	}

	return status
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
