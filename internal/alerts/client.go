// Package alerts talks to the CRM automation service: the "generate and
// alert matches" notification hook and the stale-lead report the dashboard
// used to compute by hand.
package alerts

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
)

// Client sends notifications to the CRM automation endpoint. Delivery is
// best-effort: the endpoint gives no receipt beyond a 2xx status.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL string, opts ...func(*Client)) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func WithToken(token string) func(*Client) {
	return func(c *Client) {
		c.Token = token
	}
}

func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// GenerateAndAlertMatches notifies the automation service that new matches
// were created so it can alert the system manager. The payload is opaque to
// this client.
func (c *Client) GenerateAndAlertMatches(ctx context.Context, payload map[string]any) error {
	if c == nil {
		return errors.New("alerts client is nil")
	}
	if c.BaseURL == "" {
		return errors.New("alerts endpoint is not set")
	}

	if payload == nil {
		payload = map[string]any{}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return err
	}

	endpoint := c.BaseURL + "/integrations/generate-and-alert-matches"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Any 2xx counts as delivered.
	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("alerts non-2xx: %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
