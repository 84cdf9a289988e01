package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrDispatch marks a failed CI submission. The failure is terminal for
// the current operation; no retry, no partial state is kept.
var ErrDispatch = errors.New("dispatch failed")

// Client submits workflow-dispatch requests to the CI endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient creates a dispatch client. token is the bearer credential
// supplied out-of-band; it is never embedded in the payload.
func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: http.DefaultClient,
	}
}

// Dispatch POSTs the request to the workflow-dispatch endpoint. The CI
// API acknowledges with 204 No Content; any non-2xx status is reported
// as ErrDispatch with the response body attached.
func (c *Client) Dispatch(ctx context.Context, r Request) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding dispatch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %v", ErrDispatch, c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrDispatch, resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
