package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// apiClient is a minimal client for the token store HTTP API.
type apiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// apiResponse mirrors the server response envelope.
type apiResponse struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Details   any             `json:"details,omitempty"`
}

// apiError is a non-2xx response from the server.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

func newAPIClient(server, token string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: "http://" + server,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do sends a request and decodes the response envelope. A non-2xx
// status returns an apiError carrying the server's error code.
func (c *apiClient) Do(ctx context.Context, method, path string, body any) (*apiResponse, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &apiError{Status: resp.StatusCode}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &apiError{
			Status:  resp.StatusCode,
			Code:    envelope.Code,
			Message: envelope.Message,
		}
	}
	return &envelope, nil
}

func (c *apiClient) Get(ctx context.Context, path string) (*apiResponse, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *apiClient) Post(ctx context.Context, path string, body any) (*apiResponse, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *apiClient) Delete(ctx context.Context, path string) (*apiResponse, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}
