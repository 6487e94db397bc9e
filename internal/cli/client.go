package cli

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

var ErrServer = errors.New("server returned an error")

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// Client - JSON client for the game server's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (that *Client) Do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, that.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp errorResponse
		if err = json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			if errResp.Error.Field != "" {
				return fmt.Errorf("%w: %s (%s, field %s)", ErrServer, errResp.Error.Message, errResp.Error.Code, errResp.Error.Field)
			}

			return fmt.Errorf("%w: %s (%s)", ErrServer, errResp.Error.Message, errResp.Error.Code)
		}

		return fmt.Errorf("%w: HTTP %d: %s", ErrServer, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}

	if raw, ok := result.(*string); ok {
		*raw = string(respBody)
		return nil
	}

	if err = json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

func (that *Client) Get(ctx context.Context, path string, result any) error {
	return that.Do(ctx, http.MethodGet, path, nil, result)
}

func (that *Client) Post(ctx context.Context, path string, body, result any) error {
	return that.Do(ctx, http.MethodPost, path, body, result)
}

func (that *Client) Delete(ctx context.Context, path string, result any) error {
	return that.Do(ctx, http.MethodDelete, path, nil, result)
}
