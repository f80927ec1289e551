// Package api is the FoodFast backend HTTP client. It attaches the session's
// access credential to every request and transparently refreshes it once on a
// 401 before retrying the original request.
package api

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

	"github.com/bnema/foodfast-cli/internal/domain"
	"github.com/bnema/foodfast-cli/internal/session"
)

const maxResponseBytes = 1 << 20

const refreshPath = "/api/v1/account/refresh"

type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	Session        *session.State
	RequestTimeout time.Duration
}

func New(baseURL string, httpClient *http.Client, state *session.State) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Session:    state,
	}
}

// Error is a non-2xx backend response, decoded from the standard
// {success, message, errors} envelope.
type Error struct {
	Status  int
	Message string
	Fields  json.RawMessage
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend status %d", e.Status)
	}
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

type errorEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Err     string          `json:"error"`
}

// do issues one request and decodes the response envelope into out. A 401
// with a refresh credential present triggers exactly one refresh attempt and
// one retry of the original request; every other status is returned as-is.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	resp, err := c.send(ctx, method, path, query, body, c.Session.Current().AccessToken)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && path != refreshPath {
		refreshToken := c.Session.Current().RefreshToken
		if refreshToken != "" {
			drain(resp)

			if err := c.refreshAccessToken(ctx, refreshToken); err != nil {
				return err
			}

			resp, err = c.send(ctx, method, path, query, body, c.Session.Current().AccessToken)
			if err != nil {
				return err
			}
		}
	}

	return decodeResponse(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, bearer string) (*http.Response, error) {
	endpoint, err := buildURL(c.BaseURL, path, query)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}

	return resp, nil
}

// refreshAccessToken performs the single refresh attempt. Failure is fatal
// for the page session: all credentials are cleared and the caller gets
// domain.ErrSessionExpired.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) error {
	resp, err := c.send(ctx, http.MethodPost, refreshPath, nil, nil, refreshToken)
	if err != nil {
		c.Session.Clear()
		return fmt.Errorf("refresh credentials: %w: %w", domain.ErrSessionExpired, err)
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := decodeResponse(resp, &payload); err != nil {
		c.Session.Clear()
		return fmt.Errorf("refresh credentials: %w: %w", domain.ErrSessionExpired, err)
	}
	if !payload.Success || payload.Data.AccessToken == "" {
		c.Session.Clear()
		return fmt.Errorf("refresh credentials: %w", domain.ErrSessionExpired)
	}

	// The change hook persists the new access credential.
	c.Session.SetAccessToken(payload.Data.AccessToken)
	return nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var envelope errorEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			return &Error{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		}
		message := envelope.Message
		if message == "" {
			message = envelope.Err
		}
		return &Error{Status: resp.StatusCode, Message: message, Fields: envelope.Errors}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
}

func buildURL(baseURL, path string, query url.Values) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	return endpoint.String(), nil
}

// IsAuthError reports whether err is the fatal refresh-failure path, after
// which the stored session is gone and the user must log in again.
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrSessionExpired)
}
