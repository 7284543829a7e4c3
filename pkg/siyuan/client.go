// Package siyuan is the HTTP client for the SiYuan kernel API.
package siyuan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	logPrefix = "siyuan:client"

	DefaultBaseURL = "http://localhost:6806"
	defaultTimeout = 30 * time.Second
)

// maxResponseBytes bounds how much of a response body is read.
var maxResponseBytes int64 = 64 << 20

// ErrResponseTooLarge is returned when a response body exceeds the read limit.
var ErrResponseTooLarge = errors.New("response too large")

// Response is the envelope every SiYuan API endpoint returns.
type Response struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// APIError is a response whose code is not zero.
type APIError struct {
	Path string
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("siyuan %s failed with code %d: %s", e.Path, e.Code, e.Msg)
}

// Client posts requests to one SiYuan kernel. It is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClientParams holds parameters for NewClient.
type NewClientParams struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// NewClient creates a Client. An empty BaseURL uses http://localhost:6806.
func NewClient(params NewClientParams) (*Client, error) {
	base := strings.TrimRight(params.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s - invalid base URL %q", logPrefix, params.BaseURL)
	}

	hc := params.HTTPClient
	if hc == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	if params.Token == "" {
		slog.Warn(fmt.Sprintf("%s - SIYUAN_TOKEN is not set, API calls may be rejected", logPrefix))
	}
	return &Client{baseURL: base, token: params.Token, http: hc}, nil
}

// BaseURL returns the kernel address the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Post sends body as JSON to path and returns the data member of the
// response. A non-zero code is returned as *APIError.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to encode %s request: %w", logPrefix, path, err)
	}
	resp, data, err := c.do(ctx, path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return decodeResponse(path, resp, data)
}

// PostRaw sends body as JSON and returns the raw response body when the
// kernel answers 200. Endpoints such as /api/file/getFile return file bytes
// on success and a JSON envelope otherwise.
func (c *Client) PostRaw(ctx context.Context, path string, body interface{}) ([]byte, string, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, "", fmt.Errorf("%s - failed to encode %s request: %w", logPrefix, path, err)
	}
	resp, data, err := c.do(ctx, path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		if _, err := decodeEnvelope(path, data); err != nil {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%s - %s returned status %d", logPrefix, path, resp.StatusCode)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, []byte, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s - failed to build %s request: %w", logPrefix, path, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Token "+c.token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s - %s request failed: %w", logPrefix, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("%s - failed to read %s response: %w", logPrefix, path, err)
	}
	if int64(len(data)) > maxResponseBytes {
		return nil, nil, fmt.Errorf("%s - %s response exceeds %d bytes: %w", logPrefix, path, maxResponseBytes, ErrResponseTooLarge)
	}
	slog.Debug(fmt.Sprintf("%s - POST %s status=%d bytes=%d in %s", logPrefix, path, resp.StatusCode, len(data), time.Since(start)))
	return resp, data, nil
}

func encodeBody(body interface{}) ([]byte, error) {
	if body == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(body)
}

// decodeResponse decodes the envelope, reporting the HTTP status when the
// body is not an envelope.
func decodeResponse(path string, resp *http.Response, data []byte) (json.RawMessage, error) {
	raw, err := decodeEnvelope(path, data)
	if err == nil {
		return raw, nil
	}
	if _, ok := err.(*APIError); !ok && resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s - %s returned status %d", logPrefix, path, resp.StatusCode)
	}
	return nil, err
}

func decodeEnvelope(path string, data []byte) (json.RawMessage, error) {
	var env Response
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%s - %s returned a non-JSON response: %w", logPrefix, path, err)
	}
	if env.Code != 0 {
		return nil, &APIError{Path: path, Code: env.Code, Msg: env.Msg}
	}
	return env.Data, nil
}

// DecodeData unmarshals a data member into a generic JSON value. Empty and
// null data decode to nil.
func DecodeData(raw json.RawMessage) (interface{}, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%s - failed to decode data: %w", logPrefix, err)
	}
	return v, nil
}
