// Package restclient wraps HTTP access to the remote backend. Every
// response is expected in the uniform envelope {success, data, message,
// code}; anything else is surfaced as a transport or business error.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Doer is the request surface remote backends depend on, so tests can
// substitute a double.
type Doer interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, body any, out any) error
}

// Envelope is the backend's uniform response wrapper.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := path
	if len(query) > 0 {
		endpoint = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodDelete, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Kind: KindUnknown, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Kind: KindUnknown, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		terr := classify(err)
		c.log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("kind", string(terr.Kind)),
			zap.Error(err),
		)
		return terr
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Kind: KindUnknown, Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &BusinessError{Code: resp.StatusCode, Message: httpStatusMessage(resp)}
		}
		c.log.Warn("backend response not decodable",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncateBody(rawBody)),
		)
		return &TransportError{Kind: KindUnknown, Err: err}
	}

	if resp.StatusCode >= 300 || !env.Success {
		message := env.Message
		if message == "" {
			message = httpStatusMessage(resp)
		}
		code := env.Code
		if code == 0 {
			code = resp.StatusCode
		}
		return &BusinessError{Code: code, Message: message}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Kind: KindUnknown, Err: err}
	}
	return nil
}

func classify(err error) *TransportError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Kind: KindTimeout, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &TransportError{Kind: KindOffline, Err: err}
	}
	return &TransportError{Kind: KindUnknown, Err: err}
}

func httpStatusMessage(resp *http.Response) string {
	return "HTTP " + resp.Status
}

func truncateBody(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
