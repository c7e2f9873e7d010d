package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"carelink-server/pkg/logging"
)

// Session carries the credentials a client was constructed with. It replaces
// the old pattern of every call site reading token/role out of ambient
// storage: the session is injected once, at construction.
type Session struct {
	Token string
	Role  string
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Envelope is the standard response body shape used by every endpoint.
// Data is kept raw so callers can detect a missing field (some write
// endpoints omit it) and decode into their own types.
type Envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// HasData reports whether the response carried a data payload.
func (e *Envelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// Client is the API client: base URL, JSON headers, bearer token injection,
// one method per REST endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
	session Session
	logger  *logging.Logger
}

// DefaultBaseURL matches the backend's default listen address.
const DefaultBaseURL = "http://localhost:5000/api/v1"

// New creates an API client. An empty baseURL falls back to DefaultBaseURL.
func New(baseURL string, session Session, logger *logging.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		session: session,
		logger:  logger,
	}
}

// Session returns the session the client was constructed with.
func (c *Client) Session() Session {
	return c.session
}

// SetSession replaces the client's credentials (after login/logout).
func (c *Client) SetSession(s Session) {
	c.session = s
}

// do issues one request and decodes the standard envelope. Authenticated
// requests carry the bearer token; "public" endpoints pass authed=false and
// send no Authorization header. A malformed body on a 2xx response yields an
// empty envelope, never an error.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool) (*Envelope, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &APIError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Err: err}
	}

	var envelope Envelope
	if decodeErr := json.Unmarshal(raw, &envelope); decodeErr != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			// Tolerate a malformed body on success; callers fall back
			// to their local state.
			c.logger.Warn("client: malformed response body on success",
				"method", method, "path", path)
			return &Envelope{Status: resp.StatusCode}, nil
		}
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := envelope.Error
		if message == "" {
			message = envelope.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	return &envelope, nil
}

func (c *Client) get(ctx context.Context, path string, authed bool) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil, authed)
}

func (c *Client) post(ctx context.Context, path string, body any, authed bool) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body, authed)
}

func (c *Client) put(ctx context.Context, path string, body any, authed bool) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, body, authed)
}

func (c *Client) delete(ctx context.Context, path string, authed bool) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil, authed)
}

// decodeData decodes the envelope's data payload into out.
func decodeData(envelope *Envelope, out any) error {
	if !envelope.HasData() {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}
