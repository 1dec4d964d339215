package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/logger"
)

// TokenSource entrega el token de sesión del usuario. Vacío = sin sesión.
type TokenSource interface {
	Token() string
}

type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client es el helper uniforme de requests contra el backend REST.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     logger.Logger
}

func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, l logger.Logger) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     l,
	}
}

// WithToken devuelve una copia que usa otro token (una por usuario en el BFF).
func (c *Client) WithToken(tokens TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

func (c *Client) HasSession() bool {
	return c.tokens.Token() != ""
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Code   string          `json:"code"`
}

// Do ejecuta method path con body como JSON y decodifica la respuesta en out (si no es nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "method", method, "path", path, "requestId", requestID, "error", err)
		return &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"requestId", requestID)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		return classify(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		if out != nil {
			return &Error{Kind: KindMalformed, StatusCode: resp.StatusCode, Detail: invalidJSONDetail}
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindMalformed, StatusCode: resp.StatusCode, Detail: invalidJSONDetail, Err: err}
	}
	return nil
}

func classify(status int, raw []byte) error {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return &Error{Kind: KindMalformed, StatusCode: status, Detail: invalidJSONDetail, Err: err}
	}

	detail := detailText(body.Detail)
	if body.Code == profileMissingCode || (status == http.StatusUnprocessableEntity && strings.EqualFold(detail, profileMissingDetail)) {
		return &Error{Kind: KindProfileMissing, StatusCode: status, Detail: detail}
	}
	return &Error{Kind: KindStatus, StatusCode: status, Detail: detail}
}

// FastAPI manda detail como string o como lista de errores de validación.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return requestFailedDetail
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return requestFailedDetail
		}
		return s
	}
	return string(raw)
}
