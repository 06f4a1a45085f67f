package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/docassist/internal/client/models"
	"github.com/dmitrijs2005/docassist/internal/common"
)

const maxResponseBytes = 16 << 20

// envelope wraps every API payload.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// HTTPClient talks to the DocAssist API over HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the API rooted at baseURL. tokens may be
// nil, in which case requests are sent without an Authorization header.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (models.CredentialPair, error) {
	var pair models.CredentialPair
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &pair)
	return pair, err
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (models.CredentialPair, error) {
	var pair models.CredentialPair
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &pair)
	return pair, err
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (models.CredentialPair, error) {
	var pair models.CredentialPair
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/refresh", models.RefreshRequest{RefreshToken: refreshToken}, &pair)
	return pair, err
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, "", &u)
	return u, err
}

func (c *HTTPClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	docs := []models.Document{}
	if err := c.do(ctx, http.MethodGet, "/api/documents", nil, "", &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *HTTPClient) GetDocument(ctx context.Context, id string) (models.Document, error) {
	var d models.Document
	err := c.do(ctx, http.MethodGet, "/api/documents/"+url.PathEscape(id), nil, "", &d)
	return d, err
}

func (c *HTTPClient) DocumentStatus(ctx context.Context, id string) (models.DocumentStatusInfo, error) {
	var s models.DocumentStatusInfo
	err := c.do(ctx, http.MethodGet, "/api/documents/"+url.PathEscape(id)+"/status", nil, "", &s)
	return s, err
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func (c *HTTPClient) UploadDocument(ctx context.Context, req models.UploadRequest) (models.Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(req.Filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return models.Document{}, fmt.Errorf("multipart part: %w", err)
	}
	if _, err := part.Write(req.Content); err != nil {
		return models.Document{}, fmt.Errorf("multipart write: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.Document{}, fmt.Errorf("multipart close: %w", err)
	}

	var d models.Document
	err = c.do(ctx, http.MethodPost, "/api/documents", &buf, w.FormDataContentType(), &d)
	return d, err
}

func (c *HTTPClient) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/documents/"+url.PathEscape(id), nil, "", nil)
}

func (c *HTTPClient) Chat(ctx context.Context, req models.ChatRequest) (models.ChatReply, error) {
	var r models.ChatReply
	err := c.doJSON(ctx, http.MethodPost, "/api/ai/chat", req, &r)
	return r, err
}

func (c *HTTPClient) ListSessions(ctx context.Context) ([]models.ChatSession, error) {
	sessions := []models.ChatSession{}
	if err := c.do(ctx, http.MethodGet, "/api/ai/sessions", nil, "", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *HTTPClient) SessionMessages(ctx context.Context, id string) ([]models.ChatMessage, error) {
	msgs := []models.ChatMessage{}
	if err := c.do(ctx, http.MethodGet, "/api/ai/sessions/"+url.PathEscape(id), nil, "", &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *HTTPClient) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/ai/sessions/"+url.PathEscape(id), nil, "", nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(body), "application/json", out)
}

// do performs one request and decodes the envelope's data into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("read access token: %w", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: ErrNetwork, Message: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &APIError{Kind: ErrNetwork, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		if out != nil {
			return &APIError{Kind: ErrUnknown, Status: resp.StatusCode, Message: "empty response body"}
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Kind: ErrUnknown, Status: resp.StatusCode, Message: "malformed response envelope", Err: err}
	}
	if !env.Success {
		return &APIError{Kind: ErrUnknown, Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &APIError{Kind: ErrUnknown, Status: resp.StatusCode, Message: "malformed response data", Err: err}
	}
	return nil
}

func statusError(code int, raw []byte) error {
	e := &APIError{Kind: kindForStatus(code), Status: code}
	var env envelope
	if json.Unmarshal(raw, &env) == nil {
		e.Message = env.Message
	}
	return e
}
