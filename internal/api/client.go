// Package api implements the HTTP client for the Tethr chat service.
//
// The send endpoint answers with the assistant's full reply as a plain text
// body once generation finishes; the conversation identifier travels
// out-of-band in the Chat-Id response header. Everything else is JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tethrai/tethr-go/internal/chat"
	"github.com/tethrai/tethr-go/internal/models"
	"github.com/tethrai/tethr-go/internal/workspace"
)

const (
	defaultTimeout = 60 * time.Second

	// ChatIDHeader carries the service-assigned conversation ID on a send
	// response that created a new conversation.
	ChatIDHeader = "Chat-Id"
)

var (
	_ chat.Service      = (*Client)(nil)
	_ models.Fetcher    = (*Client)(nil)
	_ workspace.Service = (*Client)(nil)
)

// StatusError is returned for non-2xx responses. Message carries the
// service's "error" field when the payload had one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("service returned %d", e.Code)
}

// PayloadError exposes the service-supplied message for surfacing to users.
func (e *StatusError) PayloadError() string {
	return e.Message
}

// Client talks to the chat service. Cookie handling, CSRF and credentials
// are the transport's concern: supply an *http.Client carrying them via
// WithHTTPClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. one with a cookie
// jar for session credentials.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSendLimiter rate-limits the send path client-side.
func WithSendLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sendRequest struct {
	Content string `json:"content"`
	ChatID  string `json:"chatId,omitempty"`
	Model   string `json:"model"`
}

// SendMessage posts one user message. chatID is empty for the first message
// of a new conversation; workspace is empty for unscoped sends. The reply
// body is returned verbatim together with any service-assigned conversation
// ID from the Chat-Id header.
func (c *Client) SendMessage(ctx context.Context, content, chatID, model, ws string) (string, string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", "", fmt.Errorf("send rate limit: %w", err)
		}
	}

	payload, err := json.Marshal(sendRequest{Content: content, ChatID: chatID, Model: model})
	if err != nil {
		return "", "", fmt.Errorf("failed to encode send request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat/send/", ws, bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read send response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", statusError(resp.StatusCode, body)
	}

	return string(body), resp.Header.Get(ChatIDHeader), nil
}

// ChatHistory lists the conversations visible in the given workspace scope.
func (c *Client) ChatHistory(ctx context.Context, ws string) ([]chat.Conversation, error) {
	var history []chat.Conversation
	if err := c.getJSON(ctx, "/api/chat/history/", ws, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Chat fetches one conversation, messages included.
func (c *Client) Chat(ctx context.Context, id string) (*chat.Conversation, error) {
	var conv chat.Conversation
	if err := c.getJSON(ctx, "/api/chat/"+url.PathEscape(id)+"/", "", &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// Models fetches the model catalog. The payload's error field beside a
// usable model list signals the service served its fallback list.
func (c *Client) Models(ctx context.Context) (*models.CatalogPayload, error) {
	var payload models.CatalogPayload
	if err := c.getJSON(ctx, "/api/models/", "", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Workspaces lists the workspaces the user belongs to.
func (c *Client) Workspaces(ctx context.Context) ([]workspace.Workspace, error) {
	var list []workspace.Workspace
	if err := c.getJSON(ctx, "/api/teams/workspaces/", "", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateWorkspace creates a workspace owned by the current user.
func (c *Client) CreateWorkspace(ctx context.Context, name string) (*workspace.Workspace, error) {
	var ws workspace.Workspace
	if err := c.postJSON(ctx, "/api/teams/workspaces/", map[string]string{"name": name}, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// JoinWorkspace redeems an invite token and returns the joined workspace.
func (c *Client) JoinWorkspace(ctx context.Context, token string) (*workspace.Workspace, error) {
	var out struct {
		Workspace *workspace.Workspace `json:"workspace"`
	}
	if err := c.postJSON(ctx, "/api/teams/workspaces/join/", map[string]string{"token": token}, &out); err != nil {
		return nil, err
	}
	if out.Workspace == nil {
		return nil, fmt.Errorf("join response carried no workspace")
	}
	return out.Workspace, nil
}

func (c *Client) getJSON(ctx context.Context, path, ws string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, ws, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, "", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path, ws string, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if ws != "" {
		u += "?workspace=" + url.QueryEscape(ws)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError extracts the service's error message from a failure payload
// when it has one.
func statusError(code int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &StatusError{Code: code, Message: payload.Error}
	}
	return &StatusError{Code: code}
}
