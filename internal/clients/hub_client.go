package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/mcc-event-hub/web-gateway/internal/models"
	"github.com/mcc-event-hub/web-gateway/internal/session"
)

// HubClient talks to the remote event/admin API. It performs no retries: a
// failed mutation is terminal for the triggering action and a re-submission
// is a fresh, potentially duplicating, request.
type HubClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHubClient(baseURL string, logger *zap.Logger) *HubClient {
	return &HubClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type LoginResponse struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type AgendaRequest struct {
	Message string               `json:"message"`
	History []models.ChatMessage `json:"history"`
}

type AgendaResponse struct {
	Response string `json:"response"`
}

// doRequest issues one request and maps the outcome onto the client's error
// taxonomy. Privileged calls pass session.AuthHeaders(token) as headers;
// public calls pass nil and send only the content type.
func (c *HubClient) doRequest(ctx context.Context, method, rawURL string, headers map[string]string, body []byte) ([]byte, error) {
	var req *http.Request
	var err error

	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, rawURL, bytes.NewBuffer(body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, rawURL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Hub API request failed", zap.String("url", rawURL), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, nil
	case resp.StatusCode == http.StatusUnauthorized:
		c.logger.Warn("Hub API rejected credentials", zap.String("url", rawURL))
		return nil, ErrUnauthorized
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &ValidationError{Message: detailMessage(respBody, resp.StatusCode)}
	default:
		c.logger.Error("Hub API returned error",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode))
		return nil, &ServerError{Status: resp.StatusCode}
	}
}

// detailMessage extracts the server's human-readable message from a 4xx
// body. The hub API reports it under "detail".
func detailMessage(body []byte, status int) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("request rejected (status %d)", status)
}

// ListEvents fetches all events, optionally restricted by type. Type
// filtering happens server-side; callers must not re-filter locally.
func (c *HubClient) ListEvents(ctx context.Context, eventType models.EventType) ([]models.Event, error) {
	rawURL := fmt.Sprintf("%s/events", c.baseURL)
	if eventType != "" {
		rawURL += "?type=" + url.QueryEscape(string(eventType))
	}

	body, err := c.doRequest(ctx, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return nil, err
	}

	var events []models.Event
	if err := json.Unmarshal(body, &events); err != nil {
		c.logger.Error("Failed to decode events response", zap.Error(err))
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	return events, nil
}

// GetEvent fetches a single event by ID.
func (c *HubClient) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	rawURL := fmt.Sprintf("%s/events/%s", c.baseURL, url.PathEscape(id))

	body, err := c.doRequest(ctx, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return nil, err
	}

	var event models.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	return &event, nil
}

// CreateEvent submits a new event draft. The endpoint is public.
func (c *HubClient) CreateEvent(ctx context.Context, draft models.EventDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshaling event draft: %w", err)
	}

	_, err = c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/events", c.baseURL), nil, payload)
	return err
}

// UpdateEvent replaces an event in place. Requires a bearer token.
func (c *HubClient) UpdateEvent(ctx context.Context, token, id string, draft models.EventDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshaling event draft: %w", err)
	}

	rawURL := fmt.Sprintf("%s/events/%s", c.baseURL, url.PathEscape(id))
	_, err = c.doRequest(ctx, http.MethodPut, rawURL, session.AuthHeaders(token), payload)
	return err
}

// DeleteEvent removes an event by ID. Requires a bearer token.
func (c *HubClient) DeleteEvent(ctx context.Context, token, id string) error {
	rawURL := fmt.Sprintf("%s/events/%s", c.baseURL, url.PathEscape(id))
	_, err := c.doRequest(ctx, http.MethodDelete, rawURL, session.AuthHeaders(token), nil)
	return err
}

// ListAdmins fetches the admin allowlist. Requires a bearer token.
func (c *HubClient) ListAdmins(ctx context.Context, token string) ([]models.Admin, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s/auth/admins", c.baseURL), session.AuthHeaders(token), nil)
	if err != nil {
		return nil, err
	}

	var admins []models.Admin
	if err := json.Unmarshal(body, &admins); err != nil {
		c.logger.Error("Failed to decode admins response", zap.Error(err))
		return nil, fmt.Errorf("decoding admins: %w", err)
	}
	return admins, nil
}

// AddAdmin adds an email to the allowlist. A duplicate email comes back as a
// ValidationError whose message is shown to the user verbatim.
func (c *HubClient) AddAdmin(ctx context.Context, token, email string) error {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return err
	}

	_, err = c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/auth/admins", c.baseURL), session.AuthHeaders(token), payload)
	return err
}

// RemoveAdmin deletes an admin by email. The email is path-escaped; the
// server independently refuses self-deletion.
func (c *HubClient) RemoveAdmin(ctx context.Context, token, email string) error {
	rawURL := fmt.Sprintf("%s/auth/admins/%s", c.baseURL, url.PathEscape(email))
	_, err := c.doRequest(ctx, http.MethodDelete, rawURL, session.AuthHeaders(token), nil)
	return err
}

// Login exchanges an allowlisted email for a session token. A 401 here
// means "email not authorized", which callers render distinctly from
// network failure.
func (c *HubClient) Login(ctx context.Context, email string) (*LoginResponse, error) {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/auth/login", c.baseURL), nil, payload)
	if err != nil {
		return nil, err
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	return &resp, nil
}

// Logout invalidates the remote session token. Best-effort: the local
// session is cleared regardless of the outcome.
func (c *HubClient) Logout(ctx context.Context, token string) error {
	_, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/auth/logout", c.baseURL), session.AuthHeaders(token), nil)
	return err
}

// VerifySession checks whether a stored token is still accepted by the hub.
func (c *HubClient) VerifySession(ctx context.Context, token string) (string, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("%s/auth/verify", c.baseURL), session.AuthHeaders(token), nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		Valid bool   `json:"valid"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding verify response: %w", err)
	}
	if !resp.Valid {
		return "", ErrUnauthorized
	}
	return resp.Email, nil
}

// OptimizeAgenda forwards one chat turn to the remote agenda organizer. The
// transcript lives with the caller; this client is a pass-through.
func (c *HubClient) OptimizeAgenda(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	payload, err := json.Marshal(AgendaRequest{Message: message, History: history})
	if err != nil {
		return "", err
	}

	body, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("%s/api/agenda", c.baseURL), nil, payload)
	if err != nil {
		return "", err
	}

	var resp AgendaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding agenda response: %w", err)
	}
	return resp.Response, nil
}
