package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is a typed API client for the site backend. All requests go
// through a Session, so token handling is invisible to the caller:
// methods only ever see the final response.
type Client struct {
	baseURL string
	store   TokenStore
	http    *http.Client
}

func NewClient(baseURL string, store TokenStore, opts ...SessionOption) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base url must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	session, err := NewSession(baseURL+"/api/auth/refresh", store, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		store:   store,
		http:    &http.Client{Transport: session},
	}, nil
}

type Section struct {
	ID        uuid.UUID      `json:"id"`
	Key       string         `json:"key"`
	Data      map[string]any `json:"data"`
	Position  int            `json:"position"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type NavItem struct {
	ID       uuid.UUID `json:"id"`
	Label    string    `json:"label"`
	Path     string    `json:"path"`
	Position int       `json:"position"`
	Visible  bool      `json:"visible"`
}

type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// APIError carries the status and body of a non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Login exchanges credentials for a token pair and stores it
func (c *Client) Login(ctx context.Context, username string, password string) error {
	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	type loginResponse struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}

	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return err
	}

	return c.store.Save(Tokens{Access: resp.AccessToken, Refresh: resp.RefreshToken})
}

// Logout drops the stored tokens
func (c *Client) Logout() error {
	return c.store.Clear()
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword string, newPassword string) error {
	type changePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	return c.do(ctx, http.MethodPost, "/api/auth/change-password",
		changePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}, nil)
}

// Sections lists published sections, ordered by position
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	var sections []Section
	err := c.do(ctx, http.MethodGet, "/api/cms", nil, &sections)
	return sections, err
}

// AllSections lists every section including unpublished ones (admin)
func (c *Client) AllSections(ctx context.Context) ([]Section, error) {
	var sections []Section
	err := c.do(ctx, http.MethodGet, "/api/cms/all", nil, &sections)
	return sections, err
}

func (c *Client) Section(ctx context.Context, key string) (Section, error) {
	var section Section
	err := c.do(ctx, http.MethodGet, "/api/cms/"+key, nil, &section)
	return section, err
}

func (c *Client) CreateSection(ctx context.Context, key string, data map[string]any, position int, published bool) (Section, error) {
	type createSectionRequest struct {
		Key       string         `json:"key"`
		Data      map[string]any `json:"data"`
		Position  int            `json:"position"`
		Published *bool          `json:"published"`
	}

	var section Section
	err := c.do(ctx, http.MethodPost, "/api/cms",
		createSectionRequest{Key: key, Data: data, Position: position, Published: &published}, &section)
	return section, err
}

func (c *Client) DeleteSection(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, "/api/cms/"+key, nil, nil)
}

func (c *Client) Navigation(ctx context.Context) ([]NavItem, error) {
	var items []NavItem
	err := c.do(ctx, http.MethodGet, "/api/navigation", nil, &items)
	return items, err
}

// SendMessage submits the public contact form
func (c *Client) SendMessage(ctx context.Context, name, email, phone, text string) (Message, error) {
	type createMessageRequest struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}

	var msg Message
	err := c.do(ctx, http.MethodPost, "/api/contact-messages",
		createMessageRequest{Name: name, Email: email, Phone: phone, Message: text}, &msg)
	return msg, err
}

func (c *Client) Messages(ctx context.Context) ([]Message, error) {
	var messages []Message
	err := c.do(ctx, http.MethodGet, "/api/contact-messages", nil, &messages)
	return messages, err
}

func (c *Client) UnreadCount(ctx context.Context) (int64, error) {
	type unreadCountResponse struct {
		Count int64 `json:"count"`
	}

	var resp unreadCountResponse
	err := c.do(ctx, http.MethodGet, "/api/contact-messages/unread-count", nil, &resp)
	return resp.Count, err
}

func (c *Client) MarkMessageRead(ctx context.Context, id uuid.UUID) (Message, error) {
	var msg Message
	err := c.do(ctx, http.MethodPatch, "/api/contact-messages/"+id.String()+"/read", nil, &msg)
	return msg, err
}

// do sends one request and decodes the JSON answer into out if given.
// Request bodies are fully buffered so the session can replay them.
func (c *Client) do(ctx context.Context, method string, path string, in any, out any) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error while encoding request. Err: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error while creating request. Err: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error while decoding response. Err: %w", err)
	}

	return nil
}

func apiError(resp *http.Response) error {
	type errorBody struct {
		Message string `json:"message"`
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}

	return apiErr
}
