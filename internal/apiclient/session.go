package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mpetrenko/craftsite/internal/apperrors"
)

const refreshTimeout = 15 * time.Second

// Session is an http.RoundTripper that attaches the stored access token
// to every request and transparently refreshes it on 401.
//
// Concurrent requests that hit 401 at the same time share one refresh
// call: the first one performs it, the rest wait for its result. Every
// request is retried at most once; a second 401 is returned to the
// caller as is. When the refresh itself fails the stored tokens are
// cleared and everything waiting fails with apperrors.ErrSessionExpired.
type Session struct {
	base       http.RoundTripper
	refreshURL string
	store      TokenStore
	group      singleflight.Group
	onExpired  func()
}

type SessionOption func(*Session)

// WithTransport sets the underlying transport requests are sent through
func WithTransport(rt http.RoundTripper) SessionOption {
	return func(s *Session) {
		s.base = rt
	}
}

// WithOnExpired registers a hook called once per failed refresh,
// after the stored tokens are cleared
func WithOnExpired(fn func()) SessionOption {
	return func(s *Session) {
		s.onExpired = fn
	}
}

func NewSession(refreshURL string, store TokenStore, opts ...SessionOption) (*Session, error) {
	if refreshURL == "" {
		return nil, errors.New("refresh url must not be empty")
	}
	if store == nil {
		return nil, errors.New("token store must not be nil")
	}

	s := &Session{
		base:       http.DefaultTransport,
		refreshURL: refreshURL,
		store:      store,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Session) RoundTrip(req *http.Request) (*http.Response, error) {
	tokens, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("error while loading tokens. Err: %w", err)
	}

	resp, err := s.send(req, tokens.Access)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// A body that cannot be rebuilt cannot be replayed
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	access, err := s.freshAccess(tokens.Access)
	if err != nil {
		closeBody(resp)
		return nil, err
	}

	closeBody(resp)
	return s.send(req, access)
}

// send performs one attempt on a clone of req with the given bearer token
func (s *Session) send(req *http.Request, access string) (*http.Response, error) {
	attempt := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("error while rewinding request body. Err: %w", err)
		}
		attempt.Body = body
	}
	if access != "" {
		attempt.Header.Set("Authorization", "Bearer "+access)
	}

	return s.base.RoundTrip(attempt)
}

// freshAccess returns an access token newer than the one that just got 401.
// If another request already refreshed, its token is reused without a
// network call; otherwise one shared refresh is performed.
func (s *Session) freshAccess(staleAccess string) (string, error) {
	tokens, err := s.store.Load()
	if err != nil {
		return "", fmt.Errorf("error while loading tokens. Err: %w", err)
	}
	if tokens.Access != "" && tokens.Access != staleAccess {
		return tokens.Access, nil
	}

	v, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.refresh()
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (s *Session) refresh() (string, error) {
	tokens, err := s.store.Load()
	if err != nil {
		return "", fmt.Errorf("error while loading tokens. Err: %w", err)
	}
	if tokens.Refresh == "" {
		s.expire()
		return "", apperrors.ErrSessionExpired
	}

	access, err := s.requestRefresh(tokens.Refresh)
	if err != nil {
		s.expire()
		return "", err
	}

	tokens.Access = access
	if err := s.store.Save(tokens); err != nil {
		return "", fmt.Errorf("error while saving tokens. Err: %w", err)
	}

	return access, nil
}

func (s *Session) requestRefresh(refresh string) (string, error) {
	type refreshRequest struct {
		RefreshToken string `json:"refresh_token"`
	}
	type refreshResponse struct {
		AccessToken string `json:"access_token"`
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: refresh})
	if err != nil {
		return "", fmt.Errorf("error while encoding refresh request. Err: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error while creating refresh request. Err: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.base.RoundTrip(req)
	if err != nil {
		return "", fmt.Errorf("error while refreshing tokens. Err: %w", err)
	}
	defer closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.ErrSessionExpired
	}

	var body refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("error while decoding refresh response. Err: %w", err)
	}
	if body.AccessToken == "" {
		return "", apperrors.ErrSessionExpired
	}

	return body.AccessToken, nil
}

func (s *Session) expire() {
	_ = s.store.Clear()
	if s.onExpired != nil {
		s.onExpired()
	}
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
