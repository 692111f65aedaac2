package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/publicsuffix"
	errs "igexport/pkg/errors"
)

const (
	sessionCookie = "sessionid"
	csrfCookie    = "csrftoken"
)

// Session is a cookie-bearing connection to Instagram, owned by a single run
type Session struct {
	client     *Client
	httpClient *http.Client
	jar        http.CookieJar
	baseURL    *url.URL

	// CSRFToken is empty when the landing page did not set one
	CSRFToken string
	// Authenticated is true when a session cookie was supplied
	Authenticated bool
}

// Establish creates a fresh cookie jar, seeds it with sessionID when given,
// and visits the landing page once to collect the CSRF cookie. The landing
// request is not retried.
func (c *Client) Establish(ctx context.Context, sessionID string) (*Session, error) {
	base, err := url.Parse(c.endpoints.Root())
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if sessionID != "" {
		jar.SetCookies(base, []*http.Cookie{{
			Name:     sessionCookie,
			Value:    sessionID,
			Path:     "/",
			Secure:   base.Scheme == "https",
			HttpOnly: true,
		}})
	}

	sess := &Session{
		client: c,
		httpClient: &http.Client{
			Jar:       jar,
			Timeout:   c.timeout,
			Transport: c.transport,
		},
		jar:           jar,
		baseURL:       base,
		Authenticated: sessionID != "",
	}

	c.logger.DebugWithFields("establishing session", map[string]interface{}{
		"url":           base.String(),
		"authenticated": sess.Authenticated,
	})

	if _, err := c.doRequest(ctx, sess.httpClient, base.String(), ""); err != nil {
		c.logger.WithError(err).Error("session bootstrap failed")
		return nil, err
	}

	sess.CSRFToken = sess.Cookie(csrfCookie)
	if sess.CSRFToken == "" {
		c.logger.Warn("no CSRF token issued, continuing without one")
	}

	c.logger.InfoWithFields("session established", map[string]interface{}{
		"authenticated": sess.Authenticated,
		"csrf":          sess.CSRFToken != "",
	})

	return sess, nil
}

// Cookie returns the value of the named cookie for the base URL, or ""
func (s *Session) Cookie(name string) string {
	for _, cookie := range s.jar.Cookies(s.baseURL) {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

// Search queries the topsearch endpoint
func (s *Session) Search(ctx context.Context, query string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := s.getJSON(ctx, s.client.endpoints.Search(query), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserInfo fetches the full user record for userID
func (s *Session) UserInfo(ctx context.Context, userID string) (*UserInfoResponse, error) {
	var resp UserInfoResponse
	if err := s.getJSON(ctx, s.client.endpoints.UserInfo(userID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UserFeed fetches one feed page. maxID is the cursor from the previous page,
// empty for the first.
func (s *Session) UserFeed(ctx context.Context, userID, maxID string) (*FeedResponse, error) {
	var resp FeedResponse
	if err := s.getJSON(ctx, s.client.endpoints.Feed(userID, maxID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Session) getJSON(ctx context.Context, url string, target interface{}) error {
	err := s.client.getJSON(ctx, s.httpClient, url, s.CSRFToken, target)
	if err != nil && errs.IsType(err, errs.ErrorTypeAuth) && !s.Authenticated {
		s.client.logger.Warn("access denied without a session cookie; pass --session-id or store one with 'igexport auth set'")
	}
	return err
}
