package gotrue

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

	"github.com/kardia-labs/authgate/provider"
)

// Config parameterizes the GoTrue client.
type Config struct {
	// BaseURL is the API root, e.g. https://project.example.com/auth/v1.
	BaseURL string
	// APIKey is sent as the apikey header on every request.
	APIKey string
	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
}

// Client implements provider.Identity against a GoTrue-compatible API.
type Client struct {
	base string
	key  string
	http *http.Client
	now  func() time.Time
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		key:  cfg.APIKey,
		http: hc,
		now:  time.Now,
	}
}

type apiUser struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt string         `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

type tokenResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	ExpiresIn    int64   `json:"expires_in"`
	ExpiresAt    int64   `json:"expires_at"`
	User         apiUser `json:"user"`
}

type signupResponse struct {
	tokenResponse
	// Without auto-confirm GoTrue returns the bare user object instead of
	// a token payload.
	apiUser
}

type apiError struct {
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e apiError) message() string {
	for _, m := range []string{e.Msg, e.ErrorDescription, e.ErrorField} {
		if m != "" {
			return m
		}
	}
	return "unknown provider error"
}

// Authenticate implements provider.Identity via the password grant.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*provider.User, *provider.Session, error) {
	body := map[string]string{"email": email, "password": password}

	status, raw, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", body)
	if err != nil {
		return nil, nil, fmt.Errorf("gotrue: authenticate: %w", err)
	}

	if status != http.StatusOK {
		apiErr := decodeError(raw)
		switch apiErr.ErrorCode {
		case "invalid_credentials", "invalid_grant":
			return nil, nil, provider.ErrInvalidCredentials
		case "email_not_confirmed":
			// Credentials were accepted; the account just is not usable
			// yet. Surface the authenticated-but-not-activated state.
			return &provider.User{Email: email}, nil, nil
		}
		return nil, nil, fmt.Errorf("gotrue: authenticate: status %d: %s", status, apiErr.message())
	}

	var tok tokenResponse
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, nil, fmt.Errorf("gotrue: authenticate: decode: %w", err)
	}

	return userFrom(tok.User), c.sessionFrom(tok), nil
}

// Register implements provider.Identity via /signup.
func (c *Client) Register(ctx context.Context, profile provider.Profile) (*provider.Registration, error) {
	body := map[string]any{
		"email":    profile.Email,
		"password": profile.Password,
		"data": map[string]any{
			"first_name":       profile.FirstName,
			"last_name":        profile.LastName,
			"accept_marketing": profile.AcceptMarketing,
			"referral_code":    profile.ReferralCode,
		},
	}

	status, raw, err := c.do(ctx, http.MethodPost, "/signup", body)
	if err != nil {
		return nil, fmt.Errorf("gotrue: register: %w", err)
	}

	if status != http.StatusOK {
		apiErr := decodeError(raw)
		if code, known := registerCodes[apiErr.ErrorCode]; known {
			return nil, &provider.Error{Code: code, Message: apiErr.message()}
		}
		return nil, fmt.Errorf("gotrue: register: status %d (%s): %s", status, apiErr.ErrorCode, apiErr.message())
	}

	var resp signupResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("gotrue: register: decode: %w", err)
	}

	user := resp.tokenResponse.User
	if user.ID == "" {
		user = resp.apiUser
	}

	reg := &provider.Registration{
		User:              *userFrom(user),
		NeedsVerification: user.EmailConfirmedAt == "",
	}
	if resp.AccessToken != "" {
		reg.Session = c.sessionFrom(resp.tokenResponse)
	}
	return reg, nil
}

// BeginOAuth implements provider.Identity by building the /authorize URL.
// No network round trip is needed; GoTrue redirects from that URL.
func (c *Client) BeginOAuth(_ context.Context, providerID, redirectTo string) (string, error) {
	if c.base == "" {
		return "", fmt.Errorf("gotrue: begin oauth: base URL not configured")
	}

	q := url.Values{}
	q.Set("provider", providerID)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.base + "/authorize?" + q.Encode(), nil
}

// SendReset implements provider.Identity via /recover.
func (c *Client) SendReset(ctx context.Context, email, redirectTo string) error {
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}

	status, raw, err := c.do(ctx, http.MethodPost, path, map[string]string{"email": email})
	if err != nil {
		return fmt.Errorf("gotrue: send reset: %w", err)
	}
	if status != http.StatusOK {
		apiErr := decodeError(raw)
		if apiErr.ErrorCode == "user_not_found" {
			return &provider.Error{Code: provider.CodeUserNotFound, Message: apiErr.message()}
		}
		return fmt.Errorf("gotrue: send reset: status %d: %s", status, apiErr.message())
	}
	return nil
}

var registerCodes = map[string]string{
	"user_already_exists": provider.CodeUserAlreadyExists,
	"email_exists":        provider.CodeAccountExists,
	"weak_password":       provider.CodeWeakPassword,
	"signup_disabled":     provider.CodeRegistrationFailed,
	"validation_failed":   provider.CodeRegistrationFailed,
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("apikey", c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, raw, nil
}

func decodeError(raw []byte) apiError {
	var e apiError
	_ = json.Unmarshal(raw, &e)
	return e
}

func userFrom(u apiUser) *provider.User {
	first, _ := u.UserMetadata["first_name"].(string)
	last, _ := u.UserMetadata["last_name"].(string)
	return &provider.User{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      first,
		LastName:       last,
		EmailConfirmed: u.EmailConfirmedAt != "",
	}
}

func (c *Client) sessionFrom(tok tokenResponse) *provider.Session {
	expires := tok.ExpiresAt
	if expires == 0 {
		expires = c.now().Unix() + tok.ExpiresIn
	}
	return &provider.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expires,
	}
}
