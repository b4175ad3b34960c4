package local

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/kardia-labs/authgate/provider"
)

// User is a seeded development account.
type User struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Verified  bool
}

// Options tunes the local provider.
type Options struct {
	// SigningKey signs access tokens. A fixed development key is used when
	// empty.
	SigningKey []byte
	// TokenTTL is the access token lifetime. Defaults to one hour.
	TokenTTL time.Duration
	// OAuthEndpoints maps provider ids to their authorization endpoints.
	OAuthEndpoints map[string]oauth2.Endpoint
	// OAuthClientID and OAuthRedirectURL parameterize the authorization
	// URLs BeginOAuth produces.
	OAuthClientID    string
	OAuthRedirectURL string
}

type account struct {
	id        string
	email     string
	password  string
	firstName string
	lastName  string
	verified  bool
}

// ResetRequest records one SendReset call for test inspection.
type ResetRequest struct {
	Email      string
	RedirectTo string
	At         time.Time
}

// Provider implements provider.Identity in process memory.
type Provider struct {
	mu     sync.Mutex
	users  map[string]*account
	resets []ResetRequest
	opts   Options
	now    func() time.Time
}

// New creates an empty local provider.
func New(opts Options) *Provider {
	if len(opts.SigningKey) == 0 {
		opts.SigningKey = []byte("authgate-local-development-key")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	return &Provider{
		users: make(map[string]*account),
		opts:  opts,
		now:   time.Now,
	}
}

// Seed adds or replaces a development account.
func (p *Provider) Seed(u User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := normalize(u.Email)
	p.users[key] = &account{
		id:        uuid.NewString(),
		email:     u.Email,
		password:  u.Password,
		firstName: u.FirstName,
		lastName:  u.LastName,
		verified:  u.Verified,
	}
}

// Authenticate implements provider.Identity. Unverified accounts
// authenticate without a session.
func (p *Provider) Authenticate(_ context.Context, email, password string) (*provider.User, *provider.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, ok := p.users[normalize(email)]
	if !ok || acct.password != password {
		return nil, nil, provider.ErrInvalidCredentials
	}

	user := acct.record()
	if !acct.verified {
		return user, nil, nil
	}

	sess, err := p.issueSession(acct)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// Register implements provider.Identity. New accounts always require email
// verification.
func (p *Provider) Register(_ context.Context, profile provider.Profile) (*provider.Registration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := normalize(profile.Email)
	if _, exists := p.users[key]; exists {
		return nil, &provider.Error{
			Code:    provider.CodeUserAlreadyExists,
			Message: "an account with this email already exists",
		}
	}

	acct := &account{
		id:        uuid.NewString(),
		email:     profile.Email,
		password:  profile.Password,
		firstName: profile.FirstName,
		lastName:  profile.LastName,
	}
	p.users[key] = acct

	user := acct.record()
	return &provider.Registration{
		User:              *user,
		NeedsVerification: true,
	}, nil
}

// BeginOAuth implements provider.Identity by building an authorization URL
// for a configured endpoint.
func (p *Provider) BeginOAuth(_ context.Context, providerID, redirectTo string) (string, error) {
	endpoint, ok := p.opts.OAuthEndpoints[providerID]
	if !ok {
		return "", &provider.Error{
			Code:    provider.CodeUnsupportedProvider,
			Message: "no oauth endpoint configured for " + providerID,
		}
	}

	redirect := p.opts.OAuthRedirectURL
	if redirectTo != "" {
		redirect = redirectTo
	}
	cfg := oauth2.Config{
		ClientID:    p.opts.OAuthClientID,
		Endpoint:    endpoint,
		RedirectURL: redirect,
		Scopes:      []string{"openid", "email", "profile"},
	}

	return cfg.AuthCodeURL(uuid.NewString()), nil
}

// SendReset implements provider.Identity. Unknown emails return a coded
// error; the gateway is expected to suppress it.
func (p *Provider) SendReset(_ context.Context, email, redirectTo string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.users[normalize(email)]; !ok {
		return &provider.Error{
			Code:    provider.CodeUserNotFound,
			Message: "no account for " + email,
		}
	}

	p.resets = append(p.resets, ResetRequest{
		Email:      email,
		RedirectTo: redirectTo,
		At:         p.now(),
	})
	return nil
}

// Verify marks a seeded account's email as confirmed.
func (p *Provider) Verify(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if acct, ok := p.users[normalize(email)]; ok {
		acct.verified = true
	}
}

// Resets returns a copy of the recorded reset requests.
func (p *Provider) Resets() []ResetRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ResetRequest, len(p.resets))
	copy(out, p.resets)
	return out
}

func (p *Provider) issueSession(acct *account) (*provider.Session, error) {
	now := p.now()
	expires := now.Add(p.opts.TokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   acct.id,
		"email": acct.email,
		"iat":   now.Unix(),
		"exp":   expires.Unix(),
	})
	signed, err := token.SignedString(p.opts.SigningKey)
	if err != nil {
		return nil, err
	}

	return &provider.Session{
		AccessToken:  signed,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    expires.Unix(),
	}, nil
}

func (a *account) record() *provider.User {
	return &provider.User{
		ID:             a.id,
		Email:          a.email,
		FirstName:      a.firstName,
		LastName:       a.lastName,
		EmailConfirmed: a.verified,
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
