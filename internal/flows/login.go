package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/kardia-labs/authgate/internal/rate"
	"github.com/kardia-labs/authgate/internal/schema"
	"github.com/kardia-labs/authgate/provider"
)

// Client-facing login denial messages. MsgInvalidCredentials is load-bearing:
// it must never differentiate an unknown email from a wrong password.
const (
	MsgInvalidCredentials   = "Invalid credentials"
	MsgVerificationRequired = "Please verify your email address before signing in"
)

// LoginDeps captures the login pipeline dependencies.
type LoginDeps struct {
	CheckRate    func(ctx context.Context) (rate.Decision, error)
	Authenticate func(ctx context.Context, email, password string) (*provider.User, *provider.Session, error)
}

// LoginOutcome is the login pipeline result. User and Session are set only
// when Failure.OK().
type LoginOutcome struct {
	Failure    Failure
	User       *provider.User
	Session    *SessionView
	RememberMe bool
}

func loginSchema() schema.Schema {
	return schema.Schema{
		Fields: []schema.Field{
			{Name: "email", Kind: schema.String, Required: true, MaxLen: 255, Email: true},
			{Name: "password", Kind: schema.String, Required: true, MaxLen: 1024},
			{Name: "rememberMe", Kind: schema.Bool, Default: false},
		},
	}
}

// RunLogin executes the login pipeline against raw request input.
func RunLogin(ctx context.Context, raw []byte, deps LoginDeps) LoginOutcome {
	doc, fail := gate(ctx, raw, deps.CheckRate, loginSchema())
	if !fail.OK() {
		return LoginOutcome{Failure: fail}
	}

	user, sess, err := deps.Authenticate(ctx, schema.Str(doc, "email"), schema.Str(doc, "password"))
	if err != nil {
		if errors.Is(err, provider.ErrInvalidCredentials) {
			return LoginOutcome{Failure: Failure{
				Kind:    KindUnauthorized,
				Message: MsgInvalidCredentials,
				Err:     err,
			}}
		}
		return LoginOutcome{Failure: Failure{Kind: KindInternal, Err: err}}
	}
	if user == nil {
		return LoginOutcome{Failure: Failure{
			Kind: KindInternal,
			Err:  fmt.Errorf("provider reported success without a user"),
		}}
	}
	// Authenticated but not activated: the account exists and the password
	// matched, yet no session was issued. Distinct from bad credentials.
	if sess == nil {
		return LoginOutcome{Failure: Failure{
			Kind:    KindForbidden,
			Message: MsgVerificationRequired,
		}}
	}

	return LoginOutcome{
		User:       user,
		Session:    viewSession(sess),
		RememberMe: schema.BoolVal(doc, "rememberMe"),
	}
}
