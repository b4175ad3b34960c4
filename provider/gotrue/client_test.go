package gotrue

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kardia-labs/authgate/provider"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, APIKey: "test-api-key"})
}

func TestAuthenticateSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
		}
		if r.Header.Get("apikey") != "test-api-key" {
			t.Error("apikey header missing")
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["email"] != "demo@example.com" {
			t.Errorf("email = %q", body["email"])
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"expires_at":    1_700_003_600,
			"user": map[string]any{
				"id":                 "user-1",
				"email":              "demo@example.com",
				"email_confirmed_at": "2023-11-01T00:00:00Z",
				"user_metadata": map[string]any{
					"first_name": "Demo",
					"last_name":  "User",
				},
			},
		})
	})

	user, sess, err := client.Authenticate(context.Background(), "demo@example.com", "demo-password")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != "user-1" || user.FirstName != "Demo" || !user.EmailConfirmed {
		t.Fatalf("user = %+v", user)
	}
	if sess.AccessToken != "at-1" || sess.ExpiresAt != 1_700_003_600 {
		t.Fatalf("session = %+v", sess)
	}
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	for _, code := range []string{"invalid_credentials", "invalid_grant"} {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error_code": code, "msg": "bad login"})
		})

		_, _, err := client.Authenticate(context.Background(), "demo@example.com", "wrong")
		if !errors.Is(err, provider.ErrInvalidCredentials) {
			t.Fatalf("%s: err = %v, want ErrInvalidCredentials", code, err)
		}
	}
}

func TestAuthenticateUnconfirmedEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error_code": "email_not_confirmed"})
	})

	user, sess, err := client.Authenticate(context.Background(), "pending@example.com", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if user == nil || user.Email != "pending@example.com" {
		t.Fatalf("user = %+v", user)
	}
	if sess != nil {
		t.Fatalf("session = %+v, want none", sess)
	}
}

func TestAuthenticateUnknownFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "over capacity"})
	})

	_, _, err := client.Authenticate(context.Background(), "demo@example.com", "pw")
	if err == nil || errors.Is(err, provider.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want opaque failure", err)
	}
}

func TestRegisterPendingVerification(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/signup" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		data, _ := body["data"].(map[string]any)
		if data["first_name"] != "New" {
			t.Errorf("metadata = %+v", data)
		}

		// Without auto-confirm GoTrue returns the bare user object.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "user-2",
			"email": "new@example.com",
		})
	})

	reg, err := client.Register(context.Background(), provider.Profile{
		Email:     "new@example.com",
		Password:  "new-password",
		FirstName: "New",
		LastName:  "Person",
	})
	if err != nil {
		t.Fatal(err)
	}
	if reg.User.ID != "user-2" || !reg.NeedsVerification || reg.Session != nil {
		t.Fatalf("registration = %+v", reg)
	}
}

func TestRegisterAutoConfirmed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at-2",
			"refresh_token": "rt-2",
			"expires_in":    3600,
			"user": map[string]any{
				"id":                 "user-3",
				"email":              "open@example.com",
				"email_confirmed_at": "2023-11-01T00:00:00Z",
			},
		})
	})

	reg, err := client.Register(context.Background(), provider.Profile{Email: "open@example.com", Password: "pw-long-enough"})
	if err != nil {
		t.Fatal(err)
	}
	if reg.NeedsVerification {
		t.Fatal("confirmed account flagged for verification")
	}
	if reg.Session == nil || reg.Session.AccessToken != "at-2" || reg.Session.ExpiresAt == 0 {
		t.Fatalf("session = %+v", reg.Session)
	}
}

func TestRegisterErrorCodes(t *testing.T) {
	cases := map[string]string{
		"user_already_exists": provider.CodeUserAlreadyExists,
		"email_exists":        provider.CodeAccountExists,
		"weak_password":       provider.CodeWeakPassword,
		"signup_disabled":     provider.CodeRegistrationFailed,
		"validation_failed":   provider.CodeRegistrationFailed,
	}

	for apiCode, want := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"error_code": apiCode, "msg": "rejected"})
		})

		_, err := client.Register(context.Background(), provider.Profile{Email: "x@y.co", Password: "pw"})
		if provider.CodeOf(err) != want {
			t.Errorf("%s: code = %q, want %q", apiCode, provider.CodeOf(err), want)
		}
	}

	// Unknown codes stay opaque so the gateway reports an internal failure.
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_ = json.NewEncoder(w).Encode(map[string]string{"error_code": "brew_failure"})
	})
	_, err := client.Register(context.Background(), provider.Profile{Email: "x@y.co", Password: "pw"})
	if err == nil || provider.CodeOf(err) != "" {
		t.Fatalf("err = %v, want uncoded failure", err)
	}
}

func TestBeginOAuthBuildsAuthorizeURL(t *testing.T) {
	client := New(Config{BaseURL: "https://project.example.com/auth/v1/"})

	url, err := client.BeginOAuth(context.Background(), "google", "https://app.example.com/done")
	if err != nil {
		t.Fatal(err)
	}
	want := "https://project.example.com/auth/v1/authorize?provider=google&redirect_to=https%3A%2F%2Fapp.example.com%2Fdone"
	if url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}

	if _, err := New(Config{}).BeginOAuth(context.Background(), "google", ""); err == nil {
		t.Fatal("expected error without base URL")
	}
}

func TestSendReset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recover" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("redirect_to") != "https://app.example.com/reset" {
			t.Errorf("redirect_to = %q", r.URL.Query().Get("redirect_to"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{}"))
	})

	if err := client.SendReset(context.Background(), "demo@example.com", "https://app.example.com/reset"); err != nil {
		t.Fatal(err)
	}
}

func TestSendResetUserNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error_code": "user_not_found", "msg": "no user"})
	})

	err := client.SendReset(context.Background(), "nobody@example.com", "")
	if provider.CodeOf(err) != provider.CodeUserNotFound {
		t.Fatalf("err = %v, want USER_NOT_FOUND", err)
	}
}
