package authgate

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kardia-labs/authgate/internal/schema"
	"github.com/kardia-labs/authgate/provider"
)

func TestOAuthInitiateSuccess(t *testing.T) {
	var gotProvider, gotRedirect string
	stub := &stubProvider{beginOAuth: func(_ context.Context, providerID, redirectTo string) (string, error) {
		gotProvider, gotRedirect = providerID, redirectTo
		return "https://accounts.google.com/o/oauth2/auth?state=abc", nil
	}}
	engine, _ := newTestEngine(t, stub)

	reply := engine.OAuthInitiate(context.Background(), []byte(`{"provider":"google","redirectTo":"https://app.example.com/done"}`))
	if reply.Status != 200 {
		t.Fatalf("status = %d, want 200", reply.Status)
	}

	resp, ok := reply.Body.(OAuthResponse)
	if !ok {
		t.Fatalf("body is %T, want OAuthResponse", reply.Body)
	}
	if resp.Provider != "google" {
		t.Fatalf("provider = %q", resp.Provider)
	}
	if resp.AuthURL != "https://accounts.google.com/o/oauth2/auth?state=abc" {
		t.Fatalf("authUrl = %q", resp.AuthURL)
	}
	if resp.Message != "Redirect the user to authUrl to continue authentication" {
		t.Fatalf("message = %q", resp.Message)
	}
	if gotProvider != "google" || gotRedirect != "https://app.example.com/done" {
		t.Fatalf("provider call got (%q, %q)", gotProvider, gotRedirect)
	}
}

func TestOAuthUnknownProviderFailsBeforeProviderCall(t *testing.T) {
	called := false
	stub := &stubProvider{beginOAuth: func(context.Context, string, string) (string, error) {
		called = true
		return "https://example.com", nil
	}}
	engine, _ := newTestEngine(t, stub)

	reply := engine.OAuthInitiate(context.Background(), []byte(`{"provider":"gitlab"}`))
	if reply.Status != 422 {
		t.Fatalf("status = %d, want 422", reply.Status)
	}
	issues := envelope(t, reply).Details["issues"].([]schema.Issue)
	if len(issues) != 1 || issues[0].Message != "provider must be one of: google, github" {
		t.Fatalf("issues = %+v", issues)
	}
	if called {
		t.Fatal("provider was called for an uncatalogued id")
	}
}

func TestOAuthProviderRejection(t *testing.T) {
	stub := &stubProvider{beginOAuth: func(context.Context, string, string) (string, error) {
		return "", &provider.Error{Code: provider.CodeUnsupportedProvider, Message: "google disabled upstream"}
	}}
	engine, _ := newTestEngine(t, stub)

	reply := engine.OAuthInitiate(context.Background(), []byte(`{"provider":"google"}`))
	if reply.Status != 400 {
		t.Fatalf("status = %d, want 400", reply.Status)
	}
	env := envelope(t, reply)
	if env.Kind != KindBadRequest || env.Message != "Unsupported OAuth provider" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestOAuthEmptyURLIsInternal(t *testing.T) {
	stub := &stubProvider{beginOAuth: func(context.Context, string, string) (string, error) {
		return "", nil
	}}
	engine, logger := newTestEngine(t, stub)

	reply := engine.OAuthInitiate(context.Background(), []byte(`{"provider":"github"}`))
	if reply.Status != 500 {
		t.Fatalf("status = %d, want 500", reply.Status)
	}
	entry, ok := logger.find("request rejected")
	if !ok {
		t.Fatal("rejection log entry missing")
	}
	if entry.level != LevelError {
		t.Fatalf("level = %v, want error", entry.level)
	}
}

func TestCatalogIsStaticAndSilent(t *testing.T) {
	engine, logger := newTestEngine(t, &stubProvider{})

	first, err := json.Marshal(engine.Catalog())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := json.Marshal(engine.Catalog())
		if err != nil {
			t.Fatal(err)
		}
		if string(again) != string(first) {
			t.Fatalf("read %d differs:\n%s\n%s", i, again, first)
		}
	}

	catalog := engine.Catalog()
	if len(catalog.Providers) != 2 {
		t.Fatalf("providers = %+v", catalog.Providers)
	}
	if catalog.Providers[0].DisplayName != "Google" || catalog.Providers[1].DisplayName != "GitHub" {
		t.Fatalf("display names = %+v", catalog.Providers)
	}

	if entries := logger.all(); len(entries) != 0 {
		t.Fatalf("catalog reads emitted %d log entries", len(entries))
	}
}

func TestCatalogFollowsConfiguredProviders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OAuth.Providers = []OAuthProviderEntry{{ID: "okta"}}
	engine, _ := newTestEngineWithConfig(t, cfg, &stubProvider{})

	catalog := engine.Catalog()
	if len(catalog.Providers) != 1 || catalog.Providers[0].DisplayName != "Okta" {
		t.Fatalf("catalog = %+v, want derived display name", catalog.Providers)
	}

	// The validator enum tracks the same catalog.
	reply := engine.OAuthInitiate(context.Background(), []byte(`{"provider":"google"}`))
	if reply.Status != 422 {
		t.Fatalf("status = %d, want 422 for uncatalogued provider", reply.Status)
	}
}
