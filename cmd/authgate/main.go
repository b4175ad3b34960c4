// Command authgate runs the authentication gateway as an HTTP server.
//
// Configuration comes from AUTHGATE_* environment variables. With no
// Redis address the rate limiter keeps counters in process memory; with
// no GoTrue URL a seeded in-memory provider is used so the gateway can be
// exercised locally:
//
//	AUTHGATE_LISTEN=:8080 go run ./cmd/authgate
//	curl -s -X POST localhost:8080/auth/login \
//	  -H 'Content-Type: application/json' \
//	  -d '{"email":"demo@example.com","password":"demo-password"}'
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	authgate "github.com/kardia-labs/authgate"
	"github.com/kardia-labs/authgate/httpapi"
	"github.com/kardia-labs/authgate/provider"
	"github.com/kardia-labs/authgate/provider/gotrue"
	"github.com/kardia-labs/authgate/provider/local"
)

type serverEnv struct {
	Listen           string `env:"AUTHGATE_LISTEN"            envDefault:":8080"`
	RedisAddr        string `env:"AUTHGATE_REDIS_ADDR"`
	GoTrueURL        string `env:"AUTHGATE_GOTRUE_URL"`
	GoTrueAPIKey     string `env:"AUTHGATE_GOTRUE_API_KEY"`
	OAuthClientID    string `env:"AUTHGATE_OAUTH_CLIENT_ID"   envDefault:"authgate-dev"`
	OAuthRedirectURL string `env:"AUTHGATE_OAUTH_REDIRECT_URL" envDefault:"http://localhost:8080/auth/callback"`
}

func main() {
	var srvEnv serverEnv
	if err := env.Parse(&srvEnv); err != nil {
		log.Fatalf("parse server env: %v", err)
	}

	cfg, err := authgate.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := authgate.NewJSONLogger(os.Stdout)

	builder := authgate.New().
		WithConfig(cfg).
		WithProvider(buildProvider(srvEnv)).
		WithLogger(logger)

	if srvEnv.RedisAddr != "" {
		builder.WithRedis(redis.NewClient(&redis.Options{Addr: srvEnv.RedisAddr}))
	}

	engine, err := builder.Build()
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              srvEnv.Listen,
		Handler:           httpapi.NewHandler(engine),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("authgate listening on %s", srvEnv.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func buildProvider(srvEnv serverEnv) provider.Identity {
	if srvEnv.GoTrueURL != "" {
		return gotrue.New(gotrue.Config{
			BaseURL: srvEnv.GoTrueURL,
			APIKey:  srvEnv.GoTrueAPIKey,
		})
	}

	p := local.New(local.Options{
		OAuthClientID:    srvEnv.OAuthClientID,
		OAuthRedirectURL: srvEnv.OAuthRedirectURL,
		OAuthEndpoints: map[string]oauth2.Endpoint{
			"google": endpoints.Google,
			"github": endpoints.GitHub,
		},
	})
	p.Seed(local.User{
		Email:     "demo@example.com",
		Password:  "demo-password",
		FirstName: "Demo",
		LastName:  "User",
		Verified:  true,
	})
	return p
}
