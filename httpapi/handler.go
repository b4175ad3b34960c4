package httpapi

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	authgate "github.com/kardia-labs/authgate"
)

// maxBodyBytes bounds request bodies; auth payloads are small.
const maxBodyBytes = 1 << 20

type handler struct {
	engine *authgate.Engine
}

// NewHandler wires the gateway engine behind the six endpoint contracts.
func NewHandler(engine *authgate.Engine) http.Handler {
	h := &handler{engine: engine}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", h.login)
	mux.HandleFunc("/auth/register", h.register)
	mux.HandleFunc("/auth/oauth", h.oauth)
	mux.HandleFunc("/auth/reset-password", h.resetPassword)

	return withRequestContext(mux)
}

// withRequestContext attaches the per-request correlation ID and client
// identifier before any handler runs. An inbound X-Request-ID is honored
// so upstream proxies can stitch traces together; otherwise a fresh ID is
// minted. The ID is mirrored on every response header.
func withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Request-ID")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		ctx := authgate.WithCorrelationID(r.Context(), correlationID)
		ctx = authgate.WithClientID(ctx, ClientIdentifier(r))

		w.Header().Set("X-Correlation-ID", correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}
	writeReply(w, h.engine.Login(r.Context(), readBody(r)))
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.engine.Requirements())
	case http.MethodPost:
		writeReply(w, h.engine.Register(r.Context(), readBody(r)))
	default:
		writeMethodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (h *handler) oauth(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.engine.Catalog())
	case http.MethodPost:
		writeReply(w, h.engine.OAuthInitiate(r.Context(), readBody(r)))
	default:
		writeMethodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (h *handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r, http.MethodPost)
		return
	}
	writeReply(w, h.engine.ResetPassword(r.Context(), readBody(r)))
}

func readBody(r *http.Request) []byte {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil
	}
	return body
}
