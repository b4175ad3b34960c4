package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	authgate "github.com/kardia-labs/authgate"
)

func writeReply(w http.ResponseWriter, reply *authgate.Reply) {
	if reply.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(reply.RetryAfter))
	}
	writeJSON(w, reply.Status, reply.Body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, authgate.ErrorEnvelope{
		Kind:          authgate.KindBadRequest,
		Message:       "Method not allowed",
		CorrelationID: authgate.CorrelationIDFromContext(r.Context()),
	})
}
