package httpapi

import (
	"net/http"
	"strings"

	authgate "github.com/kardia-labs/authgate"
)

// ClientIdentifier derives the rate-limit identifier from the forwarded-IP
// header chain. The gateway sits behind a proxy, so X-Forwarded-For takes
// precedence: the first non-empty entry is the original client. Falls back
// to X-Real-IP, then to the unknown sentinel.
func ClientIdentifier(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for _, part := range strings.Split(fwd, ",") {
			if p := strings.TrimSpace(part); p != "" {
				return p
			}
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return authgate.UnknownClient
}
