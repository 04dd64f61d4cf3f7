package middleware

import (
	"net"
	"net/http"

	"github.com/lacrosselens/lacrosselens-engine/pkg/audit"
)

// SecurityAudit returns middleware that reports rejected requests to the
// auditor: 401 as an auth failure, 403 as an access denial and 413 as a
// rejected upload. The auth layer attributes the user through audit.SetUser.
func SecurityAudit(auditor *audit.SecurityAuditor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if auditor == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := audit.WithSubject(r.Context())
			r = r.WithContext(ctx)

			wrapped := newStatusRecorder(w)
			next.ServeHTTP(wrapped, r)

			details := audit.RequestDetails{
				Method: r.Method,
				Path:   r.URL.Path,
				Status: wrapped.status,
			}
			switch wrapped.status {
			case http.StatusUnauthorized:
				auditor.LogAuthFailure(ctx, details, clientIP(r))
			case http.StatusForbidden:
				auditor.LogAccessDenied(ctx, details, clientIP(r))
			case http.StatusRequestEntityTooLarge:
				auditor.LogUploadRejected(ctx, details, clientIP(r))
			}
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
