package requests

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the caller address for access logs.
// Proxy headers are trusted as-is; this is for logging only, never for authorization
func GetClientIP(r *http.Request) string {
	// Prefer X-Forwarded-For (first non-empty entry)
	if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
		for _, part := range strings.Split(xForwardedFor, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	// Fallback to X-Real-IP
	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" {
		return xRealIP
	}
	// Final fallback: RemoteAddr
	hostIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return hostIP
}
