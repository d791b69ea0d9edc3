package utils

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the best-guess caller address for rate limiting.
// Proxy headers win over RemoteAddr.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for _, ip := range strings.Split(fwd, ",") {
			if ip = strings.TrimSpace(ip); isValidIP(ip) {
				return ip
			}
		}
	}
	if ip := r.Header.Get("CF-Connecting-IP"); isValidIP(ip) {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); isValidIP(ip) {
		return ip
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && isValidIP(ip) {
		return ip
	}
	return ""
}

func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}
