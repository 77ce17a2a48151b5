package session

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

// Fingerprint hashes the request headers a browser keeps stable across a
// visit together with the client IP. A stored session whose fingerprint
// no longer matches is treated as hijacked and silently replaced rather
// than rejected with an error the attacker could probe.
func Fingerprint(r *http.Request) string {
	h := sha256.New()
	h.Write([]byte(r.Header.Get("Accept-Language")))
	h.Write([]byte{0})
	h.Write([]byte(r.Header.Get("Accept")))
	h.Write([]byte{0})
	h.Write([]byte(r.UserAgent()))
	h.Write([]byte{0})
	h.Write([]byte(ClientIP(r)))
	return hex.EncodeToString(h.Sum(nil))
}

// ClientIP extracts the originating client address, preferring proxy
// headers over the socket peer. With X-Forwarded-For the first hop is
// the client.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
