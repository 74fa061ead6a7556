// Package clientip derives the originating client address of a request.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// HeaderForwardedFor is the proxy chain header consulted first.
const HeaderForwardedFor = "X-Forwarded-For"

// Unknown is returned when no address can be derived.
const Unknown = "unknown"

// Source is the raw connection information a request arrives with.
type Source struct {
	ForwardedFor string
	DirectIP     string
}

// Resolve returns the client address for s.
func (s Source) Resolve() string {
	return Resolve(s.ForwardedFor, s.DirectIP)
}

// Resolve returns, in order of preference: the first entry of the
// X-Forwarded-For chain, the direct peer address, or Unknown.
// The result is never empty.
func Resolve(forwardedFor, directIP string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if directIP = strings.TrimSpace(directIP); directIP != "" {
		return directIP
	}
	return Unknown
}

// SourceFromRequest captures the forwarded-for chain and the peer host of r.
func SourceFromRequest(r *http.Request) Source {
	return Source{
		ForwardedFor: r.Header.Get(HeaderForwardedFor),
		DirectIP:     hostOnly(r.RemoteAddr),
	}
}

func hostOnly(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RemoteAddr without a port.
		return remoteAddr
	}
	return host
}
