// Package transport provides the HTTP transport used for provider API calls.
package transport

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// New returns an http.RoundTripper tuned for server-to-provider calls:
// bounded dial and TLS handshake times, a pooled connection cache, and
// HTTP/2 negotiated via ALPN. The provider terminates idle connections
// aggressively, so the idle timeout stays below typical LB limits.
func New(timeout time.Duration) http.RoundTripper {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	t := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       60 * time.Second,
	}

	// Upgrade the pooled transport to speak HTTP/2 when the provider
	// negotiates it. ConfigureTransport only fails if t was already
	// h2-enabled; either way t is usable.
	if err := http2.ConfigureTransport(t); err != nil {
		return t
	}
	return t
}
