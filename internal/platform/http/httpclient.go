// Package http builds outbound HTTP clients.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for the AI gateway. Dial and TLS handshakes have their
// own 5s bounds; timeout caps the whole request. HTTP_PROXY/HTTPS_PROXY are honoured.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
