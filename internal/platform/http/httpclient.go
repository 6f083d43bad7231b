package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for outbound calls such as the JSONBin driver.
// http.DefaultClient has no timeout, so callers always pass one; the transport
// bounds dialing and TLS handshakes separately and honours HTTP_PROXY.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
