// Package identity derives the client identity used as the rate-limiting
// key and carries it through the request context.
//
// The identity is NOT authenticated: it is the first address listed in
// X-Forwarded-For when a proxy sets it, otherwise the peer address.
package identity

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// contextKey is unexported so no other package can read or shadow the value.
type contextKey string

const clientKey contextKey = "client"

// FromRequest returns the client identity of r.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WithClient stores the identity in ctx.
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

// FromContext returns the identity stored by WithClient, or "" when none.
func FromContext(ctx context.Context) string {
	client, _ := ctx.Value(clientKey).(string)
	return client
}
