package identity

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{name: "peer address without port", remoteAddr: "192.0.2.10:53122", want: "192.0.2.10"},
		{name: "ipv6 peer", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "forwarded first entry", forwarded: "203.0.113.5, 10.0.0.1", remoteAddr: "10.0.0.1:80", want: "203.0.113.5"},
		{name: "forwarded single entry", forwarded: " 203.0.113.7 ", remoteAddr: "10.0.0.1:80", want: "203.0.113.7"},
		{name: "empty forwarded entry falls back", forwarded: " , 10.0.0.2", remoteAddr: "10.0.0.1:80", want: "10.0.0.1"},
		{name: "address without port kept", remoteAddr: "unix-socket", want: "unix-socket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/run", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, FromRequest(r))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	assert.Equal(t, "", FromContext(context.Background()))

	ctx := WithClient(context.Background(), "198.51.100.4")
	assert.Equal(t, "198.51.100.4", FromContext(ctx))
}
