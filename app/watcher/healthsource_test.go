package watcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPHealthSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "zkLend", r.URL.Query().Get("protocol"))
		require.Equal(t, "0xabc", r.URL.Query().Get("user_id"))
		_, _ = w.Write([]byte("1.2345"))
	}))
	defer server.Close()

	source := &HTTPHealthSource{Endpoint: server.URL}

	ratio, err := source.HealthRatio(context.Background(), "0xabc", "zkLend")
	require.NoError(t, err)
	require.Equal(t, 1.2345, ratio)
}

func TestHTTPHealthSourceQuotedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("\"0.75\"\n"))
	}))
	defer server.Close()

	source := &HTTPHealthSource{Endpoint: server.URL}

	ratio, err := source.HealthRatio(context.Background(), "0xabc", "zkLend")
	require.NoError(t, err)
	require.Equal(t, 0.75, ratio)
}

func TestHTTPHealthSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "unparseable body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not a number"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			source := &HTTPHealthSource{Endpoint: server.URL}

			_, err := source.HealthRatio(context.Background(), "0xabc", "zkLend")
			require.Error(t, err)
		})
	}
}
