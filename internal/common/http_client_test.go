package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientBuilder_UserAgentAndTimeout(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).
		WithTimeout(5 * time.Second).
		WithUserAgent("axeaudit-test").
		Build()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, client.Timeout)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "axeaudit-test", gotUA)
}

func TestHTTPClientBuilder_MaxRedirects(t *testing.T) {
	hops := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, "/next", http.StatusFound)
	}))
	defer srv.Close()

	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithMaxRedirects(2).Build()
	require.NoError(t, err)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 2, hops)
}

func TestHTTPClientBuilder_InvalidProxy(t *testing.T) {
	_, err := NewHTTPClientBuilder(zerolog.Nop()).WithProxy("not a url").Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestHTTPClientBuilder_Proxy(t *testing.T) {
	client, err := NewHTTPClientBuilder(zerolog.Nop()).WithProxy("http://127.0.0.1:8080").Build()
	require.NoError(t, err)

	ua, ok := client.Transport.(*userAgentTransport)
	require.True(t, ok)
	transport, ok := ua.base.(*http.Transport)
	require.True(t, ok)

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	proxyURL, err := transport.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", proxyURL.Host)
}
