package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_StartServeShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	srv := New(handler, "0", "", "")
	srv.srv.Addr = "127.0.0.1:0"

	require.NoError(t, srv.Start())
	assert.False(t, srv.TLS())

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err, ok := <-srv.Errors():
		assert.False(t, ok, "unexpected serve error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("errors channel not closed after shutdown")
	}
}

func TestServer_StartReturnsBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	srv := New(http.NotFoundHandler(), port, "", "")
	srv.srv.Addr = "127.0.0.1:" + port

	assert.Error(t, srv.Start())
}

func TestServer_TLSRequiresBothFiles(t *testing.T) {
	assert.True(t, New(http.NotFoundHandler(), "8443", "cert.pem", "key.pem").TLS())
	assert.False(t, New(http.NotFoundHandler(), "8443", "cert.pem", "").TLS())
}
