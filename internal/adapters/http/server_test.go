package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/pictoboard/internal/platform/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServerConfig(host string, port int, maxRequest int64) *config.ServerConfig {
	return &config.ServerConfig{
		Host:            host,
		Port:            port,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 2 * time.Second,
		MaxRequestSize:  maxRequest,
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{host: "localhost", port: 8080, want: "localhost:8080"},
		{host: "0.0.0.0", port: 3000, want: "0.0.0.0:3000"},
		{host: "::1", port: 8080, want: "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			srv := New(testServerConfig(tt.host, tt.port, 1<<20), slog.New(slog.DiscardHandler))

			assert.Equal(t, tt.want, srv.Addr())
		})
	}
}

func TestServerServeUntilCancelled(t *testing.T) {
	srv := New(testServerConfig("127.0.0.1", 0, 1<<20), slog.New(slog.DiscardHandler))
	srv.Engine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "pong", string(body))

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}

	_, err = http.Get("http://" + ln.Addr().String() + "/ping")
	assert.Error(t, err, "listener is closed after shutdown")
}

func TestServerListenFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = taken.Close() })

	port := taken.Addr().(*net.TCPAddr).Port
	srv := New(testServerConfig("127.0.0.1", port, 1<<20), slog.New(slog.DiscardHandler))

	err = srv.ListenAndServe(t.Context())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}

func TestServerBodyLimit(t *testing.T) {
	srv := New(testServerConfig("127.0.0.1", 0, 100), slog.New(slog.DiscardHandler))

	srv.Engine().POST("/boards/import", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": len(body)})
	})

	tests := []struct {
		name   string
		size   int
		status int
	}{
		{name: "under limit", size: 50, status: http.StatusOK},
		{name: "at limit", size: 100, status: http.StatusOK},
		{name: "over limit", size: 101, status: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/boards/import", bytes.NewReader(make([]byte, tt.size)))

			srv.Engine().ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
