package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://typecard.example"

func newTestRouter(t *testing.T, logger *slog.Logger) http.Handler {
	t.Helper()
	h, err := NewRouter(testBaseURL, logger)
	require.NoError(t, err)
	return h
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + HealthPath)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, map[string]string{"status": "ok"}, body)
}

func TestRoutesMountHandlers(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/frame")
	require.NoError(t, err)
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(page), `content="`+testBaseURL+`/api/frame"`)

	resp, err = http.Post(srv.URL+"/api/frame", "application/json", strings.NewReader(`{"buttonIndex":1}`))
	require.NoError(t, err)
	var action struct {
		Image string `json:"image"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&action))
	resp.Body.Close()
	require.Equal(t, testBaseURL+"/api/og?state=typing", action.Image)

	resp, err = http.Get(srv.URL + "/api/og?state=typing")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	t.Cleanup(srv.Close)

	req, err := http.NewRequest(http.MethodGet, srv.URL+HealthPath, nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))

	resp, err = http.Get(srv.URL + HealthPath)
	require.NoError(t, err)
	resp.Body.Close()
	require.Len(t, resp.Header.Get(RequestIDHeader), 36)
}

func TestLoggingMiddlewareRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := RequestIDMiddleware(LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := buf.String()
	require.Contains(t, out, "method=GET")
	require.Contains(t, out, "path=/brew")
	require.Contains(t, out, "status=418")
	require.Contains(t, out, "request_id=req-1")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s := New(ln.Addr().String(), newTestRouter(t, nil), nil)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + HealthPath)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunReportsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	s := New(ln.Addr().String(), http.NotFoundHandler(), nil)
	err = s.Run(context.Background())
	require.ErrorContains(t, err, "failed to listen")
}

type failingWriter struct {
	header http.Header
	status int
}

func (f *failingWriter) Header() http.Header { return f.header }

func (f *failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func (f *failingWriter) WriteHeader(status int) { f.status = status }

func TestHealthzLogsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	w := &failingWriter{header: http.Header{}}
	healthz(logger)(w, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	require.Equal(t, http.StatusOK, w.status)
	require.Contains(t, buf.String(), "failed to write health response")
	require.Contains(t, buf.String(), io.ErrClosedPipe.Error())
}
