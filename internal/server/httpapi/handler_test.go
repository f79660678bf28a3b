package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/buildinfo"
	"github.com/dmitrijs2005/clipshare/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func get(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestHealth(t *testing.T) {
	rr, body := get(t, NewHandler(fakePinger{}, logging.Nop()), "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	rr, body = get(t, NewHandler(fakePinger{err: errors.New("down")}, logging.Nop()), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "unavailable", body["status"])
}

func TestVersion(t *testing.T) {
	old := buildinfo.Version
	buildinfo.Version = "v9.9.9"
	t.Cleanup(func() { buildinfo.Version = old })

	rr, body := get(t, NewHandler(fakePinger{}, logging.Nop()), "/version")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "v9.9.9", body["version"])
}

func TestUnknownRoute(t *testing.T) {
	h := NewHandler(fakePinger{}, logging.Nop())
	rr := httptest.NewRecorder()
	h.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServe_StopsOnCancel(t *testing.T) {
	h := NewHandler(fakePinger{}, logging.Nop())
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx, lis) }()

	resp, err := http.Get("http://" + lis.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
