package inspect

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/livetree/internal/errors"
)

func newTestServer(t *testing.T, h *Hub, config Config) *httptest.Server {
	t.Helper()
	config.Logger = quietLogger()
	srv := httptest.NewServer(NewServer(h, config).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServerRoutes(t *testing.T) {
	h := NewHub()
	h.SetSnapshot(`<ul class="todo"><li>a</li></ul>`)
	h.Publish(Record{Type: "add", Kind: KindLifecycle, Target: "<ul#3>"})
	srv := newTestServer(t, h, Config{})

	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	resp, body = get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<main id="tree"><ul class="todo"><li>a</li></ul></main>`)

	_, body = get(t, srv.URL+"/snapshot")
	assert.Equal(t, `<ul class="todo"><li>a</li></ul>`, body)

	_, body = get(t, srv.URL+"/history")
	var history []Record
	require.NoError(t, json.Unmarshal([]byte(body), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "add", history[0].Type)

	resp, _ = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "inspect_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := newTestServer(t, NewHub(), Config{Gatherer: reg})
	resp, body := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "inspect_test_total 1")
}

func TestServerEventStream(t *testing.T) {
	h := NewHub()
	h.Publish(Record{Type: "add", Kind: KindLifecycle})
	srv := newTestServer(t, h, Config{})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	h.Publish(Record{Type: "click", Kind: KindNative})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var got []Record
	for len(got) < 2 {
		var rec Record
		require.NoError(t, conn.ReadJSON(&rec))
		got = append(got, rec)
	}
	assert.Equal(t, "add", got[0].Type)
	assert.Equal(t, uint64(1), got[0].Seq)
	assert.Equal(t, "click", got[1].Type)
	assert.Equal(t, uint64(2), got[1].Seq)
}

func TestServeStopsWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(NewHub(), Config{Logger: quietLogger()})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()

	resp, body := get(t, "http://"+ln.Addr().String()+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeClosesEventStreams(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	h := NewHub()
	s := NewServer(h, Config{Logger: quietLogger()})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/events", nil)
	require.NoError(t, err)
	defer conn.Close()

	h.Publish(Record{Type: "add", Kind: KindLifecycle})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var rec Record
	require.NoError(t, conn.ReadJSON(&rec))
	require.Equal(t, 1, h.Subscribers())

	cancel()
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Zero(t, h.Subscribers())
}

func TestListenAndServeBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := NewServer(NewHub(), Config{Logger: quietLogger()})
	err = s.ListenAndServe(context.Background(), ln.Addr().String())
	require.Error(t, err)
	assert.Equal(t, "E301", errors.Code(err))
}
