package inspect

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/livetree/internal/errors"
)

// Config configures a Server.
type Config struct {
	// Gatherer backs /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer

	// WriteTimeout bounds each WebSocket write (default 5s).
	WriteTimeout time.Duration

	// CheckOrigin validates WebSocket origins. Nil accepts same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server serves a Hub.
type Server struct {
	hub      *Hub
	config   Config
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// streams counts open /events connections. http.Server.Shutdown does
	// not wait for hijacked connections, so Serve waits on this.
	streams sync.WaitGroup
}

// NewServer creates a Server for hub.
func NewServer(hub *Hub, config Config) *Server {
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub:    hub,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: logger,
	}
}

// Handler returns the inspector routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/history", s.handleHistory)
	r.Get("/events", s.handleEvents)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves on addr until ctx is done. A failure to bind is
// returned as E301.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.New("E301").Wrap(err).WithField("addr", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. Request contexts derive from ctx,
// so open event streams close with it.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("inspector listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return s.waitStreams(shutdownCtx)
	}
}

func (s *Server) waitStreams(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.streams.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>livetree inspector</title></head>
<body>
<main id="tree">{{.Snapshot}}</main>
<ol id="events"></ol>
<script>
const list = document.getElementById("events");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/events");
ws.onmessage = (m) => {
  const rec = JSON.parse(m.data);
  const li = document.createElement("li");
  li.textContent = rec.seq + " " + rec.kind + " " + rec.type + " " + rec.target;
  list.prepend(li);
  if (rec.kind === "lifecycle") {
    fetch("/snapshot").then((r) => r.text()).then((html) => { document.getElementById("tree").innerHTML = html; });
  }
};
</script>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Snapshot template.HTML }{template.HTML(s.hub.Snapshot())}
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("index render failed", "error", err)
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.hub.Snapshot()))
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.hub.History()); err != nil {
		s.logger.Error("history encode failed", "error", err)
	}
}

// handleEvents streams the history and then every published record.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.streams.Add(1)
	defer s.streams.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	history, records, cancel := s.hub.Subscribe()
	defer cancel()

	// Reads only detect the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
					websocket.CloseNormalClosure) {
					s.logger.Debug("inspector read error", "error", err)
				}
				return
			}
		}
	}()

	for _, rec := range history {
		if err := s.write(conn, rec); err != nil {
			return
		}
	}
	for {
		select {
		case rec, ok := <-records:
			if !ok {
				_ = conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber fell behind"),
					time.Now().Add(time.Second),
				)
				return
			}
			if err := s.write(conn, rec); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "inspector shutting down"),
				time.Now().Add(time.Second),
			)
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, rec Record) error {
	_ = conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := conn.WriteJSON(rec); err != nil {
		s.logger.Debug("inspector write failed", "seq", rec.Seq, "error", err)
		return err
	}
	return nil
}
