// Package transport exposes the relay over WebSocket: one socket per
// client, JSON envelopes in, ack + event frames out. The transport owns
// connection identity and lifecycle; room semantics live in the session
// and runtime packages.
package transport

import (
	"chat-relay/contract"
	"chat-relay/session"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Server struct {
	log        *slog.Logger
	registry   contract.Registry
	gateway    contract.Gateway
	moderator  contract.Moderator
	staticDir  string
	bufferSize int
	upgrader   websocket.Upgrader
}

func NewServer(log *slog.Logger, registry contract.Registry, gateway contract.Gateway,
	moderator contract.Moderator, staticDir string, bufferSize int) *Server {
	return &Server{
		log:        log,
		registry:   registry,
		gateway:    gateway,
		moderator:  moderator,
		staticDir:  staticDir,
		bufferSize: bufferSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients are served from the same process; no origin policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler routes the static client assets and the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/ws", s.handleSocket)
	return mux
}

// Run serves until ctx is canceled, then drains with a graceful shutdown.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("Relay listening", "address", addr, "at", time.Now().UTC())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// handleSocket upgrades the connection, wires sink + session, and runs
// the pumps. The handler goroutine is the read pump; when it returns the
// session is unwound whether or not the client ever joined.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Upgrade failed", "err", err)
		return
	}

	id := uuid.NewString()
	sink := NewChannelSink(s.bufferSize)
	sess := session.New(id, s.registry, s.gateway, s.moderator, s.log)
	c := newConn(id, ws, sink, sess, s.log)

	s.gateway.Attach(id, sink)
	s.log.Debug("Connection opened", "connection_id", id, "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	go c.writePump(ctx)

	c.readPump(ctx)

	// Unwind order matters: remove presence (broadcasting the leave
	// notice to survivors) before forgetting the sink.
	sess.Disconnect(context.WithoutCancel(ctx))
	s.gateway.Detach(id)
	cancel()
	_ = ws.Close()
	s.log.Debug("Connection closed", "connection_id", id)
}
