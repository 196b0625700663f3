// Package stream serves generation runs over WebSocket, one collapse per
// message, so a client can animate a structure as it is built.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/defendertower/internal/config"
	"github.com/lawnchairsociety/defendertower/internal/logger"
	"github.com/lawnchairsociety/defendertower/internal/store"
	"github.com/lawnchairsociety/defendertower/internal/tower"
)

var ErrBadRequest = errors.New("stream: bad request")

const writeWait = 10 * time.Second

// Server streams generation runs to WebSocket clients
type Server struct {
	gen     *tower.Generator
	base    tower.StructureConfig
	cfg     config.StreamConfig
	store   *store.Store
	limiter *ConnLimiter
	log     *slog.Logger
}

// NewServer creates a streaming server. base provides the dimensions used
// when a request leaves them out. st may be nil to skip recording runs.
func NewServer(gen *tower.Generator, base tower.StructureConfig, cfg config.StreamConfig, st *store.Store) *Server {
	return &Server{
		gen:     gen,
		base:    base,
		cfg:     cfg,
		store:   st,
		limiter: NewConnLimiter(cfg.Connections),
		log:     logger.With("component", "stream"),
	}
}

// Limiter returns the server's connection limiter
func (s *Server) Limiter() *ConnLimiter {
	return s.limiter
}

// Handler returns the HTTP routes: /generate upgrades to a stream and
// /healthz reports liveness.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Address,
		Handler: s.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("stream server listening", "address", s.cfg.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down stream server: %w", err)
		}
		return nil
	}
}

// handleGenerate validates the request, then upgrades and streams the run
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	cfg, err := ParseRequest(r, s.base, s.cfg.MaxCells)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	clientIP := realIP(r)
	if !s.limiter.TryAcquire(clientIP) {
		s.log.Warn("stream rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				s.log.Warn("stream rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("WebSocket upgrade failed", "error", err)
		s.limiter.Release(clientIP)
		return
	}

	defer func() {
		s.limiter.Release(clientIP)
		conn.Close()
	}()
	s.serveConn(r.Context(), conn, cfg)
}

// serveConn drives one run from the handler goroutine. A read error means
// the client went away, which cancels the run between steps, as does
// shutting the server down.
func (s *Server) serveConn(parent context.Context, conn *websocket.Conn, cfg tower.StructureConfig) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if s.cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.MaxMessageSize)
	}
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.stream(ctx, conn, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			s.log.Info("stream cancelled", "seed", cfg.Seed)
			return
		}
		s.log.Warn("stream failed", "seed", cfg.Seed, "error", err)
		s.send(conn, ErrorMessage{Type: TypeError, Error: err.Error()})
		return
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}

// stream sends start, one resolve per step and done
func (s *Server) stream(ctx context.Context, conn *websocket.Conn, cfg tower.StructureConfig) error {
	run, err := s.gen.Start(cfg)
	if err != nil {
		return err
	}

	cat := s.gen.Catalog()
	names := make([]string, 0, cat.Len())
	for _, def := range cat.Tiles() {
		names = append(names, def.Name)
	}
	if err := s.send(conn, StartMessage{
		Type:      TypeStart,
		Structure: cfg,
		Catalog:   s.gen.Fingerprint(),
		Tiles:     names,
	}); err != nil {
		return err
	}

	var timer *time.Timer
	for {
		ev, inst, ok := run.Step()
		if !ok {
			break
		}
		if err := s.send(conn, ResolveMessage{
			Type:     TypeResolve,
			Step:     ev.Step,
			Pos:      ev.Pos,
			Tile:     ev.Tile,
			Name:     inst.Name,
			Position: inst.Position,
		}); err != nil {
			return err
		}

		if s.cfg.StepDelay <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		if timer == nil {
			timer = time.NewTimer(s.cfg.StepDelay)
			defer timer.Stop()
		} else {
			timer.Reset(s.cfg.StepDelay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	structure := run.Finish()
	done := newDoneMessage(structure)
	if s.store != nil {
		id, err := s.store.RecordRun(structure)
		if err != nil {
			s.log.Error("failed to record run", "seed", cfg.Seed, "error", err)
		} else {
			done.RunID = id
		}
	}
	return s.send(conn, done)
}

func (s *Server) send(conn *websocket.Conn, msg any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// ParseRequest reads seed, height, size_x, size_z and tile_size from the
// query string on top of base. A missing seed picks one from the clock.
func ParseRequest(r *http.Request, base tower.StructureConfig, maxCells int) (tower.StructureConfig, error) {
	cfg := base
	cfg.Seed = time.Now().UnixNano()
	q := r.URL.Query()

	ints := []struct {
		key string
		dst *int
	}{
		{"size_x", &cfg.SizeX},
		{"height", &cfg.Height},
		{"size_z", &cfg.SizeZ},
	}
	for _, p := range ints {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q is not an integer", ErrBadRequest, p.key, v)
		}
		*p.dst = n
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: seed=%q is not an integer", ErrBadRequest, v)
		}
		cfg.Seed = seed
	}
	if v := q.Get("tile_size"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: tile_size=%q is not a number", ErrBadRequest, v)
		}
		cfg.TileSize = size
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if maxCells > 0 && cfg.Cells() > maxCells {
		return cfg, fmt.Errorf("%w: %d cells requested, limit is %d", ErrBadRequest, cfg.Cells(), maxCells)
	}
	return cfg, nil
}
