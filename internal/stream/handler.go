package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"planetmesh/internal/pipeline"
	"planetmesh/pkg/preset"

	"github.com/gorilla/websocket"
)

var (
	ErrEmptyRequest = errors.New("request names neither a preset nor a mesh")
	ErrBusy         = errors.New("build queue is full")
)

// maxRequestBytes bounds a single incoming message.
const maxRequestBytes = 1 << 20

// Handler upgrades HTTP requests to websockets and answers each Request
// with a MeshMessage. Builds run on the shared worker pool; replies may
// arrive in a different order than the requests.
type Handler struct {
	pool     *pipeline.WorkerPool
	presets  *preset.Loader
	upgrader websocket.Upgrader
	logger   *log.Logger

	// MaxSubdivisions caps octahedron requests from clients.
	MaxSubdivisions int
	// MaxGridSize caps cube sphere and box requests from clients.
	MaxGridSize int
}

// NewHandler serves builds through pool. Named presets and inline parents
// are resolved through presets.
func NewHandler(pool *pipeline.WorkerPool, presets *preset.Loader) *Handler {
	return &Handler{
		pool:    pool,
		presets: presets,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:          log.Default(),
		MaxSubdivisions: 6,
		MaxGridSize:     64,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxRequestBytes)

	c := &client{conn: conn, logger: h.logger}
	ctx, cancel := context.WithCancel(r.Context())
	var pending sync.WaitGroup
	defer pending.Wait()
	defer cancel()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Println("WebSocket read error:", err)
			}
			return
		}

		cfg, notes, err := h.config(req)
		if err != nil {
			c.send(errorMessage(req.ID, err))
			continue
		}

		// buffered so a worker never blocks on a client that went away
		results := make(chan pipeline.BuildResult, 1)
		job := pipeline.BuildJob{ID: req.ID, Config: cfg, ResultChan: results}
		start := time.Now()
		if !h.pool.SubmitJob(job) {
			c.send(errorMessage(req.ID, ErrBusy))
			continue
		}

		pending.Add(1)
		go func() {
			defer pending.Done()
			select {
			case res := <-results:
				if res.Error != nil {
					c.send(errorMessage(res.ID, res.Error))
					return
				}
				ms := float64(time.Since(start).Microseconds()) / 1000
				msg := meshMessage(res.ID, res.Mesh, ms)
				msg.Warnings = append(notes, msg.Warnings...)
				c.send(msg)
			case <-ctx.Done():
			}
		}()
	}
}

// config resolves a request into a build configuration. Limits applied to
// the request are returned as advisories for the reply.
func (h *Handler) config(req Request) (pipeline.Config, []string, error) {
	var (
		p   *preset.Preset
		err error
	)
	switch {
	case len(req.Mesh) > 0:
		p, err = h.presets.Parse(req.ID, req.Mesh)
	case req.Preset != "":
		p, err = h.presets.Load(req.Preset)
	default:
		return pipeline.Config{}, nil, ErrEmptyRequest
	}
	if err != nil {
		return pipeline.Config{}, nil, err
	}

	cfg, err := p.Config()
	if err != nil {
		return pipeline.Config{}, nil, err
	}
	var notes []string
	if cfg.Subdivisions > h.MaxSubdivisions {
		note := fmt.Sprintf("subdivisions %d capped to %d", cfg.Subdivisions, h.MaxSubdivisions)
		h.logger.Printf("stream: %s: %s", req.ID, note)
		notes = append(notes, note)
		cfg.Subdivisions = h.MaxSubdivisions
	}
	if cfg.GridSize > h.MaxGridSize {
		return pipeline.Config{}, nil, fmt.Errorf("grid size %d exceeds %d", cfg.GridSize, h.MaxGridSize)
	}
	for _, s := range cfg.Size {
		if s > h.MaxGridSize {
			return pipeline.Config{}, nil, fmt.Errorf("box size %d exceeds %d", s, h.MaxGridSize)
		}
	}
	cfg.Logger = h.logger
	return cfg, notes, nil
}

// PresetsHandler lists the available preset names as JSON.
func (h *Handler) PresetsHandler(w http.ResponseWriter, r *http.Request) {
	names, err := h.presets.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, names)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("response write error:", err)
	}
}

// client serializes writes to one connection.
type client struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	logger *log.Logger
}

func (c *client) send(msg MeshMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Println("WebSocket write error:", err)
	}
}

// Serve registers the websocket endpoint and preset listing on mux.
func (h *Handler) Serve(mux *http.ServeMux) {
	mux.Handle("/ws", h)
	mux.HandleFunc("/presets", h.PresetsHandler)
}

// ListenAndServe runs an HTTP server until ctx is cancelled.
func (h *Handler) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	h.Serve(mux)
	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// SetLogger redirects connection errors and build advisories.
func (h *Handler) SetLogger(l *log.Logger) {
	h.logger = l
}
