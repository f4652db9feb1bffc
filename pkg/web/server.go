package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/ritzau/dotlite/pkg/analysis"
	"github.com/ritzau/dotlite/pkg/format"
	"github.com/ritzau/dotlite/pkg/graph"
	"github.com/ritzau/dotlite/pkg/lens"
	"github.com/ritzau/dotlite/pkg/logging"
	"github.com/ritzau/dotlite/pkg/parser"
	"github.com/ritzau/dotlite/pkg/pubsub"
	"github.com/ritzau/dotlite/pkg/render"
)

// MaxDecodeBody caps the size of POST /api/decode bodies
const MaxDecodeBody = 16 << 20

// ErrorResponse is the body of failed API calls. Syntax errors fill in the
// parser details.
type ErrorResponse struct {
	Error    string `json:"error"`
	Reason   string `json:"reason,omitempty"`
	State    string `json:"state,omitempty"`
	Token    string `json:"token,omitempty"`
	Expected string `json:"expected,omitempty"`
	Index    *int   `json:"index,omitempty"`
}

// Server serves a Catalog over HTTP
type Server struct {
	router     *mux.Router
	catalog    *Catalog
	publisher  *pubsub.Broker
	renderer   render.Renderer
	mu         sync.Mutex
	httpServer *http.Server
	stopped    bool
}

// NewServer creates a server for the DOT files under root
func NewServer(root string, workers int) *Server {
	broker := pubsub.NewBroker()

	// New subscribers get the latest status and the recent graph changes
	broker.ConfigureTopic(pubsub.TopicStatus, pubsub.TopicConfig{BufferSize: 10})
	broker.ConfigureTopic(pubsub.TopicGraphs, pubsub.TopicConfig{BufferSize: 50, ReplayAll: true})

	s := &Server{
		router:    mux.NewRouter(),
		catalog:   NewCatalog(root, workers, broker),
		publisher: broker,
		renderer:  render.NewRenderer(),
	}
	s.setupRoutes()
	return s
}

// Catalog returns the catalog served by s
func (s *Server) Catalog() *Catalog {
	return s.catalog
}

// SetRenderer replaces the Graphviz renderer used by the render route
func (s *Server) SetRenderer(r render.Renderer) {
	s.renderer = r
}

// Handler returns the routed handler wrapped in request logging
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/graphs", s.handleSubscribe(pubsub.TopicGraphs)).Methods("GET")
	s.router.HandleFunc("/api/subscribe/status", s.handleSubscribe(pubsub.TopicStatus)).Methods("GET")

	s.router.HandleFunc("/api/decode", s.handleDecode).Methods("POST")

	// Names may contain slashes, so the suffixed routes must come first
	s.router.HandleFunc("/api/graphs", s.handleList).Methods("GET")
	s.router.HandleFunc("/api/graphs/{name:.+}/dot", s.handleDot).Methods("GET")
	s.router.HandleFunc("/api/graphs/{name:.+}/summary", s.handleSummary).Methods("GET")
	s.router.HandleFunc("/api/graphs/{name:.+}/elements", s.handleElements).Methods("GET")
	s.router.HandleFunc("/api/graphs/{name:.+}/render", s.handleRender).Methods("GET")
	s.router.HandleFunc("/api/graphs/{name:.+}/focus", s.handleFocus).Methods("GET")
	s.router.HandleFunc("/api/graphs/{name:.+}", s.handleGraph).Methods("GET")
}

func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		defer sub.Close()

		// Initial comment so clients see the stream open before any event
		fmt.Fprintf(w, ": connected\n\n")
		flush(w)

		for {
			select {
			case <-r.Context().Done():
				return
			case event, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := pubsub.WriteSSE(w, event); err != nil {
					logging.WarnContext(r.Context(), "error writing SSE event", "topic", topic, "error", err)
					return
				}
				flush(w)
			}
		}
	}
}

func flush(w http.ResponseWriter) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}

// entry resolves the {name} route variable. It writes the error response
// and returns nil when the entry is missing or failed to decode.
func (s *Server) entry(w http.ResponseWriter, r *http.Request) *Entry {
	name := mux.Vars(r)["name"]
	e, ok := s.catalog.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("graph not found: %s", name)})
		return nil
	}
	if e.Err != nil {
		writeDecodeError(w, e.Err)
		return nil
	}
	return e
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	if e == nil {
		return
	}

	etag := `"` + lens.Hash(e.Graph) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, e.Graph)
}

// handleFocus serves the part of a graph within ?depth= edges of the
// ?node= nodes. Depth defaults to 1; a negative depth keeps everything
// reachable.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	if e == nil {
		return
	}

	query := r.URL.Query()
	nodes := query["node"]
	if len(nodes) == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "at least one node parameter is required"})
		return
	}
	depth := 1
	if raw := query.Get("depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid depth %q", raw)})
			return
		}
		depth = d
	}

	view, err := lens.Focus(e.Graph, nodes, depth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDot(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	if e == nil {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	io.WriteString(w, format.Serialize(e.Graph, e.GraphName))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	if e == nil {
		return
	}

	outFormat := r.URL.Query().Get("format")
	if outFormat == "" {
		outFormat = "svg"
	}
	contentType, ok := render.Formats[outFormat]
	if !ok {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("unsupported format %q", outFormat)})
		return
	}

	dot := format.Serialize(e.Graph, e.GraphName)
	image, err := s.renderer.Render(r.Context(), []byte(dot), outFormat)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, exec.ErrNotFound) {
			status = http.StatusServiceUnavailable
		}
		logging.WarnContext(r.Context(), "render failed", "graph", e.Name, "format", outFormat, "error", err)
		writeJSON(w, status, ErrorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(image)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	if e == nil {
		return
	}
	summary, err := analysis.Summarize(e.Graph)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	e := s.entry(w, r)
	if e == nil {
		return
	}
	dg, err := graph.FromModel(e.Graph)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, buildGraphData(dg))
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDecodeBody))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, ErrorResponse{Error: err.Error()})
		return
	}

	g, err := parser.ParseBytes(body)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	logging.DebugContext(r.Context(), "decoded posted graph", "nodes", len(g.Nodes), "directed", g.IsDirected)
	writeJSON(w, http.StatusOK, g)
}

// writeDecodeError reports syntax errors as 422 with parser details and any
// other decode failure as 500
func writeDecodeError(w http.ResponseWriter, err error) {
	var se *parser.SyntaxError
	if !errors.As(err, &se) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	index := se.Index
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:    se.Error(),
		Reason:   se.Reason.String(),
		State:    se.State.String(),
		Token:    se.Token.String(),
		Expected: se.Expected,
		Index:    &index,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("failed to write JSON response", "error", err)
	}
}

// Start serves on the given port until Shutdown is called
func (s *Server) Start(port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = srv
	s.mu.Unlock()

	logging.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown closes the event streams and stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.publisher.Close()

	s.mu.Lock()
	s.stopped = true
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
