// Package server exposes the lowering engine as a small daemon so build
// orchestrators can hand units over the network instead of shelling out.
// It serves plain HTTP and, optionally, HTTP/3 over QUIC.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/exalt-lang/exalt/internal/diagnostics"
	"github.com/exalt-lang/exalt/internal/lower"
	"github.com/exalt-lang/exalt/internal/source"
	"github.com/exalt-lang/exalt/internal/target"
)

// maxUnitBytes bounds one request body.
const maxUnitBytes = 16 << 20

// LowerResponse is the JSON reply for one lowering request.
type LowerResponse struct {
	Module      string          `json:"module"`
	Code        string          `json:"code"`
	Diagnostics json.RawMessage `json:"diagnostics"`
}

// Handler returns the daemon's HTTP handler.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/v1/lower", handleLower)
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

func handleLower(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUnitBytes))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	unit, err := source.DecodeUnit(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	verbose := r.URL.Query().Get("verbose") == "1"
	sink := diagnostics.NewCollector(verbose)
	eng := lower.NewEngine(lower.Options{Verbose: verbose}, sink)
	mod, err := eng.LowerUnit(unit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	diags, err := sink.MarshalJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := LowerResponse{
		Module:      unit.Module,
		Code:        target.Render(mod),
		Diagnostics: diags,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&resp); err != nil {
		// Too late for an error status; the connection is what it is.
		return
	}
}

// Server runs the daemon on a TCP listener.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// New creates a daemon bound to addr.
func New(addr string) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Start begins serving and returns the bound address, which differs from
// the configured one when addr ends in ":0".
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return "", err
	}
	s.ln = ln
	go func() {
		_ = s.srv.Serve(ln)
	}()
	return ln.Addr().String(), nil
}

// Stop shuts the daemon down, waiting briefly for in-flight requests.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
