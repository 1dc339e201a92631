package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mashaer-transit/kiosk/internal/kiosk/engine"
)

// Dependencies wires the operator-facing HTTP surface. The engine is the
// only consumer of command results; everything here is a thin guard-checked
// pass-through.
type Dependencies struct {
	Logger  *log.Logger
	Addr    string
	Engine  *engine.Engine
	Metrics prometheus.Gatherer // nil disables /metrics
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	engine     *engine.Engine
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger: d.Logger,
		mux:    mux,
		engine: d.Engine,
	}

	mux.HandleFunc("POST /v1/pin/digit", s.handlePinDigit)
	mux.HandleFunc("POST /v1/pin/submit", s.handlePinSubmit)
	mux.HandleFunc("POST /v1/trip/end", s.handleTripEnd)
	mux.HandleFunc("POST /v1/trip/start-new", s.handleTripStartNew)
	mux.HandleFunc("POST /v1/door/toggle", s.handleDoorToggle)
	mux.HandleFunc("GET /v1/status", s.handleStatus)

	if d.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))
	}

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type pinDigitRequest struct {
	Digit string `json:"digit"`
}

type commandResponse struct {
	OK    bool          `json:"ok"`
	State engine.Status `json:"status"`
}

func (s *Server) handlePinDigit(w http.ResponseWriter, r *http.Request) {
	var req pinDigitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if len(req.Digit) != 1 {
		writeError(w, http.StatusBadRequest, "bad_digit", "digit must be a single character 0-9")
		return
	}

	s.command(w, func() error { return s.engine.EnterPINDigit(req.Digit[0]) })
}

func (s *Server) handlePinSubmit(w http.ResponseWriter, r *http.Request) {
	s.command(w, s.engine.SubmitPIN)
}

func (s *Server) handleTripEnd(w http.ResponseWriter, r *http.Request) {
	s.command(w, s.engine.EndTrip)
}

func (s *Server) handleTripStartNew(w http.ResponseWriter, r *http.Request) {
	s.command(w, s.engine.StartNewTrip)
}

func (s *Server) handleDoorToggle(w http.ResponseWriter, r *http.Request) {
	s.command(w, s.engine.ToggleDoor)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Status())
}

// command runs an engine command and maps its guard errors onto HTTP status
// codes. Guard failures are expected operator input, not server errors.
func (s *Server) command(w http.ResponseWriter, fn func() error) {
	err := fn()
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, commandResponse{OK: true, State: s.engine.Status()})
	case errors.Is(err, engine.ErrWrongState):
		writeError(w, http.StatusConflict, "wrong_state", err.Error())
	case errors.Is(err, engine.ErrWrongPIN):
		writeError(w, http.StatusForbidden, "wrong_pin", err.Error())
	case errors.Is(err, engine.ErrBadDigit):
		writeError(w, http.StatusBadRequest, "bad_digit", err.Error())
	default:
		s.logger.Printf("command error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}
