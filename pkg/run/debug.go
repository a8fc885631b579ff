package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DebugServer serves run loop diagnostics over HTTP:
//
//	/health   liveness check
//	/cycles   the trace buffer (filters: limit, min_ms, slow)
//	/runtime  runtime samples (filters: limit, window in seconds)
//	/metrics  the Prometheus registry of Metrics
//
// Endpoints whose source is nil answer 503.
type DebugServer struct {
	Trace   *TraceBuffer
	Runtime *RuntimeBuffer
	Metrics *Metrics
	Logger  zerolog.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// Handler returns the diagnostics mux.
func (s *DebugServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/cycles", s.handleCycles)
	mux.HandleFunc("/runtime", s.handleRuntime)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when addr uses port 0.
func (s *DebugServer) Start(addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return "", errors.New("debug server already running")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("debug server listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	server := s.server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error().Err(err).Msg("debug server stopped")
		}
	}()

	bound := listener.Addr().String()
	s.Logger.Info().Str("addr", bound).Msg("debug server listening")
	return bound, nil
}

// Stop shuts the server down, waiting at most two seconds for open requests.
func (s *DebugServer) Stop() error {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func (s *DebugServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *DebugServer) handleCycles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Trace == nil {
		http.Error(w, "cycle tracing disabled", http.StatusServiceUnavailable)
		return
	}

	tl := s.Trace.Snapshot()
	applyCycleFilters(r, &tl)
	writeJSON(w, tl)
}

func (s *DebugServer) handleRuntime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Runtime == nil {
		http.Error(w, "runtime sampling disabled", http.StatusServiceUnavailable)
		return
	}

	samples := applyRuntimeFilters(r, s.Runtime.Snapshot())
	writeJSON(w, struct {
		IntervalMs int64           `json:"intervalMs"`
		Samples    []RuntimeSample `json:"samples"`
	}{
		IntervalMs: s.Runtime.Interval().Milliseconds(),
		Samples:    samples,
	})
}

func (s *DebugServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics.Registry() == nil {
		http.Error(w, "metrics disabled", http.StatusServiceUnavailable)
		return
	}
	s.Metrics.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func applyCycleFilters(r *http.Request, tl *Timeline) {
	var filters []func(CycleSample) bool

	if v := parseFloatQuery(r, "min_ms"); v > 0 {
		floor := time.Duration(v * float64(time.Millisecond))
		filters = append(filters, func(s CycleSample) bool { return s.Phases.Total() >= floor })
	}
	if value := r.URL.Query().Get("slow"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil && parsed {
			threshold := tl.Threshold
			filters = append(filters, func(s CycleSample) bool { return s.Phases.Total() > threshold })
		}
	}

	if len(filters) > 0 {
		filtered := make([]CycleSample, 0, len(tl.Samples))
	outer:
		for _, sample := range tl.Samples {
			for _, f := range filters {
				if !f(sample) {
					continue outer
				}
			}
			filtered = append(filtered, sample)
		}
		tl.Samples = filtered
	}

	if limit := parseLimit(r); limit > 0 && len(tl.Samples) > limit {
		tl.Samples = tl.Samples[len(tl.Samples)-limit:]
	}
}

func applyRuntimeFilters(r *http.Request, samples []RuntimeSample) []RuntimeSample {
	if seconds := parseFloatQuery(r, "window"); seconds > 0 {
		cutoff := time.Now().Add(-time.Duration(seconds * float64(time.Second))).UnixMilli()
		filtered := make([]RuntimeSample, 0, len(samples))
		for _, sample := range samples {
			if sample.Timestamp >= cutoff {
				filtered = append(filtered, sample)
			}
		}
		samples = filtered
	}
	if limit := parseLimit(r); limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	return samples
}

func parseLimit(r *http.Request) int {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func parseFloatQuery(r *http.Request, key string) float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
