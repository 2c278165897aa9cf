package metrics

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	http_pprof "net/http/pprof"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/logging"
	"github.com/ssvlabs/ssv-bridge/logging/fields"
	"github.com/ssvlabs/ssv-bridge/storage/basedb"
)

// Handler serves /metrics, /health and database introspection.
type Handler struct {
	logger        *zap.Logger
	db            basedb.Database
	gatherer      prometheus.Gatherer
	enableProf    bool
	healthChecker HealthChecker
}

func NewHandler(logger *zap.Logger, db basedb.Database, gatherer prometheus.Gatherer, enableProf bool, healthChecker HealthChecker) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		logger:        logger.Named(logging.NameMetricsHandler),
		db:            db,
		gatherer:      gatherer,
		enableProf:    enableProf,
		healthChecker: healthChecker,
	}
}

// Mux registers the handler's routes on a new mux.
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	if h.enableProf {
		configureProfiling()
		// adding pprof routes manually on an own HTTPMux to avoid lint issue:
		// `G108: Profiling endpoint is automatically exposed on /debug/pprof (gosec)`
		mux.HandleFunc("/debug/pprof/", http_pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", http_pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", http_pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", http_pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", http_pprof.Trace)
	}

	mux.Handle("/metrics", promhttp.HandlerFor(
		h.gatherer,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
		},
	))
	mux.HandleFunc("/database/count-by-collection", h.handleCountByCollection)
	mux.HandleFunc("/health", h.handleHealth)
	return mux
}

// Start serves until ctx is done.
func (h *Handler) Start(ctx context.Context, addr string) error {
	h.logger.Info("setup collection", fields.Address(addr), zap.Bool("enableProf", h.enableProf))

	// Set a high timeout to allow for long-running pprof requests.
	const timeout = 600 * time.Second

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      h.Mux(),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen to %s: %w", addr, err)
	}
	return nil
}

// handleCountByCollection responds with the number of key in the database by collection.
// Prefix can be a string or a 0x-prefixed hex string.
// Empty prefix returns the total number of keys in the database.
func (h *Handler) handleCountByCollection(w http.ResponseWriter, r *http.Request) {
	var response struct {
		Count int64 `json:"count"`
	}

	var prefix []byte
	prefixStr := r.URL.Query().Get("prefix")
	if prefixStr != "" {
		if strings.HasPrefix(prefixStr, "0x") {
			var err error
			prefix, err = hex.DecodeString(prefixStr[2:])
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		} else {
			prefix = []byte(prefixStr)
		}
	}

	n, err := h.db.CountPrefix(prefix)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	response.Count = n

	if err := json.NewEncoder(w).Encode(&response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) handleHealth(res http.ResponseWriter, req *http.Request) {
	if err := h.healthChecker.HealthCheck(); err != nil {
		reportHealth(req.Context(), false)
		result := map[string][]string{
			"errors": {err.Error()},
		}
		if raw, err := json.Marshal(result); err != nil {
			http.Error(res, err.Error(), http.StatusInternalServerError)
		} else {
			http.Error(res, string(raw), http.StatusInternalServerError)
		}
		return
	}
	reportHealth(req.Context(), true)
	if _, err := fmt.Fprintln(res, ""); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

func configureProfiling() {
	runtime.SetBlockProfileRate(10000)
	runtime.SetMutexProfileFraction(5)
}
