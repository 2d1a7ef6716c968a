package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iLeonidze/tg-attendances-bot/internal/config"
	"github.com/iLeonidze/tg-attendances-bot/logging"
)

// Server exposes /metrics and /healthz over a plain HTTP listener.
type Server struct {
	server *http.Server
}

func NewServer(metricsConfig *config.MetricsConfig, metrics *Metrics) *Server {
	router := httprouter.New()
	router.Handler(http.MethodGet, "/metrics",
		promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	router.GET("/healthz", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &Server{
		server: &http.Server{
			Addr:    metricsConfig.BindAddress,
			Handler: router,
		},
	}
}

func (s *Server) Run() error {
	logging.Logger.Infow("metrics server starting", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
