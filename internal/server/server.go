package server // import "github.com/Xunop/e-library/internal/server"

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	v1 "github.com/Xunop/e-library/internal/api/v1"
	"github.com/Xunop/e-library/internal/config"
	"github.com/Xunop/e-library/internal/library"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/middleware"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/ui"
	"github.com/Xunop/e-library/internal/version"
)

const shutdownTimeout = 10 * time.Second

// StartServer starts the HTTP server in the background.
// Errors other than a normal shutdown are sent on the returned channel.
func StartServer(store *store.Store, service *library.Service) (*http.Server, <-chan error, error) {
	handler, err := setupHandler(store, service)
	if err != nil {
		return nil, nil, err
	}

	server := &http.Server{
		Addr:              config.Opts.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, startHTTPServer(server), nil
}

func startHTTPServer(server *http.Server) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "http server error")
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown stops the server, waiting at most shutdownTimeout for in-flight requests.
func Shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("Shutting down HTTP server")
	return server.Shutdown(ctx)
}

func setupHandler(store *store.Store, service *library.Service) (http.Handler, error) {
	router := mux.NewRouter()
	router.Use(middleware.RequestContext)
	router.Use(middleware.LoggingRequest)

	uiHandler, err := ui.NewHandler(service)
	if err != nil {
		return nil, err
	}
	ui.Serve(router, uiHandler)
	v1.Serve(router, v1.NewHandler(service))

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			log.Error("Healthcheck failed", zap.Error(err))
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	if config.Opts.MetricsCollector {
		router.Handle("/metrics", promhttp.Handler()).Name("metrics")
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				route := mux.CurrentRoute(r)

				// Returns a 404 if the client is not authorized to access the metrics endpoint.
				if route != nil && route.GetName() == "metrics" && !isAllowedToAccessMetricsEndpoint(r) {
					log.Warn("Authentication failed while accessing the metrics endpoint",
						zap.String("client_ip", r.RemoteAddr),
						zap.String("client_user_agent", r.UserAgent()),
					)
					http.NotFound(w, r)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	return router, nil
}
