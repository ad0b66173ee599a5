package middleware // import "github.com/Xunop/e-library/internal/middleware"

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// RequestContext stores the client IP and a request id in the request context.
// A valid X-Request-ID sent by the client is reused, otherwise a new one is generated.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := r.Context()
		ctx = context.WithValue(ctx, request.ClientIPContextKey, request.FindClientIP(r))
		ctx = context.WithValue(ctx, request.RequestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingRequest logs every request and records it in the request metrics.
func LoggingRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		t1 := time.Now()
		defer func() {
			duration := time.Since(t1)
			route := routeName(r)
			metrics.ObserveRequest(route, r.Method, recorder.status, duration)
			log.Debug("Incoming request",
				zap.String("request_id", request.RequestID(r)),
				zap.String("route", route),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("proto", r.Proto),
				zap.String("client_ip", request.ClientIP(r)),
				zap.Int("status", recorder.status),
				zap.Duration("duration", duration))
		}()

		next.ServeHTTP(recorder, r)
	})
}

// HandleCORS allows cross-origin reads of the JSON API.
func HandleCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", "7200")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if name := route.GetName(); name != "" {
			return name
		}
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unknown"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
