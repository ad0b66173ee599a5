package response

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/log"
)

const htmlContentType = "text/html; charset=utf-8"

// HTML writes a rendered page with the given status code.
func HTML(w http.ResponseWriter, r *http.Request, statusCode int, body []byte) {
	New(w, r).
		WithStatus(statusCode).
		WithHeader("Content-Type", htmlContentType).
		WithoutCaching().
		WithBody(body).
		Write()
}

// Redirect sends a redirect to the client.
func Redirect(w http.ResponseWriter, r *http.Request, uri string) {
	http.Redirect(w, r, uri, http.StatusFound)
}

// HTMLServerError sends an internal error page to the client, the error itself is only logged.
func HTMLServerError(w http.ResponseWriter, r *http.Request, err error) {
	logServerError(r, err)
	HTML(w, r, http.StatusInternalServerError, []byte(http.StatusText(http.StatusInternalServerError)))
}

func logServerError(r *http.Request, err error) {
	log.Error(http.StatusText(http.StatusInternalServerError),
		zap.Error(err),
		zap.String("client_ip", request.FindClientIP(r)),
		zap.String("request_id", request.RequestID(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", http.StatusInternalServerError),
	)
}
