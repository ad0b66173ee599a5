package response // import "github.com/Xunop/e-library/internal/http/response"

import (
	"net/http"
)

// Builder generates HTTP responses.
type Builder struct {
	w       http.ResponseWriter
	r       *http.Request
	status  int
	headers map[string]string
	body    []byte
}

// New creates a new response builder with a 200 status code.
func New(w http.ResponseWriter, r *http.Request) *Builder {
	return &Builder{w: w, r: r, status: http.StatusOK, headers: make(map[string]string)}
}

// WithStatus uses the given status code to build the response.
func (b *Builder) WithStatus(statusCode int) *Builder {
	b.status = statusCode
	return b
}

// WithHeader adds a header to the response.
func (b *Builder) WithHeader(key, value string) *Builder {
	b.headers[key] = value
	return b
}

// WithBody uses the given body to build the response.
func (b *Builder) WithBody(body []byte) *Builder {
	b.body = body
	return b
}

// WithoutCaching adds the headers that prevent browsers from caching the response.
func (b *Builder) WithoutCaching() *Builder {
	b.headers["Cache-Control"] = "no-cache, max-age=0, must-revalidate, no-store"
	return b
}

// Write generates the HTTP response.
func (b *Builder) Write() {
	b.w.Header().Set("X-Content-Type-Options", "nosniff")
	b.w.Header().Set("X-Frame-Options", "DENY")
	b.w.Header().Set("Referrer-Policy", "no-referrer")

	for key, value := range b.headers {
		b.w.Header().Set(key, value)
	}

	b.w.WriteHeader(b.status)
	if len(b.body) > 0 {
		b.w.Write(b.body)
	}
}
