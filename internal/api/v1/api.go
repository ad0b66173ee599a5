package v1 // import "github.com/Xunop/e-library/internal/api/v1"

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Xunop/e-library/internal/library"
	"github.com/Xunop/e-library/internal/middleware"
)

type Handler struct {
	service *library.Service
}

// NewHandler is a constructor for the v1.Handler
func NewHandler(service *library.Service) *Handler {
	return &Handler{service: service}
}

func Serve(router *mux.Router, handler *Handler) {
	sr := router.PathPrefix("/api/v1").Subrouter()
	sr.Use(middleware.HandleCORS)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet).Name("apiListBooks")
	sr.HandleFunc("/books/{id:[0-9]+}", handler.getBook).Methods(http.MethodGet).Name("apiGetBook")
	sr.HandleFunc("/authors", handler.listAuthors).Methods(http.MethodGet).Name("apiListAuthors")
}
