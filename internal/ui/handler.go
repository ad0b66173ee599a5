package ui

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/library"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
)

const (
	statusSuccess = "Success!"
	statusError   = "Error!"
)

type Handler struct {
	service   *library.Service
	templates *templateEngine
}

func NewHandler(service *library.Service) (*Handler, error) {
	templates, err := newTemplateEngine()
	if err != nil {
		return nil, err
	}
	return &Handler{service: service, templates: templates}, nil
}

// Serve registers the HTML pages on router.
func Serve(router *mux.Router, h *Handler) {
	router.HandleFunc("/", h.redirectHome).Methods(http.MethodGet).Name("root")
	router.HandleFunc("/home", h.showHomePage).Methods(http.MethodGet).Name("home")
	router.HandleFunc("/add_author", h.showAddAuthorPage).Methods(http.MethodGet).Name("addAuthorPage")
	router.HandleFunc("/add_author", h.submitAuthor).Methods(http.MethodPost).Name("addAuthor")
	router.HandleFunc("/add_book", h.showAddBookPage).Methods(http.MethodGet).Name("addBookPage")
	router.HandleFunc("/add_book", h.submitBook).Methods(http.MethodPost).Name("addBook")
	router.HandleFunc("/book/{id:[0-9]+}/delete", h.showDeleteBookPage).Methods(http.MethodGet).Name("deleteBookPage")
	router.HandleFunc("/book/{id:[0-9]+}/delete", h.deleteBook).Methods(http.MethodPost).Name("deleteBook")
}

type pageData struct {
	Title   string
	Message string
	// Status is the headline of the redirect page.
	Status string

	Books  []*model.Book
	Search string
	SortBy model.SortKey
	Order  model.SortOrder

	Authors []string
	Form    map[string]string

	BookID int
	Book   *model.Book
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, statusCode int, page string, data *pageData) {
	body, err := h.templates.render(page, data)
	if err != nil {
		response.HTMLServerError(w, r, err)
		return
	}
	response.HTML(w, r, statusCode, body)
}

// renderError shows the message of a library error on the page with the matching status code.
// Any other error is a server error.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error, page string, data *pageData) {
	msg, ok := library.UserMessage(err)
	if !ok {
		response.HTMLServerError(w, r, err)
		return
	}

	statusCode := statusCodeFor(err)
	log.Debug("Rejected request",
		zap.String("request_id", request.RequestID(r)),
		zap.String("page", page),
		zap.Int("status", statusCode),
		zap.String("message", msg))

	data.Message = msg
	h.render(w, r, statusCode, page, data)
}

func statusCodeFor(err error) int {
	switch {
	case errors.Is(err, library.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, library.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, library.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request) {
	response.Redirect(w, r, "/home")
}
