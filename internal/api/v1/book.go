package v1

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/library"
	"github.com/Xunop/e-library/internal/model"
)

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListBooks(r.Context(), library.ListBooksRequest{
		Search: request.QueryStringParam(r, "search", ""),
		Sort:   request.QueryStringParam(r, "sort", "title"),
		Order:  request.QueryStringParam(r, "order", "asc"),
	})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if list.Books == nil {
		list.Books = []*model.Book{}
	}
	response.OK(w, r, list)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetBook(r.Context(), request.RouteIntParam(r, "id"))
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			response.NotFound(w, r)
			return
		}
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

type authorResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	BirthDate   string `json:"birth_date,omitempty"`
	DateOfDeath string `json:"date_of_death,omitempty"`
	BookCount   int    `json:"book_count"`
}

func (h *Handler) listAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.ListAuthors(r.Context())
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, lo.Map(authors, func(a *model.Author, _ int) authorResponse {
		return authorResponse{
			ID:          a.ID,
			Name:        a.Name,
			BirthDate:   a.BirthDate,
			DateOfDeath: a.DateOfDeath,
			BookCount:   a.BookCount,
		}
	}))
}
