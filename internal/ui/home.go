package ui

import (
	"net/http"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/library"
)

func (h *Handler) showHomePage(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListBooks(r.Context(), library.ListBooksRequest{
		Search: request.QueryStringParam(r, "search", ""),
		Sort:   request.QueryStringParam(r, "sort", "title"),
		Order:  request.QueryStringParam(r, "order", "asc"),
	})
	if err != nil {
		response.HTMLServerError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "home", &pageData{
		Title:   "Library",
		Message: list.Message,
		Books:   list.Books,
		Search:  list.Search,
		SortBy:  list.SortBy,
		Order:   list.Order,
	})
}
