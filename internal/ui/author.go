package ui

import (
	"net/http"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/library"
	"github.com/Xunop/e-library/internal/model"
)

func (h *Handler) showAddAuthorPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "add_author", &pageData{Title: "Add author"})
}

func (h *Handler) submitAuthor(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, library.ValidationError("Invalid form."), "add_author", &pageData{Title: "Add author"})
		return
	}

	req := &model.AuthorCreateRequest{
		Name:        request.FormValue(r, "name"),
		BirthDate:   request.FormValue(r, "birth_date"),
		DateOfDeath: request.FormValue(r, "date_of_death"),
	}
	data := &pageData{Title: "Add author"}

	result, err := h.service.AddAuthor(r.Context(), req)
	if err != nil {
		data.Form = map[string]string{
			"name":          req.Name,
			"birth_date":    req.BirthDate,
			"date_of_death": req.DateOfDeath,
		}
		h.renderError(w, r, err, "add_author", data)
		return
	}

	data.Message = result.Message
	h.render(w, r, http.StatusOK, "add_author", data)
}

func (h *Handler) showAddBookPage(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.AuthorNames(r.Context())
	if err != nil {
		response.HTMLServerError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "add_book", &pageData{Title: "Add book", Authors: authors})
}
