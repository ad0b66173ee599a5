package ui

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/library"
	"github.com/Xunop/e-library/internal/model"
)

func (h *Handler) submitBook(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.AuthorNames(r.Context())
	if err != nil {
		response.HTMLServerError(w, r, err)
		return
	}
	data := &pageData{Title: "Add book", Authors: authors}

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, library.ValidationError("Invalid form."), "add_book", data)
		return
	}

	req := &model.BookCreateRequest{
		ISBN:   request.FormValue(r, "isbn"),
		Title:  request.FormValue(r, "title"),
		Author: request.FormValue(r, "author"),
		Year:   request.FormValue(r, "year"),
	}

	result, err := h.service.AddBook(r.Context(), req)
	if err != nil {
		data.Form = map[string]string{
			"isbn":   req.ISBN,
			"title":  req.Title,
			"author": req.Author,
			"year":   req.Year,
		}
		h.renderError(w, r, err, "add_book", data)
		return
	}

	data.Message = result.Message
	h.render(w, r, http.StatusOK, "add_book", data)
}

func (h *Handler) showDeleteBookPage(w http.ResponseWriter, r *http.Request) {
	id := request.RouteIntParam(r, "id")
	data := &pageData{Title: "Delete book", BookID: id}

	book, err := h.service.GetBook(r.Context(), id)
	switch {
	case err == nil:
		data.Book = book
	case !errors.Is(err, library.ErrNotFound):
		response.HTMLServerError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "delete_book", data)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteIntParam(r, "id")
	data := &pageData{Title: "Delete book", BookID: id}

	result, err := h.service.DeleteBook(r.Context(), id)
	if err != nil {
		data.Status = statusError
		h.renderError(w, r, err, "redirect", data)
		return
	}

	data.Status = statusSuccess
	data.Message = result.Message
	h.render(w, r, http.StatusOK, "redirect", data)
}
