package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/metrics"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/validator"
)

// Service implements the catalog operations on top of the store.
// Every mutation runs in its own store transaction.
type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

type ListBooksRequest struct {
	Search string
	Sort   string
	Order  string
}

type BookList struct {
	Books  []*model.Book   `json:"books"`
	Search string          `json:"search"`
	SortBy model.SortKey   `json:"sort"`
	Order  model.SortOrder `json:"order"`
	// Message is set when a search matched nothing.
	Message string `json:"message,omitempty"`
}

type AuthorResult struct {
	Author  *model.Author
	Message string
}

type BookResult struct {
	Book    *model.Book
	Message string
}

type DeleteBookResult struct {
	Book *model.Book
	// AuthorRemoved is true when the book was the last one of its author.
	AuthorRemoved bool
	Message       string
}

// ListBooks returns all books, filtered by the search term and sorted as requested.
func (s *Service) ListBooks(ctx context.Context, req ListBooksRequest) (*BookList, error) {
	search := strings.TrimSpace(req.Search)
	find := &model.FindBook{
		SortBy: model.ParseSortKey(req.Sort),
		Order:  model.ParseSortOrder(req.Order),
	}
	if search != "" {
		find.Search = &search
	}

	books, err := s.store.ListBooks(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}

	list := &BookList{
		Books:  books,
		Search: search,
		SortBy: find.SortBy,
		Order:  find.Order,
	}
	if search != "" && len(books) == 0 {
		list.Message = fmt.Sprintf("Search term '%s' not found.", search)
	}
	return list, nil
}

func (s *Service) ListAuthors(ctx context.Context) ([]*model.Author, error) {
	authors, err := s.store.ListAuthors(ctx, &model.FindAuthor{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list authors")
	}
	return authors, nil
}

// AuthorNames returns the names of all authors, sorted.
func (s *Service) AuthorNames(ctx context.Context) ([]string, error) {
	authors, err := s.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(authors, func(a *model.Author, _ int) string {
		return a.Name
	}), nil
}

// GetBook returns the book with the given id, or a NotFoundError.
func (s *Service) GetBook(ctx context.Context, id int) (*model.Book, error) {
	if id <= 0 {
		return nil, NotFoundError("Book not found.")
	}
	book, err := s.store.GetBook(ctx, &model.FindBook{ID: &id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get book %d", id)
	}
	if book == nil {
		return nil, NotFoundError("Book not found.")
	}
	return book, nil
}

func (s *Service) AddAuthor(ctx context.Context, req *model.AuthorCreateRequest) (result *AuthorResult, err error) {
	defer func() { metrics.ObserveOperation("add_author", resultLabel(err)) }()

	create := model.AuthorCreateRequest{
		Name:        strings.TrimSpace(req.Name),
		BirthDate:   strings.TrimSpace(req.BirthDate),
		DateOfDeath: strings.TrimSpace(req.DateOfDeath),
	}
	if err := validator.ValidateAuthorCreateRequest(&create); err != nil {
		return nil, ValidationError("%s", validator.Message(err))
	}

	var author *model.Author
	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.store.GetAuthor(ctx, &model.FindAuthor{Name: &create.Name})
		if err != nil {
			return err
		}
		if existing != nil {
			return ConflictError("Author '%s' already exists.", create.Name)
		}

		author, err = s.store.CreateAuthor(ctx, &model.Author{
			Name:        create.Name,
			BirthDate:   create.BirthDate,
			DateOfDeath: create.DateOfDeath,
		})
		return err
	})
	if err != nil {
		if _, ok := UserMessage(err); ok {
			return nil, err
		}
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, ConflictError("Author '%s' already exists.", create.Name)
		case errors.Is(err, store.ErrInvalid):
			return nil, ValidationError("Author name cannot be empty.")
		}
		return nil, errors.Wrap(err, "failed to add author")
	}

	log.Info("Author added", zap.Int("author_id", author.ID), zap.String("name", author.Name))
	return &AuthorResult{
		Author:  author,
		Message: fmt.Sprintf("Author '%s' added successfully.", author.Name),
	}, nil
}

func (s *Service) AddBook(ctx context.Context, req *model.BookCreateRequest) (result *BookResult, err error) {
	defer func() { metrics.ObserveOperation("add_book", resultLabel(err)) }()

	create := model.BookCreateRequest{
		ISBN:   strings.TrimSpace(req.ISBN),
		Title:  strings.TrimSpace(req.Title),
		Author: strings.TrimSpace(req.Author),
		Year:   strings.TrimSpace(req.Year),
	}
	if err := validator.ValidateBookCreateRequest(&create); err != nil {
		return nil, ValidationError("%s", validator.Message(err))
	}

	var book *model.Book
	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.store.GetBook(ctx, &model.FindBook{ISBN: &create.ISBN})
		if err != nil {
			return err
		}
		if existing != nil {
			return ConflictError("Book with ISBN '%s', '%s', already exists.", create.ISBN, existing.Title)
		}

		author, err := s.store.GetAuthor(ctx, &model.FindAuthor{Name: &create.Author})
		if err != nil {
			return err
		}
		if author == nil {
			return NotFoundError("Author '%s' not found.", create.Author)
		}

		book, err = s.store.CreateBook(ctx, &model.Book{
			ISBN:     create.ISBN,
			Title:    create.Title,
			Year:     create.Year,
			Cover:    model.CoverURL(create.ISBN),
			AuthorID: author.ID,
		})
		return err
	})
	if err != nil {
		if _, ok := UserMessage(err); ok {
			return nil, err
		}
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, s.isbnConflict(ctx, create.ISBN)
		case errors.Is(err, store.ErrNotFound):
			return nil, NotFoundError("Author '%s' not found.", create.Author)
		}
		return nil, errors.Wrap(err, "failed to add book")
	}

	log.Info("Book added", zap.Int("book_id", book.ID), zap.String("isbn", book.ISBN))
	return &BookResult{
		Book:    book,
		Message: fmt.Sprintf("Book '%s' added successfully.", book.Title),
	}, nil
}

// DeleteBook removes the book and, when it was the last one, its author.
func (s *Service) DeleteBook(ctx context.Context, id int) (result *DeleteBookResult, err error) {
	defer func() { metrics.ObserveOperation("delete_book", resultLabel(err)) }()

	if id <= 0 {
		return nil, NotFoundError("Book not found.")
	}

	result = &DeleteBookResult{}
	err = s.store.WithTx(ctx, func(ctx context.Context) error {
		book, err := s.store.GetBook(ctx, &model.FindBook{ID: &id})
		if err != nil {
			return err
		}
		if book == nil {
			return NotFoundError("Book not found.")
		}
		result.Book = book

		if _, err := s.store.DeleteBook(ctx, id); err != nil {
			return err
		}

		remaining, err := s.store.CountBooksByAuthor(ctx, book.AuthorID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if result.AuthorRemoved, err = s.store.DeleteAuthor(ctx, book.AuthorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := UserMessage(err); ok {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to delete book %d", id)
	}

	log.Info("Book deleted",
		zap.Int("book_id", id),
		zap.Int("author_id", result.Book.AuthorID),
		zap.Bool("author_removed", result.AuthorRemoved))
	result.Message = fmt.Sprintf("Book '%s' deleted successfully.", result.Book.Title)
	return result, nil
}

// isbnConflict reports a duplicate ISBN with the title of the book already holding it.
func (s *Service) isbnConflict(ctx context.Context, isbn string) error {
	existing, err := s.store.GetBook(ctx, &model.FindBook{ISBN: &isbn})
	if err != nil {
		log.Warn("Unable to load the book holding a duplicate ISBN", zap.String("isbn", isbn), zap.Error(err))
	}
	title := ""
	if existing != nil {
		title = existing.Title
	}
	return ConflictError("Book with ISBN '%s', '%s', already exists.", isbn, title)
}
