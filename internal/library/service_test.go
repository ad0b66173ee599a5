package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/store/db"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	d, err := db.NewDB(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	require.NoError(t, d.Migrate(context.Background()))
	s := store.NewStore(d.DB)
	t.Cleanup(func() { s.Close() })
	return NewService(s)
}

func addAuthor(t *testing.T, s *Service, name string) *model.Author {
	t.Helper()
	res, err := s.AddAuthor(context.Background(), &model.AuthorCreateRequest{Name: name})
	require.NoError(t, err)
	return res.Author
}

func addBook(t *testing.T, s *Service, isbn, title, author, year string) *model.Book {
	t.Helper()
	res, err := s.AddBook(context.Background(), &model.BookCreateRequest{ISBN: isbn, Title: title, Author: author, Year: year})
	require.NoError(t, err)
	return res.Book
}

func TestAddAuthor(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	res, err := s.AddAuthor(ctx, &model.AuthorCreateRequest{Name: "  Jane Austen ", BirthDate: "1775-12-16"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Austen", res.Author.Name)
	assert.Equal(t, "Author 'Jane Austen' added successfully.", res.Message)

	_, err = s.AddAuthor(ctx, &model.AuthorCreateRequest{Name: "Jane Austen"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	msg, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Author 'Jane Austen' already exists.", msg)

	_, err = s.AddAuthor(ctx, &model.AuthorCreateRequest{Name: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	msg, _ = UserMessage(err)
	assert.Equal(t, "Author name cannot be empty.", msg)

	names, err := s.AuthorNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane Austen"}, names)
}

func TestAddBook(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	addAuthor(t, s, "Jane Austen")

	res, err := s.AddBook(ctx, &model.BookCreateRequest{ISBN: "9780141439587", Title: "Emma", Author: "Jane Austen", Year: "1815"})
	require.NoError(t, err)
	assert.Equal(t, "Book 'Emma' added successfully.", res.Message)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780141439587-M.jpg", res.Book.Cover)
	assert.Equal(t, "Jane Austen", res.Book.AuthorName)

	_, err = s.AddBook(ctx, &model.BookCreateRequest{ISBN: "9780141439587", Title: "Emma again", Author: "Jane Austen", Year: "1815"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	msg, _ := UserMessage(err)
	assert.Equal(t, "Book with ISBN '9780141439587', 'Emma', already exists.", msg)

	_, err = s.AddBook(ctx, &model.BookCreateRequest{ISBN: "9780141439518", Title: "Persuasion", Author: "Nobody", Year: "1817"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	msg, _ = UserMessage(err)
	assert.Equal(t, "Author 'Nobody' not found.", msg)

	_, err = s.AddBook(ctx, &model.BookCreateRequest{ISBN: "", Title: "", Author: "Jane Austen", Year: "1817"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	msg, _ = UserMessage(err)
	assert.Equal(t, "ISBN is required. Title is required.", msg)
}

func TestListBooks(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	addAuthor(t, s, "Jane Austen")
	addAuthor(t, s, "Charles Dickens")
	addBook(t, s, "1", "Emma", "Jane Austen", "1815")
	addBook(t, s, "2", "Bleak House", "Charles Dickens", "1853")
	addBook(t, s, "3", "Persuasion", "Jane Austen", "1817")

	list, err := s.ListBooks(ctx, ListBooksRequest{Sort: "year", Order: "desc"})
	require.NoError(t, err)
	assert.Equal(t, model.SortByYear, list.SortBy)
	assert.Equal(t, model.OrderDesc, list.Order)
	require.Len(t, list.Books, 3)
	assert.Equal(t, "Bleak House", list.Books[0].Title)
	assert.Equal(t, "Emma", list.Books[2].Title)

	list, err = s.ListBooks(ctx, ListBooksRequest{Search: "AUSTEN", Sort: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, model.SortByTitle, list.SortBy)
	require.Len(t, list.Books, 2)
	assert.Equal(t, "Emma", list.Books[0].Title)
	assert.Empty(t, list.Message)

	list, err = s.ListBooks(ctx, ListBooksRequest{Search: "tolstoy"})
	require.NoError(t, err)
	assert.Empty(t, list.Books)
	assert.Equal(t, "Search term 'tolstoy' not found.", list.Message)
}

func TestDeleteBookRemovesLastAuthor(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	addAuthor(t, s, "Jane Austen")
	emma := addBook(t, s, "1", "Emma", "Jane Austen", "1815")
	persuasion := addBook(t, s, "2", "Persuasion", "Jane Austen", "1817")

	res, err := s.DeleteBook(ctx, emma.ID)
	require.NoError(t, err)
	assert.False(t, res.AuthorRemoved)
	assert.Equal(t, "Book 'Emma' deleted successfully.", res.Message)

	res, err = s.DeleteBook(ctx, persuasion.ID)
	require.NoError(t, err)
	assert.True(t, res.AuthorRemoved)

	authors, err := s.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Empty(t, authors)

	_, err = s.DeleteBook(ctx, persuasion.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.GetBook(ctx, 0)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "success", resultLabel(nil))
	assert.Equal(t, "invalid", resultLabel(ValidationError("bad")))
	assert.Equal(t, "conflict", resultLabel(ConflictError("dup")))
	assert.Equal(t, "not_found", resultLabel(errors.Wrap(NotFoundError("gone"), "wrapped")))
	assert.Equal(t, "error", resultLabel(errors.New("boom")))
}

func TestDeleteMissingBookKeepsTables(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	addAuthor(t, s, "Jane Austen")
	emma := addBook(t, s, "0000000001", "Emma", "Jane Austen", "1815")

	authors, books, err := s.store.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, authors)
	require.Equal(t, 1, books)

	_, err = s.DeleteBook(ctx, emma.ID+100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	msg, _ := UserMessage(err)
	assert.Equal(t, "Book not found.", msg)

	afterAuthors, afterBooks, err := s.store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, authors, afterAuthors)
	assert.Equal(t, books, afterBooks)

	book, err := s.GetBook(ctx, emma.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emma", book.Title)
}

func TestISBNConflictNamesExistingTitle(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	addAuthor(t, s, "Jane Austen")
	addBook(t, s, "0000000001", "Emma", "Jane Austen", "1815")

	err := s.isbnConflict(ctx, "0000000001")
	assert.True(t, errors.Is(err, ErrConflict))
	msg, _ := UserMessage(err)
	assert.Equal(t, "Book with ISBN '0000000001', 'Emma', already exists.", msg)
}

func TestBlankSearchListsEverything(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	addAuthor(t, s, "Jane Austen")
	addBook(t, s, "1", "Emma", "Jane Austen", "1815")

	list, err := s.ListBooks(ctx, ListBooksRequest{Search: "   "})
	require.NoError(t, err)
	assert.Len(t, list.Books, 1)
	assert.Empty(t, list.Search)
	assert.Empty(t, list.Message)
}
