package store

import (
	"context"
	"strings"

	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// bookOrderColumns whitelists the columns a listing may be sorted by.
var bookOrderColumns = map[model.SortKey]string{
	model.SortByTitle:  "b.title",
	model.SortByAuthor: "a.name",
	model.SortByYear:   "b.year",
}

func (s *Store) CreateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	if book.AuthorID <= 0 {
		return nil, errors.Wrap(ErrInvalid, "book has no author")
	}
	if strings.TrimSpace(book.Title) == "" {
		return nil, errors.Wrap(ErrInvalid, "book title is empty")
	}
	cover := book.Cover
	if cover == "" {
		cover = model.CoverURL(book.ISBN)
	}

	stmt := `
		INSERT INTO books (
			isbn,
			title,
			year,
			cover,
			author_id
		) VALUES (?, ?, ?, ?, ?)
		RETURNING id, isbn, title, year, cover, author_id`
	args := []any{book.ISBN, book.Title, book.Year, cover, book.AuthorID}

	var newBook model.Book
	err := s.WithTx(ctx, func(ctx context.Context) error {
		log.Debug("SQL query", zap.String("query", stmt), zap.Any("args", args))
		if err := s.conn(ctx).QueryRowContext(ctx, stmt, args...).Scan(
			&newBook.ID,
			&newBook.ISBN,
			&newBook.Title,
			&newBook.Year,
			&newBook.Cover,
			&newBook.AuthorID,
		); err != nil {
			return err
		}
		return s.conn(ctx).QueryRowContext(ctx, "SELECT name FROM authors WHERE id = ?", newBook.AuthorID).Scan(&newBook.AuthorName)
	})
	if err != nil {
		return nil, convertError(err)
	}
	return &newBook, nil
}

// GetBook returns the first book matching find, nil if there is none.
func (s *Store) GetBook(ctx context.Context, find *model.FindBook) (*model.Book, error) {
	list, err := s.ListBooks(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListBooks returns the books matching find joined with their author.
func (s *Store) ListBooks(ctx context.Context, find *model.FindBook) ([]*model.Book, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "b.id = ?"), append(args, *v)
	}
	if v := find.ISBN; v != nil {
		where, args = append(where, "b.isbn = ?"), append(args, *v)
	}
	if v := find.AuthorID; v != nil {
		where, args = append(where, "b.author_id = ?"), append(args, *v)
	}
	if v := find.Search; v != nil && *v != "" {
		where = append(where, "(instr(casefold(b.title), casefold(?)) > 0 OR instr(casefold(a.name), casefold(?)) > 0)")
		args = append(args, *v, *v)
	}

	orderColumn, ok := bookOrderColumns[find.SortBy]
	if !ok {
		orderColumn = bookOrderColumns[model.SortByTitle]
	}
	direction := "ASC"
	if find.Order == model.OrderDesc {
		direction = "DESC"
	}

	query := `
		SELECT
			b.id,
			b.isbn,
			b.title,
			b.year,
			b.cover,
			b.author_id,
			a.name
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + orderColumn + ` ` + direction + `, b.id ASC`

	log.Debug("SQL query", zap.String("query", query), zap.Any("args", args))

	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query books")
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		var book model.Book
		if err := rows.Scan(
			&book.ID,
			&book.ISBN,
			&book.Title,
			&book.Year,
			&book.Cover,
			&book.AuthorID,
			&book.AuthorName,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan book")
		}
		list = append(list, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteBook removes the book, it reports whether a row was deleted.
func (s *Store) DeleteBook(ctx context.Context, id int) (bool, error) {
	var deleted bool
	err := s.WithTx(ctx, func(ctx context.Context) error {
		result, err := s.conn(ctx).ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "failed to delete book %d", id)
	}
	return deleted, nil
}

func (s *Store) CountBooksByAuthor(ctx context.Context, authorID int) (int, error) {
	var count int
	if err := s.conn(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM books WHERE author_id = ?", authorID).Scan(&count); err != nil {
		return 0, errors.Wrapf(err, "failed to count books of author %d", authorID)
	}
	return count, nil
}

// Counts returns the number of authors and books.
func (s *Store) Counts(ctx context.Context) (authors int, books int, err error) {
	err = s.conn(ctx).QueryRowContext(ctx, "SELECT (SELECT COUNT(*) FROM authors), (SELECT COUNT(*) FROM books)").Scan(&authors, &books)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to count records")
	}
	return authors, books, nil
}
