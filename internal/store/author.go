package store

import (
	"context"
	"strings"

	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *Store) CreateAuthor(ctx context.Context, author *model.Author) (*model.Author, error) {
	if strings.TrimSpace(author.Name) == "" {
		return nil, errors.Wrap(ErrInvalid, "author name is empty")
	}

	stmt := `
		INSERT INTO authors (
			name,
			birth_date,
			date_of_death
		) VALUES (?, ?, ?)
		RETURNING id, name, birth_date, date_of_death`
	args := []any{author.Name, author.BirthDate, author.DateOfDeath}

	var newAuthor model.Author
	err := s.WithTx(ctx, func(ctx context.Context) error {
		log.Debug("SQL query", zap.String("query", stmt), zap.Any("args", args))
		return s.conn(ctx).QueryRowContext(ctx, stmt, args...).Scan(
			&newAuthor.ID,
			&newAuthor.Name,
			&newAuthor.BirthDate,
			&newAuthor.DateOfDeath,
		)
	})
	if err != nil {
		return nil, convertError(err)
	}
	return &newAuthor, nil
}

// GetAuthor returns the first author matching find, nil if there is none.
func (s *Store) GetAuthor(ctx context.Context, find *model.FindAuthor) (*model.Author, error) {
	list, err := s.ListAuthors(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListAuthors(ctx context.Context, find *model.FindAuthor) ([]*model.Author, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "a.id = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "a.name = ?"), append(args, *v)
	}

	query := `
		SELECT
			a.id,
			a.name,
			a.birth_date,
			a.date_of_death,
			(SELECT COUNT(*) FROM books b WHERE b.author_id = a.id)
		FROM authors a
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY a.name, a.id`

	log.Debug("SQL query", zap.String("query", query), zap.Any("args", args))

	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query authors")
	}
	defer rows.Close()

	list := make([]*model.Author, 0)
	for rows.Next() {
		var author model.Author
		if err := rows.Scan(
			&author.ID,
			&author.Name,
			&author.BirthDate,
			&author.DateOfDeath,
			&author.BookCount,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan author")
		}
		list = append(list, &author)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteAuthor removes the author, it reports whether a row was deleted.
// Authors still referenced by books cannot be deleted.
func (s *Store) DeleteAuthor(ctx context.Context, id int) (bool, error) {
	var deleted bool
	err := s.WithTx(ctx, func(ctx context.Context) error {
		result, err := s.conn(ctx).ExecContext(ctx, "DELETE FROM authors WHERE id = ?", id)
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
		err = convertError(err)
		if errors.Is(err, ErrNotFound) {
			// The foreign key check failed: books still point at the author.
			return false, errors.Wrapf(ErrConflict, "author %d still has books", id)
		}
		return false, errors.Wrapf(err, "failed to delete author %d", id)
	}
	return deleted, nil
}
