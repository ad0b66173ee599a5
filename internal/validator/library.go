package validator // import "github.com/Xunop/e-library/internal/validator"

import (
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/model"
)

var isbnMatcher = regexp.MustCompile(`^[0-9Xx][0-9Xx -]*$`)

// ValidateAuthorCreateRequest checks the fields of a new author, uniqueness is checked by the caller.
func ValidateAuthorCreateRequest(req *model.AuthorCreateRequest) error {
	if req == nil {
		return errors.New("author is nil")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required.Error("Author name cannot be empty."),
			validation.Length(1, 255).Error("Author name is too long."),
		),
		validation.Field(&req.BirthDate, validation.Length(0, 64)),
		validation.Field(&req.DateOfDeath, validation.Length(0, 64)),
	)
}

// ValidateBookCreateRequest checks the fields of a new book, the author and ISBN lookups are done by the caller.
func ValidateBookCreateRequest(req *model.BookCreateRequest) error {
	if req == nil {
		return errors.New("book is nil")
	}
	return validation.ValidateStruct(req,
		validation.Field(&req.ISBN,
			validation.Required.Error("ISBN is required."),
			validation.Length(1, 32).Error("ISBN is too long."),
			validation.Match(isbnMatcher).Error("ISBN may only contain digits, X, spaces and dashes."),
		),
		validation.Field(&req.Title,
			validation.Required.Error("Title is required."),
			validation.Length(1, 255).Error("Title is too long."),
		),
		validation.Field(&req.Author,
			validation.Required.Error("Author is required."),
		),
		validation.Field(&req.Year,
			validation.Required.Error("Year is required."),
			validation.Length(1, 32).Error("Year is too long."),
		),
	)
}

// Message flattens a validation error into one human readable sentence list.
func Message(err error) string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		if errs[field] != nil {
			messages = append(messages, errs[field].Error())
		}
	}
	return strings.Join(messages, " ")
}
