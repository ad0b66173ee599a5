package model // import "github.com/Xunop/e-library/internal/model"

type Author struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	BirthDate   string `json:"birth_date"`
	DateOfDeath string `json:"date_of_death"`
	// BookCount is the number of books referencing the author, filled by listings only.
	BookCount int `json:"book_count"`
}

type FindAuthor struct {
	ID   *int    `json:"id"`
	Name *string `json:"name"`
}

type AuthorCreateRequest struct {
	Name        string `json:"name"`
	BirthDate   string `json:"birth_date"`
	DateOfDeath string `json:"date_of_death"`
}
