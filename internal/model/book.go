package model

import (
	"fmt"
	"strings"
)

const (
	coverURLFormat   = "https://covers.openlibrary.org/b/isbn/%s-M.jpg"
	fallbackCoverURL = "https://covers.openlibrary.org/b/isbn/142157537X-M.jpg"
)

type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByAuthor SortKey = "author"
	SortByYear   SortKey = "year"
)

// ParseSortKey returns the sort key named by s, title for anything unknown.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByAuthor, SortByYear:
		return k
	default:
		return SortByTitle
	}
}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder returns desc only when asked for explicitly.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(OrderDesc)) {
		return OrderDesc
	}
	return OrderAsc
}

type Book struct {
	ID    int    `json:"id"`
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
	// Year is not validated. It is stored with INTEGER affinity, so numeric-looking
	// input is converted: "0815" reads back as "815" and "1e3" as "1000".
	Year     string `json:"year"`
	Cover    string `json:"cover"`
	AuthorID int    `json:"author_id"`
	// AuthorName is denormalized from the authors table by listings.
	AuthorName string `json:"author"`
}

type FindBook struct {
	ID       *int    `json:"id"`
	ISBN     *string `json:"isbn"`
	AuthorID *int    `json:"author_id"`
	// Search matches a case-insensitive substring of the title or the author name.
	Search *string   `json:"search"`
	SortBy SortKey   `json:"sort"`
	Order  SortOrder `json:"order"`
}

type BookCreateRequest struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   string `json:"year"`
}

// CoverURL returns the Open Library cover for isbn, or a fixed cover when isbn is empty.
func CoverURL(isbn string) string {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return fallbackCoverURL
	}
	return fmt.Sprintf(coverURLFormat, isbn)
}
