package handler

import (
	"time"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
)

type CreateAuthorRequest struct {
	FirstName string      `json:"first_name" binding:"required,max=255"`
	LastName  string      `json:"last_name" binding:"required,max=255"`
	Bio       string      `json:"bio" binding:"omitempty,max=2000"`
	BirthDate *model.Date `json:"birth_date" swaggertype:"string" example:"1903-06-25"`
}

type UpdateAuthorRequest struct {
	FirstName *string     `json:"first_name" binding:"omitempty,min=1,max=255"`
	LastName  *string     `json:"last_name" binding:"omitempty,min=1,max=255"`
	Bio       *string     `json:"bio" binding:"omitempty,max=2000"`
	BirthDate *model.Date `json:"birth_date" swaggertype:"string" example:"1903-06-25"`
}

type Author struct {
	ID        uint          `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	FullName  string        `json:"full_name"`
	Bio       string        `json:"bio"`
	BirthDate *model.Date   `json:"birth_date,omitempty" swaggertype:"string" example:"1903-06-25"`
	Books     []BookSummary `json:"books"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type AuthorResponse struct {
	Data Author `json:"data"`
}

type ListAuthorsResponse struct {
	Data []Author `json:"data"`
}

type AuthorStats struct {
	Author         Author `json:"author"`
	TotalBooks     int    `json:"total_books"`
	AvailableBooks int    `json:"available_books"`
	BorrowedBooks  int    `json:"borrowed_books"`
	ReservedBooks  int    `json:"reserved_books"`
}

type AuthorStatsResponse struct {
	Data AuthorStats `json:"data"`
}
