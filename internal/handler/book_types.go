package handler

import (
	"time"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
)

type CreateBookRequest struct {
	Title         string           `json:"title" binding:"required,max=255"`
	ISBN          string           `json:"isbn" binding:"required,isbn" example:"978-0-452-28423-4"`
	AuthorID      *uint            `json:"author_id" binding:"omitempty,min=1"`
	AuthorName    string           `json:"author_name" binding:"omitempty,max=255"`
	Description   string           `json:"description" binding:"omitempty,max=5000"`
	PublishedDate *model.Date      `json:"published_date" swaggertype:"string" example:"1949-06-08"`
	Status        model.BookStatus `json:"status" binding:"omitempty,oneof=available borrowed reserved" enums:"available,borrowed,reserved"`
}

type UpdateBookRequest struct {
	Title         *string           `json:"title" binding:"omitempty,min=1,max=255"`
	ISBN          *string           `json:"isbn" binding:"omitempty,isbn"`
	AuthorID      *uint             `json:"author_id" binding:"omitempty,min=1"`
	AuthorName    *string           `json:"author_name" binding:"omitempty,max=255"`
	Description   *string           `json:"description" binding:"omitempty,max=5000"`
	PublishedDate *model.Date       `json:"published_date" swaggertype:"string" example:"1949-06-08"`
	Status        *model.BookStatus `json:"status" binding:"omitempty,oneof=available borrowed reserved" enums:"available,borrowed,reserved"`
}

type UpdateBookStatusRequest struct {
	Status model.BookStatus `json:"status" binding:"required,oneof=available borrowed reserved" enums:"available,borrowed,reserved"`
}

type Book struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	ISBN          string           `json:"isbn"`
	AuthorID      *uint            `json:"author_id"`
	AuthorName    string           `json:"author_name"`
	Description   string           `json:"description"`
	PublishedDate *model.Date      `json:"published_date,omitempty" swaggertype:"string" example:"1949-06-08"`
	Status        model.BookStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type BookResponse struct {
	Data Book `json:"data"`
}

type ListBooksResponse struct {
	Data []Book `json:"data"`
}

type BookSummary struct {
	ID            uint             `json:"id"`
	Title         string           `json:"title"`
	ISBN          string           `json:"isbn"`
	Status        model.BookStatus `json:"status"`
	PublishedDate *model.Date      `json:"published_date,omitempty" swaggertype:"string" example:"1949-06-08"`
}
