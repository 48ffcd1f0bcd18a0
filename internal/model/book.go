package model

import (
	"strings"
	"time"
)

type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
	BookStatusBorrowed  BookStatus = "borrowed"
	BookStatusReserved  BookStatus = "reserved"
)

var BookStatuses = []BookStatus{BookStatusAvailable, BookStatusBorrowed, BookStatusReserved}

func (s BookStatus) Valid() bool {
	for _, v := range BookStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// NormalizeISBN drops hyphens and spaces and upper-cases a trailing check
// digit X, so every spelling of one ISBN maps to the same stored key.
func NormalizeISBN(isbn string) string {
	return strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(isbn))
}

type Book struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"not null;index"`
	ISBN          string `gorm:"column:isbn;type:varchar(20);not null;uniqueIndex"`
	AuthorID      *uint  `gorm:"index"`
	AuthorName    string `gorm:"index"`
	Description   string
	PublishedDate *time.Time `gorm:"type:date"`
	Status        BookStatus `gorm:"type:varchar(16);not null;default:available;index"`
	CreatedAt     time.Time  `gorm:"index"`
	UpdatedAt     time.Time
}
