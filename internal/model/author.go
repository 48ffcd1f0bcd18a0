package model

import (
	"time"
)

type Author struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"not null;index"`
	LastName  string `gorm:"not null;index"`
	Bio       string
	BirthDate *time.Time `gorm:"type:date"`
	Books     []Book     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt time.Time  `gorm:"index"`
	UpdatedAt time.Time
}

// FullName joins a first and last name with a single space.
func FullName(firstName, lastName string) string {
	return firstName + " " + lastName
}

func (a Author) FullName() string {
	return FullName(a.FirstName, a.LastName)
}
