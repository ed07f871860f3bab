package models

import (
	"time"

	"github.com/google/uuid"
)

// Module is a subject or workshop a student can be enrolled in and graded on.
// IndexOrder sorts subject rows in printed documents.
type Module struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name" example:"Pré-Mathématiques"`
	Category   string    `json:"category" db:"category" example:"Langage"`
	Active     bool      `json:"active" db:"active"`
	IndexOrder int       `json:"indexOrder" db:"index_order"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
