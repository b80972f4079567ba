package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Email     string    `json:"email" db:"email" example:"john.doe2022@vitstudent.ac.in"` // Institutional email address
	Name      string    `json:"name" db:"name" example:"John Doe"`                        // Display name derived from the email on first login
	CreatedAt time.Time `json:"created_at" db:"created_at" example:"2024-01-01T10:00:00Z"`
}
