package domain

import "time"

// User is the domain model for pet owners. PasswordHash never leaves the
// service boundary.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
