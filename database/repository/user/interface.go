package userRepo

import "dencare/models"

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(u *models.User) error
	GetByID(id string) (*models.User, error)
	// GetByEmail returns the user including the password hash, for
	// credential verification. Returns (nil, nil) when absent.
	GetByEmail(email string) (*models.User, error)
	Update(u *models.User) error
	Delete(id string) error
}
