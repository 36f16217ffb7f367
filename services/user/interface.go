package user

import (
	userRepo "dencare/database/repository/user"
	"dencare/models"
)

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Tel      string
	Role     string
}

// UserService handles account registration and authentication.
type UserService interface {
	Register(input RegisterInput) (*models.User, string, error)
	Authenticate(email, password string) (*models.User, string, error)
	GetByID(id string) (*models.User, error)
}

// DefaultUserService implements UserService over the user repository.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}
