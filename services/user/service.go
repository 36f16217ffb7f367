package user

import (
	"errors"
	"fmt"
	"time"

	"dencare/config"
	userRepo "dencare/database/repository/user"
	"dencare/models"
	"dencare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the email or password does
// not match an account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Register creates an account and returns it with a signed token.
func (s *DefaultUserService) Register(input RegisterInput) (*models.User, string, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, "", fmt.Errorf("name, email and password are required")
	}
	if len(input.Password) < 6 {
		return nil, "", fmt.Errorf("password must be at least 6 characters")
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, "", fmt.Errorf("invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:       uuid.New().String(),
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Tel:      input.Tel,
		Role:     role,
	}
	if err := s.Repo.Create(u); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return nil, "", err
		}
		utils.GetLogger().Error("Register: failed to create user", zap.Error(err))
		return nil, "", fmt.Errorf("registration failed, please try again")
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	u.Password = ""
	return u, token, nil
}

// Authenticate verifies credentials and returns the account with a
// signed token.
func (s *DefaultUserService) Authenticate(email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("please provide an email and password")
	}

	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("Authenticate: lookup failed", zap.Error(err))
		return nil, "", fmt.Errorf("authentication failed, please try again")
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	u.Password = ""
	return u, token, nil
}

// GetByID fetches an account profile.
func (s *DefaultUserService) GetByID(id string) (*models.User, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user with id %s not found", id)
	}
	return u, nil
}

func (s *DefaultUserService) issueToken(u *models.User) (string, error) {
	hours := config.AppConfig.JWTExpireHours
	if hours <= 0 {
		hours = 24
	}
	token, err := utils.GenerateToken(u.ID, u.Role, time.Duration(hours)*time.Hour)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}
