package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/model"
	"agridynamic/internal/repository"
)

// UserService exposes user administration.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetRole(ctx context.Context, id string, role model.Role) (*model.User, error)
	EnsureAdministrator(ctx context.Context, name, email, password string) (*model.User, bool, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	userID, err := parseID("User", id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) SetRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperrors.Validation("Please provide valid values for: role.", "role")
	}
	userID, err := parseID("User", id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Role == role {
		return user, nil
	}

	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// EnsureAdministrator creates an administrator account, or promotes and
// re-keys the existing account with that email. It reports whether the
// account was created.
func (s *userService) EnsureAdministrator(ctx context.Context, name, email, password string) (*model.User, bool, error) {
	if len(password) < MinPasswordLength {
		return nil, false, ErrPasswordTooShort
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, false, err
	}

	email = normalizeEmail(email)
	user, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		user.Role = model.RoleAdministrator
		user.PasswordHash = hashed
		if name = strings.TrimSpace(name); name != "" {
			user.Name = name
		}
		if err := checkEntity(user); err != nil {
			return nil, false, err
		}
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, false, fmt.Errorf("update user: %w", err)
		}
		return user, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	user = &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleAdministrator,
	}
	if err := checkEntity(user); err != nil {
		return nil, false, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}
