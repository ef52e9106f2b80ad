package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"agridynamic/internal/auth"
	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/model"
	"agridynamic/internal/repository"
)

const (
	bcryptCost = 10

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
)

var (
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = apperrors.Conflict("User already exists")
	// ErrEmailInUse is returned when a profile update targets another user's email.
	ErrEmailInUse = apperrors.Conflict("Email already in use")
	// ErrUserNotFound is returned when the user record does not exist.
	ErrUserNotFound = apperrors.NotFound("User not found")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = apperrors.Validation(fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength), "password")
)

// Session is the result of a successful registration or login.
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// ProfileUpdate carries the fields of a partial profile update. Nil means unchanged.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// AuthService handles registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Profile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a standard user with a hashed password and signs them in.
func (s *authService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	user := &model.User{
		Name:  strings.TrimSpace(name),
		Email: normalizeEmail(email),
		Role:  model.RoleStandard,
	}
	if err := checkEntity(user); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	// If error is not "record not found", return it (could be a database error)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hashedPassword

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.session(user)
}

// Login verifies credentials. Unknown email and wrong password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the supplied fields. A new password is re-hashed.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	setString(&user.Name, update.Name, strings.TrimSpace)
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if email != user.Email {
			other, err := s.userRepo.FindByEmail(ctx, email)
			if err == nil && other != nil && other.ID != user.ID {
				return nil, ErrEmailInUse
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
		}
		user.Email = email
	}
	if err := checkEntity(user); err != nil {
		return nil, err
	}

	if update.Password != nil {
		if len(*update.Password) < MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := hashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *authService) session(user *model.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
