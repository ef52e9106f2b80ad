package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/model"
)

const (
	subjectContextKey  = "auth_subject"
	identityContextKey = "auth_identity"
)

type identityKey struct{}

// Rejection messages returned by the middleware.
const (
	MsgNoToken       = "Not authorized, no token provided"
	MsgTokenInvalid  = "Not authorized, token failed or invalid"
	MsgUserNotFound  = "Not authorized, user not found"
	MsgNotAdmin      = "Not authorized as an administrator"
	MsgRoleForbidden = "Not authorized for this action"
)

// IdentityStore loads the public identity of a user, without the credential hash.
type IdentityStore interface {
	FindIdentity(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Authenticate resolves the bearer token into an identity and attaches it to the request.
func Authenticate(tokens *TokenService, users IdentityStore) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey:  subjectContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return tokens.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return apperrors.Unauthorized(MsgNoToken)
			}
			return apperrors.Unauthorized(MsgTokenInvalid)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(loadIdentity(users, next))
	}
}

func loadIdentity(users IdentityStore, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		subjectID, ok := c.Get(subjectContextKey).(uuid.UUID)
		if !ok {
			return apperrors.Unauthorized(MsgTokenInvalid)
		}

		req := c.Request()
		user, err := users.FindIdentity(req.Context(), subjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Unauthorized(MsgUserNotFound)
			}
			return apperrors.Internal("load identity", err)
		}

		c.Set(identityContextKey, user)
		c.SetRequest(req.WithContext(WithIdentity(req.Context(), user)))
		return next(c)
	}
}

// RequireRole rejects requests whose attached identity does not hold role.
// It must run after Authenticate.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return apperrors.Unauthorized(MsgTokenInvalid)
			}
			if user.Role != role {
				if role == model.RoleAdministrator {
					return apperrors.Forbidden(MsgNotAdmin)
				}
				return apperrors.Forbidden(MsgRoleForbidden)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the identity attached by Authenticate.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(identityContextKey).(*model.User)
	return user, ok && user != nil
}

// WithIdentity returns a copy of ctx carrying user.
func WithIdentity(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// IdentityFrom retrieves the identity stored by WithIdentity.
func IdentityFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(identityKey{}).(*model.User)
	return user, ok && user != nil
}
