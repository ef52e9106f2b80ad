package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"agridynamic/internal/auth"
	"agridynamic/internal/config"
	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/handler"
	"agridynamic/internal/logging"
	"agridynamic/internal/model"
	"agridynamic/internal/service"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Articles   *handler.ArticleHandler
	Partners   *handler.PartnerHandler
	Volunteers *handler.VolunteerHandler
	Enquiries  *handler.EnquiryHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	tokens *auth.TokenService,
	identities auth.IdentityStore,
	h Handlers,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(logger, cfg.IsProduction())
	e.Validator = &CustomValidator{}

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.MediaMaxUploadBytes)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticate := auth.Authenticate(tokens, identities)
	adminOnly := []echo.MiddlewareFunc{authenticate, auth.RequireRole(model.RoleAdministrator)}

	// Content writes follow the configured policy.
	writers := []echo.MiddlewareFunc{authenticate}
	if cfg.WriteAccess == config.WriteAccessAdmin {
		writers = adminOnly
	}

	api := e.Group("/api")

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/profile", h.Auth.Profile, authenticate)
	api.PUT("/auth/profile", h.Auth.UpdateProfile, authenticate)

	api.GET("/articles", h.Articles.ListArticles)
	api.GET("/articles/cards", h.Articles.ListCards)
	api.GET("/articles/:id", h.Articles.GetArticle)
	api.POST("/articles", h.Articles.CreateArticle, writers...)
	api.PUT("/articles/:id", h.Articles.UpdateArticle, writers...)
	api.DELETE("/articles/:id", h.Articles.DeleteArticle, writers...)

	api.GET("/partners", h.Partners.ListPartners)
	api.GET("/partners/:id", h.Partners.GetPartner)
	api.POST("/partners", h.Partners.CreatePartner, writers...)
	api.PUT("/partners/:id", h.Partners.UpdatePartner, writers...)
	api.DELETE("/partners/:id", h.Partners.DeletePartner, writers...)

	api.GET("/volunteers", h.Volunteers.ListVolunteers)
	api.GET("/volunteers/:id", h.Volunteers.GetVolunteer)
	api.POST("/volunteers", h.Volunteers.CreateVolunteer)
	api.PUT("/volunteers/:id", h.Volunteers.UpdateVolunteer, writers...)
	api.DELETE("/volunteers/:id", h.Volunteers.DeleteVolunteer, writers...)

	api.POST("/enquiries", h.Enquiries.SubmitEnquiry)
	api.GET("/enquiries", h.Enquiries.ListEnquiries, writers...)
	api.GET("/enquiries/:id", h.Enquiries.GetEnquiry, writers...)
	api.PUT("/enquiries/:id", h.Enquiries.UpdateEnquiry, writers...)
	api.DELETE("/enquiries/:id", h.Enquiries.DeleteEnquiry, writers...)

	users := api.Group("/users", adminOnly...)
	users.GET("", h.Users.ListUsers)
	users.GET("/:id", h.Users.GetUser)
	users.PUT("/:id/role", h.Users.SetRole)
}

// bodyLimit leaves room for form fields next to the largest accepted upload.
func bodyLimit(maxUpload int64) string {
	return fmt.Sprintf("%dK", (maxUpload+1<<20)/1024)
}

// ErrorHandler renders every failure as a JSON body with a message. Outside
// production, server errors also carry the underlying error chain.
func ErrorHandler(logger *slog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body, cause := resolveError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("uri", c.Request().RequestURI),
				slog.Any("error", cause),
			)
			if !production && cause != nil {
				body.Stack = fmt.Sprintf("%+v", cause)
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error("write error response", slog.Any("error", writeErr))
		}
	}
}

func resolveError(err error) (int, apperrors.ErrorResponse, error) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		cause := he.Internal
		if cause == nil {
			cause = err
		}
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			return he.Code, msg, cause
		case string:
			if he.Code == http.StatusNotFound {
				msg = "not found"
			}
			return he.Code, apperrors.ErrorResponse{Message: msg}, cause
		default:
			return he.Code, apperrors.ErrorResponse{Message: http.StatusText(he.Code)}, cause
		}
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse(), err
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct{}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return service.ValidateStruct(i)
}
