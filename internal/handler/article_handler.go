package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agridynamic/internal/auth"
	"agridynamic/internal/media"
	"agridynamic/internal/model"
	"agridynamic/internal/service"
)

// ArticleHandler handles project and article endpoints.
type ArticleHandler struct {
	svc service.ArticleService
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(svc service.ArticleService) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// ArticleRequest is the create/update payload. Absent fields are left unchanged
// on update. Multipart bodies may carry the image as a file named "image".
type ArticleRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Image           *string    `json:"image"`
	Published       *bool      `json:"published"`
	Status          *string    `json:"status"`
	Background      *string    `json:"background"`
	Methodology     *string    `json:"methodology"`
	Results         *string    `json:"results"`
	Conclusions     *string    `json:"conclusions"`
	Recommendations *string    `json:"recommendations"`
	Application     *string    `json:"application"`
	Contributors    stringList `json:"contributors" swaggertype:"array,string"`
}

func (h *ArticleHandler) parse(c echo.Context) (service.ArticleInput, error) {
	var req ArticleRequest
	if isForm(c) {
		form, err := readForm(c)
		if err != nil {
			return service.ArticleInput{}, err
		}
		published, err := form.boolean("published")
		if err != nil {
			return service.ArticleInput{}, err
		}
		req = ArticleRequest{
			Title:           form.str("title"),
			Description:     form.str("description"),
			Image:           form.str("image"),
			Published:       published,
			Status:          form.str("status"),
			Background:      form.str("background"),
			Methodology:     form.str("methodology"),
			Results:         form.str("results"),
			Conclusions:     form.str("conclusions"),
			Recommendations: form.str("recommendations"),
			Application:     form.str("application"),
			Contributors:    form.list("contributors"),
		}
	} else if err := c.Bind(&req); err != nil {
		return service.ArticleInput{}, errMalformedBody
	}

	file, err := readUpload(c, "image")
	if err != nil {
		return service.ArticleInput{}, err
	}

	return service.ArticleInput{
		Title:           req.Title,
		Description:     req.Description,
		Published:       req.Published,
		Status:          req.Status,
		Background:      req.Background,
		Methodology:     req.Methodology,
		Results:         req.Results,
		Conclusions:     req.Conclusions,
		Recommendations: req.Recommendations,
		Application:     req.Application,
		Contributors:    req.Contributors,
		Image:           media.SourceFrom(file, deref(req.Image)),
	}, nil
}

// ListArticles godoc
// @Summary List articles
// @Tags articles
// @Produce json
// @Param status query string false "Lifecycle status" Enums(upcoming, in-progress, completed, archived)
// @Param published query bool false "Publication flag"
// @Success 200 {array} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Router /articles [get]
func (h *ArticleHandler) ListArticles(c echo.Context) error {
	filter := model.ArticleFilter{Status: model.ArticleStatus(c.QueryParam("status"))}
	published, err := formValues(c.QueryParams()).boolean("published")
	if err != nil {
		return fail(err)
	}
	filter.Published = published

	articles, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, articles)
}

// ListCards godoc
// @Summary List article cards
// @Description Reduced projection of upcoming, in-progress and completed entries.
// @Tags articles
// @Produce json
// @Success 200 {array} model.ArticleCard
// @Router /articles/cards [get]
func (h *ArticleHandler) ListCards(c echo.Context) error {
	cards, err := h.svc.Cards(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, cards)
}

// GetArticle godoc
// @Summary Get article by id
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [get]
func (h *ArticleHandler) GetArticle(c echo.Context) error {
	article, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, article)
}

// CreateArticle godoc
// @Summary Create article
// @Tags articles
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body ArticleRequest true "Article"
// @Param image formData file false "Image file"
// @Success 201 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /articles [post]
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	in, err := h.parse(c)
	if err != nil {
		return fail(err)
	}

	var author *uuid.UUID
	if user, ok := auth.CurrentUser(c); ok {
		author = &user.ID
	}

	article, err := h.svc.Create(c.Request().Context(), author, in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, article)
}

// UpdateArticle godoc
// @Summary Update article
// @Tags articles
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Param request body ArticleRequest true "Fields to change"
// @Param image formData file false "Replacement image"
// @Success 200 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [put]
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	in, err := h.parse(c)
	if err != nil {
		return fail(err)
	}

	article, err := h.svc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, article)
}

// DeleteArticle godoc
// @Summary Delete article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path string true "Article ID"
// @Success 200 {object} service.Deleted
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	res, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, res)
}
