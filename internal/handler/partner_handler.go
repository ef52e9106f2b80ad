package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agridynamic/internal/media"
	"agridynamic/internal/service"
)

// PartnerHandler handles partner endpoints.
type PartnerHandler struct {
	svc service.PartnerService
}

// NewPartnerHandler creates a new partner handler.
func NewPartnerHandler(svc service.PartnerService) *PartnerHandler {
	return &PartnerHandler{svc: svc}
}

// PartnerRequest is the create/update payload. Multipart bodies may carry the
// logo as a file named "logo".
type PartnerRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
	Logo        *string `json:"logo"`
}

func (h *PartnerHandler) parse(c echo.Context) (service.PartnerInput, error) {
	var req PartnerRequest
	if isForm(c) {
		form, err := readForm(c)
		if err != nil {
			return service.PartnerInput{}, err
		}
		req = PartnerRequest{
			Name:        form.str("name"),
			Description: form.str("description"),
			Link:        form.str("link"),
			Logo:        form.str("logo"),
		}
	} else if err := c.Bind(&req); err != nil {
		return service.PartnerInput{}, errMalformedBody
	}

	file, err := readUpload(c, "logo")
	if err != nil {
		return service.PartnerInput{}, err
	}
	return service.PartnerInput{
		Name:        req.Name,
		Description: req.Description,
		Link:        req.Link,
		Logo:        media.SourceFrom(file, deref(req.Logo)),
	}, nil
}

// ListPartners godoc
// @Summary List partners
// @Tags partners
// @Produce json
// @Success 200 {array} model.Partner
// @Router /partners [get]
func (h *PartnerHandler) ListPartners(c echo.Context) error {
	partners, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, partners)
}

// GetPartner godoc
// @Summary Get partner by id
// @Tags partners
// @Produce json
// @Param id path string true "Partner ID"
// @Success 200 {object} model.Partner
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /partners/{id} [get]
func (h *PartnerHandler) GetPartner(c echo.Context) error {
	partner, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, partner)
}

// CreatePartner godoc
// @Summary Create partner
// @Tags partners
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body PartnerRequest true "Partner"
// @Param logo formData file false "Logo file"
// @Success 201 {object} model.Partner
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /partners [post]
func (h *PartnerHandler) CreatePartner(c echo.Context) error {
	in, err := h.parse(c)
	if err != nil {
		return fail(err)
	}
	partner, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, partner)
}

// UpdatePartner godoc
// @Summary Update partner
// @Tags partners
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Partner ID"
// @Param request body PartnerRequest true "Fields to change"
// @Param logo formData file false "Replacement logo"
// @Success 200 {object} model.Partner
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /partners/{id} [put]
func (h *PartnerHandler) UpdatePartner(c echo.Context) error {
	in, err := h.parse(c)
	if err != nil {
		return fail(err)
	}
	partner, err := h.svc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, partner)
}

// DeletePartner godoc
// @Summary Delete partner
// @Tags partners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Partner ID"
// @Success 200 {object} service.Deleted
// @Failure 404 {object} errors.ErrorResponse
// @Router /partners/{id} [delete]
func (h *PartnerHandler) DeletePartner(c echo.Context) error {
	res, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, res)
}
