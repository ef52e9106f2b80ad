package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agridynamic/internal/service"
)

// VolunteerHandler handles volunteer endpoints.
type VolunteerHandler struct {
	svc service.VolunteerService
}

// NewVolunteerHandler creates a new volunteer handler.
func NewVolunteerHandler(svc service.VolunteerService) *VolunteerHandler {
	return &VolunteerHandler{svc: svc}
}

// VolunteerRequest is the create/update payload.
type VolunteerRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

func (h *VolunteerHandler) parse(c echo.Context) (service.VolunteerInput, error) {
	var req VolunteerRequest
	if isForm(c) {
		form, err := readForm(c)
		if err != nil {
			return service.VolunteerInput{}, err
		}
		req = VolunteerRequest{FirstName: form.str("firstName"), LastName: form.str("lastName"), Email: form.str("email")}
	} else if err := c.Bind(&req); err != nil {
		return service.VolunteerInput{}, errMalformedBody
	}
	return service.VolunteerInput{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}, nil
}

// ListVolunteers godoc
// @Summary List volunteers
// @Tags volunteers
// @Produce json
// @Success 200 {array} model.Volunteer
// @Router /volunteers [get]
func (h *VolunteerHandler) ListVolunteers(c echo.Context) error {
	volunteers, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, volunteers)
}

// GetVolunteer godoc
// @Summary Get volunteer by id
// @Tags volunteers
// @Produce json
// @Param id path string true "Volunteer ID"
// @Success 200 {object} model.Volunteer
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /volunteers/{id} [get]
func (h *VolunteerHandler) GetVolunteer(c echo.Context) error {
	volunteer, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, volunteer)
}

// CreateVolunteer godoc
// @Summary Sign up as a volunteer
// @Tags volunteers
// @Accept json
// @Produce json
// @Param request body VolunteerRequest true "Volunteer"
// @Success 201 {object} model.Volunteer
// @Failure 400 {object} errors.ErrorResponse
// @Router /volunteers [post]
func (h *VolunteerHandler) CreateVolunteer(c echo.Context) error {
	in, err := h.parse(c)
	if err != nil {
		return fail(err)
	}
	volunteer, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, volunteer)
}

// UpdateVolunteer godoc
// @Summary Update volunteer
// @Tags volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Volunteer ID"
// @Param request body VolunteerRequest true "Fields to change"
// @Success 200 {object} model.Volunteer
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /volunteers/{id} [put]
func (h *VolunteerHandler) UpdateVolunteer(c echo.Context) error {
	in, err := h.parse(c)
	if err != nil {
		return fail(err)
	}
	volunteer, err := h.svc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, volunteer)
}

// DeleteVolunteer godoc
// @Summary Delete volunteer
// @Tags volunteers
// @Security BearerAuth
// @Param id path string true "Volunteer ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /volunteers/{id} [delete]
func (h *VolunteerHandler) DeleteVolunteer(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
