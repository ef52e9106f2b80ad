package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agridynamic/internal/model"
	"agridynamic/internal/service"
)

// EnquiryHandler handles contact form endpoints.
type EnquiryHandler struct {
	svc service.EnquiryService
}

// NewEnquiryHandler creates a new enquiry handler.
func NewEnquiryHandler(svc service.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{svc: svc}
}

// EnquiryRequest is a public submission.
type EnquiryRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Message *string `json:"message"`
}

// EnquiryUpdateRequest is an administrator's change. Reply is mailed to the submitter.
type EnquiryUpdateRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Message *string `json:"message"`
	Status  *string `json:"status"`
	Reply   *string `json:"reply"`
}

// SubmissionResponse acknowledges a submitted enquiry.
type SubmissionResponse struct {
	Message   string              `json:"message"`
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Status    model.EnquiryStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// SubmitEnquiry godoc
// @Summary Submit an enquiry
// @Tags enquiries
// @Accept json
// @Produce json
// @Param request body EnquiryRequest true "Enquiry"
// @Success 201 {object} SubmissionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /enquiries [post]
func (h *EnquiryHandler) SubmitEnquiry(c echo.Context) error {
	var req EnquiryRequest
	if isForm(c) {
		form, err := readForm(c)
		if err != nil {
			return fail(err)
		}
		req = EnquiryRequest{Name: form.str("name"), Email: form.str("email"), Message: form.str("message")}
	} else if err := c.Bind(&req); err != nil {
		return fail(errMalformedBody)
	}

	enquiry, err := h.svc.Submit(c.Request().Context(), service.EnquiryInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return fail(err)
	}

	return c.JSON(http.StatusCreated, SubmissionResponse{
		Message:   "Your message has been sent successfully! We will get back to you soon.",
		ID:        enquiry.ID,
		Name:      enquiry.Name,
		Email:     enquiry.Email,
		Status:    enquiry.Status,
		CreatedAt: enquiry.CreatedAt,
	})
}

// ListEnquiries godoc
// @Summary List enquiries
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Enquiry
// @Failure 401 {object} errors.ErrorResponse
// @Router /enquiries [get]
func (h *EnquiryHandler) ListEnquiries(c echo.Context) error {
	enquiries, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, enquiries)
}

// GetEnquiry godoc
// @Summary Get enquiry by id
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enquiry ID"
// @Success 200 {object} model.Enquiry
// @Failure 404 {object} errors.ErrorResponse
// @Router /enquiries/{id} [get]
func (h *EnquiryHandler) GetEnquiry(c echo.Context) error {
	enquiry, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, enquiry)
}

// UpdateEnquiry godoc
// @Summary Update an enquiry
// @Tags enquiries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enquiry ID"
// @Param request body EnquiryUpdateRequest true "Fields to change"
// @Success 200 {object} model.Enquiry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /enquiries/{id} [put]
func (h *EnquiryHandler) UpdateEnquiry(c echo.Context) error {
	var req EnquiryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(errMalformedBody)
	}

	enquiry, err := h.svc.Update(c.Request().Context(), c.Param("id"), service.EnquiryUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Status:  req.Status,
		Reply:   req.Reply,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, enquiry)
}

// DeleteEnquiry godoc
// @Summary Delete an enquiry
// @Tags enquiries
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enquiry ID"
// @Success 200 {object} service.Deleted
// @Failure 404 {object} errors.ErrorResponse
// @Router /enquiries/{id} [delete]
func (h *EnquiryHandler) DeleteEnquiry(c echo.Context) error {
	res, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, res)
}
