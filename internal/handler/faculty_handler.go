package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type facultyService interface {
	List(ctx context.Context, req service.FacultyListRequest) ([]models.Faculty, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Faculty, error)
	Create(ctx context.Context, req service.CreateFacultyRequest) (*models.Faculty, error)
	Update(ctx context.Context, id string, req service.UpdateFacultyRequest) (*models.Faculty, error)
	Delete(ctx context.Context, id string) error
}

// FacultyHandler wires faculty management to HTTP routes.
type FacultyHandler struct {
	faculty facultyService
}

// NewFacultyHandler constructs a FacultyHandler.
func NewFacultyHandler(faculty facultyService) *FacultyHandler {
	return &FacultyHandler{faculty: faculty}
}

// List godoc
// @Summary List faculty
// @Tags Faculty
// @Produce json
// @Param search query string false "Case-insensitive match on name or email"
// @Param departmentId query string false "Department filter"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 1000)"
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *FacultyHandler) List(c *gin.Context) {
	faculty, pagination, err := h.faculty.List(c.Request.Context(), service.FacultyListRequest{
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
		Search:       strings.TrimSpace(c.Query("search")),
		DepartmentID: strings.TrimSpace(c.Query("departmentId")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, pagination)
}

// Get godoc
// @Summary Get faculty detail
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	faculty, err := h.faculty.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Create godoc
// @Summary Create faculty
// @Tags Faculty
// @Accept json
// @Produce json
// @Param payload body service.CreateFacultyRequest true "Faculty payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /faculty [post]
func (h *FacultyHandler) Create(c *gin.Context) {
	var req service.CreateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faculty payload"))
		return
	}
	faculty, err := h.faculty.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, faculty)
}

// Update godoc
// @Summary Update faculty
// @Description Partial update; the password is rehashed only when a non-empty one is supplied.
// @Tags Faculty
// @Accept json
// @Produce json
// @Param id path string true "Faculty ID"
// @Param payload body service.UpdateFacultyRequest true "Faculty payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [put]
func (h *FacultyHandler) Update(c *gin.Context) {
	var req service.UpdateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faculty payload"))
		return
	}
	faculty, err := h.faculty.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty, nil)
}

// Delete godoc
// @Summary Delete faculty
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /faculty/{id} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	if err := h.faculty.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Faculty deleted successfully")
}
