package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type courseAllocationService interface {
	List(ctx context.Context, filter models.CourseAllocationFilter) ([]models.CourseAllocation, error)
	Create(ctx context.Context, req service.CreateCourseAllocationRequest) (*models.CourseAllocation, error)
	Delete(ctx context.Context, id string) error
}

// CourseAllocationHandler exposes teaching assignments.
type CourseAllocationHandler struct {
	allocations courseAllocationService
}

// NewCourseAllocationHandler constructs a CourseAllocationHandler.
func NewCourseAllocationHandler(allocations courseAllocationService) *CourseAllocationHandler {
	return &CourseAllocationHandler{allocations: allocations}
}

// List godoc
// @Summary List course allocations
// @Description Course, faculty and class (with department and batch) are populated.
// @Tags Course Allocations
// @Produce json
// @Param facultyId query string false "Faculty filter"
// @Param classId query string false "Class filter"
// @Param courseId query string false "Course filter"
// @Success 200 {object} response.Envelope
// @Router /course-allocations [get]
func (h *CourseAllocationHandler) List(c *gin.Context) {
	allocations, err := h.allocations.List(c.Request.Context(), models.CourseAllocationFilter{
		FacultyID: c.Query("facultyId"),
		ClassID:   c.Query("classId"),
		CourseID:  c.Query("courseId"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocations, nil)
}

// Create godoc
// @Summary Allocate a course
// @Tags Course Allocations
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseAllocationRequest true "Allocation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /course-allocations [post]
func (h *CourseAllocationHandler) Create(c *gin.Context) {
	var req service.CreateCourseAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course allocation payload"))
		return
	}
	allocation, err := h.allocations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, allocation)
}

// Delete godoc
// @Summary Remove a course allocation
// @Tags Course Allocations
// @Produce json
// @Param id path string true "Allocation ID"
// @Success 200 {object} response.Envelope
// @Router /course-allocations/{id} [delete]
func (h *CourseAllocationHandler) Delete(c *gin.Context) {
	if err := h.allocations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Course allocation deleted successfully")
}
