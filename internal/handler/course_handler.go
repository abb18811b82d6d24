package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/middleware"
	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, req service.CourseListRequest) ([]models.Course, *models.Pagination, bool, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id string, req service.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}

// CourseHandler exposes the course catalog.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs a CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param search query string false "Match on code or title"
// @Param departmentId query string false "Department filter"
// @Param category query string false "Core, Elective, Lab or Project"
// @Param semester query int false "Semester 1-8"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, pagination, hit, err := h.courses.List(c.Request.Context(), service.CourseListRequest{
		Search:       strings.TrimSpace(c.Query("search")),
		DepartmentID: strings.TrimSpace(c.Query("departmentId")),
		Category:     strings.TrimSpace(c.Query("category")),
		Semester:     queryInt(c, "semester"),
		Page:         queryInt(c, "page"),
		Limit:        queryInt(c, "limit"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, courses, pagination, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Description Replaces editable fields. The course code is immutable.
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body service.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}
	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Course deleted successfully")
}
