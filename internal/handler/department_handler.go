package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/middleware"
	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type departmentService interface {
	List(ctx context.Context) ([]models.Department, bool, error)
}

// DepartmentHandler serves the department catalog.
type DepartmentHandler struct {
	departments departmentService
}

// NewDepartmentHandler constructs a DepartmentHandler.
func NewDepartmentHandler(departments departmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// List godoc
// @Summary List departments
// @Tags Departments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, hit, err := h.departments.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, departments, nil, middleware.ExtractMeta(c))
}
