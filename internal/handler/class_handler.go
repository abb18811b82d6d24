package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/models"
	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type classService interface {
	List(ctx context.Context, departmentID string) ([]models.Class, error)
	Students(ctx context.Context, classID string) ([]models.Student, error)
	ExportRoster(ctx context.Context, classID, format string) (*service.RosterExport, error)
}

// ClassHandler exposes classes and their rosters.
type ClassHandler struct {
	classes classService
}

// NewClassHandler constructs a ClassHandler.
func NewClassHandler(classes classService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param departmentId query string false "Department filter"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classes.List(c.Request.Context(), c.Query("departmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Students godoc
// @Summary List students of a class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id}/students [get]
func (h *ClassHandler) Students(c *gin.Context) {
	students, err := h.classes.Students(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Export godoc
// @Summary Export a class roster
// @Tags Classes
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Class ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /classes/{id}/students/export [get]
func (h *ClassHandler) Export(c *gin.Context) {
	export, err := h.classes.ExportRoster(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Body)
}
