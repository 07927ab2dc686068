package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dipanshu-5/EdPlan/internal/dto"
	"github.com/Dipanshu-5/EdPlan/internal/models"
	appErrors "github.com/Dipanshu-5/EdPlan/pkg/errors"
	"github.com/Dipanshu-5/EdPlan/pkg/response"
)

type catalogService interface {
	ListPrograms(ctx context.Context, filter models.ProgramFilter) ([]models.ProgramSummary, error)
	Catalog(ctx context.Context, university, program string) (*models.Program, []models.CatalogCourse, error)
	DefaultPlan(ctx context.Context, university, program string) (*dto.DefaultPlanResponse, error)
	Reload(ctx context.Context) error
}

// CatalogHandler exposes the program catalog.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler builds a new handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListPrograms godoc
// @Summary List catalog programs
// @Tags Catalog
// @Produce json
// @Param search query string false "Case-insensitive program or university search"
// @Param university query string false "University filter"
// @Param distinct query bool false "Keep one entry per program name"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	var query dto.ProgramListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid program query"))
		return
	}
	programs, err := h.service.ListPrograms(c.Request.Context(), models.ProgramFilter{
		Search:     query.Search,
		University: query.University,
		Distinct:   query.Distinct,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, map[string]interface{}{"total": len(programs)})
}

// Courses godoc
// @Summary List the courses of a program, or every catalog course when no program is given
// @Tags Catalog
// @Produce json
// @Param university query string false "University name"
// @Param program query string false "Program name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	var query dto.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catalog query"))
		return
	}
	program, courses, err := h.service.Catalog(c.Request.Context(), query.University, query.Program)
	if err != nil {
		response.Error(c, err)
		return
	}
	if program == nil {
		response.JSON(c, http.StatusOK, courses, map[string]interface{}{"total": len(courses)})
		return
	}
	response.JSON(c, http.StatusOK, dto.ProgramCatalogResponse{Program: program.Summary(), Courses: courses}, nil)
}

// DefaultPlan godoc
// @Summary Get the default plan of a program
// @Tags Catalog
// @Produce json
// @Param university query string true "University name"
// @Param program query string true "Program name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/default-plan [get]
func (h *CatalogHandler) DefaultPlan(c *gin.Context) {
	var query dto.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catalog query"))
		return
	}
	if query.University == "" || query.Program == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "university and program are required"))
		return
	}
	plan, err := h.service.DefaultPlan(c.Request.Context(), query.University, query.Program)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Reload godoc
// @Summary Re-read the catalog file and drop cached catalog entries
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs/reload [post]
func (h *CatalogHandler) Reload(c *gin.Context) {
	if err := h.service.Reload(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "catalog reloaded")
}
