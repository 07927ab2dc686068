package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dipanshu-5/EdPlan/internal/dto"
	"github.com/Dipanshu-5/EdPlan/internal/models"
	appErrors "github.com/Dipanshu-5/EdPlan/pkg/errors"
	"github.com/Dipanshu-5/EdPlan/pkg/response"
)

type planService interface {
	Validate(ctx context.Context, req dto.ValidatePlanRequest) (*dto.ValidatePlanResponse, error)
	AddCourse(ctx context.Context, req dto.AddCourseRequest) (*dto.PlanChangeResponse, error)
	RemoveCourse(ctx context.Context, req dto.RemoveCourseRequest) (*dto.PlanChangeResponse, error)
	ResetToDefault(ctx context.Context, req dto.ResetPlanRequest) (*dto.PlanChangeResponse, error)
	Save(ctx context.Context, req dto.SavePlanRequest, actor *models.JWTClaims) (*models.EducationPlan, error)
	List(ctx context.Context, actor *models.JWTClaims) ([]models.EducationPlan, error)
	Get(ctx context.Context, query dto.PlanQuery, actor *models.JWTClaims) (*models.EducationPlan, error)
	Delete(ctx context.Context, query dto.PlanQuery, actor *models.JWTClaims) error
}

type planExporter interface {
	Export(ctx context.Context, query dto.ExportPlanQuery, actor *models.JWTClaims) (*dto.PlanFile, error)
}

// PlanHandler exposes plan editing and persistence endpoints.
type PlanHandler struct {
	service  planService
	exporter planExporter
}

// NewPlanHandler builds a new handler.
func NewPlanHandler(service planService, exporter planExporter) *PlanHandler {
	return &PlanHandler{service: service, exporter: exporter}
}

// Validate godoc
// @Summary Report prerequisite and co-requisite issues of a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.ValidatePlanRequest true "Plan payload"
// @Success 200 {object} response.Envelope
// @Router /plans/validate [post]
func (h *PlanHandler) Validate(c *gin.Context) {
	var req dto.ValidatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	result, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// AddCourse godoc
// @Summary Add a course to a plan
// @Description Answers 409 with the co-requisite prompt when confirm_corequisites is not set and co-requisites are missing.
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.AddCourseRequest true "Add course payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /plans/courses [post]
func (h *PlanHandler) AddCourse(c *gin.Context) {
	var req dto.AddCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid add course payload"))
		return
	}
	change, err := h.service.AddCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, change, change.Message)
}

// RemoveCourse godoc
// @Summary Remove a course from a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.RemoveCourseRequest true "Remove course payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /plans/courses/remove [post]
func (h *PlanHandler) RemoveCourse(c *gin.Context) {
	var req dto.RemoveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid remove course payload"))
		return
	}
	change, err := h.service.RemoveCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, change, change.Message)
}

// Reset godoc
// @Summary Reset a plan to the program default
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.ResetPlanRequest true "Program selection"
// @Success 200 {object} response.Envelope
// @Router /plans/reset [post]
func (h *PlanHandler) Reset(c *gin.Context) {
	var req dto.ResetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reset payload"))
		return
	}
	change, err := h.service.ResetToDefault(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, change, change.Message)
}

// Save godoc
// @Summary Save a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SavePlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /plans [post]
func (h *PlanHandler) Save(c *gin.Context) {
	var req dto.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	plan, err := h.service.Save(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan, "Education plan saved successfully.")
}

// List godoc
// @Summary List saved plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, map[string]interface{}{"total": len(plans)})
}

// Get godoc
// @Summary Get the saved plan of a program
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param university query string true "University name"
// @Param program query string true "Program name"
// @Param degree query string false "Degree"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /plans/detail [get]
func (h *PlanHandler) Get(c *gin.Context) {
	var query dto.PlanQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan query"))
		return
	}
	plan, err := h.service.Get(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Delete godoc
// @Summary Delete the saved plan of a program
// @Tags Plans
// @Security BearerAuth
// @Param university query string true "University name"
// @Param program query string true "Program name"
// @Param degree query string false "Degree"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /plans [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	var query dto.PlanQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan query"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), query, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Download a saved plan as PDF or CSV
// @Tags Plans
// @Produce application/pdf
// @Produce text/csv
// @Security BearerAuth
// @Param university query string true "University name"
// @Param program query string true "Program name"
// @Param degree query string false "Degree"
// @Param format query string false "pdf or csv" Enums(pdf, csv)
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /plans/export [get]
func (h *PlanHandler) Export(c *gin.Context) {
	var query dto.ExportPlanQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
