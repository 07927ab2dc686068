package dto

import (
	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// ValidatePlanRequest captures POST /plans/validate payload. University and program may be
// left empty to validate against the global course list.
type ValidatePlanRequest struct {
	University string              `json:"university"`
	Program    string              `json:"program"`
	Courses    []models.PlanCourse `json:"courses" validate:"dive"`
}

// ValidatePlanResponse lists the dependency issues found in a plan.
type ValidatePlanResponse struct {
	Issues          []models.DependencyIssue `json:"issues"`
	Blocking        bool                     `json:"blocking"`
	TotalCredits    float64                  `json:"totalCredits"`
	RequiredCredits *float64                 `json:"requiredCredits,omitempty"`
}

// AddCourseRequest asks to add Course to the submitted plan.
type AddCourseRequest struct {
	University string              `json:"university"`
	Program    string              `json:"program"`
	Courses    []models.PlanCourse `json:"courses" validate:"dive"`
	Course     models.PlanCourse   `json:"course"`
	// ConfirmCorequisites answers the co-requisite prompt. Nil means the question was not asked yet.
	ConfirmCorequisites *bool `json:"confirm_corequisites,omitempty"`
}

// RemoveCourseRequest asks to drop Code from the submitted plan.
type RemoveCourseRequest struct {
	University string              `json:"university"`
	Program    string              `json:"program"`
	Courses    []models.PlanCourse `json:"courses" validate:"dive"`
	Code       string              `json:"code" validate:"required"`
}

// ResetPlanRequest asks for the default plan of a program.
type ResetPlanRequest struct {
	University string `json:"university" validate:"required"`
	Program    string `json:"program" validate:"required"`
}

// PlanChangeResponse is the plan after an accepted change.
type PlanChangeResponse struct {
	Courses      []models.PlanCourse      `json:"courses"`
	Added        []models.PlanCourse      `json:"added,omitempty"`
	Removed      []models.PlanCourse      `json:"removed,omitempty"`
	Issues       []models.DependencyIssue `json:"issues"`
	TotalCredits float64                  `json:"totalCredits"`
	Message      string                   `json:"-"`
}

// SavePlanRequest captures POST /plans payload.
type SavePlanRequest struct {
	University string              `json:"university" validate:"required"`
	Program    string              `json:"program" validate:"required"`
	Degree     string              `json:"degree"`
	Courses    []models.PlanCourse `json:"courses" validate:"required,min=1,dive"`
}

// PlanQuery selects a saved plan.
type PlanQuery struct {
	University string `form:"university" validate:"required"`
	Program    string `form:"program" validate:"required"`
	Degree     string `form:"degree"`
}

// ExportPlanQuery selects a saved plan and the output format.
type ExportPlanQuery struct {
	PlanQuery
	Format string `form:"format" validate:"omitempty,oneof=pdf csv"`
}

// PlanFile is a rendered plan export.
type PlanFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
