package dto

import "github.com/Dipanshu-5/EdPlan/internal/models"

// ProgramListQuery captures GET /programs query parameters.
type ProgramListQuery struct {
	Search     string `form:"search"`
	University string `form:"university"`
	// Distinct keeps one entry per program name, as the program picker shows them.
	Distinct bool `form:"distinct"`
}

// CatalogQuery selects a program catalog. Both fields empty means the global course list.
type CatalogQuery struct {
	University string `form:"university"`
	Program    string `form:"program"`
}

// ProgramCatalogResponse is a program together with its flattened courses.
type ProgramCatalogResponse struct {
	Program models.ProgramSummary  `json:"program"`
	Courses []models.CatalogCourse `json:"courses"`
}

// DefaultPlanResponse is the pre-filled plan of a program.
type DefaultPlanResponse struct {
	Program      models.ProgramSummary    `json:"program"`
	Courses      []models.PlanCourse      `json:"courses"`
	Issues       []models.DependencyIssue `json:"issues"`
	TotalCredits float64                  `json:"totalCredits"`
}
