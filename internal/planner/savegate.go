package planner

import (
	"fmt"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// CheckSave refuses plans with blocking dependency issues, and plans short of the program's
// required credit hours when requiredCredits is declared.
func CheckSave(courses []models.PlanCourse, known *KnownCodes, requiredCredits *float64) error {
	issues := Validate(courses, known)
	if models.HasBlocking(issues) {
		return &Rejection{
			Kind:    KindSaveBlocked,
			Message: fmt.Sprintf("Resolve %d prerequisite/co-requisite issue(s) before saving.", len(issues)),
			Issues:  issues,
		}
	}

	if requiredCredits != nil && *requiredCredits > 0 {
		total := models.TotalCredits(courses)
		if total < *requiredCredits {
			return &Rejection{
				Kind: KindSaveBlocked,
				Message: fmt.Sprintf("This program requires %s credit hours. Add %s more credits before saving.",
					FormatCredits(*requiredCredits), FormatCredits(*requiredCredits-total)),
			}
		}
	}
	return nil
}
