package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

func TestCheckSaveRefusesBlockingIssues(t *testing.T) {
	plan := []models.PlanCourse{
		planCourse("MATH101", "Calculus I", "First Year", "Fall"),
		withPrereq(planCourse("MATH201", "Calculus II", "First Year", "Fall"), "MATH101"),
	}

	err := CheckSave(plan, NewKnownCodes(nil, plan), nil)

	rejection := requireRejection(t, err, KindSaveBlocked)
	require.Len(t, rejection.Issues, 1)
	assert.Equal(t, models.IssuePrereqOrder, rejection.Issues[0].Type)
}

func TestCheckSaveRefusesMissingCredits(t *testing.T) {
	plan := []models.PlanCourse{
		withCredits(planCourse("ENG101", "Composition", "First Year", "Fall"), 6),
		withCredits(planCourse("HIS101", "History", "First Year", "Fall"), 3),
	}

	err := CheckSave(plan, NewKnownCodes(nil, plan), credits(12))

	rejection := requireRejection(t, err, KindSaveBlocked)
	assert.Equal(t, "This program requires 12 credit hours. Add 3 more credits before saving.", rejection.Message)
	assert.Empty(t, rejection.Issues)
}

func TestCheckSaveAcceptsValidPlan(t *testing.T) {
	plan := []models.PlanCourse{
		withCredits(planCourse("MATH101", "Calculus I", "First Year", "Fall"), 6),
		withCredits(withPrereq(planCourse("MATH201", "Calculus II", "Second Year", "Fall"), "MATH101"), 6),
	}

	assert.NoError(t, CheckSave(plan, NewKnownCodes(nil, plan), credits(12)))
	assert.NoError(t, NewEditor(EditorConfig{Courses: plan, CreditLimit: credits(12)}).CheckSave())
}
