package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

func credits(v float64) *float64 {
	return &v
}

func withCredits(c models.PlanCourse, v float64) models.PlanCourse {
	c.Credits = credits(v)
	return c
}

func requireRejection(t *testing.T, err error, kind RejectionKind) *Rejection {
	t.Helper()
	require.Error(t, err)
	rejection, ok := AsRejection(err)
	require.True(t, ok, "expected rejection, got %v", err)
	require.Equal(t, kind, rejection.Kind, rejection.Message)
	return rejection
}

func codes(courses []models.PlanCourse) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Code)
	}
	return out
}

func TestAddCourseAppendsAndTagsProvenance(t *testing.T) {
	editor := NewEditor(EditorConfig{Program: "BSc Biology", University: "State U"})

	change, err := editor.AddCourse(planCourse("BIO100", "Intro Biology", "First Year", "Fall"), nil)
	require.NoError(t, err)

	require.Len(t, change.Courses, 1)
	assert.Equal(t, "BSc Biology", change.Courses[0].Program)
	assert.Equal(t, "State U", change.Courses[0].University)
	assert.Equal(t, "Intro Biology added to your plan.", change.Message)
	assert.Equal(t, change.Courses, editor.Courses())
}

func TestAddCourseRejectsDuplicate(t *testing.T) {
	existing := planCourse("MATH101", "Calculus I", "First Year", "Fall")
	editor := NewEditor(EditorConfig{Courses: []models.PlanCourse{existing}})

	_, err := editor.AddCourse(planCourse("MATH101", "Calculus I", "Second Year", "Fall"), nil)

	rejection := requireRejection(t, err, KindDuplicateCourse)
	assert.Equal(t, "Course already in your plan.", rejection.Message)
	assert.Len(t, editor.Courses(), 1)
}

func TestAddCourseRejectsCreditLimit(t *testing.T) {
	editor := NewEditor(EditorConfig{
		CreditLimit: credits(12),
		Courses: []models.PlanCourse{
			withCredits(planCourse("ENG101", "Composition", "First Year", "Fall"), 6),
			withCredits(planCourse("HIS101", "History", "First Year", "Fall"), 4),
		},
	})

	_, err := editor.AddCourse(withCredits(planCourse("ART101", "Art", "First Year", "Spring"), 4), nil)

	rejection := requireRejection(t, err, KindCreditLimitExceeded)
	assert.Equal(t, &CreditLimitWarning{CurrentCredits: 10, AddingCredits: 4, TotalWouldBe: 14, ProgramLimit: 12}, rejection.CreditLimit)
	assert.Len(t, editor.Courses(), 2)
}

func TestAddCourseAllowsReachingCreditLimit(t *testing.T) {
	editor := NewEditor(EditorConfig{
		CreditLimit: credits(12),
		Courses:     []models.PlanCourse{withCredits(planCourse("ENG101", "Composition", "First Year", "Fall"), 10)},
	})

	change, err := editor.AddCourse(withCredits(planCourse("ART101", "Art", "First Year", "Spring"), 2), nil)
	require.NoError(t, err)
	assert.Equal(t, float64(12), models.TotalCredits(change.Courses))
}

func TestAddCoursePrerequisiteChecks(t *testing.T) {
	catalog := []models.CatalogCourse{{Code: "MATH101", Name: "Calculus I", Year: "First Year", Semester: "Fall"}}
	candidate := withPrereq(planCourse("MATH201", "Calculus II", "First Year", "Spring"), "Requires MATH101")

	t.Run("missing", func(t *testing.T) {
		editor := NewEditor(EditorConfig{Catalog: catalog})
		_, err := editor.AddCourse(candidate, nil)
		rejection := requireRejection(t, err, KindPrerequisiteMissing)
		assert.Contains(t, rejection.Message, "MATH101")
		assert.Contains(t, rejection.Message, "Calculus II")
		assert.Empty(t, editor.Courses())
	})

	t.Run("out of order", func(t *testing.T) {
		editor := NewEditor(EditorConfig{
			Catalog: catalog,
			Courses: []models.PlanCourse{planCourse("MATH101", "Calculus I", "Second Year", "Fall")},
		})
		_, err := editor.AddCourse(candidate, nil)
		rejection := requireRejection(t, err, KindPrerequisiteOrder)
		assert.Contains(t, rejection.Message, "Move it to a term before First Year Spring")
		assert.Len(t, editor.Courses(), 1)
	})

	t.Run("satisfied", func(t *testing.T) {
		editor := NewEditor(EditorConfig{
			Catalog: catalog,
			Courses: []models.PlanCourse{planCourse("MATH101", "Calculus I", "First Year", "Fall")},
		})
		change, err := editor.AddCourse(candidate, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"MATH101", "MATH201"}, codes(change.Courses))
	})
}

func TestAddCourseRejectsCorequisiteInAnotherTerm(t *testing.T) {
	editor := NewEditor(EditorConfig{
		Courses: []models.PlanCourse{planCourse("CHEM101", "Chemistry", "Second Year", "Fall")},
	})

	_, err := editor.AddCourse(withCoreq(planCourse("CHEM101L", "Chemistry Lab", "First Year", "Fall"), "Requires CHEM101"), nil)

	rejection := requireRejection(t, err, KindCorequisiteTerm)
	assert.Contains(t, rejection.Message, "same term")
	assert.Len(t, editor.Courses(), 1)
}

func TestAddCourseRejectsCorequisiteNotOfferedInTerm(t *testing.T) {
	editor := NewEditor(EditorConfig{
		Catalog: []models.CatalogCourse{{Code: "CHEM101", Name: "Chemistry", Year: "Second Year", Semester: "Fall"}},
	})
	confirmCalled := false

	_, err := editor.AddCourse(
		withCoreq(planCourse("CHEM101L", "Chemistry Lab", "First Year", "Fall"), "Requires CHEM101"),
		func(CorequisitePrompt) bool { confirmCalled = true; return true },
	)

	rejection := requireRejection(t, err, KindCorequisiteMissing)
	assert.Contains(t, rejection.Message, "must be taken together with CHEM101")
	assert.False(t, confirmCalled)
	assert.Empty(t, editor.Courses())
}

func TestAddCourseRejectsPartiallyOfferedCorequisites(t *testing.T) {
	editor := NewEditor(EditorConfig{
		Catalog: []models.CatalogCourse{
			{Code: "CHEM101", Name: "Chemistry", Year: "First Year", Semester: "Fall"},
			{Code: "MATH150", Name: "Applied Math", Year: "Second Year", Semester: "Fall"},
		},
	})
	confirmCalled := false

	_, err := editor.AddCourse(
		withCoreq(planCourse("CHEM101L", "Chemistry Lab", "First Year", "Fall"), "CHEM101 and MATH150"),
		func(CorequisitePrompt) bool { confirmCalled = true; return true },
	)

	rejection := requireRejection(t, err, KindCorequisiteMissing)
	assert.Contains(t, rejection.Message, "CHEM101, MATH150")
	assert.Equal(t, []string{"CHEM101", "MATH150"}, rejection.Related)
	assert.Nil(t, rejection.Prompt)
	assert.False(t, confirmCalled)
	assert.Empty(t, editor.Courses())
}

func TestAddCourseAutoAddsConfirmedCorequisites(t *testing.T) {
	editor := NewEditor(EditorConfig{
		Program:    "BSc Chemistry",
		University: "State U",
		Catalog: []models.CatalogCourse{
			{Code: "CHEM101", Name: "Chemistry", Year: "First Year", Semester: "Fall", Credits: credits(3)},
			{Code: "CHEM101L", Name: "Chemistry Lab", Year: "First Year", Semester: "Fall", Credits: credits(1)},
		},
	})
	var seen CorequisitePrompt

	change, err := editor.AddCourse(
		withCoreq(planCourse("CHEM101L", "Chemistry Lab", "First Year", "Fall"), "Requires CHEM101"),
		func(prompt CorequisitePrompt) bool { seen = prompt; return true },
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"CHEM101L", "CHEM101"}, codes(change.Courses))
	assert.Equal(t, change.Added, change.Courses)
	assert.Equal(t, "BSc Chemistry", change.Courses[1].Program)
	assert.Equal(t, Term{"First Year", "Fall"}, seen.Term)
	require.Len(t, seen.Corequisites, 1)
	assert.Equal(t, "CHEM101", seen.Corequisites[0].Code)
	assert.Empty(t, editor.Issues())
}

func TestAddCourseDeclinedCorequisitesLeavePlanUnchanged(t *testing.T) {
	catalog := []models.CatalogCourse{{Code: "CHEM101", Name: "Chemistry", Year: "First Year", Semester: "Fall"}}
	candidate := withCoreq(planCourse("CHEM101L", "Chemistry Lab", "First Year", "Fall"), "Requires CHEM101")

	t.Run("declined", func(t *testing.T) {
		editor := NewEditor(EditorConfig{Catalog: catalog})
		_, err := editor.AddCourse(candidate, func(CorequisitePrompt) bool { return false })
		rejection := requireRejection(t, err, KindCorequisiteMissing)
		assert.True(t, rejection.Declined)
		assert.Empty(t, editor.Courses())
	})

	t.Run("no confirmer", func(t *testing.T) {
		editor := NewEditor(EditorConfig{Catalog: catalog})
		_, err := editor.AddCourse(candidate, nil)
		rejection := requireRejection(t, err, KindCorequisiteMissing)
		assert.False(t, rejection.Declined)
		require.NotNil(t, rejection.Prompt)
		assert.Equal(t, "CHEM101", rejection.Prompt.Corequisites[0].Code)
		assert.Empty(t, editor.Courses())
	})
}

func TestAddCourseDoesNotMutateEarlierSnapshots(t *testing.T) {
	editor := NewEditor(EditorConfig{})
	first, err := editor.AddCourse(planCourse("A100", "A", "First Year", "Fall"), nil)
	require.NoError(t, err)
	_, err = editor.AddCourse(planCourse("B100", "B", "First Year", "Fall"), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A100"}, codes(first.Courses))
	assert.Equal(t, []string{"A100", "B100"}, codes(editor.Courses()))
}

func TestRemoveCourseBlockedByCorequisiteDependent(t *testing.T) {
	editor := NewEditor(EditorConfig{Courses: []models.PlanCourse{
		planCourse("BIO101", "Biology", "First Year", "Fall"),
		withCoreq(planCourse("BIO101L", "Biology Lab", "First Year", "Fall"), "Taken with BIO101"),
	}})

	_, err := editor.RemoveCourse("BIO101")

	rejection := requireRejection(t, err, KindRemovalBlocked)
	assert.Contains(t, rejection.Message, "BIO101L")
	assert.Equal(t, []string{"BIO101L"}, rejection.Related)
	assert.Len(t, editor.Courses(), 2)
}

func TestRemoveCourseBlockedByPrerequisiteDependent(t *testing.T) {
	editor := NewEditor(EditorConfig{Courses: []models.PlanCourse{
		planCourse("MATH101", "Calculus I", "First Year", "Fall"),
		withPrereq(planCourse("MATH201", "Calculus II", "Second Year", "Fall"), "MATH101"),
		withCoreq(planCourse("PHYS150", "Physics", "First Year", "Fall"), "MATH101"),
	}})

	_, err := editor.RemoveCourse("MATH101")

	rejection := requireRejection(t, err, KindRemovalBlocked)
	assert.Equal(t,
		"MATH101 is a co-requisite of PHYS150, which must be removed first. MATH101 cannot be removed because MATH201 depend on it as a prerequisite.",
		rejection.Message)
	assert.Len(t, editor.Courses(), 3)
}

func TestRemoveCourseWithoutDependents(t *testing.T) {
	editor := NewEditor(EditorConfig{Courses: []models.PlanCourse{
		planCourse("BIO101", "Biology", "First Year", "Fall"),
		withCoreq(planCourse("BIO101L", "Biology Lab", "First Year", "Fall"), "Taken with BIO101"),
	}})

	change, err := editor.RemoveCourse("BIO101L")
	require.NoError(t, err)

	assert.Equal(t, []string{"BIO101"}, codes(change.Courses))
	assert.Equal(t, []string{"BIO101L"}, codes(change.Removed))
	assert.Equal(t, "Biology Lab removed from your plan.", change.Message)
}

func TestRemoveUnknownCourseIsNoop(t *testing.T) {
	editor := NewEditor(EditorConfig{Courses: []models.PlanCourse{planCourse("BIO101", "Biology", "First Year", "Fall")}})

	change, err := editor.RemoveCourse("ZOO999")
	require.NoError(t, err)
	assert.Empty(t, change.Removed)
	assert.Len(t, change.Courses, 1)
}

func TestResetToDefault(t *testing.T) {
	defaults := []models.PlanCourse{
		planCourse("MATH101", "Calculus I", "First Year", "Fall"),
		planCourse("ENG101", "Composition", "First Year", "Fall"),
	}
	editor := NewEditor(EditorConfig{Defaults: defaults, Courses: defaults[:1]})

	_, err := editor.RemoveCourse("MATH101")
	require.NoError(t, err)
	require.Empty(t, editor.Courses())

	change := editor.ResetToDefault()
	assert.Equal(t, defaults, change.Courses)
	assert.Equal(t, defaults, editor.Courses())
}

func TestAddCourseIgnoresZeroCreditLimit(t *testing.T) {
	editor := NewEditor(EditorConfig{CreditLimit: credits(0)})

	change, err := editor.AddCourse(withCredits(planCourse("ART101", "Art", "First Year", "Fall"), 4), nil)
	require.NoError(t, err)

	assert.Len(t, change.Courses, 1)
	assert.Equal(t, float64(4), editor.TotalCredits())
}
