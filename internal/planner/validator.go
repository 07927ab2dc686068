package planner

import (
	"fmt"
	"strings"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// Validate returns every dependency issue of the plan, course by course, prerequisite issues
// before co-requisite issues. All issues block saving.
func Validate(courses []models.PlanCourse, known *KnownCodes) []models.DependencyIssue {
	var issues []models.DependencyIssue
	for _, course := range courses {
		deps := DependenciesOf(course, known)
		term := TermOf(course)
		name := displayName(course)

		for _, code := range deps.Prerequisites {
			prereq, ok := findByCode(courses, code)
			switch {
			case !ok:
				issues = append(issues, issue(course, models.IssuePrereqMissing, code,
					fmt.Sprintf("%s requires %s in a prior term.", name, code)))
			case !IsBefore(TermOf(prereq), term):
				issues = append(issues, issue(course, models.IssuePrereqOrder, code,
					fmt.Sprintf("%s must be scheduled before %s.", code, name)))
			}
		}

		for _, code := range deps.Corequisites {
			coreq, ok := findByCode(courses, code)
			switch {
			case !ok:
				issues = append(issues, issue(course, models.IssueCoreqMissing, code,
					fmt.Sprintf("%s requires co-requisite %s in the same term.", name, code)))
			case !IsSameTerm(TermOf(coreq), term):
				issues = append(issues, issue(course, models.IssueCoreqTerm, code,
					fmt.Sprintf("%s must be taken in the same term as %s.", code, name)))
			}
		}
	}
	return issues
}

func issue(course models.PlanCourse, kind models.IssueType, related, message string) models.DependencyIssue {
	return models.DependencyIssue{
		CourseCode:  course.Code,
		Type:        kind,
		RelatedCode: related,
		Message:     message,
		Blocking:    true,
	}
}

// findByCode looks a known (upper-cased) code up among plan courses, ignoring case.
func findByCode(courses []models.PlanCourse, code string) (models.PlanCourse, bool) {
	for _, course := range courses {
		if strings.EqualFold(strings.TrimSpace(course.Code), code) {
			return course, true
		}
	}
	return models.PlanCourse{}, false
}

func displayName(course models.PlanCourse) string {
	if name := strings.TrimSpace(course.CourseName); name != "" {
		return name
	}
	return course.Code
}
