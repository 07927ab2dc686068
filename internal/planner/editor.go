package planner

import (
	"fmt"
	"strings"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// Confirmer answers a co-requisite prompt synchronously. A nil Confirmer declines.
type Confirmer func(prompt CorequisitePrompt) bool

// EditorConfig seeds an Editor.
type EditorConfig struct {
	Program    string
	University string
	// Catalog is the program's course catalog, used for known codes and co-requisite lookup.
	Catalog []models.CatalogCourse
	// Defaults is the plan ResetToDefault restores.
	Defaults []models.PlanCourse
	// Courses is the plan being edited.
	Courses []models.PlanCourse
	// CreditLimit is the program's total credit hours, when declared.
	CreditLimit *float64
}

// Change is the plan after a successful operation.
type Change struct {
	Courses []models.PlanCourse `json:"courses"`
	Added   []models.PlanCourse `json:"added,omitempty"`
	Removed []models.PlanCourse `json:"removed,omitempty"`
	Message string              `json:"message,omitempty"`
}

// Editor owns one in-progress plan and guards every change to it. Each successful operation
// installs a new course slice; slices handed out earlier are never modified.
// An Editor is not safe for concurrent use.
type Editor struct {
	program     string
	university  string
	catalog     []models.CatalogCourse
	defaults    []models.PlanCourse
	courses     []models.PlanCourse
	creditLimit *float64
}

// NewEditor copies cfg into a new Editor.
func NewEditor(cfg EditorConfig) *Editor {
	return &Editor{
		program:     cfg.Program,
		university:  cfg.University,
		catalog:     append([]models.CatalogCourse(nil), cfg.Catalog...),
		defaults:    append([]models.PlanCourse(nil), cfg.Defaults...),
		courses:     append([]models.PlanCourse(nil), cfg.Courses...),
		creditLimit: cfg.CreditLimit,
	}
}

// Courses returns a copy of the current plan.
func (e *Editor) Courses() []models.PlanCourse {
	return append([]models.PlanCourse(nil), e.courses...)
}

// KnownCodes returns the codes of the catalog and the current plan.
func (e *Editor) KnownCodes() *KnownCodes {
	return NewKnownCodes(e.catalog, e.courses)
}

// Issues validates the current plan.
func (e *Editor) Issues() []models.DependencyIssue {
	return Validate(e.courses, e.KnownCodes())
}

// TotalCredits sums the current plan's credits.
func (e *Editor) TotalCredits() float64 {
	return models.TotalCredits(e.courses)
}

// CheckSave applies the save gate to the current plan.
func (e *Editor) CheckSave() error {
	return CheckSave(e.courses, e.KnownCodes(), e.creditLimit)
}

// AddCourse appends candidate after checking, in order: duplicates, the program credit limit,
// prerequisites, then co-requisites. Co-requisites missing from the plan but offered by the
// catalog in the candidate's term are added along with it once confirm approves. On any
// rejection the plan is unchanged.
func (e *Editor) AddCourse(candidate models.PlanCourse, confirm Confirmer) (*Change, error) {
	if e.indexOf(candidate.Code) >= 0 {
		return nil, &Rejection{
			Kind:    KindDuplicateCourse,
			Message: "Course already in your plan.",
			Related: []string{candidate.Code},
		}
	}
	candidate = e.tag(candidate)
	name := displayName(candidate)

	if e.creditLimit != nil && *e.creditLimit > 0 {
		current := e.TotalCredits()
		adding := candidate.CreditValue()
		if total := current + adding; total > *e.creditLimit {
			return nil, &Rejection{
				Kind: KindCreditLimitExceeded,
				Message: fmt.Sprintf("Adding %s (%s credits) would bring your plan to %s credits, above the program limit of %s.",
					name, FormatCredits(adding), FormatCredits(total), FormatCredits(*e.creditLimit)),
				Related: []string{candidate.Code},
				CreditLimit: &CreditLimitWarning{
					CurrentCredits: current,
					AddingCredits:  adding,
					TotalWouldBe:   total,
					ProgramLimit:   *e.creditLimit,
				},
			}
		}
	}

	known := e.KnownCodes().With(candidate.Code)
	deps := DependenciesOf(candidate, known)
	term := TermOf(candidate)

	for _, code := range deps.Prerequisites {
		prereq, ok := findByCode(e.courses, code)
		if !ok {
			return nil, &Rejection{
				Kind:    KindPrerequisiteMissing,
				Message: fmt.Sprintf("%s is a prerequisite for %s. Add %s to an earlier term first.", code, name, code),
				Related: []string{code},
			}
		}
		if !IsBefore(TermOf(prereq), term) {
			return nil, &Rejection{
				Kind: KindPrerequisiteOrder,
				Message: fmt.Sprintf("%s is scheduled in %s. Move it to a term before %s to take %s.",
					code, TermOf(prereq), term, name),
				Related: []string{code},
			}
		}
	}

	var missing []string
	for _, code := range deps.Corequisites {
		coreq, ok := findByCode(e.courses, code)
		if !ok {
			missing = append(missing, code)
			continue
		}
		if !IsSameTerm(TermOf(coreq), term) {
			return nil, &Rejection{
				Kind: KindCorequisiteTerm,
				Message: fmt.Sprintf("%s is a co-requisite of %s and is scheduled in %s. Schedule both in the same term.",
					code, name, TermOf(coreq)),
				Related: []string{code},
			}
		}
	}

	if len(missing) == 0 {
		return e.apply([]models.PlanCourse{candidate}, fmt.Sprintf("%s added to your plan.", name)), nil
	}

	resolved := make([]models.CatalogCourse, 0, len(missing))
	for _, code := range missing {
		match, ok := e.catalogCourseIn(code, term)
		if !ok {
			return nil, &Rejection{
				Kind: KindCorequisiteMissing,
				Message: fmt.Sprintf("%s must be taken together with %s in %s, but the catalog does not offer it in that term.",
					name, strings.Join(missing, ", "), term),
				Related: missing,
			}
		}
		resolved = append(resolved, match)
	}

	prompt := CorequisitePrompt{
		Course:       candidate,
		Corequisites: resolved,
		Term:         term,
		Message: fmt.Sprintf("%s requires co-requisite %s in the same term. Add them to %s as well?",
			name, strings.Join(missing, ", "), term),
	}
	if confirm == nil || !confirm(prompt) {
		return nil, &Rejection{
			Kind:    KindCorequisiteMissing,
			Message: fmt.Sprintf("%s was not added. It must be taken together with %s.", name, strings.Join(missing, ", ")),
			Related: missing,
			Prompt:  &prompt,
			// a nil confirm never saw the prompt
			Declined: confirm != nil,
		}
	}

	additions := []models.PlanCourse{candidate}
	taken := map[string]struct{}{normalizeCode(candidate.Code): {}}
	for _, course := range e.courses {
		taken[normalizeCode(course.Code)] = struct{}{}
	}
	for _, coreq := range resolved {
		code := normalizeCode(coreq.Code)
		if _, ok := taken[code]; ok {
			continue
		}
		taken[code] = struct{}{}
		additions = append(additions, coreq.ToPlanCourse(candidate.Program, candidate.University))
	}
	return e.apply(additions, fmt.Sprintf("%s and its co-requisites %s added to your plan.", name, strings.Join(missing, ", "))), nil
}

// RemoveCourse drops the course with code unless another plan course names it as a
// prerequisite or co-requisite. An unknown code is a no-op.
func (e *Editor) RemoveCourse(code string) (*Change, error) {
	idx := e.indexOf(code)
	if idx < 0 {
		return &Change{Courses: e.Courses()}, nil
	}
	target := e.courses[idx]
	targetCode := normalizeCode(target.Code)
	known := e.KnownCodes()

	var coreqDependents, prereqDependents []string
	for i, course := range e.courses {
		if i == idx {
			continue
		}
		deps := DependenciesOf(course, known)
		if containsCode(deps.Corequisites, targetCode) {
			coreqDependents = append(coreqDependents, course.Code)
		}
		if containsCode(deps.Prerequisites, targetCode) {
			prereqDependents = append(prereqDependents, course.Code)
		}
	}

	if len(coreqDependents) > 0 || len(prereqDependents) > 0 {
		var parts []string
		if len(coreqDependents) > 0 {
			parts = append(parts, fmt.Sprintf("%s is a co-requisite of %s, which must be removed first.",
				target.Code, strings.Join(coreqDependents, ", ")))
		}
		if len(prereqDependents) > 0 {
			parts = append(parts, fmt.Sprintf("%s cannot be removed because %s depend on it as a prerequisite.",
				target.Code, strings.Join(prereqDependents, ", ")))
		}
		return nil, &Rejection{
			Kind:    KindRemovalBlocked,
			Message: strings.Join(parts, " "),
			Related: append(coreqDependents, prereqDependents...),
		}
	}

	next := make([]models.PlanCourse, 0, len(e.courses)-1)
	next = append(next, e.courses[:idx]...)
	next = append(next, e.courses[idx+1:]...)
	e.courses = next
	return &Change{
		Courses: e.Courses(),
		Removed: []models.PlanCourse{target},
		Message: fmt.Sprintf("%s removed from your plan.", displayName(target)),
	}, nil
}

// ResetToDefault replaces the plan with the catalog's default plan.
func (e *Editor) ResetToDefault() *Change {
	e.courses = append([]models.PlanCourse(nil), e.defaults...)
	return &Change{Courses: e.Courses(), Message: "Plan reset to the program default."}
}

func (e *Editor) apply(additions []models.PlanCourse, message string) *Change {
	next := make([]models.PlanCourse, 0, len(e.courses)+len(additions))
	next = append(next, e.courses...)
	next = append(next, additions...)
	e.courses = next
	return &Change{
		Courses: e.Courses(),
		Added:   append([]models.PlanCourse(nil), additions...),
		Message: message,
	}
}

func (e *Editor) tag(course models.PlanCourse) models.PlanCourse {
	if course.Program == "" {
		course.Program = e.program
	}
	if course.University == "" {
		course.University = e.university
	}
	return course
}

// indexOf matches codes exactly, as stored.
func (e *Editor) indexOf(code string) int {
	for i, course := range e.courses {
		if course.Code == code {
			return i
		}
	}
	return -1
}

func (e *Editor) catalogCourseIn(code string, term Term) (models.CatalogCourse, bool) {
	for _, course := range e.catalog {
		if strings.EqualFold(strings.TrimSpace(course.Code), code) && IsSameTerm(CatalogTermOf(course), term) {
			return course, true
		}
	}
	return models.CatalogCourse{}, false
}
