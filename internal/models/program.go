package models

import "strings"

// Program is one (university, program) entry of the course catalog.
type Program struct {
	Program          string        `json:"program" yaml:"program"`
	University       string        `json:"university" yaml:"university"`
	Degree           string        `json:"degree,omitempty" yaml:"degree,omitempty"`
	TotalCreditHours *float64      `json:"total_credit_hours,omitempty" yaml:"total_credit_hours,omitempty"`
	AnnualCost       *float64      `json:"annual_cost,omitempty" yaml:"annual_cost,omitempty"`
	Years            []ProgramYear `json:"years" yaml:"years"`
}

// ProgramYear groups the semesters of one study year.
type ProgramYear struct {
	Year      string            `json:"year" yaml:"year"`
	Semesters []ProgramSemester `json:"semesters" yaml:"semesters"`
}

// ProgramSemester lists the courses offered in one semester.
type ProgramSemester struct {
	Semester string               `json:"semester" yaml:"semester"`
	Courses  []ProgramCourseEntry `json:"courses" yaml:"courses"`
}

// ProgramCourseEntry is a course as written in the catalog file.
type ProgramCourseEntry struct {
	Code         string    `json:"code" yaml:"code"`
	Name         string    `json:"name" yaml:"name"`
	Credits      *float64  `json:"credits,omitempty" yaml:"credits,omitempty"`
	Prerequisite string    `json:"prerequisite,omitempty" yaml:"prerequisite,omitempty"`
	Corequisite  string    `json:"corequisite,omitempty" yaml:"corequisite,omitempty"`
	Schedule     *Schedule `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// Matches reports whether the program is the (university, program) pair asked for, ignoring
// case and runs of whitespace.
func (p Program) Matches(university, program string) bool {
	return sameName(p.Program, program) && sameName(p.University, university)
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
}

// Courses flattens the year/semester tree into catalog courses.
func (p Program) Courses() []CatalogCourse {
	var courses []CatalogCourse
	for _, year := range p.Years {
		for _, semester := range year.Semesters {
			for _, entry := range semester.Courses {
				courses = append(courses, CatalogCourse{
					Year:         year.Year,
					Semester:     semester.Semester,
					Code:         entry.Code,
					Name:         entry.Name,
					Credits:      entry.Credits,
					Prerequisite: entry.Prerequisite,
					Corequisite:  entry.Corequisite,
					Schedule:     entry.Schedule,
					Program:      p.Program,
					University:   p.University,
				})
			}
		}
	}
	return courses
}

// DefaultPlan builds the plan pre-filled from every catalog course of the program.
func (p Program) DefaultPlan() []PlanCourse {
	catalog := p.Courses()
	plan := make([]PlanCourse, 0, len(catalog))
	for _, course := range catalog {
		plan = append(plan, course.ToPlanCourse(p.Program, p.University))
	}
	return plan
}

// ProgramSummary is the listing view of a program without its course tree.
type ProgramSummary struct {
	Program          string   `json:"program"`
	University       string   `json:"university"`
	Degree           string   `json:"degree,omitempty"`
	TotalCreditHours *float64 `json:"total_credit_hours,omitempty"`
	AnnualCost       *float64 `json:"annual_cost,omitempty"`
	CourseCount      int      `json:"course_count"`
}

// Summary returns the listing view of p.
func (p Program) Summary() ProgramSummary {
	return ProgramSummary{
		Program:          p.Program,
		University:       p.University,
		Degree:           p.Degree,
		TotalCreditHours: p.TotalCreditHours,
		AnnualCost:       p.AnnualCost,
		CourseCount:      len(p.Courses()),
	}
}

// ProgramFilter narrows program listings.
type ProgramFilter struct {
	Search     string
	University string
	// Distinct keeps only the first program per case-insensitive name.
	Distinct bool
}

// Accept reports whether p passes the filter (ignoring Distinct).
func (f ProgramFilter) Accept(p Program) bool {
	if f.University != "" && !strings.EqualFold(strings.TrimSpace(f.University), strings.TrimSpace(p.University)) {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	return strings.Contains(strings.ToLower(p.Program), term) || strings.Contains(strings.ToLower(p.University), term)
}
