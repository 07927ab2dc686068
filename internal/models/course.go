package models

// Schedule is the optional meeting block a catalog attaches to a course.
type Schedule struct {
	Day  string `json:"day,omitempty" yaml:"day,omitempty"`
	Time string `json:"time,omitempty" yaml:"time,omitempty"`
}

// PlanCourse is one entry of an education plan.
type PlanCourse struct {
	Program      string    `json:"program,omitempty"`
	University   string    `json:"university,omitempty"`
	Year         string    `json:"year"`
	Semester     string    `json:"semester"`
	Code         string    `json:"code" validate:"required"`
	CourseName   string    `json:"courseName"`
	Credits      *float64  `json:"credits,omitempty"`
	Prerequisite string    `json:"prerequisite,omitempty"`
	Corequisite  string    `json:"corequisite,omitempty"`
	Schedule     *Schedule `json:"schedule,omitempty"`
}

// CreditValue returns the course credits, treating a missing value as zero.
func (c PlanCourse) CreditValue() float64 {
	if c.Credits == nil {
		return 0
	}
	return *c.Credits
}

// CatalogCourse is a course offered by a program in a given year and semester.
type CatalogCourse struct {
	Year         string    `json:"year"`
	Semester     string    `json:"semester"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Credits      *float64  `json:"credits,omitempty"`
	Prerequisite string    `json:"prerequisite,omitempty"`
	Corequisite  string    `json:"corequisite,omitempty"`
	Schedule     *Schedule `json:"schedule,omitempty"`
	Program      string    `json:"program,omitempty"`
	University   string    `json:"university,omitempty"`
}

// ToPlanCourse converts a catalog entry into a plan entry tagged with its provenance.
func (c CatalogCourse) ToPlanCourse(program, university string) PlanCourse {
	if program == "" {
		program = c.Program
	}
	if university == "" {
		university = c.University
	}
	return PlanCourse{
		Program:      program,
		University:   university,
		Year:         c.Year,
		Semester:     c.Semester,
		Code:         c.Code,
		CourseName:   c.Name,
		Credits:      c.Credits,
		Prerequisite: c.Prerequisite,
		Corequisite:  c.Corequisite,
		Schedule:     c.Schedule,
	}
}

// TotalCredits sums the credits of courses, ignoring missing values.
func TotalCredits(courses []PlanCourse) float64 {
	var total float64
	for _, course := range courses {
		total += course.CreditValue()
	}
	return total
}
