package models

import "time"

// PlanStore names where a plan is persisted.
type PlanStore string

const (
	PlanStoreLocal  PlanStore = "local"
	PlanStoreRemote PlanStore = "remote"
)

// EducationPlan is a saved plan for one (university, program) pair.
type EducationPlan struct {
	ID         string       `db:"id" json:"id,omitempty"`
	UserEmail  string       `db:"user_email" json:"email,omitempty"`
	Program    string       `db:"program_name" json:"program"`
	University string       `db:"university_name" json:"university"`
	Degree     string       `db:"degree" json:"degree,omitempty"`
	Courses    []PlanCourse `db:"-" json:"courses"`
	Store      PlanStore    `db:"-" json:"store"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// TotalCredits sums the plan's course credits.
func (p EducationPlan) TotalCredits() float64 {
	return TotalCredits(p.Courses)
}

// PlanKey identifies a plan within one owner's plans.
type PlanKey struct {
	Email      string
	University string
	Program    string
	Degree     string
}
