package planner

import (
	"errors"
	"strconv"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// RejectionKind names why a plan change or save was refused.
type RejectionKind string

const (
	KindDuplicateCourse     RejectionKind = "DuplicateCourse"
	KindCreditLimitExceeded RejectionKind = "CreditLimitExceeded"
	KindPrerequisiteMissing RejectionKind = "PrerequisiteMissing"
	KindPrerequisiteOrder   RejectionKind = "PrerequisiteOrder"
	KindCorequisiteMissing  RejectionKind = "CorequisiteMissing"
	KindCorequisiteTerm     RejectionKind = "CorequisiteTerm"
	KindRemovalBlocked      RejectionKind = "RemovalBlocked"
	KindSaveBlocked         RejectionKind = "SaveBlocked"
)

// CreditLimitWarning is the payload attached to a CreditLimitExceeded rejection.
type CreditLimitWarning struct {
	CurrentCredits float64 `json:"currentCredits"`
	AddingCredits  float64 `json:"addingCredits"`
	TotalWouldBe   float64 `json:"totalWouldBe"`
	ProgramLimit   float64 `json:"programLimit"`
}

// CorequisitePrompt asks whether missing co-requisites may be added with a course.
type CorequisitePrompt struct {
	Course       models.PlanCourse      `json:"course"`
	Corequisites []models.CatalogCourse `json:"corequisites"`
	Term         Term                   `json:"term"`
	Message      string                 `json:"message"`
}

// Rejection is a refused plan operation. The plan it was raised against is left unchanged.
type Rejection struct {
	Kind    RejectionKind `json:"kind"`
	Message string        `json:"message"`
	// Related lists the course codes the rejection is about.
	Related     []string                 `json:"related,omitempty"`
	CreditLimit *CreditLimitWarning      `json:"creditLimit,omitempty"`
	Prompt      *CorequisitePrompt       `json:"prompt,omitempty"`
	Issues      []models.DependencyIssue `json:"issues,omitempty"`
	// Declined is set when a co-requisite prompt was shown and answered no.
	Declined bool `json:"declined,omitempty"`
}

func (r *Rejection) Error() string {
	return string(r.Kind) + ": " + r.Message
}

// AsRejection unwraps err into a *Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// FormatCredits prints credits without a trailing ".0".
func FormatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
