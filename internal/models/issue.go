package models

// IssueType classifies a dependency problem found in a plan.
type IssueType string

const (
	IssuePrereqMissing IssueType = "prereq-missing"
	IssuePrereqOrder   IssueType = "prereq-order"
	IssueCoreqMissing  IssueType = "coreq-missing"
	IssueCoreqTerm     IssueType = "coreq-term"
)

// DependencyIssue is a prerequisite or co-requisite violation for one plan course.
type DependencyIssue struct {
	CourseCode  string    `json:"courseCode"`
	Type        IssueType `json:"type"`
	RelatedCode string    `json:"relatedCode"`
	Message     string    `json:"message"`
	Blocking    bool      `json:"blocking"`
}

// HasBlocking reports whether any issue blocks saving.
func HasBlocking(issues []DependencyIssue) bool {
	for _, issue := range issues {
		if issue.Blocking {
			return true
		}
	}
	return false
}
