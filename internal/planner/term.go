package planner

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// UnknownRank is assigned to labels that cannot be ranked. It sorts after every known rank,
// and two unknown labels tie.
const UnknownRank = math.MaxInt

var (
	yearLabels     = []string{"first year", "second year", "third year", "fourth year", "fifth year"}
	semesterLabels = []string{"fall", "spring", "summer", "winter"}

	digitRun = regexp.MustCompile(`\d+`)
)

// Term is the (year, semester) slot a course is taken in.
type Term struct {
	Year     string `json:"year"`
	Semester string `json:"semester"`
}

// TermOf returns the term of a plan course.
func TermOf(c models.PlanCourse) Term {
	return Term{Year: c.Year, Semester: c.Semester}
}

// CatalogTermOf returns the term a catalog course is offered in.
func CatalogTermOf(c models.CatalogCourse) Term {
	return Term{Year: c.Year, Semester: c.Semester}
}

func (t Term) String() string {
	year, semester := strings.TrimSpace(t.Year), strings.TrimSpace(t.Semester)
	switch {
	case year == "" && semester == "":
		return "an unscheduled term"
	case year == "":
		return semester
	case semester == "":
		return year
	}
	return year + " " + semester
}

// YearRank ranks "First Year" through "Fifth Year" as 1-5. Other labels fall back to their
// first run of digits ("Year 2" is 2), then to UnknownRank.
func YearRank(year string) int {
	normalized := strings.ToLower(strings.TrimSpace(year))
	if normalized == "" {
		return UnknownRank
	}
	if rank := lookup(yearLabels, normalized); rank > 0 {
		return rank
	}
	if digits := digitRun.FindString(normalized); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			return n
		}
	}
	return UnknownRank
}

// SemesterRank ranks Fall, Spring, Summer and Winter as 1-4; anything else is UnknownRank.
func SemesterRank(semester string) int {
	if rank := lookup(semesterLabels, strings.ToLower(strings.TrimSpace(semester))); rank > 0 {
		return rank
	}
	return UnknownRank
}

// IsSameTerm compares the trimmed labels verbatim. Ranks are not consulted, so "Year 1" and
// "First Year" are different terms here even though they rank equally.
func IsSameTerm(a, b Term) bool {
	return strings.TrimSpace(a.Year) == strings.TrimSpace(b.Year) &&
		strings.TrimSpace(a.Semester) == strings.TrimSpace(b.Semester)
}

// IsBefore reports whether a is strictly earlier than b by year rank, then semester rank.
// Equal ranks are never before each other, including two unknown labels.
func IsBefore(a, b Term) bool {
	if ay, by := YearRank(a.Year), YearRank(b.Year); ay != by {
		return ay < by
	}
	if as, bs := SemesterRank(a.Semester), SemesterRank(b.Semester); as != bs {
		return as < bs
	}
	return false
}

func lookup(labels []string, normalized string) int {
	for i, label := range labels {
		if label == normalized {
			return i + 1
		}
	}
	return 0
}
