package planner

import (
	"strings"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// KnownCodes is the insertion-ordered set of upper-cased course codes the extractor recognises.
type KnownCodes struct {
	codes []string
	index map[string]struct{}
}

// NewKnownCodes collects the codes of the catalog followed by those of the plan.
func NewKnownCodes(catalog []models.CatalogCourse, plan []models.PlanCourse) *KnownCodes {
	k := &KnownCodes{index: make(map[string]struct{}, len(catalog)+len(plan))}
	for _, course := range catalog {
		k.Add(course.Code)
	}
	for _, course := range plan {
		k.Add(course.Code)
	}
	return k
}

// Add inserts code, ignoring blanks and repeats.
func (k *KnownCodes) Add(code string) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return
	}
	if k.index == nil {
		k.index = make(map[string]struct{})
	}
	if _, ok := k.index[normalized]; ok {
		return
	}
	k.index[normalized] = struct{}{}
	k.codes = append(k.codes, normalized)
}

// With returns a copy of k that also knows code.
func (k *KnownCodes) With(code string) *KnownCodes {
	clone := &KnownCodes{
		codes: append([]string(nil), k.Codes()...),
		index: make(map[string]struct{}, k.Len()+1),
	}
	for _, c := range clone.codes {
		clone.index[c] = struct{}{}
	}
	clone.Add(code)
	return clone
}

// Contains reports whether code (any case) is known.
func (k *KnownCodes) Contains(code string) bool {
	if k == nil {
		return false
	}
	_, ok := k.index[normalizeCode(code)]
	return ok
}

// Len returns the number of known codes.
func (k *KnownCodes) Len() int {
	if k == nil {
		return 0
	}
	return len(k.codes)
}

// Codes returns the known codes in insertion order.
func (k *KnownCodes) Codes() []string {
	if k == nil {
		return nil
	}
	return k.codes
}

// Dependencies are the codes a course's requirement text refers to.
type Dependencies struct {
	Prerequisites []string `json:"prerequisites"`
	Corequisites  []string `json:"corequisites"`
}

// ExtractCodes returns every known code that occurs in text, compared upper-cased.
// Matching is by substring: "CHEM101L" in the text also yields "CHEM101" when both are known.
func ExtractCodes(text string, known *KnownCodes) []string {
	if text == "" || known.Len() == 0 {
		return nil
	}
	haystack := strings.ToUpper(text)
	var found []string
	for _, code := range known.Codes() {
		if strings.Contains(haystack, code) {
			found = append(found, code)
		}
	}
	return found
}

// DependenciesOf extracts the prerequisite and co-requisite codes of a course.
func DependenciesOf(course models.PlanCourse, known *KnownCodes) Dependencies {
	return Dependencies{
		Prerequisites: ExtractCodes(course.Prerequisite, known),
		Corequisites:  ExtractCodes(course.Corequisite, known),
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
