// Package catalogimport converts published catalog pages into catalog entries.
package catalogimport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// Column order of a course row.
const (
	colCode = iota
	colName
	colCredits
	colPrerequisite
	colCorequisite
)

// ParseHTML reads a catalog page laid out as section[data-year] > div[data-semester] > table
// rows of code, name, credits, prerequisite and co-requisite. Header rows without td cells
// are skipped.
func ParseHTML(r io.Reader, university, program string) (*models.Program, error) {
	document, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse catalog page: %w", err)
	}

	result := &models.Program{
		University: strings.TrimSpace(university),
		Program:    strings.TrimSpace(program),
	}
	if result.University == "" || result.Program == "" {
		return nil, fmt.Errorf("university and program are required")
	}

	var parseErr error
	document.Find("section[data-year]").EachWithBreak(func(_ int, section *goquery.Selection) bool {
		year := models.ProgramYear{Year: strings.TrimSpace(section.AttrOr("data-year", ""))}
		section.Find("div[data-semester]").EachWithBreak(func(_ int, block *goquery.Selection) bool {
			semester := models.ProgramSemester{Semester: strings.TrimSpace(block.AttrOr("data-semester", ""))}
			block.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
				cells := row.Find("td")
				if cells.Length() == 0 {
					return true
				}
				course, err := parseRow(cells)
				if err != nil {
					parseErr = fmt.Errorf("%s %s: %w", year.Year, semester.Semester, err)
					return false
				}
				semester.Courses = append(semester.Courses, course)
				return true
			})
			if parseErr != nil {
				return false
			}
			year.Semesters = append(year.Semesters, semester)
			return true
		})
		if parseErr != nil {
			return false
		}
		result.Years = append(result.Years, year)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(result.Years) == 0 {
		return nil, fmt.Errorf("no section[data-year] blocks found")
	}
	return result, nil
}

func parseRow(cells *goquery.Selection) (models.ProgramCourseEntry, error) {
	cell := func(i int) string {
		if i >= cells.Length() {
			return ""
		}
		return strings.Join(strings.Fields(cells.Eq(i).Text()), " ")
	}

	entry := models.ProgramCourseEntry{
		Code:         cell(colCode),
		Name:         cell(colName),
		Prerequisite: cell(colPrerequisite),
		Corequisite:  cell(colCorequisite),
	}
	if entry.Code == "" {
		return entry, fmt.Errorf("course row without a code")
	}
	if raw := cell(colCredits); raw != "" {
		credits, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entry, fmt.Errorf("course %s: invalid credits %q", entry.Code, raw)
		}
		entry.Credits = &credits
	}
	return entry, nil
}
