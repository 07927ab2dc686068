package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Dipanshu-5/EdPlan/internal/dto"
	"github.com/Dipanshu-5/EdPlan/internal/models"
	"github.com/Dipanshu-5/EdPlan/internal/planner"
	appErrors "github.com/Dipanshu-5/EdPlan/pkg/errors"
	"github.com/Dipanshu-5/EdPlan/pkg/export"
)

// Export formats.
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

var planHeaders = []string{"Year", "Semester", "Code", "Course", "Credits", "Prerequisite", "Co-requisite", "Schedule"}

type planFinder interface {
	Get(ctx context.Context, query dto.PlanQuery, actor *models.JWTClaims) (*models.EducationPlan, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders saved plans as PDF or CSV documents.
type ExportService struct {
	plans   planFinder
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	enabled bool
}

// NewExportService constructs an ExportService.
func NewExportService(plans planFinder, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, enabled bool) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = &export.PDFExporter{Widths: map[string]float64{
			"Year": 22, "Semester": 20, "Code": 20, "Credits": 14, "Schedule": 26,
		}}
	}
	return &ExportService{plans: plans, csv: csv, pdf: pdf, logger: logger, enabled: enabled}
}

// Export loads the saved plan selected by query and renders it.
func (s *ExportService) Export(ctx context.Context, query dto.ExportPlanQuery, actor *models.JWTClaims) (*dto.PlanFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "plan exports are disabled")
	}
	plan, err := s.plans.Get(ctx, query.PlanQuery, actor)
	if err != nil {
		return nil, err
	}
	return s.Render(plan, query.Format)
}

// Render renders plan in format, defaulting to PDF.
func (s *ExportService) Render(plan *models.EducationPlan, format string) (*dto.PlanFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	dataset, title := BuildPlanDataset(plan)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case FormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case FormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %s", format))
	}
	if err != nil {
		s.logger.Error("failed to render plan export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render plan")
	}
	return &dto.PlanFile{
		Filename:    planFilename(plan, format),
		ContentType: contentType,
		Data:        payload,
	}, nil
}

// BuildPlanDataset groups plan courses by term in chronological order, one section per term.
func BuildPlanDataset(plan *models.EducationPlan) (export.Dataset, string) {
	courses := append([]models.PlanCourse(nil), plan.Courses...)
	sort.SliceStable(courses, func(i, j int) bool {
		return planner.IsBefore(planner.TermOf(courses[i]), planner.TermOf(courses[j]))
	})

	var sections []export.Section
	var current *export.Section
	var currentTerm planner.Term
	var termCredits float64
	closeSection := func() {
		if current != nil {
			current.Footer = fmt.Sprintf("Term credits: %s", planner.FormatCredits(termCredits))
			sections = append(sections, *current)
		}
	}
	for _, course := range courses {
		term := planner.TermOf(course)
		if current == nil || !planner.IsSameTerm(term, currentTerm) {
			closeSection()
			current = &export.Section{Title: term.String()}
			currentTerm = term
			termCredits = 0
		}
		termCredits += course.CreditValue()
		current.Rows = append(current.Rows, courseRow(course))
	}
	closeSection()

	summary := []string{fmt.Sprintf("Total credits: %s", planner.FormatCredits(plan.TotalCredits()))}
	if plan.Degree != "" {
		summary = append(summary, fmt.Sprintf("Degree: %s", plan.Degree))
	}
	title := strings.TrimSpace(fmt.Sprintf("%s - %s", plan.Program, plan.University))
	return export.Dataset{Headers: planHeaders, Sections: sections, Summary: summary}, title
}

func courseRow(course models.PlanCourse) map[string]string {
	row := map[string]string{
		"Year":         course.Year,
		"Semester":     course.Semester,
		"Code":         course.Code,
		"Course":       course.CourseName,
		"Prerequisite": course.Prerequisite,
		"Co-requisite": course.Corequisite,
	}
	if course.Credits != nil {
		row["Credits"] = planner.FormatCredits(*course.Credits)
	}
	if course.Schedule != nil {
		row["Schedule"] = strings.TrimSpace(course.Schedule.Day + " " + course.Schedule.Time)
	}
	return row
}

func planFilename(plan *models.EducationPlan, format string) string {
	name := sanitizeFilename(plan.University + "_" + plan.Program)
	return fmt.Sprintf("%s_plan.%s", name, format)
}

func sanitizeFilename(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "education"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "\"", "", "..", ".")
	result := strings.ToLower(replacer.Replace(strings.TrimSpace(raw)))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
