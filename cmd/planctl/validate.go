package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Dipanshu-5/EdPlan/internal/dto"
	"github.com/Dipanshu-5/EdPlan/internal/models"
	"github.com/Dipanshu-5/EdPlan/internal/planner"
	"github.com/Dipanshu-5/EdPlan/internal/repository"
	"github.com/Dipanshu-5/EdPlan/internal/service"
)

var errBlockingIssues = errors.New("plan has blocking issues")

type validateOptions struct {
	catalogPath string
	planPath    string
	university  string
	program     string
	strict      bool
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report prerequisite and co-requisite issues of a plan file",
		Long: `Reads a plan file ({"university", "program", "courses": [...]}) and checks it against the catalog.
University and program flags override the values in the file. Exits non-zero when an issue blocks saving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "./assets/programdetail.json", "catalog file (JSON or YAML)")
	cmd.Flags().StringVar(&opts.planPath, "plan", "", "plan file (JSON)")
	cmd.Flags().StringVar(&opts.university, "university", "", "university name")
	cmd.Flags().StringVar(&opts.program, "program", "", "program name")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "also require the program's total credit hours")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func runValidate(cmd *cobra.Command, opts *validateOptions) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	raw, err := os.ReadFile(opts.planPath)
	if err != nil {
		return fmt.Errorf("read plan: %w", err)
	}
	var plan dto.ValidatePlanRequest
	if err := json.Unmarshal(raw, &plan); err != nil {
		return fmt.Errorf("decode plan %s: %w", opts.planPath, err)
	}
	if opts.university != "" {
		plan.University = opts.university
	}
	if opts.program != "" {
		plan.Program = opts.program
	}

	catalog := service.NewCatalogService(repository.NewCatalogRepository(opts.catalogPath), nil, 0, logger)
	program, courses, err := catalog.Catalog(context.Background(), plan.University, plan.Program)
	if err != nil {
		return err
	}
	logger.Debug("catalog loaded", zap.Int("courses", len(courses)))

	known := planner.NewKnownCodes(courses, plan.Courses)
	issues := planner.Validate(plan.Courses, known)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d course(s), %s credits\n", len(plan.Courses), planner.FormatCredits(models.TotalCredits(plan.Courses)))
	if len(issues) == 0 {
		fmt.Fprintln(out, "No dependency issues found.")
	}
	for _, issue := range issues {
		marker := "warn"
		if issue.Blocking {
			marker = "BLOCK"
		}
		fmt.Fprintf(out, "[%s] %s %s: %s\n", marker, issue.CourseCode, issue.Type, issue.Message)
	}

	if opts.strict && program != nil {
		if err := planner.CheckSave(plan.Courses, known, program.TotalCreditHours); err != nil {
			if rejection, ok := planner.AsRejection(err); ok {
				fmt.Fprintln(out, rejection.Message)
			}
			return errBlockingIssues
		}
	}
	if models.HasBlocking(issues) {
		return errBlockingIssues
	}
	return nil
}
