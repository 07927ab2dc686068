package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Dipanshu-5/EdPlan/internal/catalogimport"
	"github.com/Dipanshu-5/EdPlan/internal/models"
	"github.com/Dipanshu-5/EdPlan/internal/repository"
)

type importOptions struct {
	input      string
	output     string
	university string
	program    string
	degree     string
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog file maintenance",
	}
	cmd.AddCommand(newImportHTMLCmd())
	return cmd
}

func newImportHTMLCmd() *cobra.Command {
	opts := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import-html",
		Short: "Convert a catalog HTML page into a catalog YAML entry",
		Long: `Parses section[data-year] > div[data-semester] > table rows into one program entry.
With --output the entry is merged into that catalog file, replacing an entry for the same
university and program. Without it the YAML is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportHTML(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.input, "input", "", "HTML page to import")
	cmd.Flags().StringVar(&opts.output, "output", "", "catalog file to merge into")
	cmd.Flags().StringVar(&opts.university, "university", "", "university name")
	cmd.Flags().StringVar(&opts.program, "program", "", "program name")
	cmd.Flags().StringVar(&opts.degree, "degree", "", "degree awarded")
	for _, name := range []string{"input", "university", "program"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runImportHTML(cmd *cobra.Command, opts *importOptions) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	page, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer page.Close()

	program, err := catalogimport.ParseHTML(page, opts.university, opts.program)
	if err != nil {
		return err
	}
	program.Degree = opts.degree
	logger.Debug("catalog page parsed", zap.String("program", program.Program), zap.Int("courses", len(program.Courses())))

	programs := []models.Program{*program}
	if opts.output != "" {
		existing, err := readCatalog(opts.output)
		if err != nil {
			return err
		}
		programs = mergeProgram(existing, *program)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(programs); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d course(s) into %s\n", len(program.Courses()), opts.output)
	return nil
}

func readCatalog(path string) ([]models.Program, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return repository.ParseCatalog(raw)
}

func mergeProgram(existing []models.Program, program models.Program) []models.Program {
	for i := range existing {
		if existing[i].Matches(program.University, program.Program) {
			existing[i] = program
			return existing
		}
	}
	return append(existing, program)
}
