package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Dipanshu-5/EdPlan/internal/dto"
	"github.com/Dipanshu-5/EdPlan/internal/models"
	"github.com/Dipanshu-5/EdPlan/internal/planner"
	"github.com/Dipanshu-5/EdPlan/pkg/cache"
	appErrors "github.com/Dipanshu-5/EdPlan/pkg/errors"
)

type catalogRepository interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	FindProgram(ctx context.Context, university, program string) (*models.Program, error)
	Reload() error
}

// CatalogService answers catalog lookups, caching programs per (university, program).
type CatalogService struct {
	repo   catalogRepository
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
	warmer catalogWarmer
}

type catalogWarmer interface {
	WarmAll(ctx context.Context) (int, error)
}

// NewCatalogService constructs a CatalogService. cache may be nil.
func NewCatalogService(repo catalogRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// WithWarmer refills the cache through warmer after every reload.
func (s *CatalogService) WithWarmer(warmer catalogWarmer) *CatalogService {
	s.warmer = warmer
	return s
}

// ListPrograms returns program summaries accepted by filter, in catalog order.
func (s *CatalogService) ListPrograms(ctx context.Context, filter models.ProgramFilter) ([]models.ProgramSummary, error) {
	programs, err := s.repo.ListPrograms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	seen := make(map[string]struct{})
	result := make([]models.ProgramSummary, 0, len(programs))
	for _, program := range programs {
		if !filter.Accept(program) {
			continue
		}
		if filter.Distinct {
			name := strings.ToLower(strings.TrimSpace(program.Program))
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
		}
		result = append(result, program.Summary())
	}
	return result, nil
}

// FindProgram returns the catalog entry for (university, program).
func (s *CatalogService) FindProgram(ctx context.Context, university, program string) (*models.Program, error) {
	key := cache.Key("catalog", university, program)
	var cached models.Program
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	found, err := s.repo.FindProgram(ctx, university, program)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	s.cache.Set(ctx, key, found, s.ttl)
	return found, nil
}

// Catalog returns the program and its flattened courses. With no university and program it
// returns the global course list and a nil program.
func (s *CatalogService) Catalog(ctx context.Context, university, program string) (*models.Program, []models.CatalogCourse, error) {
	university = strings.TrimSpace(university)
	program = strings.TrimSpace(program)
	switch {
	case university == "" && program == "":
		courses, err := s.AllCourses(ctx)
		return nil, courses, err
	case university == "" || program == "":
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "university and program must be given together")
	}
	found, err := s.FindProgram(ctx, university, program)
	if err != nil {
		return nil, nil, err
	}
	return found, found.Courses(), nil
}

// DefaultPlan builds the pre-filled plan of a program along with its dependency issues.
func (s *CatalogService) DefaultPlan(ctx context.Context, university, program string) (*dto.DefaultPlanResponse, error) {
	found, err := s.FindProgram(ctx, strings.TrimSpace(university), strings.TrimSpace(program))
	if err != nil {
		return nil, err
	}
	courses := found.DefaultPlan()
	issues := planner.Validate(courses, planner.NewKnownCodes(found.Courses(), courses))
	return &dto.DefaultPlanResponse{
		Program:      found.Summary(),
		Courses:      courses,
		Issues:       nonNilIssues(issues),
		TotalCredits: models.TotalCredits(courses),
	}, nil
}

// AllCourses lists every catalog course once, keeping the first occurrence of each code.
func (s *CatalogService) AllCourses(ctx context.Context) ([]models.CatalogCourse, error) {
	key := cache.Key("catalog", "all")
	var cached []models.CatalogCourse
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	programs, err := s.repo.ListPrograms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	seen := make(map[string]struct{})
	var courses []models.CatalogCourse
	for _, program := range programs {
		for _, course := range program.Courses() {
			code := strings.ToUpper(strings.TrimSpace(course.Code))
			if code == "" {
				continue
			}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			courses = append(courses, course)
		}
	}
	s.cache.Set(ctx, key, courses, s.ttl)
	return courses, nil
}

// Reload re-reads the catalog file and drops cached programs.
func (s *CatalogService) Reload(ctx context.Context) error {
	if err := s.repo.Reload(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload catalog")
	}
	if err := s.cache.Invalidate(ctx, cache.Key("catalog")+":*"); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate catalog cache")
	}
	s.logger.Info("catalog reloaded")
	if s.warmer != nil && s.cache.Enabled() {
		if _, err := s.warmer.WarmAll(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to queue catalog warm-up", zap.Error(err))
		}
	}
	return nil
}

func nonNilIssues(issues []models.DependencyIssue) []models.DependencyIssue {
	if issues == nil {
		return []models.DependencyIssue{}
	}
	return issues
}
