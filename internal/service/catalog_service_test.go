package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dipanshu-5/EdPlan/internal/models"
	appErrors "github.com/Dipanshu-5/EdPlan/pkg/errors"
)

type catalogRepoStub struct {
	programs  []models.Program
	err       error
	finds     int
	reloads   int
	reloadErr error
}

func (s *catalogRepoStub) ListPrograms(ctx context.Context) ([]models.Program, error) {
	return s.programs, s.err
}

func (s *catalogRepoStub) FindProgram(ctx context.Context, university, program string) (*models.Program, error) {
	s.finds++
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.programs {
		if p.Matches(university, program) {
			found := p
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *catalogRepoStub) Reload() error {
	s.reloads++
	return s.reloadErr
}

type memoryCacheRepo struct {
	entries     map[string]interface{}
	invalidated []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string]interface{}{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	value, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	switch typed := dest.(type) {
	case *models.Program:
		*typed = *value.(*models.Program)
	case *[]models.CatalogCourse:
		*typed = value.([]models.CatalogCourse)
	default:
		return errors.New("unsupported cache destination")
	}
	return nil
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.entries[key] = value
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	m.entries = map[string]interface{}{}
	return nil
}

func historyProgram() models.Program {
	return models.Program{
		Program:    "BA History",
		University: "City College",
		Years: []models.ProgramYear{{
			Year: "First Year",
			Semesters: []models.ProgramSemester{{Semester: "Fall", Courses: []models.ProgramCourseEntry{
				{Code: "HIS101", Name: "World History", Credits: credits(3)},
				{Code: "bio101", Name: "Biology for Historians", Credits: credits(3)},
			}}},
		}},
	}
}

func TestCatalogServiceListPrograms(t *testing.T) {
	otherBiology := biologyProgram()
	otherBiology.University = "City College"
	repo := &catalogRepoStub{programs: []models.Program{biologyProgram(), historyProgram(), otherBiology}}
	svc := NewCatalogService(repo, nil, 0, nil)

	all, err := svc.ListPrograms(context.Background(), models.ProgramFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	distinct, err := svc.ListPrograms(context.Background(), models.ProgramFilter{Distinct: true})
	require.NoError(t, err)
	require.Len(t, distinct, 2)
	assert.Equal(t, "State U", distinct[0].University)
	assert.Equal(t, 4, distinct[0].CourseCount)

	byUniversity, err := svc.ListPrograms(context.Background(), models.ProgramFilter{University: "city college", Search: "bio"})
	require.NoError(t, err)
	require.Len(t, byUniversity, 1)
	assert.Equal(t, "BSc Biology", byUniversity[0].Program)
}

func TestCatalogServiceFindProgramUsesCache(t *testing.T) {
	repo := &catalogRepoStub{programs: []models.Program{biologyProgram()}}
	cacheRepo := newMemoryCacheRepo()
	svc := NewCatalogService(repo, NewCacheService(cacheRepo, nil, time.Minute, nil, true), time.Minute, nil)

	for i := 0; i < 3; i++ {
		program, err := svc.FindProgram(context.Background(), "State U", "BSc Biology")
		require.NoError(t, err)
		assert.Equal(t, "BSc Biology", program.Program)
	}
	assert.Equal(t, 1, repo.finds)

	require.NoError(t, svc.Reload(context.Background()))
	assert.Equal(t, 1, repo.reloads)
	assert.Equal(t, []string{"edplan:catalog:*"}, cacheRepo.invalidated)

	_, err := svc.FindProgram(context.Background(), "State U", "BSc Biology")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.finds)
}

func TestCatalogServiceFindProgramErrors(t *testing.T) {
	svc := NewCatalogService(&catalogRepoStub{}, nil, 0, nil)
	_, err := svc.FindProgram(context.Background(), "State U", "BSc Biology")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	failing := NewCatalogService(&catalogRepoStub{err: errors.New("read catalog: permission denied")}, nil, 0, nil)
	_, err = failing.FindProgram(context.Background(), "State U", "BSc Biology")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceCatalog(t *testing.T) {
	repo := &catalogRepoStub{programs: []models.Program{biologyProgram(), historyProgram()}}
	svc := NewCatalogService(repo, nil, 0, nil)

	program, courses, err := svc.Catalog(context.Background(), " State U ", "BSc Biology")
	require.NoError(t, err)
	assert.Equal(t, "BSc Biology", program.Program)
	assert.Len(t, courses, 4)

	program, courses, err = svc.Catalog(context.Background(), "", "")
	require.NoError(t, err)
	assert.Nil(t, program)
	// bio101 duplicates BIO101 once codes are normalized
	assert.Len(t, courses, 5)

	_, _, err = svc.Catalog(context.Background(), "", "BSc Biology")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceDefaultPlan(t *testing.T) {
	svc := NewCatalogService(&catalogRepoStub{programs: []models.Program{biologyProgram()}}, nil, 0, nil)

	plan, err := svc.DefaultPlan(context.Background(), "State U", "BSc Biology")
	require.NoError(t, err)
	assert.Len(t, plan.Courses, 4)
	assert.Empty(t, plan.Issues)
	assert.NotNil(t, plan.Issues)
	assert.Equal(t, float64(12), plan.TotalCredits)
	assert.Equal(t, "State U", plan.Courses[0].University)
}
