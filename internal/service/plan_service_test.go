package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dipanshu-5/EdPlan/internal/dto"
	"github.com/Dipanshu-5/EdPlan/internal/models"
	"github.com/Dipanshu-5/EdPlan/internal/planner"
	appErrors "github.com/Dipanshu-5/EdPlan/pkg/errors"
)

func credits(v float64) *float64 {
	return &v
}

func biologyProgram() models.Program {
	return models.Program{
		Program:          "BSc Biology",
		University:       "State U",
		TotalCreditHours: credits(12),
		Years: []models.ProgramYear{{
			Year: "First Year",
			Semesters: []models.ProgramSemester{
				{Semester: "Fall", Courses: []models.ProgramCourseEntry{
					{Code: "BIO101", Name: "Biology", Credits: credits(3)},
					{Code: "BIO101L", Name: "Biology Lab", Credits: credits(1), Corequisite: "BIO101"},
					{Code: "CHEM101", Name: "Chemistry", Credits: credits(4)},
				}},
				{Semester: "Spring", Courses: []models.ProgramCourseEntry{
					{Code: "BIO201", Name: "Genetics", Credits: credits(4), Prerequisite: "BIO101"},
				}},
			},
		}},
	}
}

type catalogStub struct {
	programs []models.Program
}

func (s catalogStub) Catalog(ctx context.Context, university, program string) (*models.Program, []models.CatalogCourse, error) {
	for _, p := range s.programs {
		if p.Matches(university, program) {
			found := p
			return &found, found.Courses(), nil
		}
	}
	return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
}

type remotePlanStub struct {
	plans     map[models.PlanKey]models.EducationPlan
	upsertErr error
}

func newRemotePlanStub() *remotePlanStub {
	return &remotePlanStub{plans: map[models.PlanKey]models.EducationPlan{}}
}

func (s *remotePlanStub) Upsert(ctx context.Context, plan *models.EducationPlan) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	plan.ID = "plan-" + plan.Program
	plan.Store = models.PlanStoreRemote
	s.plans[models.PlanKey{Email: plan.UserEmail, University: plan.University, Program: plan.Program, Degree: plan.Degree}] = *plan
	return nil
}

func (s *remotePlanStub) ListByEmail(ctx context.Context, email string) ([]models.EducationPlan, error) {
	var result []models.EducationPlan
	for key, plan := range s.plans {
		if key.Email == email {
			result = append(result, plan)
		}
	}
	return result, nil
}

func (s *remotePlanStub) FindByProgram(ctx context.Context, key models.PlanKey) (*models.EducationPlan, error) {
	plan, ok := s.plans[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &plan, nil
}

func (s *remotePlanStub) Delete(ctx context.Context, key models.PlanKey) error {
	if _, ok := s.plans[key]; !ok {
		return sql.ErrNoRows
	}
	delete(s.plans, key)
	return nil
}

type localPlanStub struct {
	plans []models.EducationPlan
}

func (s *localPlanStub) Upsert(ctx context.Context, plan *models.EducationPlan) error {
	plan.Store = models.PlanStoreLocal
	for i, existing := range s.plans {
		if existing.University == plan.University && existing.Program == plan.Program {
			s.plans[i] = *plan
			return nil
		}
	}
	s.plans = append(s.plans, *plan)
	return nil
}

func (s *localPlanStub) List(ctx context.Context) ([]models.EducationPlan, error) {
	return s.plans, nil
}

func (s *localPlanStub) Find(ctx context.Context, university, program string) (*models.EducationPlan, error) {
	for _, plan := range s.plans {
		if plan.University == university && plan.Program == program {
			found := plan
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *localPlanStub) Delete(ctx context.Context, university, program string) error {
	for i, plan := range s.plans {
		if plan.University == university && plan.Program == program {
			s.plans = append(s.plans[:i], s.plans[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func newPlanServiceForTest(remoteEnabled bool) (*PlanService, *remotePlanStub, *localPlanStub) {
	remote := newRemotePlanStub()
	local := &localPlanStub{}
	svc := NewPlanService(catalogStub{programs: []models.Program{biologyProgram()}}, remote, local, nil, NewMetricsService(), nil, PlanServiceConfig{RemoteEnabled: remoteEnabled})
	return svc, remote, local
}

func defaultCourses() []models.PlanCourse {
	return biologyProgram().DefaultPlan()
}

func planCourse(code, name, year, semester string, credit float64) models.PlanCourse {
	return models.PlanCourse{Code: code, CourseName: name, Year: year, Semester: semester, Credits: credits(credit)}
}

func appError(t *testing.T, err error) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	return appErrors.FromError(err)
}

func TestPlanServiceValidate(t *testing.T) {
	svc, _, _ := newPlanServiceForTest(false)
	courses := []models.PlanCourse{
		planCourse("BIO101", "Biology", "First Year", "Spring", 3),
		withPrereq(planCourse("BIO201", "Genetics", "First Year", "Fall", 4), "BIO101"),
	}

	resp, err := svc.Validate(context.Background(), dto.ValidatePlanRequest{University: "State U", Program: "BSc Biology", Courses: courses})
	require.NoError(t, err)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, models.IssuePrereqOrder, resp.Issues[0].Type)
	assert.True(t, resp.Blocking)
	assert.Equal(t, float64(7), resp.TotalCredits)
	assert.Equal(t, credits(12), resp.RequiredCredits)
}

func TestPlanServiceValidateRejectsHalfSelection(t *testing.T) {
	svc := NewPlanService(&CatalogService{repo: nil}, nil, &localPlanStub{}, nil, nil, nil, PlanServiceConfig{})

	_, err := svc.Validate(context.Background(), dto.ValidatePlanRequest{University: "State U"})
	assert.Equal(t, appErrors.ErrValidation.Code, appError(t, err).Code)
}

func withPrereq(c models.PlanCourse, text string) models.PlanCourse {
	c.Prerequisite = text
	return c
}

func withCoreq(c models.PlanCourse, text string) models.PlanCourse {
	c.Corequisite = text
	return c
}

func TestPlanServiceAddCourseAsksForCorequisiteConfirmation(t *testing.T) {
	svc, _, _ := newPlanServiceForTest(false)
	req := dto.AddCourseRequest{
		University: "State U",
		Program:    "BSc Biology",
		Course:     withCoreq(planCourse("BIO101L", "Biology Lab", "First Year", "Fall", 1), "BIO101"),
	}

	_, err := svc.AddCourse(context.Background(), req)
	appErr := appError(t, err)
	assert.Equal(t, appErrors.ErrConfirmationRequired.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	rejection, ok := appErr.Details.(*planner.Rejection)
	require.True(t, ok)
	require.NotNil(t, rejection.Prompt)
	assert.Equal(t, "BIO101", rejection.Prompt.Corequisites[0].Code)

	no := false
	req.ConfirmCorequisites = &no
	_, err = svc.AddCourse(context.Background(), req)
	appErr = appError(t, err)
	assert.Equal(t, appErrors.ErrPlanRule.Code, appErr.Code)
	assert.True(t, appErr.Details.(*planner.Rejection).Declined)

	yes := true
	req.ConfirmCorequisites = &yes
	resp, err := svc.AddCourse(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Courses, 2)
	assert.Equal(t, "BIO101", resp.Courses[1].Code)
	assert.Equal(t, "BSc Biology", resp.Courses[1].Program)
	assert.Empty(t, resp.Issues)
	assert.Equal(t, float64(4), resp.TotalCredits)
	assert.Contains(t, resp.Message, "co-requisites BIO101")
}

func TestPlanServiceAddCourseCreditLimit(t *testing.T) {
	svc, _, _ := newPlanServiceForTest(false)

	_, err := svc.AddCourse(context.Background(), dto.AddCourseRequest{
		University: "State U",
		Program:    "BSc Biology",
		Courses:    defaultCourses(),
		Course:     planCourse("ART100", "Drawing", "First Year", "Spring", 3),
	})

	appErr := appError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	rejection := appErr.Details.(*planner.Rejection)
	assert.Equal(t, planner.KindCreditLimitExceeded, rejection.Kind)
	assert.Equal(t, &planner.CreditLimitWarning{CurrentCredits: 12, AddingCredits: 3, TotalWouldBe: 15, ProgramLimit: 12}, rejection.CreditLimit)
}

func TestPlanServiceAddCourseRequiresCode(t *testing.T) {
	svc, _, _ := newPlanServiceForTest(false)

	_, err := svc.AddCourse(context.Background(), dto.AddCourseRequest{University: "State U", Program: "BSc Biology"})
	assert.Equal(t, appErrors.ErrValidation.Code, appError(t, err).Code)
}

func TestPlanServiceRemoveCourseBlocked(t *testing.T) {
	svc, _, _ := newPlanServiceForTest(false)

	_, err := svc.RemoveCourse(context.Background(), dto.RemoveCourseRequest{
		University: "State U",
		Program:    "BSc Biology",
		Courses:    defaultCourses(),
		Code:       "BIO101",
	})

	appErr := appError(t, err)
	rejection := appErr.Details.(*planner.Rejection)
	assert.Equal(t, planner.KindRemovalBlocked, rejection.Kind)
	assert.ElementsMatch(t, []string{"BIO101L", "BIO201"}, rejection.Related)
	assert.Equal(t, rejection.Message, appErr.Message)
}

func TestPlanServiceRemoveCourse(t *testing.T) {
	svc, _, _ := newPlanServiceForTest(false)

	resp, err := svc.RemoveCourse(context.Background(), dto.RemoveCourseRequest{
		University: "State U",
		Program:    "BSc Biology",
		Courses:    defaultCourses(),
		Code:       "CHEM101",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Courses, 3)
	assert.Equal(t, "CHEM101", resp.Removed[0].Code)
	assert.Equal(t, "Chemistry removed from your plan.", resp.Message)
}

func TestPlanServiceResetToDefault(t *testing.T) {
	svc, _, _ := newPlanServiceForTest(false)

	resp, err := svc.ResetToDefault(context.Background(), dto.ResetPlanRequest{University: "State U", Program: "BSc Biology"})
	require.NoError(t, err)
	assert.Equal(t, defaultCourses(), resp.Courses)
	assert.Equal(t, float64(12), resp.TotalCredits)

	_, err = svc.ResetToDefault(context.Background(), dto.ResetPlanRequest{University: "State U"})
	assert.Equal(t, appErrors.ErrValidation.Code, appError(t, err).Code)

	_, err = svc.ResetToDefault(context.Background(), dto.ResetPlanRequest{University: "State U", Program: "BSc Physics"})
	assert.Equal(t, appErrors.ErrNotFound.Code, appError(t, err).Code)
}

func TestPlanServiceSaveLocalWithoutIdentity(t *testing.T) {
	svc, remote, local := newPlanServiceForTest(true)

	plan, err := svc.Save(context.Background(), dto.SavePlanRequest{University: "State U", Program: "BSc Biology", Courses: defaultCourses()}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStoreLocal, plan.Store)
	assert.Len(t, local.plans, 1)
	assert.Empty(t, remote.plans)
}

func TestPlanServiceSaveRemoteForIdentifiedUser(t *testing.T) {
	svc, remote, local := newPlanServiceForTest(true)
	actor := &models.JWTClaims{Email: "ana@example.com"}

	plan, err := svc.Save(context.Background(), dto.SavePlanRequest{University: "state u", Program: "bsc biology", Degree: "BSc", Courses: defaultCourses()}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStoreRemote, plan.Store)
	assert.Equal(t, "ana@example.com", plan.UserEmail)
	assert.Equal(t, "BSc Biology", plan.Program)
	assert.Equal(t, "State U", plan.University)
	assert.Empty(t, local.plans)
	_, ok := remote.plans[models.PlanKey{Email: "ana@example.com", University: "State U", Program: "BSc Biology", Degree: "BSc"}]
	assert.True(t, ok)
}

func TestPlanServiceSaveUsesLocalWhenRemoteDisabled(t *testing.T) {
	svc, remote, local := newPlanServiceForTest(false)

	_, err := svc.Save(context.Background(), dto.SavePlanRequest{University: "State U", Program: "BSc Biology", Courses: defaultCourses()}, &models.JWTClaims{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Len(t, local.plans, 1)
	assert.Empty(t, remote.plans)
}

func TestPlanServiceSaveGate(t *testing.T) {
	svc, _, local := newPlanServiceForTest(false)

	short := defaultCourses()[:3]
	_, err := svc.Save(context.Background(), dto.SavePlanRequest{University: "State U", Program: "BSc Biology", Courses: short}, nil)
	appErr := appError(t, err)
	assert.Equal(t, appErrors.ErrPlanRule.Code, appErr.Code)
	assert.Equal(t, "This program requires 12 credit hours. Add 4 more credits before saving.", appErr.Message)

	misordered := defaultCourses()
	misordered[3].Semester = "Fall"
	_, err = svc.Save(context.Background(), dto.SavePlanRequest{University: "State U", Program: "BSc Biology", Courses: misordered}, nil)
	appErr = appError(t, err)
	rejection := appErr.Details.(*planner.Rejection)
	assert.Equal(t, planner.KindSaveBlocked, rejection.Kind)
	require.Len(t, rejection.Issues, 1)
	assert.Equal(t, "BIO201", rejection.Issues[0].CourseCode)

	assert.Empty(t, local.plans)
}

func TestPlanServiceSaveStoreFailure(t *testing.T) {
	svc, remote, _ := newPlanServiceForTest(true)
	remote.upsertErr = errors.New("connection refused")

	_, err := svc.Save(context.Background(), dto.SavePlanRequest{University: "State U", Program: "BSc Biology", Courses: defaultCourses()}, &models.JWTClaims{Email: "ana@example.com"})
	assert.Equal(t, appErrors.ErrInternal.Code, appError(t, err).Code)
}

func TestPlanServiceListMergesStores(t *testing.T) {
	svc, remote, local := newPlanServiceForTest(true)
	actor := &models.JWTClaims{Email: "ana@example.com"}
	remote.plans[models.PlanKey{Email: actor.Email, University: "State U", Program: "BSc Biology"}] = models.EducationPlan{University: "State U", Program: "BSc Biology", Store: models.PlanStoreRemote}
	local.plans = []models.EducationPlan{
		{University: "State U", Program: "BSc Biology", Store: models.PlanStoreLocal},
		{University: "City College", Program: "BA History", Store: models.PlanStoreLocal},
	}

	plans, err := svc.List(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, models.PlanStoreRemote, plans[0].Store)
	assert.Equal(t, "BA History", plans[1].Program)

	anonymous, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, anonymous, 2)
}

func TestPlanServiceGetAndDelete(t *testing.T) {
	svc, remote, local := newPlanServiceForTest(true)
	actor := &models.JWTClaims{Email: "ana@example.com"}
	local.plans = []models.EducationPlan{{University: "State U", Program: "BSc Biology", Store: models.PlanStoreLocal}}
	remote.plans[models.PlanKey{Email: actor.Email, University: "City College", Program: "BA History"}] = models.EducationPlan{University: "City College", Program: "BA History", Store: models.PlanStoreRemote}

	plan, err := svc.Get(context.Background(), dto.PlanQuery{University: "State U", Program: "BSc Biology"}, actor)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStoreLocal, plan.Store)

	require.NoError(t, svc.Delete(context.Background(), dto.PlanQuery{University: "City College", Program: "BA History"}, actor))
	assert.Empty(t, remote.plans)
	require.NoError(t, svc.Delete(context.Background(), dto.PlanQuery{University: "State U", Program: "BSc Biology"}, actor))
	assert.Empty(t, local.plans)

	err = svc.Delete(context.Background(), dto.PlanQuery{University: "State U", Program: "BSc Biology"}, actor)
	assert.Equal(t, appErrors.ErrNotFound.Code, appError(t, err).Code)
	_, err = svc.Get(context.Background(), dto.PlanQuery{University: "State U", Program: "BSc Biology"}, nil)
	assert.Equal(t, appErrors.ErrNotFound.Code, appError(t, err).Code)
}

func TestPlanServiceSaveRequiresProgram(t *testing.T) {
	local := &localPlanStub{}
	svc := NewPlanService(NewCatalogService(&catalogRepoStub{}, nil, 0, nil), nil, local, nil, NewMetricsService(), nil, PlanServiceConfig{})

	_, err := svc.Save(context.Background(), dto.SavePlanRequest{
		University: " ",
		Program:    " ",
		Courses:    []models.PlanCourse{planCourse("X1", "Elective", "First Year", "Fall", 3)},
	}, nil)

	appErr := appError(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "university and program are required", appErr.Message)
	assert.Empty(t, local.plans)
}
