package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Dipanshu-5/EdPlan/internal/dto"
	"github.com/Dipanshu-5/EdPlan/internal/models"
	"github.com/Dipanshu-5/EdPlan/internal/planner"
	appErrors "github.com/Dipanshu-5/EdPlan/pkg/errors"
	"github.com/Dipanshu-5/EdPlan/pkg/logger"
)

type planCatalog interface {
	Catalog(ctx context.Context, university, program string) (*models.Program, []models.CatalogCourse, error)
}

type remotePlanRepository interface {
	Upsert(ctx context.Context, plan *models.EducationPlan) error
	ListByEmail(ctx context.Context, email string) ([]models.EducationPlan, error)
	FindByProgram(ctx context.Context, key models.PlanKey) (*models.EducationPlan, error)
	Delete(ctx context.Context, key models.PlanKey) error
}

type localPlanRepository interface {
	Upsert(ctx context.Context, plan *models.EducationPlan) error
	List(ctx context.Context) ([]models.EducationPlan, error)
	Find(ctx context.Context, university, program string) (*models.EducationPlan, error)
	Delete(ctx context.Context, university, program string) error
}

// PlanServiceConfig tunes plan persistence.
type PlanServiceConfig struct {
	// RemoteEnabled stores plans of identified users in Postgres.
	RemoteEnabled bool
}

// PlanService runs the planning rules on submitted plans and persists accepted ones.
type PlanService struct {
	catalog   planCatalog
	remote    remotePlanRepository
	local     localPlanRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       PlanServiceConfig
}

// NewPlanService constructs a PlanService. remote may be nil when Postgres is not configured.
func NewPlanService(catalog planCatalog, remote remotePlanRepository, local localPlanRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg PlanServiceConfig) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		catalog:   catalog,
		remote:    remote,
		local:     local,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Validate reports the dependency issues of a plan.
func (s *PlanService) Validate(ctx context.Context, req dto.ValidatePlanRequest) (*dto.ValidatePlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}
	program, editor, err := s.editor(ctx, req.University, req.Program, req.Courses)
	if err != nil {
		return nil, err
	}
	issues := editor.Issues()
	resp := &dto.ValidatePlanResponse{
		Issues:       nonNilIssues(issues),
		Blocking:     models.HasBlocking(issues),
		TotalCredits: editor.TotalCredits(),
	}
	if program != nil {
		resp.RequiredCredits = program.TotalCreditHours
	}
	return resp, nil
}

// AddCourse applies the add guard to the submitted plan.
func (s *PlanService) AddCourse(ctx context.Context, req dto.AddCourseRequest) (*dto.PlanChangeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid add course payload")
	}
	_, editor, err := s.editor(ctx, req.University, req.Program, req.Courses)
	if err != nil {
		return nil, err
	}
	change, err := editor.AddCourse(req.Course, confirmerFor(req.ConfirmCorequisites))
	if err != nil {
		return nil, s.rejectionError(ctx, err)
	}
	return changeResponse(editor, change), nil
}

// RemoveCourse applies the remove guard to the submitted plan.
func (s *PlanService) RemoveCourse(ctx context.Context, req dto.RemoveCourseRequest) (*dto.PlanChangeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid remove course payload")
	}
	_, editor, err := s.editor(ctx, req.University, req.Program, req.Courses)
	if err != nil {
		return nil, err
	}
	change, err := editor.RemoveCourse(req.Code)
	if err != nil {
		return nil, s.rejectionError(ctx, err)
	}
	return changeResponse(editor, change), nil
}

// ResetToDefault returns the program's default plan.
func (s *PlanService) ResetToDefault(ctx context.Context, req dto.ResetPlanRequest) (*dto.PlanChangeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reset payload")
	}
	_, editor, err := s.editor(ctx, req.University, req.Program, nil)
	if err != nil {
		return nil, err
	}
	return changeResponse(editor, editor.ResetToDefault()), nil
}

// Save runs the save gate and stores the plan. Identified users go to the remote store when
// it is enabled; everyone else goes to the local store.
func (s *PlanService) Save(ctx context.Context, req dto.SavePlanRequest, actor *models.JWTClaims) (*models.EducationPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}
	store, err := s.storeFor(actor)
	if err != nil {
		return nil, err
	}
	program, editor, err := s.editor(ctx, req.University, req.Program, req.Courses)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "university and program are required")
	}
	if err := editor.CheckSave(); err != nil {
		s.metrics.RecordPlanSave(string(store), SaveOutcomeBlocked)
		return nil, s.rejectionError(ctx, err)
	}

	plan := &models.EducationPlan{
		Program:    program.Program,
		University: program.University,
		Degree:     strings.TrimSpace(req.Degree),
		Courses:    editor.Courses(),
	}
	for i := range plan.Courses {
		if plan.Courses[i].Program == "" {
			plan.Courses[i].Program = plan.Program
		}
		if plan.Courses[i].University == "" {
			plan.Courses[i].University = plan.University
		}
	}

	log := logger.FromContext(ctx, s.logger).With(
		zap.String("store", string(store)),
		zap.String("university", plan.University),
		zap.String("program", plan.Program),
	)
	if store == models.PlanStoreRemote {
		plan.UserEmail = actor.Email
		err = s.remote.Upsert(ctx, plan)
	} else {
		err = s.local.Upsert(ctx, plan)
	}
	if err != nil {
		s.metrics.RecordPlanSave(string(store), SaveOutcomeFailed)
		log.Error("failed to save plan", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save plan")
	}
	s.metrics.RecordPlanSave(string(store), SaveOutcomeSaved)
	log.Info("plan saved", zap.Int("courses", len(plan.Courses)))
	return plan, nil
}

// List merges the caller's remote plans with the local ones. A local plan for a
// (university, program) that also has a remote plan is left out.
func (s *PlanService) List(ctx context.Context, actor *models.JWTClaims) ([]models.EducationPlan, error) {
	plans := []models.EducationPlan{}
	seen := make(map[string]struct{})
	if s.remoteFor(actor) {
		remote, err := s.remote.ListByEmail(ctx, actor.Email)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
		}
		for _, plan := range remote {
			seen[planIdentity(plan.University, plan.Program)] = struct{}{}
			plans = append(plans, plan)
		}
	}
	if s.local != nil {
		local, err := s.local.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list local plans")
		}
		for _, plan := range local {
			if _, ok := seen[planIdentity(plan.University, plan.Program)]; ok {
				continue
			}
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

// Get returns the saved plan for a program, preferring the caller's remote plan.
func (s *PlanService) Get(ctx context.Context, query dto.PlanQuery, actor *models.JWTClaims) (*models.EducationPlan, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan query")
	}
	if s.remoteFor(actor) {
		plan, err := s.remote.FindByProgram(ctx, planKey(query, actor))
		switch {
		case err == nil:
			return plan, nil
		case !errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
		}
	}
	if s.local != nil {
		plan, err := s.local.Find(ctx, query.University, query.Program)
		switch {
		case err == nil:
			return plan, nil
		case !errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
}

// Delete removes the saved plan for a program from whichever store holds it.
func (s *PlanService) Delete(ctx context.Context, query dto.PlanQuery, actor *models.JWTClaims) error {
	if err := s.validator.Struct(query); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan query")
	}
	if s.remoteFor(actor) {
		err := s.remote.Delete(ctx, planKey(query, actor))
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
		}
	}
	if s.local != nil {
		err := s.local.Delete(ctx, query.University, query.Program)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, sql.ErrNoRows):
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "plan not found")
}

func (s *PlanService) editor(ctx context.Context, university, program string, courses []models.PlanCourse) (*models.Program, *planner.Editor, error) {
	found, catalog, err := s.catalog.Catalog(ctx, university, program)
	if err != nil {
		return nil, nil, err
	}
	cfg := planner.EditorConfig{Catalog: catalog, Courses: courses}
	if found != nil {
		cfg.Program = found.Program
		cfg.University = found.University
		cfg.Defaults = found.DefaultPlan()
		cfg.CreditLimit = found.TotalCreditHours
	}
	return found, planner.NewEditor(cfg), nil
}

func (s *PlanService) rejectionError(ctx context.Context, err error) error {
	rejection, ok := planner.AsRejection(err)
	if !ok {
		return err
	}
	if rejection.Kind == planner.KindCorequisiteMissing && rejection.Prompt != nil && !rejection.Declined {
		return appErrors.WithDetails(appErrors.ErrConfirmationRequired, "", rejection.Prompt.Message, rejection)
	}
	s.metrics.RecordRuleRejection(string(rejection.Kind))
	logger.FromContext(ctx, s.logger).Debug("plan change rejected",
		zap.String("kind", string(rejection.Kind)),
		zap.Strings("related", rejection.Related),
	)
	return appErrors.WithDetails(appErrors.ErrPlanRule, "", rejection.Message, rejection)
}

func (s *PlanService) remoteFor(actor *models.JWTClaims) bool {
	return s.cfg.RemoteEnabled && s.remote != nil && actor != nil && actor.Email != ""
}

func (s *PlanService) storeFor(actor *models.JWTClaims) (models.PlanStore, error) {
	if s.remoteFor(actor) {
		return models.PlanStoreRemote, nil
	}
	if s.local == nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "sign in to save plans")
	}
	return models.PlanStoreLocal, nil
}

func confirmerFor(answer *bool) planner.Confirmer {
	if answer == nil {
		return nil
	}
	approved := *answer
	return func(planner.CorequisitePrompt) bool { return approved }
}

func changeResponse(editor *planner.Editor, change *planner.Change) *dto.PlanChangeResponse {
	return &dto.PlanChangeResponse{
		Courses:      change.Courses,
		Added:        change.Added,
		Removed:      change.Removed,
		Issues:       nonNilIssues(editor.Issues()),
		TotalCredits: models.TotalCredits(change.Courses),
		Message:      change.Message,
	}
}

func planKey(query dto.PlanQuery, actor *models.JWTClaims) models.PlanKey {
	return models.PlanKey{
		Email:      actor.Email,
		University: query.University,
		Program:    query.Program,
		Degree:     query.Degree,
	}
}

func planIdentity(university, program string) string {
	return strings.ToLower(strings.TrimSpace(university)) + "\x00" + strings.ToLower(strings.TrimSpace(program))
}
