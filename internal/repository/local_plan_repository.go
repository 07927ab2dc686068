package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Dipanshu-5/EdPlan/internal/models"
	"github.com/Dipanshu-5/EdPlan/pkg/storage"
)

// LocalPlansFile is the blob holding anonymous plans.
const LocalPlansFile = "local_plans.json"

type blobStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
}

type localPlanEntry struct {
	Program    string              `json:"program"`
	University string              `json:"university"`
	Degree     string              `json:"degree,omitempty"`
	Courses    []models.PlanCourse `json:"courses"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// LocalPlanRepository keeps plans without an owner in a single JSON blob, one entry per
// (university, program).
type LocalPlanRepository struct {
	store blobStorage
	mu    sync.Mutex
}

// NewLocalPlanRepository constructs the repository.
func NewLocalPlanRepository(store blobStorage) *LocalPlanRepository {
	return &LocalPlanRepository{store: store}
}

// Upsert replaces the entry for the plan's (university, program) or appends a new one.
func (r *LocalPlanRepository) Upsert(ctx context.Context, plan *models.EducationPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	entry := localPlanEntry{
		Program:    plan.Program,
		University: plan.University,
		Degree:     plan.Degree,
		Courses:    plan.Courses,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if idx := findLocal(entries, plan.University, plan.Program); idx >= 0 {
		entry.CreatedAt = entries[idx].CreatedAt
		entries[idx] = entry
	} else {
		entries = append(entries, entry)
	}
	if err := r.persist(entries); err != nil {
		return err
	}
	plan.CreatedAt = entry.CreatedAt
	plan.UpdatedAt = entry.UpdatedAt
	plan.Store = models.PlanStoreLocal
	return nil
}

// List returns every locally saved plan in save order.
func (r *LocalPlanRepository) List(ctx context.Context) ([]models.EducationPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	plans := make([]models.EducationPlan, 0, len(entries))
	for _, entry := range entries {
		plans = append(plans, entry.toPlan())
	}
	return plans, nil
}

// Find returns the plan saved for (university, program) or sql.ErrNoRows.
func (r *LocalPlanRepository) Find(ctx context.Context, university, program string) (*models.EducationPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	idx := findLocal(entries, university, program)
	if idx < 0 {
		return nil, sql.ErrNoRows
	}
	plan := entries[idx].toPlan()
	return &plan, nil
}

// Delete removes the plan saved for (university, program) or returns sql.ErrNoRows.
func (r *LocalPlanRepository) Delete(ctx context.Context, university, program string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return err
	}
	idx := findLocal(entries, university, program)
	if idx < 0 {
		return sql.ErrNoRows
	}
	entries = append(entries[:idx], entries[idx+1:]...)
	return r.persist(entries)
}

func (r *LocalPlanRepository) load() ([]localPlanEntry, error) {
	raw, err := r.store.Read(LocalPlansFile)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read local plans: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var entries []localPlanEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode local plans: %w", err)
	}
	return entries, nil
}

func (r *LocalPlanRepository) persist(entries []localPlanEntry) error {
	if entries == nil {
		entries = []localPlanEntry{}
	}
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local plans: %w", err)
	}
	if _, err := r.store.Save(LocalPlansFile, payload); err != nil {
		return fmt.Errorf("write local plans: %w", err)
	}
	return nil
}

func findLocal(entries []localPlanEntry, university, program string) int {
	for i, entry := range entries {
		if entry.University == university && entry.Program == program {
			return i
		}
	}
	return -1
}

func (e localPlanEntry) toPlan() models.EducationPlan {
	return models.EducationPlan{
		Program:    e.Program,
		University: e.University,
		Degree:     e.Degree,
		Courses:    e.Courses,
		Store:      models.PlanStoreLocal,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
