package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// CatalogRepository serves the program catalog from a YAML or JSON file. The file is read on
// first use and kept in memory until Reload.
type CatalogRepository struct {
	path string

	mu       sync.RWMutex
	programs []models.Program
	loaded   bool
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(path string) *CatalogRepository {
	return &CatalogRepository{path: path}
}

// ParseCatalog decodes a catalog document. JSON input is accepted since it is valid YAML.
func ParseCatalog(data []byte) ([]models.Program, error) {
	var programs []models.Program
	if err := yaml.Unmarshal(data, &programs); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, program := range programs {
		if strings.TrimSpace(program.Program) == "" || strings.TrimSpace(program.University) == "" {
			return nil, fmt.Errorf("decode catalog: entry %d is missing program or university", i)
		}
	}
	return programs, nil
}

// Reload re-reads the catalog file.
func (r *CatalogRepository) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", r.path, err)
	}
	programs, err := ParseCatalog(data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.programs = programs
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// ListPrograms returns every catalog entry in file order.
func (r *CatalogRepository) ListPrograms(ctx context.Context) ([]models.Program, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Program, len(r.programs))
	copy(out, r.programs)
	return out, nil
}

// FindProgram returns the entry for (university, program) or sql.ErrNoRows.
func (r *CatalogRepository) FindProgram(ctx context.Context, university, program string) (*models.Program, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.programs {
		if p.Matches(university, program) {
			found := p
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *CatalogRepository) ensureLoaded() error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}
	return r.Reload()
}
