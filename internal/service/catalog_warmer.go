package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Dipanshu-5/EdPlan/internal/models"
	"github.com/Dipanshu-5/EdPlan/pkg/jobs"
)

const warmKeySeparator = "\x00"

type programCatalog interface {
	ListPrograms(ctx context.Context, filter models.ProgramFilter) ([]models.ProgramSummary, error)
	FindProgram(ctx context.Context, university, program string) (*models.Program, error)
}

// CatalogWarmer fills the catalog cache in the background, one job per program.
type CatalogWarmer struct {
	catalog programCatalog
	queue   *jobs.Queue
	logger  *zap.Logger
}

// NewCatalogWarmer builds a warmer running on workers goroutines.
func NewCatalogWarmer(catalog programCatalog, workers int, logger *zap.Logger) *CatalogWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &CatalogWarmer{catalog: catalog, logger: logger}
	w.queue = jobs.NewQueue("catalog-warmer", w.warm, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: 256,
		MaxRetries: 2,
		RetryDelay: 2 * time.Second,
		Logger:     logger,
	})
	return w
}

// Start launches the workers.
func (w *CatalogWarmer) Start(ctx context.Context) {
	w.queue.Start(ctx)
}

// Stop waits for in-flight jobs to finish.
func (w *CatalogWarmer) Stop() {
	w.queue.Stop()
}

// WarmAll queues every catalog program and returns how many were queued.
func (w *CatalogWarmer) WarmAll(ctx context.Context) (int, error) {
	programs, err := w.catalog.ListPrograms(ctx, models.ProgramFilter{})
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, program := range programs {
		ok, err := w.queue.Enqueue(program.University + warmKeySeparator + program.Program)
		if err != nil {
			return queued, err
		}
		if ok {
			queued++
		}
	}
	w.logger.Debug("catalog warm-up queued", zap.Int("programs", queued))
	return queued, nil
}

func (w *CatalogWarmer) warm(ctx context.Context, job jobs.Job) error {
	university, program, _ := strings.Cut(job.Key, warmKeySeparator)
	_, err := w.catalog.FindProgram(ctx, university, program)
	return err
}
