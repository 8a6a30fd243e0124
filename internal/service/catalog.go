// Package service coordinates the ingestion pipeline and the cache
// store on behalf of the management API and the presentation layer.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/bookwall/internal/domain"
	"github.com/cesargomez89/bookwall/internal/logger"
	"github.com/cesargomez89/bookwall/internal/store"
)

// Pipeline resolves the full publication set from the feed.
type Pipeline interface {
	Run(ctx context.Context) ([]domain.Publication, error)
}

// RefreshStatus is the lifecycle state of an async refresh job.
type RefreshStatus string

const (
	RefreshStatusQueued    RefreshStatus = "queued"
	RefreshStatusRunning   RefreshStatus = "running"
	RefreshStatusCompleted RefreshStatus = "completed"
	RefreshStatusFailed    RefreshStatus = "failed"
)

// RefreshJob describes one triggered refresh.
type RefreshJob struct {
	ID         string        `json:"id"`
	Status     RefreshStatus `json:"status"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
}

// Catalog serves the cached publication set and runs refreshes.
type Catalog struct {
	db       *store.DB
	pipeline Pipeline
	log      *logger.Logger

	mu        sync.Mutex
	seeded    bool
	jobs      map[string]*RefreshJob
	activeJob string
}

// NewCatalog creates the catalog service. seeded=false marks a store
// file that did not exist before open: the first read then runs a full
// refresh before returning anything.
func NewCatalog(db *store.DB, pipeline Pipeline, seeded bool, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.Default()
	}
	return &Catalog{
		db:       db,
		pipeline: pipeline,
		log:      log.WithComponent("catalog"),
		seeded:   seeded,
		jobs:     make(map[string]*RefreshJob),
	}
}

// Publications returns the cached catalog. A first-ever read against a
// freshly created store triggers a full refresh first.
func (c *Catalog) Publications(ctx context.Context) ([]domain.Publication, error) {
	c.mu.Lock()
	needSeed := !c.seeded
	c.mu.Unlock()

	if needSeed {
		if err := c.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("initial refresh failed: %w", err)
		}
	}
	return c.db.ReadAll()
}

// Cover returns the encoded cover blob for one resequenced id.
func (c *Catalog) Cover(id int) ([]byte, error) {
	return c.db.ReadCover(id)
}

// Refresh runs the full pipeline and replaces the store contents. A
// pipeline failure leaves the previously cached catalog intact.
func (c *Catalog) Refresh(ctx context.Context) error {
	pubs, err := c.pipeline.Run(ctx)
	if err != nil {
		return err
	}
	if err := c.db.Refresh(pubs); err != nil {
		return fmt.Errorf("failed to persist refresh: %w", err)
	}

	c.mu.Lock()
	c.seeded = true
	c.mu.Unlock()

	c.log.Info("catalog refreshed", "publications", len(pubs))
	return nil
}

// StartRefresh launches an async refresh and returns its job. While a
// refresh is already running, the running job is returned instead of
// starting another.
func (c *Catalog) StartRefresh(ctx context.Context) RefreshJob {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeJob != "" {
		if job, ok := c.jobs[c.activeJob]; ok {
			return *job
		}
	}

	job := &RefreshJob{
		ID:        uuid.NewString(),
		Status:    RefreshStatusQueued,
		StartedAt: time.Now(),
	}
	c.jobs[job.ID] = job
	c.activeJob = job.ID

	// The job outlives the triggering request.
	go c.runJob(context.WithoutCancel(ctx), job.ID)
	return *job
}

// Job returns a snapshot of a refresh job by id.
func (c *Catalog) Job(id string) (RefreshJob, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.jobs[id]
	if !ok {
		return RefreshJob{}, false
	}
	return *job, true
}

func (c *Catalog) runJob(ctx context.Context, id string) {
	log := c.log.WithRefresh(id)

	c.setJobStatus(id, RefreshStatusRunning, "")
	log.Info("refresh started")

	if err := c.Refresh(ctx); err != nil {
		c.setJobStatus(id, RefreshStatusFailed, err.Error())
		log.Error("refresh failed", "error", err)
		return
	}
	c.setJobStatus(id, RefreshStatusCompleted, "")
	log.Info("refresh finished")
}

func (c *Catalog) setJobStatus(id string, status RefreshStatus, errText string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[id]
	if !ok {
		return
	}
	job.Status = status
	job.Error = errText
	if status == RefreshStatusCompleted || status == RefreshStatusFailed {
		now := time.Now()
		job.FinishedAt = &now
		if c.activeJob == id {
			c.activeJob = ""
		}
	}
}
