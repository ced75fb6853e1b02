// Package store persists extracted well records. SQLite is the default
// backend; Postgres is available for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/prairie-data/wellscan/internal/config"
	"github.com/prairie-data/wellscan/internal/model"
)

// Store defines the persistence interface for extracted wells.
type Store interface {
	// UpsertWell inserts or replaces the well keyed by pdf_source and
	// swaps in its stimulation rows, all in one transaction. Returns the
	// well's row id.
	UpsertWell(ctx context.Context, rec *model.WellRecord) (int64, error)

	// GetWell returns one well with its stimulation rows (dated rows
	// first, in date order) and enrichment fields. Missing ids return
	// (nil, nil).
	GetWell(ctx context.Context, id int64) (*model.WellRecord, error)

	// ListWellsWithCoords returns id, name, API number, coordinates, and
	// county for every well that has both coordinates.
	ListWellsWithCoords(ctx context.Context) ([]model.WellRecord, error)

	// ListWells returns all wells in full, for the cleanup pass.
	ListWells(ctx context.Context) ([]model.WellRecord, error)

	// UpdateWellFields writes back the normalizable columns of one well.
	UpdateWellFields(ctx context.Context, rec *model.WellRecord) error

	// ListWellsForEnrichment returns wells that carry an API number, name,
	// and county but have not been enriched yet.
	ListWellsForEnrichment(ctx context.Context) ([]model.WellRecord, error)

	// UpdateEnrichment writes scraped fields onto one well.
	UpdateEnrichment(ctx context.Context, wellID int64, enr *model.Enrichment) error

	// Run log
	StartRun(ctx context.Context) (*model.ExtractionRun, error)
	FinishRun(ctx context.Context, run *model.ExtractionRun) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New creates a Store for the configured driver.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DSN)
	case "postgres":
		return NewPostgres(ctx, cfg.DSN, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
