package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/prairie-data/wellscan/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. Tests substitute a
// pgxmock pool.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_well_id":       `SELECT id FROM wells WHERE pdf_source = $1`,
	"delete_stim_rows":  `DELETE FROM stimulation_data WHERE well_id = $1`,
	"list_with_coords":  `SELECT id, well_name, api_number, latitude, longitude, county FROM wells WHERE latitude IS NOT NULL AND longitude IS NOT NULL ORDER BY id`,
	"update_enrichment": `UPDATE wells SET well_status = $1, well_type = $2, closest_city = $3, barrels_oil_produced = $4, mcf_gas_produced = $5, drillingedge_url = $6 WHERE id = $7`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS wells (
	id                   BIGSERIAL PRIMARY KEY,
	api_number           TEXT,
	well_file_no         TEXT,
	well_name            TEXT,
	latitude             DOUBLE PRECISION,
	longitude            DOUBLE PRECISION,
	address              TEXT,
	county               TEXT,
	field                TEXT,
	operator             TEXT,
	permit_number        TEXT,
	permit_date          TEXT,
	total_depth          TEXT,
	formation            TEXT,
	stimulation_notes    TEXT,
	raw_extract          TEXT,
	pdf_source           TEXT UNIQUE,
	well_status          TEXT DEFAULT 'N/A',
	well_type            TEXT DEFAULT 'N/A',
	closest_city         TEXT DEFAULT 'N/A',
	barrels_oil_produced TEXT DEFAULT 'N/A',
	mcf_gas_produced     TEXT DEFAULT 'N/A',
	drillingedge_url     TEXT,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS stimulation_data (
	id                         BIGSERIAL PRIMARY KEY,
	well_id                    BIGINT NOT NULL REFERENCES wells(id),
	date_stimulated            TEXT,
	stimulated_formation       TEXT,
	top_ft                     DOUBLE PRECISION,
	bottom_ft                  DOUBLE PRECISION,
	stimulation_stages         INTEGER,
	volume                     DOUBLE PRECISION,
	volume_units               TEXT,
	type_treatment             TEXT,
	acid_pct                   TEXT,
	lbs_proppant               DOUBLE PRECISION,
	max_treatment_pressure_psi DOUBLE PRECISION,
	max_treatment_rate         DOUBLE PRECISION,
	details                    TEXT
);

CREATE TABLE IF NOT EXISTS extraction_runs (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ,
	documents   INTEGER NOT NULL DEFAULT 0,
	wells       INTEGER NOT NULL DEFAULT 0,
	stim_rows   INTEGER NOT NULL DEFAULT 0,
	failures    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_wells_api ON wells(api_number);
CREATE INDEX IF NOT EXISTS idx_wells_file ON wells(well_file_no);
CREATE INDEX IF NOT EXISTS idx_stim_well ON stimulation_data(well_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) UpsertWell(ctx context.Context, rec *model.WellRecord) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: begin upsert")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var wellID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO wells (api_number, well_file_no, well_name, latitude, longitude,
			address, county, field, operator, permit_number, permit_date,
			total_depth, formation, stimulation_notes, raw_extract, pdf_source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 ON CONFLICT (pdf_source) DO UPDATE SET
			api_number=excluded.api_number, well_file_no=excluded.well_file_no,
			well_name=excluded.well_name, latitude=excluded.latitude,
			longitude=excluded.longitude, address=excluded.address,
			county=excluded.county, field=excluded.field,
			operator=excluded.operator, permit_number=excluded.permit_number,
			permit_date=excluded.permit_date, total_depth=excluded.total_depth,
			formation=excluded.formation, stimulation_notes=excluded.stimulation_notes,
			raw_extract=excluded.raw_extract
		 RETURNING id`,
		nullIfEmpty(rec.APINumber), rec.WellFileNo, rec.WellName,
		rec.Latitude, rec.Longitude, rec.Address, rec.County, rec.Field,
		rec.Operator, rec.PermitNumber, rec.PermitDate, rec.TotalDepth,
		rec.Formation, rec.StimulationNotes, rec.RawExtract, rec.PDFSource,
	).Scan(&wellID)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: upsert well %s", rec.PDFSource)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM stimulation_data WHERE well_id = $1`, wellID,
	); err != nil {
		return 0, eris.Wrapf(err, "postgres: clear stim rows for well %d", wellID)
	}

	for _, sr := range rec.Stimulations {
		_, err := tx.Exec(ctx,
			`INSERT INTO stimulation_data (well_id, date_stimulated,
				stimulated_formation, top_ft, bottom_ft, stimulation_stages,
				volume, volume_units, type_treatment, acid_pct, lbs_proppant,
				max_treatment_pressure_psi, max_treatment_rate, details)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			wellID, nullIfEmpty(sr.DateStimulated), nullIfEmpty(sr.Formation),
			sr.TopFt, sr.BottomFt, sr.Stages, sr.Volume,
			nullIfEmpty(sr.VolumeUnits), nullIfEmpty(sr.TypeTreatment),
			nullIfEmpty(sr.AcidPct), sr.LbsProppant, sr.MaxPressurePSI,
			sr.MaxRate, nullIfEmpty(sr.Details),
		)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: insert stim row for well %d", wellID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrapf(err, "postgres: commit upsert %s", rec.PDFSource)
	}
	return wellID, nil
}

func (s *PostgresStore) GetWell(ctx context.Context, id int64) (*model.WellRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+wellColumns+` FROM wells WHERE id = $1`, id)

	rec, err := scanWell(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get well %d", id)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+stimColumns+` FROM stimulation_data WHERE well_id = $1
		 ORDER BY date_stimulated NULLS LAST`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get stim rows for well %d", id)
	}
	defer rows.Close()

	for rows.Next() {
		sr, err := scanStim(rows)
		if err != nil {
			return nil, err
		}
		rec.Stimulations = append(rec.Stimulations, *sr)
	}
	return rec, eris.Wrap(rows.Err(), "postgres: stim rows iterate")
}

func (s *PostgresStore) ListWellsWithCoords(ctx context.Context) ([]model.WellRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, well_name, api_number, latitude, longitude, county
		 FROM wells
		 WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		 ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list wells with coords")
	}
	defer rows.Close()

	var wells []model.WellRecord
	for rows.Next() {
		var rec model.WellRecord
		var name, api, county *string
		var lat, lon *float64
		if err := rows.Scan(&rec.ID, &name, &api, &lat, &lon, &county); err != nil {
			return nil, eris.Wrap(err, "postgres: scan well summary")
		}
		if name != nil {
			rec.WellName = *name
		}
		if api != nil {
			rec.APINumber = *api
		}
		if county != nil {
			rec.County = *county
		}
		rec.Latitude = lat
		rec.Longitude = lon
		wells = append(wells, rec)
	}
	return wells, eris.Wrap(rows.Err(), "postgres: list wells iterate")
}

func (s *PostgresStore) ListWells(ctx context.Context) ([]model.WellRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+wellColumns+` FROM wells ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list wells")
	}
	defer rows.Close()

	var wells []model.WellRecord
	for rows.Next() {
		rec, err := scanWell(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan well")
		}
		wells = append(wells, *rec)
	}
	return wells, eris.Wrap(rows.Err(), "postgres: list wells iterate")
}

func (s *PostgresStore) UpdateWellFields(ctx context.Context, rec *model.WellRecord) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE wells SET
			api_number = $1, well_name = $2, latitude = $3, longitude = $4,
			address = $5, county = $6, field = $7, operator = $8,
			permit_number = $9, permit_date = $10, total_depth = $11,
			formation = $12, stimulation_notes = $13
		 WHERE id = $14`,
		nullIfEmpty(rec.APINumber), rec.WellName, rec.Latitude, rec.Longitude,
		rec.Address, rec.County, rec.Field, rec.Operator,
		rec.PermitNumber, rec.PermitDate, rec.TotalDepth,
		rec.Formation, rec.StimulationNotes, rec.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update well %d", rec.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("well not found: %d", rec.ID)
	}
	return nil
}

func (s *PostgresStore) ListWellsForEnrichment(ctx context.Context) ([]model.WellRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, api_number, well_name, county
		 FROM wells
		 WHERE api_number IS NOT NULL AND api_number != 'N/A'
		   AND well_name IS NOT NULL AND well_name != 'N/A'
		   AND county IS NOT NULL AND county != 'N/A'
		   AND (drillingedge_url IS NULL OR drillingedge_url = '')
		 ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list wells for enrichment")
	}
	defer rows.Close()

	var wells []model.WellRecord
	for rows.Next() {
		var rec model.WellRecord
		if err := rows.Scan(&rec.ID, &rec.APINumber, &rec.WellName, &rec.County); err != nil {
			return nil, eris.Wrap(err, "postgres: scan enrichment candidate")
		}
		wells = append(wells, rec)
	}
	return wells, eris.Wrap(rows.Err(), "postgres: enrichment candidates iterate")
}

func (s *PostgresStore) UpdateEnrichment(ctx context.Context, wellID int64, enr *model.Enrichment) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE wells SET well_status = $1, well_type = $2, closest_city = $3, barrels_oil_produced = $4, mcf_gas_produced = $5, drillingedge_url = $6 WHERE id = $7`,
		orDefault(enr.WellStatus, "N/A"), orDefault(enr.WellType, "N/A"),
		orDefault(enr.ClosestCity, "N/A"), orDefault(enr.BarrelsOil, "0"),
		orDefault(enr.MCFGas, "0"), enr.SourceURL, wellID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update enrichment for well %d", wellID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("well not found: %d", wellID)
	}
	return nil
}

func (s *PostgresStore) StartRun(ctx context.Context) (*model.ExtractionRun, error) {
	run := &model.ExtractionRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO extraction_runs (id, started_at) VALUES ($1, $2)`,
		run.ID, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return run, nil
}

func (s *PostgresStore) FinishRun(ctx context.Context, run *model.ExtractionRun) error {
	run.FinishedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx,
		`UPDATE extraction_runs SET
			finished_at = $1, documents = $2, wells = $3, stim_rows = $4, failures = $5
		 WHERE id = $6`,
		run.FinishedAt, run.Documents, run.Wells, run.StimRows, run.Failures, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish run %s", run.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", run.ID)
	}
	return nil
}
