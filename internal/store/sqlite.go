package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/prairie-data/wellscan/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS wells (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	api_number           TEXT,
	well_file_no         TEXT,
	well_name            TEXT,
	latitude             REAL,
	longitude            REAL,
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
	created_at           DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS stimulation_data (
	id                         INTEGER PRIMARY KEY AUTOINCREMENT,
	well_id                    INTEGER NOT NULL REFERENCES wells(id),
	date_stimulated            TEXT,
	stimulated_formation       TEXT,
	top_ft                     REAL,
	bottom_ft                  REAL,
	stimulation_stages         INTEGER,
	volume                     REAL,
	volume_units               TEXT,
	type_treatment             TEXT,
	acid_pct                   TEXT,
	lbs_proppant               REAL,
	max_treatment_pressure_psi REAL,
	max_treatment_rate         REAL,
	details                    TEXT
);

CREATE TABLE IF NOT EXISTS extraction_runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME,
	documents   INTEGER NOT NULL DEFAULT 0,
	wells       INTEGER NOT NULL DEFAULT 0,
	stim_rows   INTEGER NOT NULL DEFAULT 0,
	failures    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_wells_api ON wells(api_number);
CREATE INDEX IF NOT EXISTS idx_wells_file ON wells(well_file_no);
CREATE INDEX IF NOT EXISTS idx_stim_well ON stimulation_data(well_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const wellColumns = `id, api_number, well_file_no, well_name, latitude, longitude,
	address, county, field, operator, permit_number, permit_date,
	total_depth, formation, stimulation_notes, raw_extract, pdf_source,
	well_status, well_type, closest_city, barrels_oil_produced,
	mcf_gas_produced, drillingedge_url`

const stimColumns = `id, well_id, date_stimulated, stimulated_formation, top_ft,
	bottom_ft, stimulation_stages, volume, volume_units, type_treatment,
	acid_pct, lbs_proppant, max_treatment_pressure_psi, max_treatment_rate,
	details`

func (s *SQLiteStore) UpsertWell(ctx context.Context, rec *model.WellRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wells (api_number, well_file_no, well_name, latitude, longitude,
			address, county, field, operator, permit_number, permit_date,
			total_depth, formation, stimulation_notes, raw_extract, pdf_source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pdf_source) DO UPDATE SET
			api_number=excluded.api_number, well_file_no=excluded.well_file_no,
			well_name=excluded.well_name, latitude=excluded.latitude,
			longitude=excluded.longitude, address=excluded.address,
			county=excluded.county, field=excluded.field,
			operator=excluded.operator, permit_number=excluded.permit_number,
			permit_date=excluded.permit_date, total_depth=excluded.total_depth,
			formation=excluded.formation, stimulation_notes=excluded.stimulation_notes,
			raw_extract=excluded.raw_extract`,
		nullIfEmpty(rec.APINumber), rec.WellFileNo, rec.WellName,
		rec.Latitude, rec.Longitude, rec.Address, rec.County, rec.Field,
		rec.Operator, rec.PermitNumber, rec.PermitDate, rec.TotalDepth,
		rec.Formation, rec.StimulationNotes, rec.RawExtract, rec.PDFSource,
	)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: upsert well %s", rec.PDFSource)
	}

	var wellID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM wells WHERE pdf_source = ?`, rec.PDFSource,
	).Scan(&wellID); err != nil {
		return 0, eris.Wrapf(err, "sqlite: lookup well %s", rec.PDFSource)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM stimulation_data WHERE well_id = ?`, wellID,
	); err != nil {
		return 0, eris.Wrapf(err, "sqlite: clear stim rows for well %d", wellID)
	}

	for _, sr := range rec.Stimulations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO stimulation_data (well_id, date_stimulated,
				stimulated_formation, top_ft, bottom_ft, stimulation_stages,
				volume, volume_units, type_treatment, acid_pct, lbs_proppant,
				max_treatment_pressure_psi, max_treatment_rate, details)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			wellID, nullIfEmpty(sr.DateStimulated), nullIfEmpty(sr.Formation),
			sr.TopFt, sr.BottomFt, sr.Stages, sr.Volume,
			nullIfEmpty(sr.VolumeUnits), nullIfEmpty(sr.TypeTreatment),
			nullIfEmpty(sr.AcidPct), sr.LbsProppant, sr.MaxPressurePSI,
			sr.MaxRate, nullIfEmpty(sr.Details),
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert stim row for well %d", wellID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrapf(err, "sqlite: commit upsert %s", rec.PDFSource)
	}
	return wellID, nil
}

func (s *SQLiteStore) GetWell(ctx context.Context, id int64) (*model.WellRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+wellColumns+` FROM wells WHERE id = ?`, id)

	rec, err := scanWell(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get well %d", id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+stimColumns+` FROM stimulation_data WHERE well_id = ?
		 ORDER BY (date_stimulated IS NULL), date_stimulated`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get stim rows for well %d", id)
	}
	defer rows.Close()

	for rows.Next() {
		sr, err := scanStim(rows)
		if err != nil {
			return nil, err
		}
		rec.Stimulations = append(rec.Stimulations, *sr)
	}
	return rec, eris.Wrap(rows.Err(), "sqlite: stim rows iterate")
}

func (s *SQLiteStore) ListWellsWithCoords(ctx context.Context) ([]model.WellRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, well_name, api_number, latitude, longitude, county
		 FROM wells
		 WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		 ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list wells with coords")
	}
	defer rows.Close()

	var wells []model.WellRecord
	for rows.Next() {
		var rec model.WellRecord
		var name, api, county sql.NullString
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&rec.ID, &name, &api, &lat, &lon, &county); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan well summary")
		}
		rec.WellName = name.String
		rec.APINumber = api.String
		rec.County = county.String
		if lat.Valid {
			v := lat.Float64
			rec.Latitude = &v
		}
		if lon.Valid {
			v := lon.Float64
			rec.Longitude = &v
		}
		wells = append(wells, rec)
	}
	return wells, eris.Wrap(rows.Err(), "sqlite: list wells iterate")
}

func (s *SQLiteStore) ListWells(ctx context.Context) ([]model.WellRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+wellColumns+` FROM wells ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list wells")
	}
	defer rows.Close()

	var wells []model.WellRecord
	for rows.Next() {
		rec, err := scanWell(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan well")
		}
		wells = append(wells, *rec)
	}
	return wells, eris.Wrap(rows.Err(), "sqlite: list wells iterate")
}

func (s *SQLiteStore) UpdateWellFields(ctx context.Context, rec *model.WellRecord) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE wells SET
			api_number = ?, well_name = ?, latitude = ?, longitude = ?,
			address = ?, county = ?, field = ?, operator = ?,
			permit_number = ?, permit_date = ?, total_depth = ?,
			formation = ?, stimulation_notes = ?
		 WHERE id = ?`,
		nullIfEmpty(rec.APINumber), rec.WellName, rec.Latitude, rec.Longitude,
		rec.Address, rec.County, rec.Field, rec.Operator,
		rec.PermitNumber, rec.PermitDate, rec.TotalDepth,
		rec.Formation, rec.StimulationNotes, rec.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update well %d", rec.ID)
	}
	return checkRowsAffected(res, "well", rec.ID)
}

func (s *SQLiteStore) ListWellsForEnrichment(ctx context.Context) ([]model.WellRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, api_number, well_name, county
		 FROM wells
		 WHERE api_number IS NOT NULL AND api_number != 'N/A'
		   AND well_name IS NOT NULL AND well_name != 'N/A'
		   AND county IS NOT NULL AND county != 'N/A'
		   AND (drillingedge_url IS NULL OR drillingedge_url = '')
		 ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list wells for enrichment")
	}
	defer rows.Close()

	var wells []model.WellRecord
	for rows.Next() {
		var rec model.WellRecord
		if err := rows.Scan(&rec.ID, &rec.APINumber, &rec.WellName, &rec.County); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan enrichment candidate")
		}
		wells = append(wells, rec)
	}
	return wells, eris.Wrap(rows.Err(), "sqlite: enrichment candidates iterate")
}

func (s *SQLiteStore) UpdateEnrichment(ctx context.Context, wellID int64, enr *model.Enrichment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE wells SET
			well_status = ?, well_type = ?, closest_city = ?,
			barrels_oil_produced = ?, mcf_gas_produced = ?, drillingedge_url = ?
		 WHERE id = ?`,
		orDefault(enr.WellStatus, "N/A"), orDefault(enr.WellType, "N/A"),
		orDefault(enr.ClosestCity, "N/A"), orDefault(enr.BarrelsOil, "0"),
		orDefault(enr.MCFGas, "0"), enr.SourceURL, wellID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update enrichment for well %d", wellID)
	}
	return checkRowsAffected(res, "well", wellID)
}

func (s *SQLiteStore) StartRun(ctx context.Context) (*model.ExtractionRun, error) {
	run := &model.ExtractionRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extraction_runs (id, started_at) VALUES (?, ?)`,
		run.ID, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, run *model.ExtractionRun) error {
	run.FinishedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE extraction_runs SET
			finished_at = ?, documents = ?, wells = ?, stim_rows = ?, failures = ?
		 WHERE id = ?`,
		run.FinishedAt, run.Documents, run.Wells, run.StimRows, run.Failures, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", run.ID)
	}
	return checkRowsAffectedStr(res, "run", run.ID)
}

// helpers

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func checkRowsAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %d", entity, id)
	}
	return nil
}

func checkRowsAffectedStr(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanWell(row scannable) (*model.WellRecord, error) {
	var rec model.WellRecord
	var api, fileNo, name, addr, county, field, op sql.NullString
	var permitNo, permitDate, depth, formation, notes, raw, source sql.NullString
	var lat, lon sql.NullFloat64
	var status, wtype, city, oil, gas, url sql.NullString

	err := row.Scan(
		&rec.ID, &api, &fileNo, &name, &lat, &lon,
		&addr, &county, &field, &op, &permitNo, &permitDate,
		&depth, &formation, &notes, &raw, &source,
		&status, &wtype, &city, &oil, &gas, &url,
	)
	if err != nil {
		return nil, err
	}

	rec.APINumber = api.String
	rec.WellFileNo = fileNo.String
	rec.WellName = name.String
	rec.Address = addr.String
	rec.County = county.String
	rec.Field = field.String
	rec.Operator = op.String
	rec.PermitNumber = permitNo.String
	rec.PermitDate = permitDate.String
	rec.TotalDepth = depth.String
	rec.Formation = formation.String
	rec.StimulationNotes = notes.String
	rec.RawExtract = raw.String
	rec.PDFSource = source.String
	if lat.Valid {
		v := lat.Float64
		rec.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		rec.Longitude = &v
	}
	rec.Enrichment = &model.Enrichment{
		WellStatus:  status.String,
		WellType:    wtype.String,
		ClosestCity: city.String,
		BarrelsOil:  oil.String,
		MCFGas:      gas.String,
		SourceURL:   url.String,
	}
	return &rec, nil
}

func scanStim(row scannable) (*model.StimulationRecord, error) {
	var sr model.StimulationRecord
	var date, formation, units, treat, acid, details sql.NullString
	var top, bottom, volume, lbs, psi, rate sql.NullFloat64
	var stages sql.NullInt64

	err := row.Scan(
		&sr.ID, &sr.WellID, &date, &formation, &top, &bottom, &stages,
		&volume, &units, &treat, &acid, &lbs, &psi, &rate, &details,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: scan stim row")
	}

	sr.DateStimulated = date.String
	sr.Formation = formation.String
	sr.VolumeUnits = units.String
	sr.TypeTreatment = treat.String
	sr.AcidPct = acid.String
	sr.Details = details.String
	if top.Valid {
		v := top.Float64
		sr.TopFt = &v
	}
	if bottom.Valid {
		v := bottom.Float64
		sr.BottomFt = &v
	}
	if stages.Valid {
		v := int(stages.Int64)
		sr.Stages = &v
	}
	if volume.Valid {
		v := volume.Float64
		sr.Volume = &v
	}
	if lbs.Valid {
		v := lbs.Float64
		sr.LbsProppant = &v
	}
	if psi.Valid {
		v := psi.Float64
		sr.MaxPressurePSI = &v
	}
	if rate.Valid {
		v := rate.Float64
		sr.MaxRate = &v
	}
	return &sr, nil
}
