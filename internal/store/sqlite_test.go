package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prairie-data/wellscan/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func f64(v float64) *float64 { return &v }

func sampleWell() *model.WellRecord {
	return &model.WellRecord{
		APINumber:        "33-053-06755",
		WellFileNo:       "28651",
		WellName:         "Smith Federal 12-34",
		Latitude:         f64(47.123456),
		Longitude:        f64(-102.567800),
		Address:          "PO Box 1234, Williston, ND 58801",
		County:           "McKenzie",
		Field:            "Sanish",
		Operator:         "Continental Resources",
		PermitNumber:     "12345",
		PermitDate:       "2019-05-01",
		TotalDepth:       "21000 ft",
		Formation:        "Bakken",
		StimulationNotes: "Bakken, 2500000 lbs proppant, Sand Frac",
		RawExtract:       "raw text",
		PDFSource:        "W28651.pdf",
		Stimulations: []model.StimulationRecord{
			{
				DateStimulated: "2019-06-01",
				Formation:      "Bakken",
				TopFt:          f64(9500),
				BottomFt:       f64(9800),
				Volume:         f64(450000),
				VolumeUnits:    "Barrels",
				TypeTreatment:  "Sand Frac",
				LbsProppant:    f64(2500000),
			},
		},
	}
}

func TestSQLiteStore_UpsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertWell(ctx, sampleWell())
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := s.GetWell(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "33-053-06755", got.APINumber)
	assert.Equal(t, "Smith Federal 12-34", got.WellName)
	assert.Equal(t, "McKenzie", got.County)
	require.NotNil(t, got.Latitude)
	assert.InDelta(t, 47.123456, *got.Latitude, 1e-9)
	require.NotNil(t, got.Longitude)
	assert.InDelta(t, -102.5678, *got.Longitude, 1e-9)

	require.Len(t, got.Stimulations, 1)
	sr := got.Stimulations[0]
	assert.Equal(t, "2019-06-01", sr.DateStimulated)
	assert.Equal(t, "Bakken", sr.Formation)
	require.NotNil(t, sr.LbsProppant)
	assert.Equal(t, float64(2500000), *sr.LbsProppant)
	assert.Nil(t, sr.Stages)

	require.NotNil(t, got.Enrichment)
	assert.Equal(t, "N/A", got.Enrichment.WellStatus)
	assert.Empty(t, got.Enrichment.SourceURL)
}

func TestSQLiteStore_GetWell_Missing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetWell(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_UpsertReplacesStimRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleWell()
	id1, err := s.UpsertWell(ctx, rec)
	require.NoError(t, err)

	rec.WellName = "Smith Federal 12-34R"
	rec.Stimulations = []model.StimulationRecord{
		{DateStimulated: "2020-01-15", Formation: "Three Forks", LbsProppant: f64(1000000)},
		{Formation: "Bakken", Volume: f64(300000)},
	}
	id2, err := s.UpsertWell(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	got, err := s.GetWell(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "Smith Federal 12-34R", got.WellName)
	require.Len(t, got.Stimulations, 2)
	// Dated rows sort before undated ones.
	assert.Equal(t, "2020-01-15", got.Stimulations[0].DateStimulated)
	assert.Empty(t, got.Stimulations[1].DateStimulated)
}

func TestSQLiteStore_EmptyAPINumberStoredAsNull(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleWell()
	rec.APINumber = ""
	id, err := s.UpsertWell(ctx, rec)
	require.NoError(t, err)

	got, err := s.GetWell(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.APINumber)

	candidates, err := s.ListWellsForEnrichment(ctx)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSQLiteStore_ListWellsWithCoords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	with := sampleWell()
	_, err := s.UpsertWell(ctx, with)
	require.NoError(t, err)

	without := sampleWell()
	without.PDFSource = "W11111.pdf"
	without.Latitude = nil
	without.Longitude = nil
	_, err = s.UpsertWell(ctx, without)
	require.NoError(t, err)

	wells, err := s.ListWellsWithCoords(ctx)
	require.NoError(t, err)
	require.Len(t, wells, 1)
	assert.Equal(t, "Smith Federal 12-34", wells[0].WellName)
	assert.Equal(t, "McKenzie", wells[0].County)
}

func TestSQLiteStore_ListWells(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := sampleWell()
	b := sampleWell()
	b.PDFSource = "W11111.pdf"
	_, err := s.UpsertWell(ctx, a)
	require.NoError(t, err)
	_, err = s.UpsertWell(ctx, b)
	require.NoError(t, err)

	wells, err := s.ListWells(ctx)
	require.NoError(t, err)
	require.Len(t, wells, 2)
	assert.Equal(t, "W28651.pdf", wells[0].PDFSource)
	assert.Equal(t, "W11111.pdf", wells[1].PDFSource)
}

func TestSQLiteStore_UpdateWellFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertWell(ctx, sampleWell())
	require.NoError(t, err)

	got, err := s.GetWell(ctx, id)
	require.NoError(t, err)
	got.County = "Mountrail"
	got.PermitDate = "2019-05-02"
	require.NoError(t, s.UpdateWellFields(ctx, got))

	got2, err := s.GetWell(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Mountrail", got2.County)
	assert.Equal(t, "2019-05-02", got2.PermitDate)
}

func TestSQLiteStore_UpdateWellFields_Missing(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateWellFields(context.Background(), &model.WellRecord{ID: 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "well not found: 42")
}

func TestSQLiteStore_Enrichment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertWell(ctx, sampleWell())
	require.NoError(t, err)

	candidates, err := s.ListWellsForEnrichment(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, id, candidates[0].ID)
	assert.Equal(t, "Smith Federal 12-34", candidates[0].WellName)

	enr := &model.Enrichment{
		WellStatus:  "ACTIVE",
		WellType:    "OIL",
		ClosestCity: "Watford City",
		BarrelsOil:  "12345",
		MCFGas:      "67890",
		SourceURL:   "https://www.drillingedge.com/north-dakota/mckenzie-county/wells/smith-federal-12-34/33-053-06755",
	}
	require.NoError(t, s.UpdateEnrichment(ctx, id, enr))

	// Enriched wells drop out of the candidate list.
	candidates, err = s.ListWellsForEnrichment(ctx)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	got, err := s.GetWell(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.Enrichment)
	assert.Equal(t, "ACTIVE", got.Enrichment.WellStatus)
	assert.Equal(t, "Watford City", got.Enrichment.ClosestCity)
	assert.Equal(t, enr.SourceURL, got.Enrichment.SourceURL)
}

func TestSQLiteStore_UpdateEnrichment_Defaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertWell(ctx, sampleWell())
	require.NoError(t, err)

	require.NoError(t, s.UpdateEnrichment(ctx, id, &model.Enrichment{SourceURL: "https://example.com/w"}))

	got, err := s.GetWell(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "N/A", got.Enrichment.WellStatus)
	assert.Equal(t, "0", got.Enrichment.BarrelsOil)
	assert.Equal(t, "0", got.Enrichment.MCFGas)
}

func TestSQLiteStore_Runs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.StartRun(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	run.Documents = 10
	run.Wells = 9
	run.StimRows = 14
	run.Failures = 1
	require.NoError(t, s.FinishRun(ctx, run))
	assert.False(t, run.FinishedAt.IsZero())
}

func TestSQLiteStore_FinishRun_Missing(t *testing.T) {
	s := newTestStore(t)

	err := s.FinishRun(context.Background(), &model.ExtractionRun{ID: "no-such-run"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}
