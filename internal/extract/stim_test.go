package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStimulations_BasicBlock(t *testing.T) {
	e := testExtractor()
	text := "Completion Report\n" +
		"Date Stimulated Stimulated Formation Top (Ft) Bottom (Ft) Stages Volume\n" +
		"6/1/2019 Bakken 9500 9800 12 450000\n"

	rows := e.ExtractStimulations(text)
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "2019-06-01", r.DateStimulated)
	assert.Equal(t, "Bakken", r.Formation)
	require.NotNil(t, r.TopFt)
	assert.Equal(t, 9500.0, *r.TopFt)
	require.NotNil(t, r.BottomFt)
	assert.Equal(t, 9800.0, *r.BottomFt)
	require.NotNil(t, r.Stages)
	assert.Equal(t, 12, *r.Stages)
	require.NotNil(t, r.Volume)
	assert.Equal(t, 450000.0, *r.Volume)
}

func TestExtractStimulations_RejectsBlockWithoutFormationHeader(t *testing.T) {
	e := testExtractor()
	text := "preamble\nDate Stimulated something else\n6/1/2019 9500 9800 12 450000\n"
	assert.Empty(t, e.ExtractStimulations(text))
}

func TestExtractStimulations_RejectsBlockWithoutProppantVolumeOrFormation(t *testing.T) {
	e := testExtractor()
	// Data line parses but yields neither proppant, volume, nor formation.
	text := "preamble\nDate Stimulated Stimulated Formation\n6/1/2019 9500\n"
	assert.Empty(t, e.ExtractStimulations(text))
}

func TestExtractStimulations_TreatmentSection(t *testing.T) {
	e := testExtractor()
	text := "preamble\n" +
		"Date Stimulated Stimulated Formation Top (Ft) Bottom (Ft) Stages Volume\n" +
		"6/1/2019 Bakken 9500 9800 12 450000\n" +
		"Barrels\n" +
		"Type Treatment\n" +
		"Sand Frac 2500000 8500 45\n" +
		"Details\n" +
		"Pumped 2500000 lbs 20/40 sand\n"

	rows := e.ExtractStimulations(text)
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "Sand Frac", r.TypeTreatment)
	assert.Equal(t, "Barrels", r.VolumeUnits)
	require.NotNil(t, r.LbsProppant)
	assert.Equal(t, 2500000.0, *r.LbsProppant)
	require.NotNil(t, r.MaxPressurePSI)
	assert.Equal(t, 8500.0, *r.MaxPressurePSI)
	require.NotNil(t, r.MaxRate)
	assert.Equal(t, 45.0, *r.MaxRate)
	assert.Equal(t, "Pumped 2500000 lbs 20/40 sand", r.Details)
}

func TestExtractStimulations_AcidPercent(t *testing.T) {
	e := testExtractor()
	text := "preamble\n" +
		"Date Stimulated Stimulated Formation\n" +
		"6/1/2019 Madison 8000 8200 4 1200\n" +
		"Type Treatment\n" +
		"Acid 15 %\n"

	rows := e.ExtractStimulations(text)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acid", rows[0].TypeTreatment)
	assert.Equal(t, "15", rows[0].AcidPct)
}

func TestExtractStimulations_OCRDigitFixes(t *testing.T) {
	e := testExtractor()
	// "ll0000" should read as 110000 once the l-for-1 fix applies; it lands
	// in the volume slot.
	text := "preamble\n" +
		"Date Stimulated Stimulated Formation\n" +
		"6/1/2019 Bakken 9500 9800 12 ll0000\n"

	rows := e.ExtractStimulations(text)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Volume)
	assert.Equal(t, 110000.0, *rows[0].Volume)
}

func TestExtractStimulations_TableRowFallback(t *testing.T) {
	e := testExtractor()
	text := "Sand Frac 3200000 9100 38\n"
	rows := e.ExtractStimulations(text)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sand Frac", rows[0].TypeTreatment)
	require.NotNil(t, rows[0].LbsProppant)
	assert.Equal(t, 3200000.0, *rows[0].LbsProppant)
}

func TestExtractStimulations_TableRowFallbackDedupes(t *testing.T) {
	e := testExtractor()
	text := "preamble\n" +
		"Date Stimulated Stimulated Formation\n" +
		"6/1/2019 Bakken 9500 9800 12 450000\n" +
		"Type Treatment\n" +
		"Sand Frac 2500000\n" +
		"separate mention: Sand Frac 2500000\n"

	rows := e.ExtractStimulations(text)
	require.Len(t, rows, 1)
}
