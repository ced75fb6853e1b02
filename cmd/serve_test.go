package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prairie-data/wellscan/internal/model"
	"github.com/prairie-data/wellscan/internal/store"
)

func newServeTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func doRequest(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	r := newRouter(newServeTestStore(t))

	rr := doRequest(t, r, "/api/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestRouter_ListWells_Empty(t *testing.T) {
	r := newRouter(newServeTestStore(t))

	rr := doRequest(t, r, "/api/wells")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestRouter_ListWells(t *testing.T) {
	st := newServeTestStore(t)
	lat, lon := 47.1, -102.5
	_, err := st.UpsertWell(context.Background(), &model.WellRecord{
		WellName:  "Smith Federal 12-34",
		APINumber: "33-053-06755",
		County:    "McKenzie",
		Latitude:  &lat,
		Longitude: &lon,
		PDFSource: "W1.pdf",
	})
	require.NoError(t, err)
	// No coordinates: excluded from the map listing.
	_, err = st.UpsertWell(context.Background(), &model.WellRecord{
		WellName:  "Dry Hole 1-1",
		PDFSource: "W2.pdf",
	})
	require.NoError(t, err)

	rr := doRequest(t, newRouter(st), "/api/wells")
	assert.Equal(t, http.StatusOK, rr.Code)

	var wells []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &wells))
	require.Len(t, wells, 1)
	assert.Equal(t, "Smith Federal 12-34", wells[0]["well_name"])
	assert.Equal(t, "McKenzie", wells[0]["county"])
	assert.InDelta(t, 47.1, wells[0]["latitude"], 1e-9)
}

func TestRouter_GetWell(t *testing.T) {
	st := newServeTestStore(t)
	id, err := st.UpsertWell(context.Background(), &model.WellRecord{
		WellName:  "Smith Federal 12-34",
		APINumber: "33-053-06755",
		County:    "McKenzie",
		PDFSource: "W1.pdf",
		Stimulations: []model.StimulationRecord{
			{DateStimulated: "2019-06-01", Formation: "Bakken"},
		},
	})
	require.NoError(t, err)

	rr := doRequest(t, newRouter(st), "/api/wells/"+strconv.FormatInt(id, 10))
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Well        map[string]any   `json:"well"`
		Stimulation []map[string]any `json:"stimulation"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Smith Federal 12-34", resp.Well["well_name"])
	require.Len(t, resp.Stimulation, 1)
	assert.Equal(t, "2019-06-01", resp.Stimulation[0]["date_stimulated"])
}

func TestRouter_GetWell_NotFound(t *testing.T) {
	rr := doRequest(t, newRouter(newServeTestStore(t)), "/api/wells/999")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rr.Body.String())
}

func TestRouter_GetWell_InvalidID(t *testing.T) {
	rr := doRequest(t, newRouter(newServeTestStore(t)), "/api/wells/abc")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"invalid id"}`, rr.Body.String())
}
