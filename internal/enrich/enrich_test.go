package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prairie-data/wellscan/internal/config"
	"github.com/prairie-data/wellscan/internal/model"
	"github.com/prairie-data/wellscan/internal/store"
)

const wellPageHTML = `<html><head><title>Smith Federal 12-34</title></head><body>
<table>
<tr><th>Well Status</th><td>ACTIVE</td></tr>
<tr><th>Well Type</th><td>OIL</td></tr>
<tr><th>Closest City</th><td>Watford City</td></tr>
</table>
<p><span>12,345</span> Barrels of Oil Produced in June</p>
<p><span>67,890</span> MCF of Gas Produced in June</p>
</body></html>`

func testScraper(baseURL string) *Scraper {
	return NewScraper(config.ScrapeConfig{
		BaseURL:     baseURL,
		State:       "north-dakota",
		DelayMS:     1,
		TimeoutSecs: 5,
		MaxRetries:  2,
		UserAgent:   "test-agent",
	})
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "McKenzie", "mckenzie"},
		{"spaces and digits", "Smith Federal 12-34", "smith-federal-12-34"},
		{"punctuation", "Brown & Root #1", "brown-root-1"},
		{"leading trailing", "  Sanish  ", "sanish"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestParseWellPage(t *testing.T) {
	enr := parseWellPage(wellPageHTML)
	assert.Equal(t, "ACTIVE", enr.WellStatus)
	assert.Equal(t, "OIL", enr.WellType)
	assert.Equal(t, "Watford City", enr.ClosestCity)
	assert.Equal(t, "12345", enr.BarrelsOil)
	assert.Equal(t, "67890", enr.MCFGas)
}

func TestParseWellPage_MissingStats(t *testing.T) {
	enr := parseWellPage(`<html><body><p>Nothing here</p></body></html>`)
	assert.Empty(t, enr.WellStatus)
	assert.Empty(t, enr.BarrelsOil)
}

func TestEnrichWell_DirectHit(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(wellPageHTML)) //nolint:errcheck
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	rec := model.WellRecord{
		WellName:  "Smith Federal 12-34",
		County:    "McKenzie",
		APINumber: "33-053-06755",
	}
	enr, err := s.EnrichWell(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, enr)
	assert.Equal(t, "/north-dakota/mckenzie-county/wells/smith-federal-12-34/33-053-06755", gotPath)
	assert.Equal(t, "ACTIVE", enr.WellStatus)
	assert.Equal(t, srv.URL+gotPath, enr.SourceURL)
}

func TestEnrichWell_SearchFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wells", r.URL.Query().Get("type"))
		assert.Equal(t, "Smith Federal 12-34", r.URL.Query().Get("q"))
		w.Write([]byte(`<a href="/north-dakota/mckenzie-county/wells/smith-federal-12-34">Smith Federal</a>`)) //nolint:errcheck
	})
	mux.HandleFunc("/north-dakota/mckenzie-county/wells/smith-federal-12-34", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(wellPageHTML)) //nolint:errcheck
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := testScraper(srv.URL)
	rec := model.WellRecord{
		WellName:  "Smith Federal 12-34",
		County:    "McKenzie",
		APINumber: "33-099-00000",
	}
	enr, err := s.EnrichWell(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, enr)
	assert.Equal(t, "OIL", enr.WellType)
	assert.Contains(t, enr.SourceURL, "/wells/smith-federal-12-34")
}

func TestEnrichWell_NoResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<p>No wells matched.</p>`)) //nolint:errcheck
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := testScraper(srv.URL)
	enr, err := s.EnrichWell(context.Background(), model.WellRecord{WellName: "Ghost 1-1", County: "Ward"})
	require.NoError(t, err)
	assert.Nil(t, enr)
}

func TestFetch_RetriesTransientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html>ok page body</html>")) //nolint:errcheck
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	body, err := s.fetch(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Contains(t, body, "ok page body")
	assert.Equal(t, 2, attempts)
}

func TestFetch_NoRetryOn404(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	_, err := s.fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	id, err := st.UpsertWell(ctx, &model.WellRecord{
		APINumber: "33-053-06755",
		WellName:  "Smith Federal 12-34",
		County:    "McKenzie",
		PDFSource: "W1.pdf",
	})
	require.NoError(t, err)

	// A well missing its county never becomes a candidate.
	_, err = st.UpsertWell(ctx, &model.WellRecord{
		APINumber: "33-053-00001",
		WellName:  "Orphan 1-1",
		County:    "N/A",
		PDFSource: "W2.pdf",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(wellPageHTML)) //nolint:errcheck
	}))
	defer srv.Close()

	updated, err := Run(ctx, st, testScraper(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got, err := st.GetWell(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.Enrichment)
	assert.Equal(t, "ACTIVE", got.Enrichment.WellStatus)
	assert.Equal(t, "12345", got.Enrichment.BarrelsOil)
	assert.NotEmpty(t, got.Enrichment.SourceURL)

	// Second run has no candidates left.
	updated, err = Run(ctx, st, testScraper(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}
