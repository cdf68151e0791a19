package webui_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pitchboard/internal/config"
	"pitchboard/internal/loader"
	pcsv "pitchboard/internal/parser/csv"
	"pitchboard/internal/report"
	"pitchboard/internal/transform"
	"pitchboard/internal/webui"
)

// rawExport uses the survey tool's literal headers; the normalize chain is
// responsible for renaming them.
const rawExport = "Response Type,Country where {{field:4b95525c-36f9-47c2-b2e9-50b3e64a92cb}} is based:,渠道,SOURCE\n" +
	"completed,Japan,KOL,weibo\n" +
	"completed,Japan,KOL,wechat\n" +
	"partial,France,email,newsletter\n" +
	"completed,Chile,,\n"

func newTestServer(t *testing.T) (*webui.Server, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(rawExport), 0o644))

	cfg := config.Default()
	cfg.Dataset.Path = path
	cfg.KeyCountries = []string{"France", "Japan"}

	chain, err := transform.FromConfig(cfg)
	require.NoError(t, err)

	l := loader.New(pcsv.Options{
		HasHeader: cfg.Dataset.HasHeader,
		Comma:     cfg.Dataset.DelimiterRune(),
		TrimSpace: cfg.Dataset.TrimSpace,
	}, loader.NewCache())

	return webui.NewServer(cfg, l, chain, zap.NewNop()), cfg
}

func get(t *testing.T, s *webui.Server, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestReportEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	var rep report.Report
	rec := get(t, s, "/api/report", &rep)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 4, rep.Overview.Total)
	assert.Equal(t, 3, rep.Overview.Complete)
	require.NotNil(t, rep.Overview.CompletionPct)
	assert.Equal(t, 75.0, *rep.Overview.CompletionPct)
	assert.Empty(t, rep.Message)

	assert.Equal(t, report.StatusOK, rep.Channels.Status)
	// industry is not in this export; its section degrades, the page renders.
	assert.Equal(t, report.StatusMissingColumn, rep.Industries.Status)
}

func TestReport_MissingDataFile(t *testing.T) {
	s, cfg := newTestServer(t)
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "gone.csv")

	var rep report.Report
	rec := get(t, s, "/api/report", &rep)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rep.Message, "was not found")
	assert.Equal(t, 0, rep.Overview.Total)
}

func TestChannelSources(t *testing.T) {
	s, _ := newTestServer(t)
	var sec report.ChartSection
	rec := get(t, s, "/api/channels/KOL/sources", &sec)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, report.StatusOK, sec.Status)
	require.Len(t, sec.Counts, 2)
	assert.Equal(t, "weibo", sec.Counts[0].Value)
	assert.Equal(t, "wechat", sec.Counts[1].Value)
}

func TestKeyCountrySummaryEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	var sec report.KeyCountrySection
	rec := get(t, s, "/api/summary/key-countries", &sec)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, report.StatusOK, sec.Status)
	require.Len(t, sec.Rows, 2)
	assert.Equal(t, "France", sec.Rows[0].Country)
	assert.Equal(t, "Japan", sec.Rows[1].Country)
	assert.Equal(t, "KOL", sec.Rows[1].TopChannel)
}

func TestWordCloud_UnknownField(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/wordcloud?field=nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "nope")
}

func TestRecords_FilterComposition(t *testing.T) {
	s, _ := newTestServer(t)

	var all struct {
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
		Total   int        `json:"total"`
	}
	rec := get(t, s, "/api/records", &all)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, all.Total)
	// listing projection keeps only the configured display columns present in
	// this export.
	assert.Contains(t, all.Columns, "country")
	assert.NotContains(t, all.Columns, "response_type")

	var filtered struct {
		Total int `json:"total"`
	}
	rec = get(t, s, "/api/records?country=Japan&status=complete", &filtered)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, filtered.Total)
}

/*
TestExportCSV round-trips the filtered export through the parser: the download
is a well-formed CSV whose rows match the active filters and whose header
carries the attachment disposition.
*/
func TestExportCSV(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/export.csv?country=Japan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filtered_pitch_data.csv")
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))

	tbl, skipped, err := pcsv.NewParser(pcsv.Options{HasHeader: true}).Parse(rec.Body)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, 2, tbl.Len())
	for _, row := range tbl.Rows() {
		v, ok := row.String("country")
		require.True(t, ok)
		assert.Equal(t, "Japan", v)
	}
}
