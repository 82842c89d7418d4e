package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JonMunkholm/movesimport/internal/config"
	"github.com/JonMunkholm/movesimport/internal/core"
	_ "github.com/JonMunkholm/movesimport/internal/core/importers"
	"github.com/JonMunkholm/movesimport/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, svc *core.Service) *Server {
	t.Helper()
	testutil.UseTestLogger(t)
	return NewServer(svc, config.ServerConfig{RequestTimeout: 5 * time.Second})
}

func newProjectServer(t *testing.T) (*Server, *sql.DB) {
	t.Helper()
	db := testutil.OpenProjectDB(t)
	svc := core.NewService(db, config.CheckConfig{Timeout: 5 * time.Second, MaxConcurrent: 2, MaxWait: time.Second})
	return newTestServer(t, svc), db
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// checkResponse mirrors core.CheckResult with the status as text.
type checkResponse struct {
	CheckID  string   `json:"checkId"`
	Importer string   `json:"importer"`
	Status   string   `json:"status"`
	Messages []string `json:"messages"`
}

func TestHealth(t *testing.T) {
	s, _ := newProjectServer(t)

	rec := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestHealth_NoDatabase(t *testing.T) {
	s := newTestServer(t, core.NewService(nil, config.CheckConfig{}))

	rec := get(t, s, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "ERR000", decode[ErrorResponse](t, rec).Code)
}

func TestListImporters(t *testing.T) {
	s, _ := newProjectServer(t)

	rec := get(t, s, "/api/importers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	importers := decode[[]ImporterResponse](t, rec)
	require.NotEmpty(t, importers)

	var found bool
	for _, imp := range importers {
		if imp.NodeName == "linksourcetypehour" {
			found = true
			assert.Equal(t, "Link Source Types", imp.Name)
			assert.Equal(t, []string{"LinkSourceTypeHour"}, imp.RequiredTables)
			assert.True(t, imp.ExecutionDataExport)
			assert.False(t, imp.DefaultDataExport)
		}
	}
	assert.True(t, found, "linksourcetypehour should be listed")
}

func TestDescribeImporter(t *testing.T) {
	s, _ := newProjectServer(t)

	rec := get(t, s, "/api/importers/LinkSourceTypeHour")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		NodeName string `json:"nodeName"`
		Tables   []struct {
			Name    string `json:"name"`
			Columns []struct {
				Name        string `json:"name"`
				LookupTable string `json:"lookupTable"`
				Filter      string `json:"filter"`
			} `json:"columns"`
			Headers      []string          `json:"headers"`
			Mapping      map[string]string `json:"mapping"`
			LookupTables []string          `json:"lookupTables"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "linksourcetypehour", body.NodeName)
	require.Len(t, body.Tables, 1)
	table := body.Tables[0]
	assert.Equal(t, "LinkSourceTypeHour", table.Name)
	assert.Equal(t, []string{"linkID", "sourceTypeID", "sourceTypeHourFraction"}, table.Headers)
	assert.Equal(t, "sourceTypeHourFraction", table.Mapping["sourcetypehourfraction"])
	assert.Equal(t, []string{"SourceUseType"}, table.LookupTables)
	require.Len(t, table.Columns, 3)
	assert.Equal(t, "none", table.Columns[0].Filter)
	assert.Equal(t, "source_type", table.Columns[1].Filter)
	assert.Equal(t, "SourceUseType", table.Columns[1].LookupTable)
	assert.Equal(t, "non_negative", table.Columns[2].Filter)
}

func TestImporterStatus(t *testing.T) {
	s, db := newProjectServer(t)
	testutil.InsertSourceTypes(t, db, 21, 31)
	testutil.InsertLink(t, db, 10, 5)
	testutil.InsertLink(t, db, 11, 2)
	testutil.InsertFraction(t, db, 10, 21, 0.6)
	testutil.InsertFraction(t, db, 10, 31, 0.3)
	testutil.InsertFraction(t, db, 11, 21, 1.0)

	rec := get(t, s, "/api/importers/linksourcetypehour/status")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[checkResponse](t, rec)
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "linksourcetypehour", body.Importer)
	assert.NotEmpty(t, body.CheckID)
	assert.Equal(t, []string{"ERROR: sourceTypeHourFraction sums to 0.9 on linkID 10"}, body.Messages)
}

func TestImporterStatus_Ready(t *testing.T) {
	s, db := newProjectServer(t)
	testutil.InsertSourceTypes(t, db, 21, 31)
	testutil.InsertLink(t, db, 10, 5)
	testutil.InsertFraction(t, db, 10, 21, 0.6)
	testutil.InsertFraction(t, db, 10, 31, 0.4)

	rec := get(t, s, "/api/importers/linksourcetypehour/status?sourceTypes=21,31")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[checkResponse](t, rec)
	assert.Equal(t, "ready", body.Status)
	assert.NotNil(t, body.Messages)
	assert.Empty(t, body.Messages)
}

func TestImporterStatus_RunSpecSelection(t *testing.T) {
	s, db := newProjectServer(t)
	testutil.InsertSourceTypes(t, db, 21, 31)
	testutil.InsertLink(t, db, 10, 5)
	testutil.InsertFraction(t, db, 10, 21, 1.0)

	rec := get(t, s, "/api/importers/linksourcetypehour/status?sourceTypes=21,31")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[checkResponse](t, rec)
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, []string{"ERROR: linkSourceTypeHour is missing sourceTypeID(s): 31"}, body.Messages)
}

func TestImporterStatus_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		emptyDB  bool
		wantCode int
		wantErr  string
	}{
		{"unknown importer", "/api/importers/nonroad/status", false, http.StatusNotFound, "IMP001"},
		{"bad source types", "/api/importers/linksourcetypehour/status?sourceTypes=21,bus", false, http.StatusBadRequest, "CHK003"},
		{"missing tables", "/api/importers/linksourcetypehour/status", true, http.StatusServiceUnavailable, "DB001"},
		{"unknown importer detail", "/api/importers/nonroad", false, http.StatusNotFound, "IMP001"},
		{"bad source types for all", "/api/status?sourceTypes=0", false, http.StatusBadRequest, "CHK003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s *Server
			if tt.emptyDB {
				svc := core.NewService(testutil.OpenEmptyDB(t), config.CheckConfig{})
				s = newTestServer(t, svc)
			} else {
				s, _ = newProjectServer(t)
			}

			rec := get(t, s, tt.path)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			body := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.wantErr, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestProjectStatus(t *testing.T) {
	s, db := newProjectServer(t)
	testutil.InsertSourceTypes(t, db, 21)
	testutil.InsertLink(t, db, 10, 5)
	testutil.InsertLink(t, db, 12, 5)
	testutil.InsertFraction(t, db, 10, 21, 1.0)

	rec := get(t, s, "/api/status")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Status  string          `json:"status"`
		Results []checkResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "not_ready", body.Status)
	require.NotEmpty(t, body.Results)
	for _, res := range body.Results {
		if res.Importer == "linksourcetypehour" {
			assert.Equal(t, []string{"ERROR: linkID 12 is missing."}, res.Messages)
		}
	}
}

func TestLimiterStatus(t *testing.T) {
	s, _ := newProjectServer(t)

	rec := get(t, s, "/api/checks/limiter")
	require.Equal(t, http.StatusOK, rec.Code)

	status := decode[core.CheckLimiterStatus](t, rec)
	assert.Equal(t, core.CheckLimiterStatus{Active: 0, Available: 2, MaxConcurrent: 2}, status)
}
