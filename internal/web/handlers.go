package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/movesimport/internal/core"
	"github.com/go-chi/chi/v5"
)

// ImporterResponse is the JSON form of an importer's display information.
type ImporterResponse struct {
	Name                string   `json:"name"`
	NodeName            string   `json:"nodeName"`
	PrimaryTable        string   `json:"primaryTable"`
	RequiredTables      []string `json:"requiredTables"`
	ExecutionDataExport bool     `json:"executionDataExport"`
	DefaultDataExport   bool     `json:"defaultDataExport"`
}

// ColumnResponse describes one imported column.
type ColumnResponse struct {
	Name        string      `json:"name"`
	LookupTable string      `json:"lookupTable,omitempty"`
	Filter      core.Filter `json:"filter"`
}

// TableResponse describes one table with what a file importer needs to read it.
type TableResponse struct {
	Name         string            `json:"name"`
	Columns      []ColumnResponse  `json:"columns"`
	Headers      []string          `json:"headers"`
	Mapping      map[string]string `json:"mapping"`
	LookupTables []string          `json:"lookupTables"`
}

// ImporterDetailResponse is an importer with its tables.
type ImporterDetailResponse struct {
	ImporterResponse
	Tables []TableResponse `json:"tables"`
}

// ProjectStatusResponse is the outcome of checking every importer.
type ProjectStatusResponse struct {
	Status  core.SectionStatus `json:"status"`
	Results []core.CheckResult `json:"results"`
}

func toImporterResponse(info core.ImporterInfo) ImporterResponse {
	required := info.RequiredTables
	if required == nil {
		required = []string{}
	}
	return ImporterResponse{
		Name:                info.Name,
		NodeName:            info.NodeName,
		PrimaryTable:        info.PrimaryTable,
		RequiredTables:      required,
		ExecutionDataExport: info.ExecutionDataExport,
		DefaultDataExport:   info.DefaultDataExport,
	}
}

func toTableResponse(table core.TableSpec) TableResponse {
	cols := make([]ColumnResponse, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = ColumnResponse{Name: c.Name, LookupTable: c.LookupTable, Filter: c.Filter}
	}
	lookups := core.LookupTables(table)
	if lookups == nil {
		lookups = []string{}
	}
	return TableResponse{
		Name:         table.Name,
		Columns:      cols,
		Headers:      core.Headers(table),
		Mapping:      core.ColumnMapping(table),
		LookupTables: lookups,
	}
}

// runSpecFromRequest reads run selections from the query string.
func runSpecFromRequest(r *http.Request) (*core.RunSpec, error) {
	raw := r.URL.Query().Get("sourceTypes")
	if raw == "" {
		return nil, nil
	}
	ids, err := core.ParseSourceTypes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return &core.RunSpec{SourceTypes: ids}, nil
}

// handleHealth reports whether the project database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := s.service.Ping(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"importers": core.Count(),
		"pingMs":    time.Since(start).Milliseconds(),
	})
}

// handleListImporters returns all registered importers.
func (s *Server) handleListImporters(w http.ResponseWriter, r *http.Request) {
	infos := s.service.ListImporters()
	resp := make([]ImporterResponse, len(infos))
	for i, info := range infos {
		resp[i] = toImporterResponse(info)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleDescribeImporter returns one importer with its table descriptors.
func (s *Server) handleDescribeImporter(w http.ResponseWriter, r *http.Request) {
	def, err := s.service.Describe(chi.URLParam(r, "name"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	tables := make([]TableResponse, len(def.Tables))
	for i, t := range def.Tables {
		tables[i] = toTableResponse(t)
	}
	writeJSON(w, r, http.StatusOK, ImporterDetailResponse{
		ImporterResponse: toImporterResponse(def.Info),
		Tables:           tables,
	})
}

// handleImporterStatus runs one importer's check against the project database.
func (s *Server) handleImporterStatus(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := s.service.Describe(name); err != nil {
		respondError(w, r, err)
		return
	}

	rs, err := runSpecFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := s.service.CheckProject(r.Context(), name, rs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// handleProjectStatus runs every importer's check.
// The project is ready only when every importer is.
func (s *Server) handleProjectStatus(w http.ResponseWriter, r *http.Request) {
	rs, err := runSpecFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	results, err := s.service.CheckAll(r.Context(), rs)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := ProjectStatusResponse{Status: core.StatusReady, Results: results}
	for _, res := range results {
		if res.Status != core.StatusReady {
			resp.Status = core.StatusNotReady
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleLimiterStatus returns the current state of the check limiter.
// Used for monitoring and to see whether more checks can start.
func (s *Server) handleLimiterStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.LimiterStatus())
}
