package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"entry_id", "author_id", "datetime", "address", "contribution_id",
	"position", "kind", "entity_id", "fields",
}

// ExportRow is one row of the JSON changelog export.
type ExportRow struct {
	EntryID        int64     `json:"entry_id"`
	AuthorID       string    `json:"author_id"`
	Datetime       time.Time `json:"datetime"`
	Address        string    `json:"address"`
	ContributionID *int64    `json:"contribution_id"`
	Position       int       `json:"position"`
	Kind           string    `json:"kind"`
	EntityID       int32     `json:"entity_id"`
	Fields         []string  `json:"fields"`
}

// ListChangelog handles GET /v1/changelog.
func (s *Server) ListChangelog(w http.ResponseWriter, r *http.Request) {
	p, ok := s.pagination(w, r)
	if !ok {
		return
	}
	page, err := s.changelog.List(r.Context(), p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ExportChangelog handles GET /v1/changelog/export.
// It returns one row per recorded change. Use ?format=csv to receive CSV;
// default is JSON.
func (s *Server) ExportChangelog(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		requestError(w, "format must be json or csv")
		return
	}
	rows, err := s.changelog.Export(r.Context())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, toExportRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV. The patched fields of a change are
// pipe-separated ("|") to keep each change on a single CSV line.
func writeCSV(w http.ResponseWriter, rows []domain.ChangelogExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(toCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="changelog.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func toExportRow(r domain.ChangelogExportRow) ExportRow {
	fields := r.Fields
	if fields == nil {
		fields = []string{}
	}
	return ExportRow{
		EntryID:        r.EntryID,
		AuthorID:       r.AuthorID,
		Datetime:       r.Datetime,
		Address:        r.Address,
		ContributionID: r.ContributionID,
		Position:       r.Position,
		Kind:           r.Kind,
		EntityID:       r.EntityID,
		Fields:         fields,
	}
}

// toCSVRecord converts a row to its CSV columns, in csvHeaders order.
// An entry not tied to a contribution leaves contribution_id empty.
func toCSVRecord(r domain.ChangelogExportRow) []string {
	contribution := ""
	if r.ContributionID != nil {
		contribution = strconv.FormatInt(*r.ContributionID, 10)
	}
	return []string{
		strconv.FormatInt(r.EntryID, 10),
		r.AuthorID,
		r.Datetime.UTC().Format(time.RFC3339),
		r.Address,
		contribution,
		strconv.Itoa(r.Position),
		r.Kind,
		strconv.FormatInt(int64(r.EntityID), 10),
		strings.Join(r.Fields, "|"),
	}
}
