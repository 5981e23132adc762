// Package transpose reshapes the wide MFRED time series (one row per
// timestamp, one column triplet per apartment group) into long records, one
// per (timestamp, apartment group), joined with the group metadata.
package transpose

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pcordone/dataToSummaryCSV/internal/config"
	"github.com/pcordone/dataToSummaryCSV/internal/metadata"
	"github.com/pcordone/dataToSummaryCSV/internal/models"
	"github.com/pcordone/dataToSummaryCSV/internal/table"
)

// ErrMissingMetadata is returned when a group has no metadata record
var ErrMissingMetadata = errors.New("missing metadata for apartment group")

// Transposer turns wide rows into long records
type Transposer struct {
	resolution int
	groups     []GroupColumns
	meta       models.MetadataSet
}

// New creates a transposer for groups 1..cfg.GroupCount
func New(cfg config.PipelineConfig, meta models.MetadataSet) *Transposer {
	return &Transposer{
		resolution: cfg.Resolution,
		groups:     BuildColumns(cfg.GroupCount),
		meta:       meta,
	}
}

// TransposeFile opens path and transposes it
func (t *Transposer) TransposeFile(path string) ([]models.LongRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open time series: %w", err)
	}
	defer f.Close()

	records, rows, err := t.Transpose(f)
	if err != nil {
		return nil, rows, fmt.Errorf("transpose %s: %w", path, err)
	}
	return records, rows, nil
}

// Transpose reads the wide CSV from r and returns the long records in row
// order, groups ascending within a row, along with the number of input rows.
// Cells that do not parse become NaN and timestamps that do not parse become
// invalid instants; only a group without metadata stops the run.
func (t *Transposer) Transpose(r io.Reader) ([]models.LongRecord, int, error) {
	tbl, err := table.Read(r)
	if err != nil {
		return nil, 0, err
	}

	// Metadata is checked up front so a bad join fails before any work. A
	// file without data rows performs no join.
	if tbl.Len() == 0 {
		return []models.LongRecord{}, 0, nil
	}
	for _, g := range t.groups {
		if _, ok := t.meta[g.AGNo]; !ok {
			return nil, tbl.Len(), fmt.Errorf("%w: %s", ErrMissingMetadata, g.AG)
		}
	}

	l := resolveLayout(tbl, t.groups)
	out := make([]models.LongRecord, 0, tbl.Len()*len(t.groups))

	for i := 0; i < tbl.Len(); i++ {
		out = t.appendRow(out, tbl.Row(i), l)
	}
	return out, tbl.Len(), nil
}

func (t *Transposer) appendRow(out []models.LongRecord, row table.Row, l layout) []models.LongRecord {
	tsText, ok := row.Text(l.timestamp)
	var ts models.Instant
	if ok {
		ts = ParseTimestamp(tsText)
	}
	tod := TimeOfDay(ts, t.resolution)

	agsKW := row.Number(l.agsKW)
	agsKVAR := row.Number(l.agsKVAR)
	agsKWh := row.Number(l.agsKWh)

	for gi, g := range t.groups {
		pos := l.groups[gi]
		meta := t.meta[g.AGNo]

		out = append(out, models.LongRecord{
			AGNo:          g.AGNo,
			AG:            g.AG,
			DateTimeUTC:   ts,
			AGsKW:         agsKW,
			AGsKVAR:       agsKVAR,
			AGsKWh:        agsKWh,
			KW:            row.Number(pos.kw),
			KVAR:          row.Number(pos.kvar),
			KWh:           row.Number(pos.kwh),
			TimeOfDay:     tod,
			NoOfBedRooms:  meta.NumberOfBedrooms,
			NoOfAllRooms:  meta.NumberOfAllRooms,
			AreaSqm:       meta.AptAreaSqm,
			AGDescription: metadata.Description(table.FormatNumber(meta.NumberOfAllRooms), table.FormatNumber(meta.AptAreaSqm)),
		})
	}
	return out
}
