// Package summary reads and writes the time-of-day summary CSV.
package summary

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pcordone/dataToSummaryCSV/internal/models"
	"github.com/pcordone/dataToSummaryCSV/internal/table"
)

// Header is the column order of the summary CSV
var Header = []string{"resolution", "AGNo", "timeOfDay", "kWAvg", "kWMedian", "kWMax", "kWMin"}

// ErrBadHeader is returned by Decode when the header does not match Header
var ErrBadHeader = errors.New("summary: unexpected header")

// Encode writes records as CSV to w. Undefined statistics are left empty.
func Encode(w io.Writer, records []models.SummaryRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Resolution),
			strconv.Itoa(r.AGNo),
			FormatInstant(r.TimeOfDay),
			formatStat(r.KWAvg),
			formatStat(r.KWMedian),
			formatStat(r.KWMax),
			formatStat(r.KWMin),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode parses CSV written by Encode
func Decode(r io.Reader) ([]models.SummaryRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, header[i], name)
		}
	}

	var out []models.SummaryRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
}

func decodeRow(row []string) (models.SummaryRecord, error) {
	var rec models.SummaryRecord
	var err error

	if rec.Resolution, err = strconv.Atoi(row[0]); err != nil {
		return rec, fmt.Errorf("resolution: %w", err)
	}
	if rec.AGNo, err = strconv.Atoi(row[1]); err != nil {
		return rec, fmt.Errorf("AGNo: %w", err)
	}
	if rec.TimeOfDay, err = ParseInstant(row[2]); err != nil {
		return rec, err
	}
	rec.KWAvg = parseStat(row[3])
	rec.KWMedian = parseStat(row[4])
	rec.KWMax = parseStat(row[5])
	rec.KWMin = parseStat(row[6])
	return rec, nil
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return table.FormatNumber(v)
}

func parseStat(text string) float64 {
	if text == "" {
		return math.NaN()
	}
	return table.Number(text)
}

// WriteFile writes records to path, replacing any existing file
func WriteFile(path string, records []models.SummaryRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := Encode(bw, records); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a summary CSV from path
func ReadFile(path string) ([]models.SummaryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
