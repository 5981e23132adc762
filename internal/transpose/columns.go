package transpose

import (
	"fmt"

	"github.com/pcordone/dataToSummaryCSV/internal/table"
)

// Column names of the wide time series source
const (
	ColDateTimeUTC = "DateTimeUTC"
	ColAGsKW       = "AGs01To26_kW"
	ColAGsKVAR     = "AGs01To26_kVAR"
	ColAGsKWh      = "AGs01To26_kWh"
)

// GroupColumns names the reading columns of one apartment group
type GroupColumns struct {
	AGNo int
	AG   string
	KW   string
	KVAR string
	KWh  string
}

// GroupLabel returns the zero padded label of a group, e.g. "AG07".
func GroupLabel(agNo int) string {
	return fmt.Sprintf("AG%02d", agNo)
}

// BuildColumns returns the column names of groups 1..count.
func BuildColumns(count int) []GroupColumns {
	cols := make([]GroupColumns, 0, count)
	for i := 1; i <= count; i++ {
		label := GroupLabel(i)
		cols = append(cols, GroupColumns{
			AGNo: i,
			AG:   label,
			KW:   label + "_kW",
			KVAR: label + "_kVAR",
			KWh:  label + "_kWh",
		})
	}
	return cols
}

// positions are the column offsets of one group resolved against a header
type positions struct {
	kw, kvar, kwh int
}

type layout struct {
	timestamp int
	agsKW     int
	agsKVAR   int
	agsKWh    int
	groups    []positions
}

func resolveLayout(tbl *table.Table, groups []GroupColumns) layout {
	l := layout{
		timestamp: tbl.Column(ColDateTimeUTC),
		agsKW:     tbl.Column(ColAGsKW),
		agsKVAR:   tbl.Column(ColAGsKVAR),
		agsKWh:    tbl.Column(ColAGsKWh),
		groups:    make([]positions, len(groups)),
	}
	for i, g := range groups {
		l.groups[i] = positions{
			kw:   tbl.Column(g.KW),
			kvar: tbl.Column(g.KVAR),
			kwh:  tbl.Column(g.KWh),
		}
	}
	return l
}
