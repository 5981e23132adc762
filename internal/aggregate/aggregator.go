// Package aggregate reduces long records to per (apartment group, time of
// day) kW statistics.
package aggregate

import (
	"github.com/pcordone/dataToSummaryCSV/internal/models"
)

// Aggregator groups long records by apartment group, then by time of day.
// Buckets are emitted in order of first appearance.
type Aggregator struct {
	resolution int
	groups     map[int]*agGroup
	order      []int
}

// agGroup holds the time-of-day buckets of one apartment group
type agGroup struct {
	buckets map[int64]*todBucket
	order   []int64
}

type todBucket struct {
	timeOfDay models.Instant
	kw        []float64
}

// New creates an aggregator that tags its output with resolution
func New(resolution int) *Aggregator {
	return &Aggregator{
		resolution: resolution,
		groups:     make(map[int]*agGroup),
	}
}

// Update adds records to their buckets
func (a *Aggregator) Update(records []models.LongRecord) {
	for _, rec := range records {
		group, exists := a.groups[rec.AGNo]
		if !exists {
			group = &agGroup{buckets: make(map[int64]*todBucket)}
			a.groups[rec.AGNo] = group
			a.order = append(a.order, rec.AGNo)
		}

		key := rec.TimeOfDay.Key()
		bucket, exists := group.buckets[key]
		if !exists {
			bucket = &todBucket{timeOfDay: rec.TimeOfDay}
			group.buckets[key] = bucket
			group.order = append(group.order, key)
		}

		bucket.kw = append(bucket.kw, rec.KW)
	}
}

// Len returns the number of buckets collected so far
func (a *Aggregator) Len() int {
	n := 0
	for _, g := range a.groups {
		n += len(g.order)
	}
	return n
}

// Flush returns one summary per bucket and resets the aggregator
func (a *Aggregator) Flush() []models.SummaryRecord {
	out := make([]models.SummaryRecord, 0, a.Len())

	for _, agNo := range a.order {
		group := a.groups[agNo]
		for _, key := range group.order {
			bucket := group.buckets[key]
			s := Describe(bucket.kw)
			out = append(out, models.SummaryRecord{
				Resolution: a.resolution,
				AGNo:       agNo,
				TimeOfDay:  bucket.timeOfDay,
				KWAvg:      s.Mean,
				KWMedian:   s.Median,
				KWMax:      s.Max,
				KWMin:      s.Min,
			})
		}
	}

	a.groups = make(map[int]*agGroup)
	a.order = nil
	return out
}

// Summarize aggregates records in one pass
func Summarize(resolution int, records []models.LongRecord) []models.SummaryRecord {
	a := New(resolution)
	a.Update(records)
	return a.Flush()
}
