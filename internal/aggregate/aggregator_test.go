package aggregate

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcordone/dataToSummaryCSV/internal/models"
)

func tod(hour int) models.Instant {
	return models.NewInstant(time.Date(1970, 1, 1, hour, 0, 0, 0, time.UTC))
}

func rec(agNo, hour int, kw float64) models.LongRecord {
	return models.LongRecord{AGNo: agNo, TimeOfDay: tod(hour), KW: kw}
}

func TestDescribe_MedianEvenCount(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 2.5, s.Mean)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 1.0, s.Min)
}

func TestDescribe_MedianOddCount(t *testing.T) {
	assert.Equal(t, 3.0, Describe([]float64{9, 3, 1}).Median)
}

func TestDescribe_IgnoresNaN(t *testing.T) {
	s := Describe([]float64{5, math.NaN(), 7})
	assert.Equal(t, 6.0, s.Mean)
	assert.Equal(t, 6.0, s.Median)
	assert.Equal(t, 7.0, s.Max)
	assert.Equal(t, 5.0, s.Min)
}

func TestDescribe_AllNaNIsUndefined(t *testing.T) {
	for _, values := range [][]float64{nil, {math.NaN(), math.NaN()}} {
		s := Describe(values)
		assert.True(t, math.IsNaN(s.Mean))
		assert.True(t, math.IsNaN(s.Median))
		assert.True(t, math.IsNaN(s.Max))
		assert.True(t, math.IsNaN(s.Min))
	}
}

func TestDescribe_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Describe(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestSummarize_GroupsByGroupThenTimeOfDay(t *testing.T) {
	records := []models.LongRecord{
		rec(2, 5, 1), rec(1, 5, 10),
		rec(2, 6, 2), rec(1, 5, 20),
		rec(2, 5, 3), rec(1, 6, 30),
	}

	out := Summarize(60, records)
	require.Len(t, out, 4)

	// first appearance order: group 2 before group 1, hour 5 before hour 6
	assert.Equal(t, 2, out[0].AGNo)
	assert.Equal(t, tod(5), out[0].TimeOfDay)
	assert.Equal(t, 2.0, out[0].KWAvg)
	assert.Equal(t, 2, out[1].AGNo)
	assert.Equal(t, tod(6), out[1].TimeOfDay)
	assert.Equal(t, 1, out[2].AGNo)
	assert.Equal(t, 15.0, out[2].KWMedian)
	assert.Equal(t, 1, out[3].AGNo)
	assert.Equal(t, 30.0, out[3].KWMax)

	for _, s := range out {
		assert.Equal(t, 60, s.Resolution)
	}
}

func TestSummarize_TimeOfDayComparedByInstant(t *testing.T) {
	// same instant expressed in another location
	other := models.Instant{Time: tod(3).Time.In(time.FixedZone("UTC+2", 2*3600)), Valid: true}
	records := []models.LongRecord{
		rec(1, 3, 1),
		{AGNo: 1, TimeOfDay: other, KW: 3},
	}

	out := Summarize(60, records)
	require.Len(t, out, 1)
	assert.Equal(t, 2.0, out[0].KWAvg)
}

func TestSummarize_InvalidTimesShareABucket(t *testing.T) {
	records := []models.LongRecord{
		{AGNo: 1, KW: 1},
		{AGNo: 1, KW: 5},
		rec(1, 0, 9),
	}

	out := Summarize(60, records)
	require.Len(t, out, 2)
	assert.False(t, out[0].TimeOfDay.Valid)
	assert.Equal(t, 3.0, out[0].KWAvg)
}

func TestSummarize_OrderIndependent(t *testing.T) {
	var records []models.LongRecord
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			for ag := 1; ag <= 3; ag++ {
				kw := float64(day*hour+ag) / 4
				if (day+hour+ag)%11 == 0 {
					kw = math.NaN()
				}
				records = append(records, rec(ag, hour, kw))
			}
		}
	}

	type key struct {
		ag  int
		tod int64
	}
	asSet := func(in []models.SummaryRecord) map[key]models.SummaryRecord {
		m := make(map[key]models.SummaryRecord, len(in))
		for _, s := range in {
			m[key{s.AGNo, s.TimeOfDay.Key()}] = s
		}
		return m
	}

	want := asSet(Summarize(60, records))
	require.Len(t, want, 3*24)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		shuffled := append([]models.LongRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := asSet(Summarize(60, shuffled))
		require.Len(t, got, len(want))
		for k, w := range want {
			g := got[k]
			assert.InDelta(t, w.KWAvg, g.KWAvg, 1e-9)
			assert.Equal(t, w.KWMedian, g.KWMedian)
			assert.Equal(t, w.KWMax, g.KWMax)
			assert.Equal(t, w.KWMin, g.KWMin)
		}
	}
}

func TestAggregator_FlushResets(t *testing.T) {
	a := New(60)
	a.Update([]models.LongRecord{rec(1, 1, 1), rec(1, 2, 2)})
	assert.Equal(t, 2, a.Len())

	assert.Len(t, a.Flush(), 2)
	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Flush())
}
