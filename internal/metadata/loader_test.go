package metadata

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const header = "apt_group,time_averaged_real_power_sigma,time_averaged_real_power_W,number_of_bedrooms,number_of_bedrooms_sigma,number_of_all_rooms,number_of_all_rooms_sigma,apt_area__meter_sq,apt_area__meter_sq_sigma\n"

func TestParseAptGroupNo(t *testing.T) {
	for id, want := range map[string]int{
		"AG01":         1,
		"AG26":         26,
		"apt_group_09": 9,
		"x123":         23,
	} {
		got, ok := ParseAptGroupNo(id)
		require.True(t, ok, id)
		assert.Equal(t, want, got, id)
	}

	for _, id := range []string{"", "AG1", "AG01 ", "group"} {
		_, ok := ParseAptGroupNo(id)
		assert.False(t, ok, id)
	}
}

func TestLoad_ParsesRecords(t *testing.T) {
	input := header +
		"AG01,12.5,350.25,2,0.5,4.0,1,75.50,3\n" +
		"AG02,8,210,1,0,3,0,52,2\n"

	set, err := Load(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, set, 2)

	ag1 := set[1]
	assert.Equal(t, "AG01", ag1.AptGroup)
	assert.Equal(t, 1, ag1.AptGroupNo)
	assert.Equal(t, 12.5, ag1.TimeAveragedRealPowerSigma)
	assert.Equal(t, 350.25, ag1.TimeAveragedRealPowerW)
	assert.Equal(t, 2.0, ag1.NumberOfBedrooms)
	assert.Equal(t, 0.5, ag1.NumberOfBedroomsSigma)
	assert.Equal(t, 4.0, ag1.NumberOfAllRooms)
	assert.Equal(t, 1.0, ag1.NumberOfAllRoomsSigma)
	assert.Equal(t, 75.5, ag1.AptAreaSqm)
	assert.Equal(t, 3.0, ag1.AptAreaSqmSigma)
	// source text, not the coerced numbers
	assert.Equal(t, "Rooms: 4.0, Area: 75.50", ag1.Description)

	assert.Equal(t, "Rooms: 3, Area: 52", set[2].Description)
}

func TestLoad_PermissiveCoercion(t *testing.T) {
	input := header + "AG03,n/a,,2,0,3,0,60,\n"

	set, err := Load(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)

	rec := set[3]
	assert.True(t, math.IsNaN(rec.TimeAveragedRealPowerSigma))
	assert.Equal(t, 0.0, rec.TimeAveragedRealPowerW)
	assert.Equal(t, 0.0, rec.AptAreaSqmSigma)
}

func TestLoad_MissingColumns(t *testing.T) {
	input := "apt_group,number_of_bedrooms\nAG04,2\n"

	set, err := Load(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)

	rec := set[4]
	assert.Equal(t, 2.0, rec.NumberOfBedrooms)
	assert.True(t, math.IsNaN(rec.NumberOfAllRooms))
	assert.True(t, math.IsNaN(rec.AptAreaSqm))
	assert.Equal(t, "Rooms: undefined, Area: undefined", rec.Description)
}

func TestLoad_ShortRowReadsEmptyCells(t *testing.T) {
	input := header + "AG05,1,250,2,0\n"

	set, err := Load(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)

	rec := set[5]
	assert.Equal(t, 2.0, rec.NumberOfBedrooms)
	assert.Equal(t, 0.0, rec.NumberOfAllRooms)
	assert.Equal(t, 0.0, rec.AptAreaSqm)
	assert.Equal(t, "Rooms: , Area: ", rec.Description)
}

func TestLoad_DuplicateLastWins(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	input := header +
		"AG05,1,100,1,0,2,0,40,0\n" +
		"group_05,1,200,3,0,5,0,90,0\n"

	set, err := Load(strings.NewReader(input), zap.New(core))
	require.NoError(t, err)
	require.Len(t, set, 1)

	assert.Equal(t, 200.0, set[5].TimeAveragedRealPowerW)
	assert.Equal(t, "group_05", set[5].AptGroup)
	assert.Equal(t, 1, logs.FilterMessageSnippet("duplicate").Len())
}

func TestLoad_SkipsRowsWithoutGroupNumber(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	input := header + "total,1,1,1,1,1,1,1,1\nAG06,1,1,1,1,1,1,1,1\n"

	set, err := Load(strings.NewReader(input), zap.New(core))
	require.NoError(t, err)

	assert.Len(t, set, 1)
	assert.Contains(t, set, 6)
	assert.Equal(t, 1, logs.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ag_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"AG07,1,2,3,4,5,6,7,8\n"), 0o600))

	set, err := LoadFile(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 7.0, set[7].AptAreaSqm)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop())
	require.Error(t, err)
}
