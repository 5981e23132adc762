// Package metadata loads the per apartment group metadata table (ag_data.csv).
package metadata

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/pcordone/dataToSummaryCSV/internal/models"
	"github.com/pcordone/dataToSummaryCSV/internal/table"
)

// Column names of the metadata source
const (
	ColAptGroup                   = "apt_group"
	ColTimeAveragedRealPowerSigma = "time_averaged_real_power_sigma"
	ColTimeAveragedRealPowerW     = "time_averaged_real_power_W"
	ColNumberOfBedrooms           = "number_of_bedrooms"
	ColNumberOfBedroomsSigma      = "number_of_bedrooms_sigma"
	ColNumberOfAllRooms           = "number_of_all_rooms"
	ColNumberOfAllRoomsSigma      = "number_of_all_rooms_sigma"
	ColAptArea                    = "apt_area__meter_sq"
	ColAptAreaSigma               = "apt_area__meter_sq_sigma"
)

// aptGroupPattern matches identifiers ending in a two digit group number,
// e.g. "AG01" or "apt_group_26".
var aptGroupPattern = regexp.MustCompile(`(\d{2})$`)

// ParseAptGroupNo extracts the group number from an apt_group identifier.
func ParseAptGroupNo(id string) (int, bool) {
	m := aptGroupPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Description renders the human readable summary of a group from the source
// text of its room count and area.
func Description(rooms, area string) string {
	return fmt.Sprintf("Rooms: %s, Area: %s", rooms, area)
}

// LoadFile opens path and loads it with Load
func LoadFile(path string, logger *zap.Logger) (models.MetadataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()

	set, err := Load(f, logger)
	if err != nil {
		return nil, fmt.Errorf("load metadata %s: %w", path, err)
	}
	return set, nil
}

// Load parses the metadata CSV. Numeric cells that do not parse become NaN.
// Rows whose identifier carries no group number are skipped, and a repeated
// group number replaces the earlier row.
func Load(r io.Reader, logger *zap.Logger) (models.MetadataSet, error) {
	tbl, err := table.Read(r)
	if err != nil {
		return nil, err
	}

	cols := struct {
		id, powerSigma, powerW, bedrooms, bedroomsSigma, rooms, roomsSigma, area, areaSigma int
	}{
		id:            tbl.Column(ColAptGroup),
		powerSigma:    tbl.Column(ColTimeAveragedRealPowerSigma),
		powerW:        tbl.Column(ColTimeAveragedRealPowerW),
		bedrooms:      tbl.Column(ColNumberOfBedrooms),
		bedroomsSigma: tbl.Column(ColNumberOfBedroomsSigma),
		rooms:         tbl.Column(ColNumberOfAllRooms),
		roomsSigma:    tbl.Column(ColNumberOfAllRoomsSigma),
		area:          tbl.Column(ColAptArea),
		areaSigma:     tbl.Column(ColAptAreaSigma),
	}

	set := make(models.MetadataSet, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		row := tbl.Row(i)

		id, _ := row.Text(cols.id)
		no, ok := ParseAptGroupNo(id)
		if !ok {
			logger.Warn("skipping metadata row without group number",
				zap.Int("row", i+1), zap.String("apt_group", id))
			continue
		}

		roomsText := textOrUndefined(row, cols.rooms)
		areaText := textOrUndefined(row, cols.area)

		rec := models.MetadataRecord{
			AptGroup:                   id,
			AptGroupNo:                 no,
			TimeAveragedRealPowerSigma: row.Number(cols.powerSigma),
			TimeAveragedRealPowerW:     row.Number(cols.powerW),
			NumberOfBedrooms:           row.Number(cols.bedrooms),
			NumberOfBedroomsSigma:      row.Number(cols.bedroomsSigma),
			NumberOfAllRooms:           row.Number(cols.rooms),
			NumberOfAllRoomsSigma:      row.Number(cols.roomsSigma),
			AptAreaSqm:                 row.Number(cols.area),
			AptAreaSqmSigma:            row.Number(cols.areaSigma),
			Description:                Description(roomsText, areaText),
		}

		if prev, exists := set[no]; exists {
			logger.Warn("duplicate metadata group, keeping the later row",
				zap.Int("apt_group_no", no),
				zap.String("previous", prev.AptGroup),
				zap.String("current", id))
		}
		set[no] = rec
	}

	logger.Debug("metadata loaded", zap.Int("groups", len(set)), zap.Int("rows", tbl.Len()))
	return set, nil
}

// textOrUndefined renders a column absent from the header as "undefined".
func textOrUndefined(row table.Row, col int) string {
	if text, ok := row.Text(col); ok {
		return text
	}
	return "undefined"
}
