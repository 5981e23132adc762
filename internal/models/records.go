package models

// MetadataRecord describes one apartment group from the metadata source
type MetadataRecord struct {
	AptGroup                   string  `json:"apt_group"`
	AptGroupNo                 int     `json:"apt_group_no"`
	TimeAveragedRealPowerSigma float64 `json:"time_averaged_real_power_sigma"`
	TimeAveragedRealPowerW     float64 `json:"time_averaged_real_power_W"`
	NumberOfBedrooms           float64 `json:"number_of_bedrooms"`
	NumberOfBedroomsSigma      float64 `json:"number_of_bedrooms_sigma"`
	NumberOfAllRooms           float64 `json:"number_of_all_rooms"`
	NumberOfAllRoomsSigma      float64 `json:"number_of_all_rooms_sigma"`
	AptAreaSqm                 float64 `json:"apt_area__meter_sq"`
	AptAreaSqmSigma            float64 `json:"apt_area__meter_sq_sigma"`
	// Description is built from the source text of the room count and area.
	Description string `json:"AG_description"`
}

// MetadataSet maps apartment group number to its metadata
type MetadataSet map[int]MetadataRecord

// LongRecord is one (timestamp, apartment group) observation
type LongRecord struct {
	AGNo        int
	AG          string
	DateTimeUTC Instant

	// Row-level totals across all apartment groups, shared by every record
	// produced from the same input row.
	AGsKW   float64
	AGsKVAR float64
	AGsKWh  float64

	KW   float64
	KVAR float64
	KWh  float64

	TimeOfDay Instant

	NoOfBedRooms  float64
	NoOfAllRooms  float64
	AreaSqm       float64
	AGDescription string
}

// SummaryRecord holds the kW statistics of one (apartment group, time of day)
// bucket. A NaN statistic means the bucket had no valid reading.
type SummaryRecord struct {
	Resolution int
	AGNo       int
	TimeOfDay  Instant
	KWAvg      float64
	KWMedian   float64
	KWMax      float64
	KWMin      float64
}
