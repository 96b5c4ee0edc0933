package summary

// TrackStat aggregates the entries carrying one track tag.
type TrackStat struct {
	Track     int     `json:"track"`
	Count     int     `json:"count"`
	TotalTime float64 `json:"total_time"`
	AvgTime   float64 `json:"avg_time"`
}

// ElementStat aggregates the entries sharing an element name.
type ElementStat struct {
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	TotalTime float64 `json:"total_time"`
	AvgTime   float64 `json:"avg_time"`
	MinTime   float64 `json:"min_time"`
	MaxTime   float64 `json:"max_time"`
	StdDev    float64 `json:"std_dev"`
}

// Stats summarizes the whole log.
type Stats struct {
	Entries           int     `json:"entries"`
	TotalTime         float64 `json:"total_time"`
	AvgTime           float64 `json:"avg_time"`
	MinTime           float64 `json:"min_time"`
	MaxTime           float64 `json:"max_time"`
	TotalStandardTime float64 `json:"total_standard_time"`
	UniqueElements    int     `json:"unique_elements"`
}
