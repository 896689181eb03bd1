package entity

// ReportEntry is one row of a dashboard ranking.
type ReportEntry struct {
	Name  string  `json:"name"`
	Count float64 `json:"count"`
}
