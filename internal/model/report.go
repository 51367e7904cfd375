package model

// Aggregate rows as the store returns them from /api/car-models/report/*.
// The console only displays them; it never recomputes aggregates.

// BrandCount is one row of the count report.
type BrandCount struct {
	ID    string `json:"_id"`
	Count int64  `json:"count"`
}

// StatusCount is one row of the status report, keyed by the active flag.
type StatusCount struct {
	ID    bool  `json:"_id"`
	Count int64 `json:"count"`
}

// PriceAverage is one row of the price report.
type PriceAverage struct {
	ID       string  `json:"_id"`
	AvgPrice float64 `json:"avgPrice"`
}

// ImageUsage is one row of the images report.
type ImageUsage struct {
	ModelName string `json:"modelName"`
	Count     int64  `json:"count"`
	TotalSize int64  `json:"totalSize"`
}
