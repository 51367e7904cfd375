package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a car model as any store serves it over the wire. The id is
// opaque: the console never parses it, only echoes it back.
type Record struct {
	ID                  string          `json:"_id"`
	ModelName           string          `json:"modelName"`
	ModelCode           string          `json:"modelCode"`
	Brand               string          `json:"brand"`
	Class               string          `json:"class"`
	Price               decimal.Decimal `json:"price"`
	DateOfManufacturing time.Time       `json:"dateOfManufacturing"`
	Active              bool            `json:"active"`
	SortOrder           int             `json:"sortOrder"`
	Description         string          `json:"description"`
	Features            string          `json:"features"`
	Images              []string        `json:"images"`

	// ImageURLs are Images resolved against the store base URL for display.
	ImageURLs []string `json:"imageUrls,omitempty"`
}
