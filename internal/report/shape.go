// Package report shapes the store's pre-aggregated report rows into chart
// and table structures for the reports view.
package report

import "carmodel-inventory/internal/model"

// Chart is a labeled series ready for a chart widget.
type Chart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// StatusSplit maps the status rows onto the fixed Active/Inactive slices.
// A flag the store did not return counts as zero.
func StatusSplit(rows []model.StatusCount) Chart {
	var active, inactive int64
	for _, r := range rows {
		if r.ID {
			active += r.Count
		} else {
			inactive += r.Count
		}
	}
	return Chart{
		Labels: []string{"Active", "Inactive"},
		Values: []float64{float64(active), float64(inactive)},
	}
}

// AveragePrice keeps the store's brand order.
func AveragePrice(rows []model.PriceAverage) Chart {
	c := Chart{Labels: make([]string, 0, len(rows)), Values: make([]float64, 0, len(rows))}
	for _, r := range rows {
		c.Labels = append(c.Labels, r.ID)
		c.Values = append(c.Values, r.AvgPrice)
	}
	return c
}

// BrandCounts keeps the store's brand order.
func BrandCounts(rows []model.BrandCount) Chart {
	c := Chart{Labels: make([]string, 0, len(rows)), Values: make([]float64, 0, len(rows))}
	for _, r := range rows {
		c.Labels = append(c.Labels, r.ID)
		c.Values = append(c.Values, float64(r.Count))
	}
	return c
}

// ImageUsage is a passthrough; the rows go straight to a table.
func ImageUsage(rows []model.ImageUsage) []model.ImageUsage {
	if rows == nil {
		return []model.ImageUsage{}
	}
	return rows
}
