package report

import (
	"context"
	"log/slog"

	"carmodel-inventory/internal/model"

	"golang.org/x/sync/errgroup"
)

// Source fetches the four report row sets.
type Source interface {
	CountReport(ctx context.Context) ([]model.BrandCount, error)
	StatusReport(ctx context.Context) ([]model.StatusCount, error)
	PriceReport(ctx context.Context) ([]model.PriceAverage, error)
	ImageReport(ctx context.Context) ([]model.ImageUsage, error)
}

// Section is one independently loaded part of the dashboard. Error is set
// instead of the data when its fetch failed.
type Section[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// Dashboard is the reports view state.
type Dashboard struct {
	Count  Section[Chart]              `json:"count"`
	Status Section[Chart]              `json:"status"`
	Price  Section[Chart]              `json:"price"`
	Images Section[[]model.ImageUsage] `json:"images"`
}

// Failed lists the sections that could not be loaded, in dashboard order.
func (d *Dashboard) Failed() []string {
	var out []string
	for _, sec := range []struct {
		name string
		msg  string
	}{
		{"count", d.Count.Error},
		{"status", d.Status.Error},
		{"price", d.Price.Error},
		{"images", d.Images.Error},
	} {
		if sec.msg != "" {
			out = append(out, sec.name)
		}
	}
	return out
}

// Aggregator loads the dashboard from a Source.
type Aggregator struct {
	source Source
	logger *slog.Logger
	onFail func(section string)
}

// NewAggregator creates an Aggregator. onFail, if not nil, is called once per failed section.
func NewAggregator(source Source, logger *slog.Logger, onFail func(section string)) *Aggregator {
	return &Aggregator{
		source: source,
		logger: logger.With(slog.String("component", "report_aggregator")),
		onFail: onFail,
	}
}

// Load fetches the four reports concurrently. Each fetch writes only its own
// section, and a failure is recorded on that section alone.
func (a *Aggregator) Load(ctx context.Context) *Dashboard {
	d := &Dashboard{}
	var g errgroup.Group

	g.Go(func() error {
		rows, err := a.source.CountReport(ctx)
		if err != nil {
			d.Count.Error = a.fail("count", err)
			return nil
		}
		d.Count.Data = BrandCounts(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := a.source.StatusReport(ctx)
		if err != nil {
			d.Status.Error = a.fail("status", err)
			return nil
		}
		d.Status.Data = StatusSplit(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := a.source.PriceReport(ctx)
		if err != nil {
			d.Price.Error = a.fail("price", err)
			return nil
		}
		d.Price.Data = AveragePrice(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := a.source.ImageReport(ctx)
		if err != nil {
			d.Images.Error = a.fail("images", err)
			return nil
		}
		d.Images.Data = ImageUsage(rows)
		return nil
	})

	_ = g.Wait()
	return d
}

func (a *Aggregator) fail(section string, err error) string {
	a.logger.Warn("report fetch failed",
		slog.String("section", section),
		slog.String("error", err.Error()),
	)
	if a.onFail != nil {
		a.onFail(section)
	}
	return "Failed to load " + section + " report"
}
