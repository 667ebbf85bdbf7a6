// internal/advisory/providers/providers.go
package providers

import (
	"context"
	"strings"
	"time"

	"agri-advisory-workers/internal/advisory/catalog"
	"agri-advisory-workers/internal/models"
)

// Latencies mirror the response times of the upstream services the catalog
// stands in for. They are only applied when a provider's Latency is set.
var Latencies = map[models.QueryType]time.Duration{
	models.QueryTypeWeather: 500 * time.Millisecond,
	models.QueryTypeCrop:    300 * time.Millisecond,
	models.QueryTypeMarket:  400 * time.Millisecond,
	models.QueryTypeSoil:    350 * time.Millisecond,
	models.QueryTypeScheme:  200 * time.Millisecond,
}

// Weather returns observations whose location mentions the district or state.
type Weather struct {
	Catalog *catalog.Catalog
	Latency time.Duration
}

func (p *Weather) FetchWeather(ctx context.Context, loc models.Location) ([]models.WeatherData, error) {
	if err := wait(ctx, p.Latency); err != nil {
		return nil, err
	}
	out := []models.WeatherData{}
	for _, w := range p.Catalog.Weather {
		if containsFold(w.Location, loc.District) || containsFold(w.Location, loc.State) {
			out = append(out, w)
		}
	}
	return out, nil
}

// CropAdvisory narrows by state, then by crop.
type CropAdvisory struct {
	Catalog *catalog.Catalog
	Latency time.Duration
}

func (p *CropAdvisory) FetchCropAdvisories(ctx context.Context, qc models.QueryContext) ([]models.CropAdvisory, error) {
	if err := wait(ctx, p.Latency); err != nil {
		return nil, err
	}
	out := []models.CropAdvisory{}
	for _, a := range p.Catalog.CropAdvisories {
		if qc.Location != nil && !containsFold(a.Region, qc.Location.State) {
			continue
		}
		if qc.Crop != "" && !containsFold(a.Crop, qc.Crop) {
			continue
		}
		out = append(out, a.Clone())
	}
	return out, nil
}

// MarketPrice narrows by crop, then by a market named after the district or state.
type MarketPrice struct {
	Catalog *catalog.Catalog
	Latency time.Duration
}

func (p *MarketPrice) FetchMarketPrices(ctx context.Context, qc models.QueryContext) ([]models.MarketPrice, error) {
	if err := wait(ctx, p.Latency); err != nil {
		return nil, err
	}
	out := []models.MarketPrice{}
	for _, m := range p.Catalog.MarketPrices {
		if qc.Crop != "" && !containsFold(m.Crop, qc.Crop) {
			continue
		}
		if qc.Location != nil &&
			!containsFold(m.Market, qc.Location.District) &&
			!containsFold(m.Market, qc.Location.State) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// SoilHealth matches regions by district only.
type SoilHealth struct {
	Catalog *catalog.Catalog
	Latency time.Duration
}

func (p *SoilHealth) FetchSoilHealth(ctx context.Context, loc models.Location) ([]models.SoilHealth, error) {
	if err := wait(ctx, p.Latency); err != nil {
		return nil, err
	}
	out := []models.SoilHealth{}
	for _, s := range p.Catalog.SoilHealth {
		if containsFold(s.Region, loc.District) {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

// Results never share memory with the catalog, so callers may modify them.

// Scheme returns every scheme; none are region or crop specific.
type Scheme struct {
	Catalog *catalog.Catalog
	Latency time.Duration
}

func (p *Scheme) FetchSchemes(ctx context.Context, _ models.QueryContext) ([]models.GovernmentScheme, error) {
	if err := wait(ctx, p.Latency); err != nil {
		return nil, err
	}
	out := make([]models.GovernmentScheme, 0, len(p.Catalog.Schemes))
	for _, g := range p.Catalog.Schemes {
		out = append(out, g.Clone())
	}
	return out, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
