// internal/advisory/aggregator/aggregator.go
package aggregator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"agri-advisory-workers/internal/advisory/providers"
	"agri-advisory-workers/internal/models"
)

type WeatherProvider interface {
	FetchWeather(ctx context.Context, loc models.Location) ([]models.WeatherData, error)
}

type CropAdvisoryProvider interface {
	FetchCropAdvisories(ctx context.Context, qc models.QueryContext) ([]models.CropAdvisory, error)
}

type MarketPriceProvider interface {
	FetchMarketPrices(ctx context.Context, qc models.QueryContext) ([]models.MarketPrice, error)
}

type SoilHealthProvider interface {
	FetchSoilHealth(ctx context.Context, loc models.Location) ([]models.SoilHealth, error)
}

type SchemeProvider interface {
	FetchSchemes(ctx context.Context, qc models.QueryContext) ([]models.GovernmentScheme, error)
}

// Providers holds one provider per domain. A nil provider is never selected.
type Providers struct {
	Weather      WeatherProvider
	CropAdvisory CropAdvisoryProvider
	MarketPrice  MarketPriceProvider
	SoilHealth   SoilHealthProvider
	Scheme       SchemeProvider
}

// FromSet adapts a catalog-backed provider set.
func FromSet(s providers.Set) Providers {
	var p Providers
	if s.Weather != nil {
		p.Weather = s.Weather
	}
	if s.CropAdvisory != nil {
		p.CropAdvisory = s.CropAdvisory
	}
	if s.MarketPrice != nil {
		p.MarketPrice = s.MarketPrice
	}
	if s.SoilHealth != nil {
		p.SoilHealth = s.SoilHealth
	}
	if s.Scheme != nil {
		p.Scheme = s.Scheme
	}
	return p
}

type Option func(*Aggregator)

func WithObserver(o Observer) Option {
	return func(a *Aggregator) {
		if o != nil {
			a.observer = o
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// Aggregator fans a query context out to the selected providers and merges
// whatever succeeded. It holds no per-call state and is safe for concurrent use.
type Aggregator struct {
	providers Providers
	observer  Observer
	now       func() time.Time
}

func New(p Providers, opts ...Option) *Aggregator {
	a := &Aggregator{
		providers: p,
		observer:  NopObserver{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Selected reports which provider domains run for qc, in provenance order.
func (a *Aggregator) Selected(qc models.QueryContext) []models.QueryType {
	var out []models.QueryType
	if qc.Wants(models.QueryTypeWeather) && qc.HasLocation() && a.providers.Weather != nil {
		out = append(out, models.QueryTypeWeather)
	}
	if qc.Wants(models.QueryTypeCrop) && a.providers.CropAdvisory != nil {
		out = append(out, models.QueryTypeCrop)
	}
	if qc.Wants(models.QueryTypeMarket) && a.providers.MarketPrice != nil {
		out = append(out, models.QueryTypeMarket)
	}
	if qc.Wants(models.QueryTypeSoil) && qc.HasLocation() && a.providers.SoilHealth != nil {
		out = append(out, models.QueryTypeSoil)
	}
	if qc.Wants(models.QueryTypeScheme) && a.providers.Scheme != nil {
		out = append(out, models.QueryTypeScheme)
	}
	return out
}

// outcomes has one slot per domain; each slot is written by exactly one goroutine.
type outcomes struct {
	weather  []models.WeatherData
	crop     []models.CropAdvisory
	market   []models.MarketPrice
	soil     []models.SoilHealth
	scheme   []models.GovernmentScheme
	weatherE error
	cropE    error
	marketE  error
	soilE    error
	schemeE  error
}

// Aggregate never fails. Provider failures drop that provider's field and
// provenance; a failure of the aggregation itself yields an empty response.
func (a *Aggregator) Aggregate(ctx context.Context, qc models.QueryContext) (resp models.AggregatedResponse) {
	defer func() {
		if r := recover(); r != nil {
			a.aggregationFailed(fmt.Errorf("aggregation panic: %v", r))
			resp = models.EmptyResponse(a.now())
		}
	}()

	selected := a.Selected(qc)
	var res outcomes
	var g errgroup.Group

	for _, domain := range selected {
		switch domain {
		case models.QueryTypeWeather:
			loc := *qc.Location
			g.Go(func() error {
				res.weather, res.weatherE = call(a, domain, models.SourceWeather, func() ([]models.WeatherData, error) {
					return a.providers.Weather.FetchWeather(ctx, loc)
				})
				return nil
			})
		case models.QueryTypeCrop:
			g.Go(func() error {
				res.crop, res.cropE = call(a, domain, models.SourceCrop, func() ([]models.CropAdvisory, error) {
					return a.providers.CropAdvisory.FetchCropAdvisories(ctx, qc)
				})
				return nil
			})
		case models.QueryTypeMarket:
			g.Go(func() error {
				res.market, res.marketE = call(a, domain, models.SourceMarket, func() ([]models.MarketPrice, error) {
					return a.providers.MarketPrice.FetchMarketPrices(ctx, qc)
				})
				return nil
			})
		case models.QueryTypeSoil:
			loc := *qc.Location
			g.Go(func() error {
				res.soil, res.soilE = call(a, domain, models.SourceSoil, func() ([]models.SoilHealth, error) {
					return a.providers.SoilHealth.FetchSoilHealth(ctx, loc)
				})
				return nil
			})
		case models.QueryTypeScheme:
			g.Go(func() error {
				res.scheme, res.schemeE = call(a, domain, models.SourceScheme, func() ([]models.GovernmentScheme, error) {
					return a.providers.Scheme.FetchSchemes(ctx, qc)
				})
				return nil
			})
		}
	}
	_ = g.Wait()

	return a.merge(selected, &res)
}

func (a *Aggregator) merge(selected []models.QueryType, res *outcomes) models.AggregatedResponse {
	resp := models.EmptyResponse(a.now())

	for _, domain := range selected {
		switch domain {
		case models.QueryTypeWeather:
			if res.weatherE == nil {
				resp.Weather = nonNil(res.weather)
				resp.Sources = append(resp.Sources, models.SourceWeather)
			}
		case models.QueryTypeCrop:
			if res.cropE == nil {
				resp.CropAdvisories = nonNil(res.crop)
				resp.Sources = append(resp.Sources, models.SourceCrop)
			}
		case models.QueryTypeMarket:
			if res.marketE == nil {
				resp.MarketPrices = nonNil(res.market)
				resp.Sources = append(resp.Sources, models.SourceMarket)
			}
		case models.QueryTypeSoil:
			if res.soilE == nil {
				resp.SoilHealth = nonNil(res.soil)
				resp.Sources = append(resp.Sources, models.SourceSoil)
			}
		case models.QueryTypeScheme:
			if res.schemeE == nil {
				resp.Schemes = nonNil(res.scheme)
				resp.Sources = append(resp.Sources, models.SourceScheme)
			}
		}
	}
	return resp
}

// call runs one provider, converting a panic into that provider's error.
func call[T any](a *Aggregator, domain models.QueryType, source string, fetch func() ([]T, error)) (out []T, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %s provider panic: %v", ErrProviderFailed, domain, r)
		}
		a.providerFinished(domain, source, time.Since(start), err)
	}()

	out, err = fetch()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderFailed, domain, err)
	}
	return out, nil
}

// Observer calls run inside provider goroutines; a panicking observer must
// not take the process down with them.
func (a *Aggregator) providerFinished(domain models.QueryType, source string, elapsed time.Duration, err error) {
	defer func() { _ = recover() }()
	a.observer.ProviderFinished(domain, source, elapsed, err)
}

func (a *Aggregator) aggregationFailed(err error) {
	defer func() { _ = recover() }()
	a.observer.AggregationFailed(err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
