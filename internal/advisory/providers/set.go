// internal/advisory/providers/set.go
package providers

import (
	"time"

	"agri-advisory-workers/internal/advisory/catalog"
	"agri-advisory-workers/internal/models"
)

// Set groups one provider per domain over a shared catalog.
type Set struct {
	Weather      *Weather
	CropAdvisory *CropAdvisory
	MarketPrice  *MarketPrice
	SoilHealth   *SoilHealth
	Scheme       *Scheme
}

// NewSet builds all five providers over cat. With simulateLatency each
// provider sleeps for its entry in Latencies before answering.
func NewSet(cat *catalog.Catalog, simulateLatency bool) Set {
	latency := func(q models.QueryType) time.Duration {
		if !simulateLatency {
			return 0
		}
		return Latencies[q]
	}
	return Set{
		Weather:      &Weather{Catalog: cat, Latency: latency(models.QueryTypeWeather)},
		CropAdvisory: &CropAdvisory{Catalog: cat, Latency: latency(models.QueryTypeCrop)},
		MarketPrice:  &MarketPrice{Catalog: cat, Latency: latency(models.QueryTypeMarket)},
		SoilHealth:   &SoilHealth{Catalog: cat, Latency: latency(models.QueryTypeSoil)},
		Scheme:       &Scheme{Catalog: cat, Latency: latency(models.QueryTypeScheme)},
	}
}
