// internal/models/response.go
package models

import (
	"encoding/json"
	"time"
)

// Provenance strings, one per provider domain.
const (
	SourceWeather = "Indian Meteorological Department"
	SourceCrop    = "State Agriculture Departments"
	SourceMarket  = "eNAM - National Agriculture Market"
	SourceSoil    = "Soil Health Card Scheme"
	SourceScheme  = "Ministry of Agriculture & Farmers Welfare"
)

// AggregatedResponse merges provider results. A nil slice means the provider was
// not selected or failed; a non-nil slice, even an empty one, means it succeeded.
type AggregatedResponse struct {
	Weather        []WeatherData      `json:"weather,omitempty"`
	CropAdvisories []CropAdvisory     `json:"cropAdvisories,omitempty"`
	MarketPrices   []MarketPrice      `json:"marketPrices,omitempty"`
	SoilHealth     []SoilHealth       `json:"soilHealth,omitempty"`
	Schemes        []GovernmentScheme `json:"schemes,omitempty"`
	Sources        []string           `json:"sources"`
	LastUpdated    time.Time          `json:"lastUpdated"`
}

// EmptyResponse is the degraded result used when aggregation as a whole fails.
func EmptyResponse(now time.Time) AggregatedResponse {
	return AggregatedResponse{
		Sources:     []string{},
		LastUpdated: now.UTC(),
	}
}

// MarshalJSON keeps successful-but-empty fields as [] and drops absent ones,
// which plain omitempty cannot distinguish.
func (r AggregatedResponse) MarshalJSON() ([]byte, error) {
	type wire struct {
		Weather        *[]WeatherData      `json:"weather,omitempty"`
		CropAdvisories *[]CropAdvisory     `json:"cropAdvisories,omitempty"`
		MarketPrices   *[]MarketPrice      `json:"marketPrices,omitempty"`
		SoilHealth     *[]SoilHealth       `json:"soilHealth,omitempty"`
		Schemes        *[]GovernmentScheme `json:"schemes,omitempty"`
		Sources        []string            `json:"sources"`
		LastUpdated    string              `json:"lastUpdated"`
	}

	w := wire{
		Sources:     r.Sources,
		LastUpdated: r.LastUpdated.UTC().Format(time.RFC3339Nano),
	}
	if w.Sources == nil {
		w.Sources = []string{}
	}
	if r.Weather != nil {
		w.Weather = &r.Weather
	}
	if r.CropAdvisories != nil {
		w.CropAdvisories = &r.CropAdvisories
	}
	if r.MarketPrices != nil {
		w.MarketPrices = &r.MarketPrices
	}
	if r.SoilHealth != nil {
		w.SoilHealth = &r.SoilHealth
	}
	if r.Schemes != nil {
		w.Schemes = &r.Schemes
	}
	return json.Marshal(w)
}
