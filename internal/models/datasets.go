// internal/models/datasets.go
package models

import "slices"

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type WeatherData struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	WindSpeed   float64 `json:"windSpeed"`
	Forecast    string  `json:"forecast"`
	Date        string  `json:"date"`
	Source      string  `json:"source"`
}

type CropAdvisory struct {
	Crop            string   `json:"crop"`
	Region          string   `json:"region"`
	SowingTime      string   `json:"sowingTime"`
	HarvestTime     string   `json:"harvestTime"`
	PestAlerts      []string `json:"pestAlerts"`
	Recommendations []string `json:"recommendations"`
	Date            string   `json:"date"`
	Source          string   `json:"source"`
}

// Clone copies the nested lists so callers cannot reach catalog storage.
func (c CropAdvisory) Clone() CropAdvisory {
	c.PestAlerts = slices.Clone(c.PestAlerts)
	c.Recommendations = slices.Clone(c.Recommendations)
	return c
}

type MarketPrice struct {
	Crop   string  `json:"crop"`
	Market string  `json:"market"`
	Price  float64 `json:"price"`
	Unit   string  `json:"unit"`
	Date   string  `json:"date"`
	Trend  Trend   `json:"trend"`
	Source string  `json:"source"`
}

type SoilHealth struct {
	Region          string   `json:"region"`
	PH              float64  `json:"ph"`
	Nitrogen        float64  `json:"nitrogen"`
	Phosphorus      float64  `json:"phosphorus"`
	Potassium       float64  `json:"potassium"`
	OrganicMatter   float64  `json:"organicMatter"`
	Recommendations []string `json:"recommendations"`
	Source          string   `json:"source"`
}

func (s SoilHealth) Clone() SoilHealth {
	s.Recommendations = slices.Clone(s.Recommendations)
	return s
}

type GovernmentScheme struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Eligibility        []string `json:"eligibility"`
	Benefits           string   `json:"benefits"`
	ApplicationProcess string   `json:"applicationProcess"`
	Deadline           string   `json:"deadline,omitempty"`
	Source             string   `json:"source"`
}

func (g GovernmentScheme) Clone() GovernmentScheme {
	g.Eligibility = slices.Clone(g.Eligibility)
	return g
}
