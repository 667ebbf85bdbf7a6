// internal/models/query_types.go
package models

import "strings"

type QueryType string

const (
	QueryTypeWeather QueryType = "weather"
	QueryTypeCrop    QueryType = "crop"
	QueryTypeMarket  QueryType = "market"
	QueryTypeSoil    QueryType = "soil"
	QueryTypeScheme  QueryType = "scheme"
	QueryTypeGeneral QueryType = "general"
)

// QueryTypes lists every query type in provider domain order, followed by general.
var QueryTypes = []QueryType{
	QueryTypeWeather,
	QueryTypeCrop,
	QueryTypeMarket,
	QueryTypeSoil,
	QueryTypeScheme,
	QueryTypeGeneral,
}

func (q QueryType) Valid() bool {
	for _, t := range QueryTypes {
		if q == t {
			return true
		}
	}
	return false
}

// ParseQueryType is lenient: unknown or empty values map to general.
func ParseQueryType(s string) QueryType {
	q := QueryType(strings.ToLower(strings.TrimSpace(s)))
	if q.Valid() {
		return q
	}
	return QueryTypeGeneral
}

type Location struct {
	District string `json:"district"`
	State    string `json:"state"`
}

// QueryContext is derived once per query and treated as immutable afterwards.
type QueryContext struct {
	QueryType QueryType `json:"queryType"`
	Location  *Location `json:"location,omitempty"`
	Crop      string    `json:"crop,omitempty"`
}

func (c QueryContext) HasLocation() bool {
	return c.Location != nil
}

// Wants reports whether a provider for domain should run for this context.
func (c QueryContext) Wants(domain QueryType) bool {
	return c.QueryType == domain || c.QueryType == QueryTypeGeneral
}
