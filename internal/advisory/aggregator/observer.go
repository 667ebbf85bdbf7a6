// internal/advisory/aggregator/observer.go
package aggregator

import (
	"errors"
	"time"

	"agri-advisory-workers/internal/models"
)

var ErrProviderFailed = errors.New("PROVIDER_FAILED")

// Observer receives per-provider outcomes. Calls arrive from provider
// goroutines and must be safe for concurrent use.
type Observer interface {
	ProviderFinished(domain models.QueryType, source string, elapsed time.Duration, err error)
	AggregationFailed(err error)
}

type NopObserver struct{}

func (NopObserver) ProviderFinished(models.QueryType, string, time.Duration, error) {}
func (NopObserver) AggregationFailed(error)                                         {}

// MultiObserver fans each event out to every observer in order.
type MultiObserver []Observer

func (m MultiObserver) ProviderFinished(domain models.QueryType, source string, elapsed time.Duration, err error) {
	for _, o := range m {
		o.ProviderFinished(domain, source, elapsed, err)
	}
}

func (m MultiObserver) AggregationFailed(err error) {
	for _, o := range m {
		o.AggregationFailed(err)
	}
}

// LogObserver reports provider outcomes through a field logger. A nil Logger
// drops the events.
type LogObserver struct {
	Logger FieldLogger
}

// FieldLogger is the subset of the worker logger the aggregator needs.
type FieldLogger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func (o LogObserver) ProviderFinished(domain models.QueryType, source string, elapsed time.Duration, err error) {
	fields := map[string]interface{}{
		"domain":     string(domain),
		"source":     source,
		"durationMs": elapsed.Milliseconds(),
	}
	if o.Logger == nil {
		return
	}
	if err != nil {
		fields["error"] = err.Error()
		o.Logger.Warn("provider failed", fields)
		return
	}
	o.Logger.Info("provider finished", fields)
}

func (o LogObserver) AggregationFailed(err error) {
	if o.Logger == nil {
		return
	}
	o.Logger.Error("aggregation failed, returning empty response", map[string]interface{}{
		"error": err.Error(),
	})
}
