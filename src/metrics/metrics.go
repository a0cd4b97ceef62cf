// Package metrics reports roll activity to DogStatsD.
package metrics

import (
	"fmt"

	"github.com/DataDog/datadog-go/statsd"
)

// Client is the part of statsd the roller and handlers use, so tests can record calls.
type Client interface {
	Incr(name string, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Gauge(name string, value float64, tags []string, rate float64) error
	Close() error
}

type noopClient struct{}

func (noopClient) Incr(string, []string, float64) error           { return nil }
func (noopClient) Count(string, int64, []string, float64) error   { return nil }
func (noopClient) Gauge(string, float64, []string, float64) error { return nil }
func (noopClient) Close() error                                   { return nil }

var _ Client = noopClient{}
var _ Client = (*statsd.Client)(nil)

// Noop discards everything.
func Noop() Client { return noopClient{} }

// New dials a DogStatsD agent at addr. An empty addr yields Noop.
func New(addr, namespace string) (Client, error) {
	if addr == "" {
		return Noop(), nil
	}
	c, err := statsd.New(addr, statsd.WithNamespace(namespace))
	if err != nil {
		return nil, fmt.Errorf("creating statsd client for %s: %w", addr, err)
	}
	return c, nil
}

// Metric names.
const (
	Rolls        = "rolls"
	RollRounds   = "roll_rounds"
	HistorySaved = "history.saved"
	HistoryLoad  = "history.loaded"
	HistorySize  = "history.size"
	DiceCount    = "dice.count"
)
