package metrics

import "sync"

// Recorder keeps counters and gauges in memory instead of sending them.
type Recorder struct {
	mu     sync.Mutex
	counts map[string]int64
	gauges map[string]float64
}

func NewRecorder() *Recorder {
	return &Recorder{counts: map[string]int64{}, gauges: map[string]float64{}}
}

func (r *Recorder) Incr(name string, _ []string, _ float64) error {
	return r.Count(name, 1, nil, 1)
}

func (r *Recorder) Count(name string, value int64, _ []string, _ float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[name] += value
	return nil
}

func (r *Recorder) Gauge(name string, value float64, _ []string, _ float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gauges[name] = value
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Counter(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

func (r *Recorder) GaugeValue(name string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gauges[name]
}

var _ Client = (*Recorder)(nil)
