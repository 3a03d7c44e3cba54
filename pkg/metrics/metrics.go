package metrics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrLabelCountMismatch is returned when the number of label values doesn't match the defined labels.
var ErrLabelCountMismatch = errors.New("label count mismatch")

// ErrNegativeCounterValue is returned when attempting to add a negative value to a counter.
var ErrNegativeCounterValue = errors.New("counter cannot be decreased")

// ErrDuplicateMetric is returned when registering a metric with a name that is already registered.
var ErrDuplicateMetric = errors.New("duplicate metric name")

// atomicFloat64 stores float64 bits in a uint64 for atomic access.
type atomicFloat64 struct {
	bits uint64
}

func (a *atomicFloat64) Load() float64 {
	return math.Float64frombits(atomic.LoadUint64(&a.bits))
}

func (a *atomicFloat64) Store(val float64) {
	atomic.StoreUint64(&a.bits, math.Float64bits(val))
}

func (a *atomicFloat64) Add(delta float64) {
	for {
		old := atomic.LoadUint64(&a.bits)
		next := math.Float64frombits(old) + delta
		if atomic.CompareAndSwapUint64(&a.bits, old, math.Float64bits(next)) {
			return
		}
	}
}

// MetricType represents the type of a metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
)

// Metric is the interface implemented by all metric types.
type Metric interface {
	Name() string
	Help() string
	Type() MetricType
	// Collect returns all samples for exposition.
	Collect() []Sample
}

// Sample represents a single metric sample with labels.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// family holds the per-label-set series of one metric.
type family[V any] struct {
	name       string
	help       string
	labelNames []string
	mu         sync.RWMutex
	series     map[string]*series[V]
	newValue   func() *V
}

type series[V any] struct {
	labels map[string]string
	value  *V
}

func newFamily[V any](name, help string, labelNames []string, newValue func() *V) family[V] {
	return family[V]{
		name:       name,
		help:       help,
		labelNames: labelNames,
		series:     make(map[string]*series[V]),
		newValue:   newValue,
	}
}

// lookup returns the series for the label values, creating it on first use.
func (f *family[V]) lookup(values []string) (*series[V], error) {
	if len(values) != len(f.labelNames) {
		return nil, fmt.Errorf("%w: %s expected %d labels, got %d", ErrLabelCountMismatch, f.name, len(f.labelNames), len(values))
	}

	key := strings.Join(values, "\x00")
	f.mu.RLock()
	s, ok := f.series[key]
	f.mu.RUnlock()
	if ok {
		return s, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok = f.series[key]; ok {
		return s, nil
	}
	labels := make(map[string]string, len(f.labelNames))
	for i, name := range f.labelNames {
		labels[name] = values[i]
	}
	s = &series[V]{labels: labels, value: f.newValue()}
	f.series[key] = s
	return s, nil
}

func (f *family[V]) snapshot() []*series[V] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*series[V], 0, len(f.series))
	for _, s := range f.series {
		out = append(out, s)
	}
	return out
}

// Counter is a monotonically increasing metric.
type Counter struct {
	family[atomicFloat64]
}

func newCounter(name, help string, labelNames []string) *Counter {
	return &Counter{newFamily(name, help, labelNames, func() *atomicFloat64 { return &atomicFloat64{} })}
}

func (c *Counter) Name() string     { return c.name }
func (c *Counter) Help() string     { return c.help }
func (c *Counter) Type() MetricType { return MetricTypeCounter }

// WithLabels returns the counter series for the given label values.
func (c *Counter) WithLabels(values ...string) (*CounterVec, error) {
	s, err := c.lookup(values)
	if err != nil {
		return nil, err
	}
	return &CounterVec{v: s.value}, nil
}

// Inc increments an unlabeled counter by 1.
func (c *Counter) Inc() error {
	return c.Add(1)
}

// Add adds delta to an unlabeled counter.
func (c *Counter) Add(delta float64) error {
	vec, err := c.WithLabels()
	if err != nil {
		return err
	}
	return vec.Add(delta)
}

// Collect returns all metric samples.
func (c *Counter) Collect() []Sample {
	var samples []Sample
	for _, s := range c.snapshot() {
		samples = append(samples, Sample{Name: c.name, Labels: s.labels, Value: s.value.Load()})
	}
	return samples
}

// CounterVec is a counter bound to one label combination.
type CounterVec struct {
	v *atomicFloat64
}

// Inc increments the counter by 1.
func (v *CounterVec) Inc() error {
	return v.Add(1)
}

// Add adds delta to the counter. Negative values are rejected.
func (v *CounterVec) Add(delta float64) error {
	if delta < 0 {
		return ErrNegativeCounterValue
	}
	v.v.Add(delta)
	return nil
}

// Gauge is a metric that can go up and down.
type Gauge struct {
	family[atomicFloat64]
}

func newGauge(name, help string, labelNames []string) *Gauge {
	return &Gauge{newFamily(name, help, labelNames, func() *atomicFloat64 { return &atomicFloat64{} })}
}

func (g *Gauge) Name() string     { return g.name }
func (g *Gauge) Help() string     { return g.help }
func (g *Gauge) Type() MetricType { return MetricTypeGauge }

// WithLabels returns the gauge series for the given label values.
func (g *Gauge) WithLabels(values ...string) (*GaugeVec, error) {
	s, err := g.lookup(values)
	if err != nil {
		return nil, err
	}
	return &GaugeVec{v: s.value}, nil
}

// Set sets an unlabeled gauge.
func (g *Gauge) Set(value float64) error {
	vec, err := g.WithLabels()
	if err != nil {
		return err
	}
	vec.Set(value)
	return nil
}

// Add adds delta to an unlabeled gauge.
func (g *Gauge) Add(delta float64) error {
	vec, err := g.WithLabels()
	if err != nil {
		return err
	}
	vec.Add(delta)
	return nil
}

// Collect returns all metric samples.
func (g *Gauge) Collect() []Sample {
	var samples []Sample
	for _, s := range g.snapshot() {
		samples = append(samples, Sample{Name: g.name, Labels: s.labels, Value: s.value.Load()})
	}
	return samples
}

// GaugeVec is a gauge bound to one label combination.
type GaugeVec struct {
	v *atomicFloat64
}

func (v *GaugeVec) Set(value float64) { v.v.Store(value) }
func (v *GaugeVec) Inc()              { v.v.Add(1) }
func (v *GaugeVec) Dec()              { v.v.Add(-1) }
func (v *GaugeVec) Add(delta float64) { v.v.Add(delta) }

// Histogram tracks the distribution of observed values.
type Histogram struct {
	family[histogramValue]
	buckets []float64
}

type histogramValue struct {
	counts []uint64 // per bucket, not cumulative
	sum    atomicFloat64
	count  uint64
}

func newHistogram(name, help string, buckets []float64, labelNames []string) *Histogram {
	bounds := slices.Clone(buckets)
	sort.Float64s(bounds)
	if len(bounds) == 0 || !math.IsInf(bounds[len(bounds)-1], 1) {
		bounds = append(bounds, math.Inf(1))
	}
	return &Histogram{
		family: newFamily(name, help, labelNames, func() *histogramValue {
			return &histogramValue{counts: make([]uint64, len(bounds))}
		}),
		buckets: bounds,
	}
}

func (h *Histogram) Name() string     { return h.name }
func (h *Histogram) Help() string     { return h.help }
func (h *Histogram) Type() MetricType { return MetricTypeHistogram }

// WithLabels returns the histogram series for the given label values.
func (h *Histogram) WithLabels(values ...string) (*HistogramVec, error) {
	s, err := h.lookup(values)
	if err != nil {
		return nil, err
	}
	return &HistogramVec{v: s.value, buckets: h.buckets}, nil
}

// Observe records a value in an unlabeled histogram.
func (h *Histogram) Observe(value float64) error {
	vec, err := h.WithLabels()
	if err != nil {
		return err
	}
	vec.Observe(value)
	return nil
}

// Collect returns the cumulative bucket, sum and count samples.
func (h *Histogram) Collect() []Sample {
	var samples []Sample
	for _, s := range h.snapshot() {
		var cumulative uint64
		for i, bound := range h.buckets {
			cumulative += atomic.LoadUint64(&s.value.counts[i])
			labels := make(map[string]string, len(s.labels)+1)
			for k, v := range s.labels {
				labels[k] = v
			}
			labels["le"] = formatFloat(bound)
			samples = append(samples, Sample{Name: h.name + "_bucket", Labels: labels, Value: float64(cumulative)})
		}
		samples = append(samples,
			Sample{Name: h.name + "_sum", Labels: s.labels, Value: s.value.sum.Load()},
			Sample{Name: h.name + "_count", Labels: s.labels, Value: float64(atomic.LoadUint64(&s.value.count))},
		)
	}
	return samples
}

// HistogramVec is a histogram bound to one label combination.
type HistogramVec struct {
	v       *histogramValue
	buckets []float64
}

// Observe records a value.
func (v *HistogramVec) Observe(value float64) {
	for i, bound := range v.buckets {
		if value <= bound {
			atomic.AddUint64(&v.v.counts[i], 1)
			break
		}
	}
	v.v.sum.Add(value)
	atomic.AddUint64(&v.v.count, 1)
}

// Registry holds all registered metrics.
type Registry struct {
	mu      sync.RWMutex
	metrics []Metric
	names   map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// NewCounter creates and registers a counter.
func (r *Registry) NewCounter(name, help string, labels ...string) *Counter {
	c := newCounter(name, help, labels)
	r.register(c)
	return c
}

// NewGauge creates and registers a gauge.
func (r *Registry) NewGauge(name, help string, labels ...string) *Gauge {
	g := newGauge(name, help, labels)
	r.register(g)
	return g
}

// NewHistogram creates and registers a histogram with the given buckets.
func (r *Registry) NewHistogram(name, help string, buckets []float64, labels ...string) *Histogram {
	h := newHistogram(name, help, buckets, labels)
	r.register(h)
	return h
}

// register panics on duplicate names, which would produce invalid exposition output.
func (r *Registry) register(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[m.Name()]; exists {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateMetric, m.Name()))
	}
	r.names[m.Name()] = struct{}{}
	r.metrics = append(r.metrics, m)
}

// WriteText writes every metric with samples in the Prometheus text format.
func (r *Registry) WriteText(w io.Writer) error {
	r.mu.RLock()
	metrics := slices.Clone(r.metrics)
	r.mu.RUnlock()

	for _, m := range metrics {
		samples := m.Collect()
		if len(samples) == 0 {
			continue
		}
		sort.SliceStable(samples, func(i, j int) bool {
			return formatLabels(samples[i].Labels) < formatLabels(samples[j].Labels)
		})
		if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n", m.Name(), escapeHelp(m.Help()), m.Name(), m.Type()); err != nil {
			return err
		}
		for _, s := range samples {
			if err := writeSample(w, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Text returns the exposition output as a string.
func (r *Registry) Text() string {
	var sb strings.Builder
	_ = r.WriteText(&sb)
	return sb.String()
}

func writeSample(w io.Writer, s Sample) error {
	var err error
	if len(s.Labels) == 0 {
		_, err = fmt.Fprintf(w, "%s %s\n", s.Name, formatFloat(s.Value))
	} else {
		_, err = fmt.Fprintf(w, "%s{%s} %s\n", s.Name, formatLabels(s.Labels), formatFloat(s.Value))
	}
	return err
}

// formatLabels formats labels as key="value" pairs sorted by key.
func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + `="` + escapeLabelValue(labels[k]) + `"`
	}
	return strings.Join(parts, ",")
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%g", v)
	}
}

func escapeHelp(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

func escapeLabelValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// DefaultBuckets are the default histogram buckets for request durations (in seconds).
var DefaultBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
