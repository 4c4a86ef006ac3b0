// Package metrics exposes gochan channel statistics as Prometheus metrics.
//
// A [Collector] gathers the [gochan.ChannelStats] of every channel
// registered with [Collector.Watch] and reports them under a per-channel
// "channel" label. Register the collector with a prometheus registry and
// expose it over HTTP with [Serve] or [Handler]:
//
//	col := metrics.NewCollector()
//	col.Watch("jobs", jobs)
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(col)
//	go metrics.Serve(":9090", reg)
package metrics

import (
	"net/http"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baxromumarov/gochan"
)

// Source is anything that can report channel statistics. Every
// [gochan.Channel] satisfies it regardless of element type.
type Source interface {
	Stats() gochan.ChannelStats
}

type config struct {
	namespace string
}

// Option configures a [Collector].
type Option func(*config)

func defaultConfig() config {
	return config{namespace: "gochan"}
}

// WithNamespace sets the prefix of every exported metric name. The default
// is "gochan". It panics if ns is empty.
func WithNamespace(ns string) Option {
	return func(c *config) {
		if ns == "" {
			panic("metrics: namespace must not be empty")
		}
		c.namespace = ns
	}
}

// Collector reports the stats of named channels to Prometheus. It
// implements [prometheus.Collector]; attach channels with
// [Collector.Watch] and register the collector with a registry.
//
// All methods are safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	sources map[string]Source

	buffered   *prometheus.Desc
	capacity   *prometheus.Desc
	closed     *prometheus.Desc
	sent       *prometheus.Desc
	received   *prometheus.Desc
	sendErrors *prometheus.Desc
}

// NewCollector creates a collector with no watched channels.
func NewCollector(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	label := []string{"channel"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(cfg.namespace, "channel", name),
			help, label, nil,
		)
	}

	return &Collector{
		sources:    make(map[string]Source),
		buffered:   desc("buffered", "Number of values currently buffered in the channel."),
		capacity:   desc("capacity", "Configured channel capacity; zero means rendezvous."),
		closed:     desc("closed", "Whether the channel has been closed (0 or 1)."),
		sent:       desc("sent_total", "Total values accepted by Send, TrySend, or AsyncSend."),
		received:   desc("received_total", "Total values delivered to receivers."),
		sendErrors: desc("send_errors_total", "Total sends rejected because the channel was closed."),
	}
}

// Watch registers src under the given channel name, replacing any earlier
// source with the same name. It panics if name is empty or src is nil.
func (c *Collector) Watch(name string, src Source) {
	if name == "" {
		panic("metrics: Watch requires a channel name")
	}
	if src == nil {
		panic("metrics: Watch requires a non-nil source")
	}
	c.mu.Lock()
	c.sources[name] = src
	c.mu.Unlock()
}

// Forget removes the named source. Forgetting an unknown name is a no-op.
func (c *Collector) Forget(name string) {
	c.mu.Lock()
	delete(c.sources, name)
	c.mu.Unlock()
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.buffered
	ch <- c.capacity
	ch <- c.closed
	ch <- c.sent
	ch <- c.received
	ch <- c.sendErrors
}

// Collect implements [prometheus.Collector]. It snapshots every watched
// channel's stats at scrape time.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	names := make([]string, 0, len(c.sources))
	for name := range c.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	snapshot := make([]Source, len(names))
	for i, name := range names {
		snapshot[i] = c.sources[name]
	}
	c.mu.Unlock()

	for i, name := range names {
		st := snapshot[i].Stats()

		gauge := func(d *prometheus.Desc, v float64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, name)
		}
		counter := func(d *prometheus.Desc, v float64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, name)
		}

		gauge(c.buffered, float64(st.Len))
		gauge(c.capacity, float64(st.Cap))
		var closed float64
		if st.Closed {
			closed = 1
		}
		gauge(c.closed, closed)
		counter(c.sent, float64(st.Sent))
		counter(c.received, float64(st.Received))
		counter(c.sendErrors, float64(st.SendErrors))
	}
}

// Handler returns an HTTP handler serving reg's metrics at /metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}

// Serve exposes reg's metrics at addr under /metrics. It blocks until the
// server fails, like [http.ListenAndServe].
func Serve(addr string, reg *prometheus.Registry) error {
	return http.ListenAndServe(addr, Handler(reg))
}
