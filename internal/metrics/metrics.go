// Package metrics exposes robot and bridge metrics to Prometheus.
package metrics

import (
	"vorwerkhome/internal/vorwerk"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the command counter and the per-robot state collector.
// A nil *Metrics is valid and records nothing, so callers never need to
// guard their instrumentation.
type Metrics struct {
	commands *prometheus.CounterVec
}

// New registers all collectors for the integration with reg.
func New(reg prometheus.Registerer, integration *vorwerk.Integration) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vorwerkhome_commands_total",
			Help: "Commands dispatched to robots, by serial and command name.",
		}, []string{"serial", "command"}),
	}
	reg.MustRegister(m.commands, newRobotCollector(integration))
	return m
}

// CommandDispatched counts one dispatched command.
func (m *Metrics) CommandDispatched(serial, command string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(serial, command).Inc()
}

// robotCollector reads coordinator state at scrape time, so gauges always
// reflect the current cache rather than a sampled copy.
type robotCollector struct {
	integration *vorwerk.Integration

	available    *prometheus.Desc
	battery      *prometheus.Desc
	polls        *prometheus.Desc
	pollFailures *prometheus.Desc
}

func newRobotCollector(integration *vorwerk.Integration) *robotCollector {
	return &robotCollector{
		integration: integration,
		available: prometheus.NewDesc(
			"vorwerkhome_robot_available",
			"Whether the robot responded to the most recent poll (1=yes).",
			[]string{"serial", "name"}, nil),
		battery: prometheus.NewDesc(
			"vorwerkhome_robot_battery_percent",
			"Last polled battery level.",
			[]string{"serial"}, nil),
		polls: prometheus.NewDesc(
			"vorwerkhome_robot_polls_total",
			"Total state polls attempted.",
			[]string{"serial"}, nil),
		pollFailures: prometheus.NewDesc(
			"vorwerkhome_robot_poll_failures_total",
			"State polls that failed.",
			[]string{"serial"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *robotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.available
	ch <- c.battery
	ch <- c.polls
	ch <- c.pollFailures
}

// Collect implements prometheus.Collector.
func (c *robotCollector) Collect(ch chan<- prometheus.Metric) {
	for _, entry := range c.integration.Robots() {
		info := entry.Robot.Info()

		availability := 0.0
		if entry.State.Available() {
			availability = 1.0
		}
		ch <- prometheus.MustNewConstMetric(c.available,
			prometheus.GaugeValue, availability, info.Serial, info.Name)

		if level, ok := entry.State.BatteryLevel(); ok {
			ch <- prometheus.MustNewConstMetric(c.battery,
				prometheus.GaugeValue, float64(level), info.Serial)
		}

		polls, failures := entry.Coordinator.Stats()
		ch <- prometheus.MustNewConstMetric(c.polls,
			prometheus.CounterValue, float64(polls), info.Serial)
		ch <- prometheus.MustNewConstMetric(c.pollFailures,
			prometheus.CounterValue, float64(failures), info.Serial)
	}
}
