package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/baxromumarov/gochan/metrics"
)

var (
	logLevel    = "info"
	metricsAddr string

	rootCmd = &cobra.Command{
		Use:   "gochan-demo",
		Short: "Exercise gochan channels under realistic load",
		Long: `gochan-demo drives the gochan library through its three core shapes:
a buffered producer/consumer pipeline, rendezvous hand-offs, and a
selector multiplexing differently-typed channels.

Every subcommand registers its channels with a Prometheus collector;
pass --metrics-addr to scrape them while the demo runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("unsupported log level %q: %w", logLevel, err)
			}
			logrus.SetLevel(level)
			return nil
		},
	}

	// collector gathers the stats of every channel the subcommands create.
	collector = metrics.NewCollector(metrics.WithNamespace("gochan_demo"))
)

func init() {
	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&logLevel, "log-level", logLevel, "Log messages above specified level (trace, debug, info, warn, error)")
	pFlags.StringVar(&metricsAddr, "metrics-addr", "", "Expose channel metrics at this address (e.g. :9090); empty disables the endpoint")
}

// serveMetrics exposes the shared collector when --metrics-addr is set. The
// server runs for the remainder of the process; demo runs are short enough
// that tearing it down is not worth the plumbing.
func serveMetrics() {
	if metricsAddr == "" {
		return
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collector)
	go func() {
		logrus.WithField("addr", metricsAddr).Info("serving metrics")
		if err := metrics.Serve(metricsAddr, reg); err != nil {
			logrus.WithError(err).Error("metrics server stopped")
		}
	}()
}
