package main

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/baxromumarov/gochan"
	"github.com/baxromumarov/gochan/chanx"
)

var (
	pipelineCmd = &cobra.Command{
		Use:   "pipeline",
		Short: "Run a buffered producer/consumer pipeline",
		Long: `Producers push integers into a bounded jobs channel, a mapping stage
squares them, and consumers drain the results. The bounded buffer makes
backpressure visible: raise --count and lower --capacity to watch
producers block.`,
		RunE: runPipeline,
	}

	pipelineOpts = struct {
		producers int
		consumers int
		count     int
		capacity  int
	}{}
)

func init() {
	rootCmd.AddCommand(pipelineCmd)
	flags := pipelineCmd.Flags()
	flags.IntVar(&pipelineOpts.producers, "producers", 3, "Number of producer goroutines")
	flags.IntVar(&pipelineOpts.consumers, "consumers", 2, "Number of consumer goroutines")
	flags.IntVar(&pipelineOpts.count, "count", 5, "Values sent by each producer")
	flags.IntVar(&pipelineOpts.capacity, "capacity", 10, "Capacity of the jobs channel")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	jobs := gochan.New[int](pipelineOpts.capacity)
	squares := chanx.Map(jobs, pipelineOpts.capacity, func(v int) int { return v * v })

	collector.Watch("jobs", jobs)
	collector.Watch("squares", squares)
	serveMetrics()

	start := time.Now()

	var producers errgroup.Group
	for p := range pipelineOpts.producers {
		producers.Go(func() error {
			log := logrus.WithField("producer", p)
			for i := range pipelineOpts.count {
				v := p*pipelineOpts.count + i
				if err := jobs.Send(v); err != nil {
					return err
				}
				log.WithField("value", v).Debug("sent")
			}
			log.Info("producer finished")
			return nil
		})
	}

	var received atomic.Int64
	var consumers errgroup.Group
	for c := range pipelineOpts.consumers {
		consumers.Go(func() error {
			log := logrus.WithField("consumer", c)
			for {
				v, ok := squares.Receive()
				if !ok {
					log.Info("consumer finished")
					return nil
				}
				received.Add(1)
				log.WithField("value", v).Debug("received")
			}
		})
	}

	if err := producers.Wait(); err != nil {
		return err
	}
	// Closing the input lets the mapping stage drain the residue and close
	// its own output, which ends the consumers.
	jobs.Close()
	if err := consumers.Wait(); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"sent":     pipelineOpts.producers * pipelineOpts.count,
		"received": received.Load(),
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("pipeline complete")
	return nil
}
