package main

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/baxromumarov/gochan"
)

var (
	multiplexCmd = &cobra.Command{
		Use:   "multiplex",
		Short: "Fan differently-typed channels into one selector",
		Long: `Two producers push integers and a third pushes strings, all through
opportunistic TrySend with retry. A single selector consumer dispatches
whichever channel is ready and winds down on its own once both channels
are closed and drained.`,
		RunE: runMultiplex,
	}

	multiplexOpts = struct {
		count    int
		capacity int
	}{}
)

func init() {
	rootCmd.AddCommand(multiplexCmd)
	flags := multiplexCmd.Flags()
	flags.IntVar(&multiplexOpts.count, "count", 10, "Values sent by each producer")
	flags.IntVar(&multiplexOpts.capacity, "capacity", 5, "Capacity of both channels")
}

func runMultiplex(cmd *cobra.Command, args []string) error {
	numbers := gochan.New[int](multiplexOpts.capacity)
	words := gochan.New[string](multiplexOpts.capacity)

	collector.Watch("numbers", numbers)
	collector.Watch("words", words)
	serveMetrics()

	var delivered atomic.Int64
	sel := gochan.NewSelector()
	gochan.AddReceive(sel, numbers, func(v int) {
		delivered.Add(1)
		logrus.WithField("number", v).Info("dispatched")
	})
	gochan.AddReceive(sel, words, func(v string) {
		delivered.Add(1)
		logrus.WithField("word", v).Info("dispatched")
	})

	// The consumer needs no stop signal: Select returns false once every
	// watched channel has retired.
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for sel.Select() {
		}
	}()

	var producers errgroup.Group
	for id := 1; id <= 2; id++ {
		producers.Go(func() error {
			log := logrus.WithField("producer", id)
			for i := range multiplexOpts.count {
				v := id*1000 + i
				for !numbers.TrySend(v) {
					log.WithField("value", v).Debug("channel full, backing off")
					time.Sleep(time.Duration(rand.IntN(4)+1) * time.Millisecond)
				}
			}
			log.Info("number producer finished")
			return nil
		})
	}
	producers.Go(func() error {
		log := logrus.WithField("producer", 3)
		for i := range multiplexOpts.count {
			w := fmt.Sprintf("message-3-%d", i)
			for !words.TrySend(w) {
				log.WithField("value", w).Debug("channel full, backing off")
				time.Sleep(time.Duration(rand.IntN(4)+1) * time.Millisecond)
			}
		}
		log.Info("word producer finished")
		return nil
	})

	if err := producers.Wait(); err != nil {
		return err
	}
	numbers.Close()
	words.Close()
	<-consumerDone

	logrus.WithFields(logrus.Fields{
		"delivered": delivered.Load(),
		"expected":  3 * multiplexOpts.count,
	}).Info("multiplex complete")
	return nil
}
