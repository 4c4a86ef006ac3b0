package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/baxromumarov/gochan"
)

var (
	rendezvousCmd = &cobra.Command{
		Use:   "rendezvous",
		Short: "Demonstrate unbuffered hand-off timing",
		Long: `A capacity-0 channel never buffers: every send waits for a receiver to
commit. The receiver here dawdles between receives, so each send's
elapsed time is the receiver's delay made visible on the sender's side.`,
		RunE: runRendezvous,
	}

	rendezvousOpts = struct {
		count int
		delay time.Duration
	}{}
)

func init() {
	rootCmd.AddCommand(rendezvousCmd)
	flags := rendezvousCmd.Flags()
	flags.IntVar(&rendezvousOpts.count, "count", 5, "Number of hand-offs to perform")
	flags.DurationVar(&rendezvousOpts.delay, "delay", 20*time.Millisecond, "Pause the receiver takes before each receive")
}

func runRendezvous(cmd *cobra.Command, args []string) error {
	ch := gochan.New[int](0)
	collector.Watch("handoff", ch)
	serveMetrics()

	var g errgroup.Group
	g.Go(func() error {
		log := logrus.WithField("role", "receiver")
		for {
			time.Sleep(rendezvousOpts.delay)
			v, ok := ch.Receive()
			if !ok {
				log.Info("channel exhausted")
				return nil
			}
			log.WithField("value", v).Info("took hand-off")
		}
	})

	sendLog := logrus.WithField("role", "sender")
	for i := range rendezvousOpts.count {
		start := time.Now()
		if err := ch.Send(i); err != nil {
			return err
		}
		sendLog.WithFields(logrus.Fields{
			"value":   i,
			"blocked": time.Since(start).Round(time.Millisecond),
		}).Info("hand-off committed")
	}
	ch.Close()
	if err := g.Wait(); err != nil {
		return err
	}

	st := ch.Stats()
	logrus.WithFields(logrus.Fields{
		"sent":     st.Sent,
		"received": st.Received,
	}).Info("rendezvous complete")
	return nil
}
