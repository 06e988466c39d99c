// -*- tab-width:2 -*-

package sim

import (
	count "github.com/jayalane/go-counter"
	"gonum.org/v1/gonum/stat"
)

// Stats are the counts accumulated over one run.
type Stats struct {
	Generated int    // messages handed to the sender
	Sent      [2]int // packets handed to the channel, per entity
	Lost      int
	Corrupted int
	Arrived   [2]int // packets delivered by the channel, per entity
	Timeouts  [2]int
	Delivered int
	EndTime   Time

	deliveredAt []float64
}

func (s *Stats) markDelivered(at Time) {
	if n := len(s.deliveredAt); n > 0 {
		count.MarkDistribution("delivery_gap", float64(at)-s.deliveredAt[n-1])
	}

	s.Delivered++
	s.deliveredAt = append(s.deliveredAt, float64(at))
}

// DeliveryGaps returns the time between successive deliveries.
func (s *Stats) DeliveryGaps() []float64 {
	if len(s.deliveredAt) < 2 { //nolint:mnd
		return nil
	}

	gaps := make([]float64, len(s.deliveredAt)-1)
	for i := 1; i < len(s.deliveredAt); i++ {
		gaps[i-1] = s.deliveredAt[i] - s.deliveredAt[i-1]
	}

	return gaps
}

// GapMeanStdDev is the mean and standard deviation of DeliveryGaps,
// zero when fewer than two messages arrived.
func (s *Stats) GapMeanStdDev() (float64, float64) {
	gaps := s.DeliveryGaps()
	if len(gaps) < 2 { //nolint:mnd
		return 0, 0
	}

	return stat.MeanStdDev(gaps, nil)
}

// Throughput is deliveries per time unit.
func (s *Stats) Throughput() float64 {
	if s.EndTime <= 0 {
		return 0
	}

	return float64(s.Delivered) / float64(s.EndTime)
}

// Log writes a summary of the run.
func (s *Stats) Log() {
	mean, sd := s.GapMeanStdDev()
	ml.Ln("Simulator terminated at time", s.EndTime, "after sending", s.Generated, "msgs from layer5")
	ml.Ln("Packets sent A:", s.Sent[A], "B:", s.Sent[B], "lost:", s.Lost, "corrupted:", s.Corrupted)
	ml.Ln("Timeouts A:", s.Timeouts[A], "B:", s.Timeouts[B], "delivered:", s.Delivered)
	ml.Ln("Delivery gap mean:", mean, "stddev:", sd, "throughput:", s.Throughput())
}
