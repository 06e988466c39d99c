// -*- tab-width:2 -*-

package sim

import (
	count "github.com/jayalane/go-counter"
)

// Source generates application messages for the sender at random
// intervals.
type Source struct {
	clock        *Clock
	rng          Uniform
	interarrival ModelCdf
	max          int
	drain        bool
	generated    int
	makeMessage  func(n int) Message
}

// NewSource builds the message generator described by cfg.
func NewSource(cfg *Config, clock *Clock, rng Uniform) (*Source, error) {
	s := Source{
		clock:        clock,
		rng:          rng,
		interarrival: cfg.Interarrival,
		max:          cfg.Messages,
		drain:        cfg.Drain,
		makeMessage:  cfg.MessageFactory,
	}

	if s.interarrival == nil {
		cdf, err := cfg.interarrivalCDF()
		if err != nil {
			return nil, err
		}

		s.interarrival = cdf
	}

	if s.makeMessage == nil {
		s.makeMessage = MakeMessage
	}

	return &s, nil
}

// Start schedules the first arrival.
func (s *Source) Start() {
	s.scheduleNext()
}

func (s *Source) scheduleNext() {
	timeToSleep := s.interarrival(s.rng.Float64())
	s.clock.After(timeToSleep, Event{Kind: AppArrival, Entity: A})
	ml.La("Source sleeping for", timeToSleep, "at", s.clock.Now())
}

// Generate is called for an AppArrival: it sets up the next arrival
// and returns the message that just arrived. When draining, no
// arrival is scheduled past the last message.
func (s *Source) Generate() Message {
	if !s.drain || s.generated+1 < s.max {
		s.scheduleNext()
	}

	m := s.makeMessage(s.generated)
	s.generated++

	count.IncrSync("source_generated")
	ml.La("Generate message", s.generated, "at", s.clock.Now(), string(m.Data[:]))

	return m
}

// Generated is the number of messages produced so far.
func (s *Source) Generated() int {
	return s.generated
}

// Exhausted reports that every configured message was produced.
func (s *Source) Exhausted() bool {
	return s.generated >= s.max
}
