// -*- tab-width:2 -*-
package sim

import (
	"os"
	"testing"

	count "github.com/jayalane/go-counter"
	ll "github.com/jayalane/go-lll"
)

func TestMain(m *testing.M) {
	ll.SetWriter(os.Stdout)
	count.InitCounters()
	Init()
	os.Exit(m.Run())
}

// script is a Uniform that replays fixed draws, then repeats fallback.
type script struct {
	vals     []float64
	i        int
	fallback float64
}

func (s *script) Float64() float64 {
	if s.i < len(s.vals) {
		v := s.vals[s.i]
		s.i++

		return v
	}

	return s.fallback
}

func (s *script) used() int {
	return s.i
}
