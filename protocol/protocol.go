// -*- tab-width:2 -*-

// Package protocol has the reliable data transfer state machines that
// run over the sim channel: stop-and-wait (alternating bit),
// go-back-n and selective repeat.
package protocol

import (
	"strings"
	"sync"

	ll "github.com/jayalane/go-lll"
	sim "github.com/jayalane/go-rdtsim"
	"github.com/pkg/errors"
)

var (
	ml     *ll.Lll
	mlOnce sync.Once

	errUnknownProtocol = errors.New("unknown protocol")
	errWindow          = errors.New("window must be positive")
	errSeqSpace        = errors.New("sequence space too small for window")
)

// Defaults per variant.
const (
	AbpTimeout = 20.0

	GbnWindow      = 8
	GbnSeqSpace    = 1024
	GbnTimeout     = 600.0
	GbnAckInterval = 2000.0

	SrWindow   = 4
	SrSeqSpace = 8
	SrTimeout  = 600.0
)

// Init must be called before any protocol stuff
// it merely inits the logger.
func Init() {
	mlOnce.Do(func() {
		ml = ll.Init("RDT", "none")
	})
}

// InitWithLogger is an init where you can
// pass in the go-lll logger.
func InitWithLogger(l *ll.Lll) {
	mlOnce.Do(func() {
		ml = l
	})
}

// New builds the sender and receiver named by conf, filling in the
// variant's defaults for zero fields.
func New(conf sim.ProtocolConf) (*sim.Protocol, error) {
	Init()

	switch strings.ToLower(conf.Name) {
	case "abp", "saw", "stop-and-wait":
		timeout := orDefault(conf.Timeout, AbpTimeout)
		s, r := NewStopAndWait(timeout)

		return &sim.Protocol{Name: "abp", Sender: s, Receiver: r}, nil

	case "gbn", "go-back-n":
		ackInterval := orDefault(conf.AckInterval, GbnAckInterval)
		if conf.AckInterval < 0 {
			ackInterval = 0
		}

		s, r, err := NewGoBackN(
			orDefaultInt(conf.Window, GbnWindow),
			orDefaultInt(conf.SeqSpace, GbnSeqSpace),
			orDefault(conf.Timeout, GbnTimeout),
			ackInterval,
		)
		if err != nil {
			return nil, err
		}

		return &sim.Protocol{Name: "gbn", Sender: s, Receiver: r}, nil

	case "sr", "selective-repeat":
		s, r, err := NewSelectiveRepeat(
			orDefaultInt(conf.Window, SrWindow),
			orDefaultInt(conf.SeqSpace, SrSeqSpace),
			orDefault(conf.Timeout, SrTimeout),
			conf.NakStale,
		)
		if err != nil {
			return nil, err
		}

		return &sim.Protocol{Name: "sr", Sender: s, Receiver: r}, nil

	default:
		return nil, errors.Wrapf(errUnknownProtocol, "%q", conf.Name)
	}
}

func orDefault(v, d float64) float64 {
	if v <= 0 {
		return d
	}

	return v
}

func orDefaultInt(v, d int) int {
	if v <= 0 {
		return d
	}

	return v
}
