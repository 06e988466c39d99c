// -*- tab-width:2 -*-

// Package main runs one reliable data transfer simulation: a protocol
// variant over a lossy, corrupting channel.
package main

import (
	"flag"
	"fmt"
	"os"

	count "github.com/jayalane/go-counter"
	ll "github.com/jayalane/go-lll"
	sim "github.com/jayalane/go-rdtsim"
	"github.com/jayalane/go-rdtsim/protocol"
)

// configure builds the run config from args: the YAML file named by
// -config, if any, then every flag given explicitly on top of it.
func configure(args []string) (*sim.Config, error) {
	fs := flag.NewFlagSet("rdtsim", flag.ContinueOnError)

	var (
		configPath = fs.String("config", "", "YAML config file")
		proto      = fs.String("protocol", "", "abp, gbn or sr")
		messages   = fs.Int("messages", 0, "number of messages to simulate")
		loss       = fs.Float64("loss", 0, "packet loss probability")
		corrupt    = fs.Float64("corrupt", 0, "packet corruption probability")
		mean       = fs.Float64("mean", 0, "average time between messages from the sender's layer 5")
		dist       = fs.String("distribution", "", "interarrival distribution: uniform or exponential")
		seed       = fs.Int64("seed", 0, "random seed")
		trace      = fs.String("trace", "", "log level: none, network, state, all")
		drain      = fs.Bool("drain", false, "keep running after the last message until the sender is idle")
		maxTime    = fs.Float64("max-time", 0, "stop the clock at this time, 0 for no limit")
	)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := sim.DefaultConfig()

	if *configPath != "" {
		var err error

		cfg, err = sim.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "protocol":
			cfg.Protocol.Name = *proto
		case "messages":
			cfg.Messages = *messages
		case "loss":
			cfg.LossProb = *loss
		case "corrupt":
			cfg.CorruptProb = *corrupt
		case "mean":
			cfg.MeanInterarrival = *mean
		case "distribution":
			cfg.Distribution = *dist
		case "seed":
			cfg.Seed = *seed
		case "trace":
			cfg.Trace = *trace
		case "drain":
			cfg.Drain = *drain
		case "max-time":
			cfg.MaxTime = *maxTime
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func main() {
	cfg, err := configure(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ll.SetWriter(os.Stdout)
	count.InitCounters()

	logger := ll.Init("RDT", cfg.Trace)
	sim.InitWithLogger(logger)
	protocol.InitWithLogger(logger)

	p, err := protocol.New(cfg.Protocol)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	loop, err := sim.NewLoop(cfg, p, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("=== %s: %d messages, loss %.3f, corruption %.3f ===\n",
		p.Name, cfg.Messages, cfg.LossProb, cfg.CorruptProb)

	stats, err := loop.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	stats.Log()
	count.LogCounters()

	gapMean, gapSD := stats.GapMeanStdDev()
	fmt.Printf("Simulator terminated at time %.3f after sending %d msgs from layer5\n",
		stats.EndTime, stats.Generated)
	fmt.Printf("sent A=%d B=%d lost=%d corrupted=%d timeouts=%d delivered=%d\n",
		stats.Sent[sim.A], stats.Sent[sim.B], stats.Lost, stats.Corrupted,
		stats.Timeouts[sim.A], stats.Delivered)
	fmt.Printf("delivery gap mean %.3f stddev %.3f\n", gapMean, gapSD)
}
