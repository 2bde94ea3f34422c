// Package monitor polls a running process at a fixed interval and folds the
// readings into max and running-average statistics.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/programme-lv/crun/internal/sampler"
)

const DefaultInterval = time.Second

// Stats holds aggregated readings. CPU values are whole seconds of CPU time,
// RAM values are megabytes.
//
// The averages are running averages of the form (previous + sample) / 2,
// not arithmetic means.
type Stats struct {
	CPUAverage uint `json:"cpu_average"`
	CPUMax     uint `json:"cpu_max"`
	RAMAverage uint `json:"ram_average_mb"`
	RAMMax     uint `json:"ram_max_mb"`
	Samples    int  `json:"samples"`
}

// Add folds one sample into the statistics.
func (s *Stats) Add(sample sampler.Sample) {
	s.CPUMax = max(s.CPUMax, sample.CPUSeconds)
	s.CPUAverage = (s.CPUAverage + sample.CPUSeconds) / 2
	s.RAMMax = max(s.RAMMax, sample.RAMMB)
	s.RAMAverage = (s.RAMAverage + sample.RAMMB) / 2
	s.Samples++
}

// Target is the monitored process.
type Target interface {
	PID() int
	Alive() bool
}

type options struct {
	interval time.Duration
	log      *slog.Logger
}

type Option func(*options)

func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		interval: DefaultInterval,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Run samples target until it is no longer alive or ctx is done and returns
// the aggregated statistics. Failed samples are skipped.
func Run(ctx context.Context, target Target, s sampler.Sampler, opts ...Option) Stats {
	o := newOptions(opts)
	pid := target.PID()

	var stats Stats
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		sample, err := s.Sample(ctx, pid)
		if err != nil {
			o.log.Debug("sample skipped", "pid", pid, "err", err)
		} else {
			stats.Add(sample)
		}

		if !target.Alive() {
			o.log.Debug("monitored process exited", "pid", pid, "samples", stats.Samples)
			return stats
		}

		select {
		case <-ctx.Done():
			return stats
		case <-ticker.C:
		}
	}
}

// Monitor is a handle on a background Run.
type Monitor struct {
	cancel context.CancelFunc
	result chan Stats

	once  sync.Once
	stats Stats
}

// Start runs the sampling loop in its own goroutine.
func Start(ctx context.Context, target Target, s sampler.Sampler, opts ...Option) *Monitor {
	ctx, cancel := context.WithCancel(ctx)
	m := &Monitor{
		cancel: cancel,
		result: make(chan Stats, 1),
	}
	go func() {
		m.result <- Run(ctx, target, s, opts...)
	}()
	return m
}

// Stop asks the loop to finish after its current iteration.
func (m *Monitor) Stop() {
	m.cancel()
}

// Wait blocks until the loop has finished and returns its statistics.
func (m *Monitor) Wait() Stats {
	m.once.Do(func() {
		m.stats = <-m.result
		m.cancel()
	})
	return m.stats
}
