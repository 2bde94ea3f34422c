// Package runner spawns a child process for a command line, optionally
// monitors its resource usage, waits for it and reports the outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/programme-lv/crun/internal/logger"
	"github.com/programme-lv/crun/internal/monitor"
	"github.com/programme-lv/crun/internal/sampler"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSpawn = errors.New("failed to start process")
	ErrWait  = errors.New("failed to retrieve exit status")
)

// Outcome of one Run. ExitCode is -1 when the child could not be spawned,
// did not exit normally or its exit status was unavailable. Err is set in
// the first and last case.
type Outcome struct {
	ExitCode   int
	Duration   time.Duration
	Monitoring *monitor.Stats
	Err        error
}

func (o Outcome) DurationMs() uint64 {
	if o.Duration < 0 {
		return 0
	}
	return uint64(o.Duration.Milliseconds())
}

func (o Outcome) Failed() bool {
	return o.ExitCode != 0
}

type Runner struct {
	platform Platform
	shell    Platform
	sampler  sampler.Sampler
	sink     logger.Sink
	diag     *slog.Logger
	interval time.Duration
	timeout  time.Duration
}

type Option func(*Runner)

// WithPlatform sets the platform Run starts programs on.
func WithPlatform(p Platform) Option {
	return func(r *Runner) { r.platform = p }
}

// WithShell sets the platform Exec hands command lines to.
func WithShell(p Platform) Option {
	return func(r *Runner) { r.shell = p }
}

func WithSampler(s sampler.Sampler) Option {
	return func(r *Runner) { r.sampler = s }
}

func WithSink(s logger.Sink) Option {
	return func(r *Runner) { r.sink = s }
}

func WithDiag(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.diag = l
		}
	}
}

// WithInterval sets the monitor poll interval.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) { r.interval = d }
}

// WithTimeout kills the child when it runs longer than d. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

func New(opts ...Option) *Runner {
	r := &Runner{
		platform: DefaultPlatform(),
		shell:    DefaultShellPlatform(),
		sampler:  sampler.NewProcess(),
		sink:     logger.Nop{},
		diag:     slog.New(slog.DiscardHandler),
		interval: monitor.DefaultInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes command and blocks until the child terminates. When
// monitoring is set the child is sampled concurrently and the aggregated
// stats are returned in the outcome.
func (r *Runner) Run(ctx context.Context, command string, monitoring bool) Outcome {
	outcome := r.run(ctx, r.platform, command, monitoring)
	if !errors.Is(outcome.Err, ErrSpawn) {
		r.report(outcome)
	}
	return outcome
}

// RunScript is Run reduced to the exit code.
func (r *Runner) RunScript(ctx context.Context, command string, monitoring bool) int {
	return r.Run(ctx, command, monitoring).ExitCode
}

// Exec hands command to the system shell and waits for it, without
// monitoring and without the closing report.
func (r *Runner) Exec(ctx context.Context, command string) Outcome {
	return r.run(ctx, r.shell, command, false)
}

func (r *Runner) run(ctx context.Context, platform Platform, command string, monitoring bool) Outcome {
	parent := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	proc, err := platform.Spawn(ctx, command)
	if err != nil {
		r.sink.Log(logger.LevelFault, "Failed to start process: "+command)
		r.diag.Debug("spawn failed", "cmd", command, "err", err)
		return Outcome{ExitCode: -1, Err: fmt.Errorf("%w: %w", ErrSpawn, err)}
	}
	defer func() {
		if err := proc.Close(); err != nil {
			r.diag.Debug("failed to close process handle", "pid", proc.PID(), "err", err)
		}
	}()
	r.diag.Debug("spawned", "pid", proc.PID(), "cmd", command, "monitor", monitoring)

	var (
		stats    monitor.Stats
		code     int
		duration time.Duration
	)

	monCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()

	var g errgroup.Group
	if monitoring {
		g.Go(func() error {
			stats = monitor.Run(monCtx, proc, r.sampler,
				monitor.WithInterval(r.interval),
				monitor.WithLogger(r.diag))
			return nil
		})
	}
	g.Go(func() error {
		defer stopMonitor()
		var err error
		code, err = proc.Wait()
		duration = time.Since(start)
		if err != nil {
			return fmt.Errorf("failed to wait for pid %d: %w", proc.PID(), err)
		}
		return nil
	})

	var waitErr error
	if err := g.Wait(); err != nil {
		r.sink.Log(logger.LevelWarn, "Failed to retrieve exit status: "+command)
		r.diag.Debug("wait failed", "err", err)
		code = -1
		waitErr = fmt.Errorf("%w: %w", ErrWait, err)
	}
	if r.timeout > 0 && proc.Killed() && parent.Err() == nil {
		r.sink.Log(logger.LevelWarn, fmt.Sprintf("Process killed after timeout of %s", r.timeout))
	}

	outcome := Outcome{ExitCode: code, Duration: duration, Err: waitErr}
	if monitoring {
		outcome.Monitoring = &stats
	}
	return outcome
}

func (r *Runner) report(o Outcome) {
	r.sink.Log(logger.LevelInfo, "", logger.Bare(), logger.Always())

	if o.Monitoring == nil {
		r.sink.Log(logger.LevelInfo, fmt.Sprintf("Finished in %d ms", o.DurationMs()))
		return
	}

	m := o.Monitoring
	r.sink.Log(logger.LevelInfo, "Monitoring results:", logger.Always())
	for _, line := range []string{
		fmt.Sprintf("    Execution time: %d ms", o.DurationMs()),
		fmt.Sprintf("    CPU max:     %d s", m.CPUMax),
		fmt.Sprintf("    CPU average: %d s", m.CPUAverage),
		fmt.Sprintf("    RAM max:     %d MB", m.RAMMax),
		fmt.Sprintf("    RAM average: %d MB", m.RAMAverage),
	} {
		r.sink.Log(logger.LevelInfo, line, logger.Bare(), logger.Always())
	}
}
