//go:build unix

package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/programme-lv/crun/internal/logger"
	"github.com/programme-lv/crun/internal/logger/logtest"
	"github.com/programme-lv/crun/internal/monitor"
	"github.com/programme-lv/crun/internal/runner"
	"github.com/programme-lv/crun/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(rec *logtest.Recorder, opts ...runner.Option) *runner.Runner {
	return runner.New(append([]runner.Option{runner.WithSink(rec)}, opts...)...)
}

func TestRunSpawnFailure(t *testing.T) {
	rec := &logtest.Recorder{}
	r := newRunner(rec, runner.WithPlatform(runner.NewShellPlatform("/nonexistent/crun-shell")))

	out := r.Run(context.Background(), "./missing-binary --flag", true)

	assert.Equal(t, -1, out.ExitCode)
	assert.Nil(t, out.Monitoring)
	assert.ErrorIs(t, out.Err, runner.ErrSpawn)
	faults := rec.AtLevel(logger.LevelFault)
	require.Len(t, faults, 1)
	assert.Contains(t, faults[0].Msg, "./missing-binary --flag")
	assert.False(t, rec.Contains("Monitoring results:"))
}

func TestRunExitZeroWithoutMonitoring(t *testing.T) {
	rec := &logtest.Recorder{}
	r := newRunner(rec)

	out := r.Run(context.Background(), "true", false)

	assert.Equal(t, 0, out.ExitCode)
	assert.Nil(t, out.Monitoring)
	assert.GreaterOrEqual(t, out.Duration, time.Duration(0))
	assert.False(t, rec.Contains("Monitoring results:"))
	assert.Empty(t, rec.AtLevel(logger.LevelFault))
}

func TestRunExitCode(t *testing.T) {
	r := newRunner(&logtest.Recorder{})

	assert.Equal(t, 3, r.RunScript(context.Background(), "exit 3", false))
	assert.Equal(t, 127, r.RunScript(context.Background(), "/nonexistent/program", false))
}

func TestRunKilledBySignal(t *testing.T) {
	r := newRunner(&logtest.Recorder{})

	out := r.Run(context.Background(), "kill -9 $$", false)
	assert.Equal(t, -1, out.ExitCode)
}

func TestRunDurationTracksChild(t *testing.T) {
	r := newRunner(&logtest.Recorder{})

	out := r.Run(context.Background(), "sleep 1", false)

	require.Equal(t, 0, out.ExitCode)
	assert.GreaterOrEqual(t, out.DurationMs(), uint64(900))
	assert.Less(t, out.DurationMs(), uint64(5000))
}

func TestRunMonitoringReport(t *testing.T) {
	rec := &logtest.Recorder{}
	r := newRunner(rec, runner.WithInterval(50*time.Millisecond))

	out := r.Run(context.Background(), "sleep 0.5", true)

	require.Equal(t, 0, out.ExitCode)
	require.NotNil(t, out.Monitoring)
	assert.GreaterOrEqual(t, out.Monitoring.Samples, 2)
	assert.True(t, rec.Contains("Monitoring results:"))
	assert.True(t, rec.Contains("RAM max:"))
	assert.True(t, rec.Contains("Execution time:"))
}

func TestRunMonitoringDefaultInterval(t *testing.T) {
	if testing.Short() {
		t.Skip("takes three seconds")
	}
	r := newRunner(&logtest.Recorder{})

	out := r.Run(context.Background(), "sleep 3", true)

	require.NotNil(t, out.Monitoring)
	assert.GreaterOrEqual(t, out.Monitoring.Samples, 2)
}

func TestRunOutcomesAreIndependent(t *testing.T) {
	r := newRunner(&logtest.Recorder{},
		runner.WithInterval(20*time.Millisecond),
		runner.WithSampler(constSampler{cpu: 4, ram: 64}))

	first := r.Run(context.Background(), "sleep 0.1", true)
	require.NotNil(t, first.Monitoring)
	snapshot := *first.Monitoring

	second := r.Run(context.Background(), "sleep 0.1", true)
	require.NotNil(t, second.Monitoring)

	assert.NotSame(t, first.Monitoring, second.Monitoring)
	assert.Equal(t, snapshot, *first.Monitoring)
	for _, stats := range []*monitor.Stats{first.Monitoring, second.Monitoring} {
		assert.Equal(t, uint(4), stats.CPUMax)
		assert.Equal(t, uint(64), stats.RAMMax)
		// a fresh aggregation starts from zero on every run
		assert.Equal(t, runningAverage(64, stats.Samples), stats.RAMAverage)
	}
}

func runningAverage(sample uint, n int) uint {
	var avg uint
	for i := 0; i < n; i++ {
		avg = (avg + sample) / 2
	}
	return avg
}

func TestRunTimeout(t *testing.T) {
	rec := &logtest.Recorder{}
	r := newRunner(rec, runner.WithTimeout(100*time.Millisecond))

	out := r.Run(context.Background(), "sleep 5", false)

	assert.Equal(t, -1, out.ExitCode)
	assert.Less(t, out.DurationMs(), uint64(3000))
	assert.True(t, rec.Contains("Process killed after timeout of 100ms"))
}

func TestRunTimeoutNotReachedIsSilent(t *testing.T) {
	rec := &logtest.Recorder{}
	r := newRunner(rec, runner.WithTimeout(5*time.Second))

	out := r.Run(context.Background(), "exit 2", false)

	assert.Equal(t, 2, out.ExitCode)
	assert.False(t, rec.Contains("killed"))
}

func TestRunCallerDeadlineIsNotATimeout(t *testing.T) {
	rec := &logtest.Recorder{}
	r := newRunner(rec)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	out := r.Run(ctx, "sleep 5", false)

	assert.Equal(t, -1, out.ExitCode)
	assert.False(t, rec.Contains("killed"))
}

func TestExecSkipsReport(t *testing.T) {
	rec := &logtest.Recorder{}
	r := newRunner(rec)

	out := r.Exec(context.Background(), "exit 4")
	assert.Equal(t, 4, out.ExitCode)
	assert.Nil(t, out.Monitoring)
	assert.Empty(t, rec.Records())
}

func TestExecUsesShellPlatform(t *testing.T) {
	rec := &logtest.Recorder{}
	r := newRunner(rec,
		runner.WithPlatform(brokenWaitPlatform{}),
		runner.WithShell(runner.NewShellPlatform("/nonexistent/crun-shell")))

	out := r.Exec(context.Background(), "true")

	assert.ErrorIs(t, out.Err, runner.ErrSpawn)
	require.Len(t, rec.AtLevel(logger.LevelFault), 1)
	assert.False(t, rec.Contains("Monitoring results:"))
}

func TestRunWaitFailure(t *testing.T) {
	rec := &logtest.Recorder{}
	r := newRunner(rec, runner.WithPlatform(brokenWaitPlatform{}))

	out := r.Run(context.Background(), "anything", false)

	assert.Equal(t, -1, out.ExitCode)
	assert.ErrorIs(t, out.Err, runner.ErrWait)
	assert.Len(t, rec.AtLevel(logger.LevelWarn), 1)
}

type constSampler struct {
	cpu, ram uint
}

func (s constSampler) Sample(context.Context, int) (sampler.Sample, error) {
	return sampler.Sample{CPUSeconds: s.cpu, RAMMB: s.ram}, nil
}

type brokenWaitPlatform struct{}

func (brokenWaitPlatform) Spawn(context.Context, string) (runner.Process, error) {
	return brokenWaitProcess{}, nil
}

type brokenWaitProcess struct{}

func (brokenWaitProcess) PID() int           { return 1 }
func (brokenWaitProcess) Alive() bool        { return false }
func (brokenWaitProcess) Wait() (int, error) { return 0, errors.New("no status") }
func (brokenWaitProcess) Killed() bool       { return false }
func (brokenWaitProcess) Close() error       { return nil }
