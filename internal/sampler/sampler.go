// Package sampler reads instantaneous CPU time and resident memory of a
// running process.
package sampler

import (
	"context"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
)

var ErrGone = errors.New("process is gone")

const bytesInMB = 1024 * 1024

// Sample is one reading. CPUSeconds is the total user+kernel time consumed
// so far in whole seconds, RAMMB is the resident set size in megabytes.
type Sample struct {
	CPUSeconds uint
	RAMMB      uint
}

//go:generate mockgen -destination=mocks/mock_sampler.go -package=mocks . Sampler

type Sampler interface {
	Sample(ctx context.Context, pid int) (Sample, error)
}

// Process samples through the operating system's per-process accounting:
// /proc on Linux, GetProcessTimes and the working set on Windows.
type Process struct{}

func NewProcess() *Process {
	return &Process{}
}

func (s *Process) Sample(ctx context.Context, pid int) (Sample, error) {
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return Sample{}, ErrGone
		}
		return Sample{}, fmt.Errorf("failed to open process %d: %w", pid, err)
	}

	times, err := p.TimesWithContext(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("failed to read cpu times of %d: %w", pid, err)
	}

	mem, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("failed to read memory info of %d: %w", pid, err)
	}

	return Sample{
		CPUSeconds: uint(times.User + times.System),
		RAMMB:      uint(mem.RSS / bytesInMB),
	}, nil
}

// Zero reports empty stats for any process.
type Zero struct{}

func (Zero) Sample(context.Context, int) (Sample, error) {
	return Sample{}, nil
}

// ByName resolves the monitor-sampler config value.
func ByName(name string) (Sampler, error) {
	switch name {
	case "", "process":
		return NewProcess(), nil
	case "none":
		return Zero{}, nil
	}
	return nil, fmt.Errorf("unknown sampler %q, expected 'process' or 'none'", name)
}
