package sampler_test

import (
	"context"
	"os"
	"testing"

	"github.com/programme-lv/crun/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessSamplesItself(t *testing.T) {
	s := sampler.NewProcess()

	// keep some memory resident so RSS is measurable
	ballast := make([]byte, 8*1024*1024)
	for i := range ballast {
		ballast[i] = byte(i)
	}

	sample, err := s.Sample(context.Background(), os.Getpid())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sample.RAMMB, uint(1))
	assert.NotZero(t, ballast[len(ballast)-1])
}

func TestProcessMissingPid(t *testing.T) {
	s := sampler.NewProcess()

	// pid_max on Linux is at most 2^22
	_, err := s.Sample(context.Background(), 1<<30)
	require.Error(t, err)
}

func TestByName(t *testing.T) {
	s, err := sampler.ByName("none")
	require.NoError(t, err)
	sample, err := s.Sample(context.Background(), os.Getpid())
	require.NoError(t, err)
	assert.Equal(t, sampler.Sample{}, sample)

	s, err = sampler.ByName("")
	require.NoError(t, err)
	assert.IsType(t, &sampler.Process{}, s)

	_, err = sampler.ByName("perf")
	require.Error(t, err)
}
