//go:build windows

package runner_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/programme-lv/crun/internal/logger"
	"github.com/programme-lv/crun/internal/logger/logtest"
	"github.com/programme-lv/crun/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectSpawnMissingProgram(t *testing.T) {
	rec := &logtest.Recorder{}
	r := runner.New(runner.WithSink(rec))
	command := `"` + filepath.Join(t.TempDir(), "nope.exe") + `" 1 2`

	out := r.Run(context.Background(), command, true)

	assert.Equal(t, -1, out.ExitCode)
	assert.Nil(t, out.Monitoring)
	assert.ErrorIs(t, out.Err, runner.ErrSpawn)
	faults := rec.AtLevel(logger.LevelFault)
	require.Len(t, faults, 1)
	assert.Contains(t, faults[0].Msg, command)
}

func TestShellExecExitCode(t *testing.T) {
	r := runner.New(runner.WithSink(&logtest.Recorder{}))

	assert.Equal(t, 3, r.Exec(context.Background(), "exit /b 3").ExitCode)
}
