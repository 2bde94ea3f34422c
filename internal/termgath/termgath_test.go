package termgath_test

import (
	"testing"

	"github.com/programme-lv/crun/internal/build"
	"github.com/programme-lv/crun/internal/logger"
	"github.com/programme-lv/crun/internal/logger/logtest"
	"github.com/programme-lv/crun/internal/runner"
	"github.com/programme-lv/crun/internal/termgath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ build.Gatherer = (*termgath.TerminalGatherer)(nil)

func TestFinishCompile(t *testing.T) {
	rec := &logtest.Recorder{}
	g := termgath.New(rec)

	g.FinishCompile(build.Plan{}, runner.Outcome{ExitCode: 1})
	g.FinishCompile(build.Plan{}, runner.Outcome{})

	records := rec.Records()
	require.Len(t, records, 2)
	assert.Equal(t, logtest.Record{Level: logger.LevelFault, Msg: "Compilation failed!"}, records[0])
	assert.Equal(t, logtest.Record{Level: logger.LevelInfo, Msg: "Build finished"}, records[1])
}

func TestFinishProgram(t *testing.T) {
	rec := &logtest.Recorder{}
	g := termgath.New(rec)

	g.FinishProgram("./app", runner.Outcome{ExitCode: -1})
	g.FinishProgram("./app", runner.Outcome{})

	assert.True(t, rec.Contains("Finished with error (-1)"))
	assert.True(t, rec.Contains("Finished successfully"))
}

func TestMissingExecutable(t *testing.T) {
	rec := &logtest.Recorder{}
	termgath.New(rec).MissingExecutable("/tmp/app")

	faults := rec.AtLevel(logger.LevelFault)
	require.Len(t, faults, 1)
	assert.Equal(t, "Executable not found!", faults[0].Msg)
}
