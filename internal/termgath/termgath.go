// Package termgath reports build results on the console.
package termgath

import (
	"fmt"

	"github.com/programme-lv/crun/internal/build"
	"github.com/programme-lv/crun/internal/logger"
	"github.com/programme-lv/crun/internal/runner"
)

type TerminalGatherer struct {
	sink logger.Sink
}

func New(sink logger.Sink) *TerminalGatherer {
	return &TerminalGatherer{sink: sink}
}

func (t *TerminalGatherer) FinishCompile(_ build.Plan, outcome runner.Outcome) {
	if outcome.Failed() {
		t.sink.Log(logger.LevelFault, "Compilation failed!", logger.Always())
		return
	}
	t.sink.Log(logger.LevelInfo, "Build finished", logger.Prefix("✅"), logger.Always())
}

func (t *TerminalGatherer) MissingExecutable(path string) {
	t.sink.Log(logger.LevelFault, "Executable not found!", logger.Prefix("❓"))
	t.sink.Log(logger.LevelDebug, "looked for "+path)
}

func (t *TerminalGatherer) FinishProgram(_ string, outcome runner.Outcome) {
	if outcome.Failed() {
		t.sink.Log(logger.LevelFault, fmt.Sprintf("Finished with error (%d)", outcome.ExitCode))
		return
	}
	t.sink.Log(logger.LevelInfo, "Finished successfully", logger.Prefix("⏹️"), logger.Always())
}
