package build

import "github.com/programme-lv/crun/internal/runner"

// Gatherer receives the results of the build steps.
type Gatherer interface {
	FinishCompile(plan Plan, outcome runner.Outcome)
	MissingExecutable(path string)
	FinishProgram(command string, outcome runner.Outcome)
}

// Gatherers forwards every event to each member in order.
type Gatherers []Gatherer

func (gs Gatherers) FinishCompile(plan Plan, outcome runner.Outcome) {
	for _, g := range gs {
		g.FinishCompile(plan, outcome)
	}
}

func (gs Gatherers) MissingExecutable(path string) {
	for _, g := range gs {
		g.MissingExecutable(path)
	}
}

func (gs Gatherers) FinishProgram(command string, outcome runner.Outcome) {
	for _, g := range gs {
		g.FinishProgram(command, outcome)
	}
}
