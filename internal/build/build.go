// Package build compiles a crun project with the external C/C++ compiler
// and launches the produced executable.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/programme-lv/crun/internal/config"
	"github.com/programme-lv/crun/internal/logger"
	"github.com/programme-lv/crun/internal/runner"
)

var (
	ErrCompile      = errors.New("compilation failed")
	ErrNoExecutable = errors.New("executable not found")
)

//go:generate mockgen -destination=mocks/mock_build.go -package=mocks . Runner,Gatherer

// Runner is the part of runner.Runner the builder depends on.
type Runner interface {
	Run(ctx context.Context, command string, monitoring bool) runner.Outcome
	Exec(ctx context.Context, command string) runner.Outcome
}

type Builder struct {
	run  Runner
	sink logger.Sink
	diag *slog.Logger
	goos string
}

type Option func(*Builder)

func WithSink(s logger.Sink) Option {
	return func(b *Builder) { b.sink = s }
}

func WithDiag(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.diag = l
		}
	}
}

// WithOS overrides the target operating system, runtime.GOOS by default.
func WithOS(goos string) Option {
	return func(b *Builder) { b.goos = goos }
}

func New(r Runner, opts ...Option) *Builder {
	b := &Builder{
		run:  r,
		sink: logger.Nop{},
		diag: slog.New(slog.DiscardHandler),
		goos: runtime.GOOS,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs the compile and launch steps selected by p.Launch and reports
// each finished step to gath.
func (b *Builder) Build(ctx context.Context, gath Gatherer, p *config.Project) error {
	if p.Clear {
		b.run.Exec(ctx, b.clearCommand())
	}

	b.checkBuildDir(p)
	plan, err := NewPlan(p, b.goos)
	if err != nil {
		b.sink.Log(logger.LevelFault, err.Error())
		return err
	}
	b.diag.Debug("build plan", "compile", plan.Compile, "program", plan.Program)

	b.sink.Log(logger.LevelInfo, "Build folder: "+plan.BuildDir, logger.Prefix("📂"))
	if p.Files.Cardinality() > 0 {
		b.sink.Log(logger.LevelInfo, "Build files:", logger.Prefix("📚"))
		for _, f := range config.Sorted(p.Files) {
			b.sink.Log(logger.LevelInfo, "   * "+f, logger.Bare())
		}
	}

	if err := os.MkdirAll(plan.BuildDir, 0755); err != nil {
		b.diag.Debug("failed to create build folder", "dir", plan.BuildDir, "err", err)
	}

	if plan.Launch != config.LaunchRun {
		b.sink.Log(logger.LevelInfo,
			fmt.Sprintf("Starting %s build of %s", plan.Compiler, plan.Name),
			logger.Prefix("⚒️"), logger.Always())
		outcome := b.run.Exec(ctx, plan.Compile)
		gath.FinishCompile(plan, outcome)
		if outcome.Failed() {
			return fmt.Errorf("%w: exit code %d", ErrCompile, outcome.ExitCode)
		}
	}

	if plan.Launch == config.LaunchBuild {
		return nil
	}

	if _, err := os.Stat(plan.Output); err != nil {
		gath.MissingExecutable(plan.Output)
		return fmt.Errorf("%w: %s", ErrNoExecutable, plan.Output)
	}

	outcome := b.run.Run(ctx, plan.Program, p.Monitor)
	gath.FinishProgram(plan.Program, outcome)
	return nil
}

// checkBuildDir resets a build folder that points at an existing file.
func (b *Builder) checkBuildDir(p *config.Project) {
	info, err := os.Stat(p.BuildDir)
	if err != nil || info.IsDir() {
		return
	}
	b.sink.Log(logger.LevelFault, "Build path must be a folder: "+p.BuildDir)
	p.BuildDir = "build"
}

func (b *Builder) clearCommand() string {
	if b.goos == "windows" {
		return "cls"
	}
	return "clear"
}
