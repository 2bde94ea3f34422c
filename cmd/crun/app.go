package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/programme-lv/crun/internal/build"
	"github.com/programme-lv/crun/internal/config"
	"github.com/programme-lv/crun/internal/environment"
	"github.com/programme-lv/crun/internal/histgath"
	"github.com/programme-lv/crun/internal/logger"
	"github.com/programme-lv/crun/internal/runner"
	"github.com/programme-lv/crun/internal/sampler"
	"github.com/programme-lv/crun/internal/termgath"
	"github.com/programme-lv/crun/internal/xdg"
	"github.com/urfave/cli/v3"
)

const appName = "crun"

type app struct {
	stdout io.Writer
	log    *logger.Logger
	dirs   *xdg.Dirs
	env    *environment.EnvConfig
	// exeArgs are the arguments after "--", passed to the built program.
	exeArgs string
}

// run executes crun with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout: stdout,
		log:    logger.New(logger.LevelFault, stdout, stderr),
		dirs:   xdg.New(),
	}

	env, err := environment.ReadEnvConfig()
	if err != nil {
		a.log.Fault(err.Error())
		return 1
	}
	a.env = env
	if env.NoColor {
		color.NoColor = true
	}

	own, exeArgs := splitExeArgs(args)
	a.exeArgs = exeArgs

	err = a.command().Run(ctx, own)
	var exitErr cli.ExitCoder
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		if msg := exitErr.Error(); msg != "" {
			a.log.Fault(msg)
		}
		return exitErr.ExitCode()
	default:
		a.log.Fault(err.Error())
		return 1
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      appName,
		Usage:     "build and run C/C++ projects",
		ArgsUsage: "[files or folders...] [-- program arguments...]",
		Version:   version,
		Writer:    a.stdout,
		// exit codes are mapped in run
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags:          buildFlags(),
		Action:         a.buildAction,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Aliases:   []string{"r"},
				Usage:     "run a script from the project config",
				ArgsUsage: "<script>",
				Action:    a.scriptAction,
			},
			{
				Name:    "init",
				Aliases: []string{"i"},
				Usage:   "create a crun.toml template",
				Action:  a.initAction,
			},
			{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "show the version",
				Action:  a.versionAction,
			},
			{
				Name:  "history",
				Usage: "show recent program runs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "last", Value: 10, Usage: "number of runs to show"},
					&cli.BoolFlag{Name: "json", Usage: "print raw records as JSON lines"},
				},
				Action: a.historyAction,
			},
		},
	}
}

func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "clear", Aliases: []string{"c"}, Usage: "clear the console first"},
		&cli.BoolFlag{Name: "run", Aliases: []string{"r"}, Usage: "only run the built executable"},
		&cli.BoolFlag{Name: "build", Aliases: []string{"b"}, Usage: "only build"},
		&cli.BoolFlag{Name: "gcc", Usage: "use gcc instead of g++"},
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "executable name"},
		&cli.StringFlag{Name: "build-dir", Aliases: []string{"bd"}, Usage: "build folder"},
		&cli.StringSliceFlag{Name: "include", Aliases: []string{"I"}, Usage: "include folder"},
		&cli.StringSliceFlag{Name: "lib-dir", Aliases: []string{"L"}, Usage: "library folder"},
		&cli.StringSliceFlag{Name: "lib", Aliases: []string{"l"}, Usage: "library to link"},
		&cli.StringSliceFlag{Name: "folder", Aliases: []string{"F"}, Usage: "source folder"},
		&cli.StringSliceFlag{Name: "file", Aliases: []string{"f"}, Usage: "source file"},
		&cli.StringFlag{Name: "options", Aliases: []string{"o"}, Usage: "extra compiler options"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		&cli.BoolFlag{Name: "no-monitor", Usage: "do not sample CPU and RAM usage"},
		&cli.DurationFlag{Name: "timeout", Usage: "kill the program after this long"},
	}
}

// loadProject layers the project file and the environment over defaults.
func (a *app) loadProject() config.Project {
	p := config.Default()

	f, path, problems := config.LoadFirst(a.configDirs())
	for _, err := range problems {
		if errors.Is(err, config.ErrNoProjectFile) {
			a.log.Diag().Debug("no project file", "dirs", a.configDirs())
			continue
		}
		a.log.Fault(err.Error())
	}
	if f != nil {
		a.log.Diag().Debug("project file", "path", path)
		for _, err := range p.ApplyFile(f) {
			a.log.Fault(err.Error())
		}
	}

	a.applyEnv(&p)
	return p
}

// configDirs lists the working directory, the XDG config directories and
// the folder holding the crun executable.
func (a *app) configDirs() []string {
	dirs := []string{"."}
	dirs = append(dirs, a.dirs.AppConfigDirs(appName)...)
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

func (a *app) applyEnv(p *config.Project) {
	if a.env.LogLevel != "" {
		lvl, err := logger.ParseLevel(a.env.LogLevel)
		if err != nil {
			a.log.Fault(err.Error())
		}
		p.LogLevel = lvl
	}
	if a.env.Compiler != "" {
		p.Compiler = a.env.Compiler
	}
	if a.env.BuildDir != "" {
		p.BuildDir = a.env.BuildDir
	}
	if a.env.Timeout > 0 {
		p.Timeout = a.env.Timeout
	}
	if a.env.NoMonitor {
		p.Monitor = false
	}
}

func applyFlags(cmd *cli.Command, p *config.Project, sink logger.Sink) {
	if cmd.Bool("clear") {
		p.Clear = true
	}
	if cmd.Bool("run") {
		p.Launch = config.LaunchRun
	}
	if cmd.Bool("build") {
		p.Launch = config.LaunchBuild
	}
	if cmd.IsSet("gcc") {
		p.UseGCC = cmd.Bool("gcc")
	}
	if v := cmd.String("name"); v != "" {
		p.Name = v
	}
	if v := cmd.String("build-dir"); v != "" {
		p.BuildDir = v
	}
	if v := cmd.String("options"); v != "" {
		p.Options = v
	}
	for _, v := range cmd.StringSlice("include") {
		p.IncludeDirs.Add(v)
	}
	for _, v := range cmd.StringSlice("lib-dir") {
		p.LibDirs.Add(v)
	}
	for _, v := range cmd.StringSlice("lib") {
		p.Libs.Add(v)
	}
	for _, v := range cmd.StringSlice("folder") {
		p.Folders.Add(v)
	}
	for _, v := range cmd.StringSlice("file") {
		p.Files.Add(v)
	}
	if v := cmd.String("log-level"); v != "" {
		lvl, err := logger.ParseLevel(v)
		if err != nil {
			sink.Log(logger.LevelFault, err.Error())
		}
		p.LogLevel = lvl
	}
	if cmd.Bool("no-monitor") {
		p.Monitor = false
	}
	if d := cmd.Duration("timeout"); d > 0 {
		p.Timeout = d
	}
}

func (a *app) newRunner(p *config.Project) (*runner.Runner, error) {
	s, err := sampler.ByName(p.Sampler)
	if err != nil {
		return nil, err
	}
	return runner.New(
		runner.WithSink(a.log),
		runner.WithDiag(a.log.Diag()),
		runner.WithSampler(s),
		runner.WithTimeout(p.Timeout),
	), nil
}

func (a *app) buildAction(ctx context.Context, cmd *cli.Command) error {
	p := a.loadProject()
	applyFlags(cmd, &p, a.log)
	p.ExeArgs = a.exeArgs
	a.log.SetThreshold(p.LogLevel)
	classifyArgs(cmd.Args().Slice(), &p, a.log)

	r, err := a.newRunner(&p)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	gath := build.Gatherers{termgath.New(a.log)}
	hist := histgath.New(filepath.Join(a.dirs.AppStateDir(appName), histgath.FileName))
	gath = append(gath, histgath.NewGatherer(hist, a.log))

	b := build.New(r, build.WithSink(a.log), build.WithDiag(a.log.Diag()))
	if err := b.Build(ctx, gath, &p); err != nil {
		// the gatherers have already reported the failure
		a.log.Diag().Debug("build stopped", "err", err)
		return cli.Exit("", 1)
	}
	return nil
}

func (a *app) initAction(_ context.Context, _ *cli.Command) error {
	const path = "crun.toml"
	err := config.WriteTemplate(path)
	if errors.Is(err, os.ErrExist) {
		return cli.Exit(path+" already exists", 1)
	}
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	a.log.Info("Created "+path, logger.Always())
	return nil
}

func (a *app) versionAction(_ context.Context, _ *cli.Command) error {
	a.log.Info(fmt.Sprintf("CRUN %s", version), logger.Always())
	return nil
}
