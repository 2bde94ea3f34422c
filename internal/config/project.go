// Package config describes a crun project: what to compile, how, and what
// to do with the result. Values come from project files, the environment
// and command-line flags, applied in that order onto Default.
package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/crun/internal/logger"
)

var (
	ErrScriptNotFound = errors.New("script not found")
	ErrScriptType     = errors.New("script must be a string")
)

type Launch int

const (
	LaunchBoth Launch = iota
	LaunchBuild
	LaunchRun
)

func (l Launch) String() string {
	switch l {
	case LaunchBuild:
		return "build"
	case LaunchRun:
		return "run"
	default:
		return "both"
	}
}

func ParseLaunch(s string) (Launch, error) {
	switch s {
	case "run":
		return LaunchRun, nil
	case "build":
		return LaunchBuild, nil
	case "", "both":
		return LaunchBoth, nil
	}
	return LaunchBoth, fmt.Errorf("invalid launch %q, expected 'run' or 'build'", s)
}

// Project is the resolved configuration passed to the build orchestrator.
type Project struct {
	Clear    bool
	Launch   Launch
	BuildDir string
	UseGCC   bool
	// Compiler overrides the gcc/g++ choice when set.
	Compiler string
	Name     string
	Options  string
	ExeArgs  string

	Files       mapset.Set[string]
	Folders     mapset.Set[string]
	IncludeDirs mapset.Set[string]
	LibDirs     mapset.Set[string]
	Libs        mapset.Set[string]

	LogLevel logger.Level
	Monitor  bool
	Sampler  string
	Timeout  time.Duration

	Scripts map[string]any
}

func Default() Project {
	return Project{
		Launch:      LaunchBoth,
		BuildDir:    "build",
		Files:       mapset.NewSet[string](),
		Folders:     mapset.NewSet[string](),
		IncludeDirs: mapset.NewSet[string](),
		LibDirs:     mapset.NewSet[string](),
		Libs:        mapset.NewSet[string](),
		LogLevel:    logger.LevelFault,
		Monitor:     true,
		Scripts:     map[string]any{},
	}
}

// ApplyFile overlays the values present in f. Invalid enumerations fall
// back to their defaults and are returned as problems to report.
func (p *Project) ApplyFile(f *File) []error {
	var problems []error

	replaceSet(p.IncludeDirs, f.Includes)
	replaceSet(p.LibDirs, f.LibDirs)
	replaceSet(p.Libs, f.Libs)
	replaceSet(p.Folders, f.Folders)
	replaceSet(p.Files, f.Files)

	setString(&p.Name, f.Name)
	setString(&p.Options, f.Options)
	setString(&p.BuildDir, f.Build)
	setString(&p.Compiler, f.Compiler)
	setString(&p.Sampler, f.Sampler)
	setBool(&p.Clear, f.Clear)
	setBool(&p.UseGCC, f.UseGCC)
	setBool(&p.Monitor, f.Monitor)

	if f.Launch != "" {
		launch, err := ParseLaunch(f.Launch)
		if err != nil {
			problems = append(problems, err)
		}
		p.Launch = launch
	}

	if f.LogLevel != "" {
		lvl, err := logger.ParseLevel(f.LogLevel)
		if err != nil {
			problems = append(problems, err)
		}
		p.LogLevel = lvl
	}

	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			problems = append(problems, fmt.Errorf("invalid timeout %q: %w", f.Timeout, err))
		} else {
			p.Timeout = d
		}
	}

	for name, cmd := range f.Scripts {
		p.Scripts[name] = cmd
	}

	return problems
}

// Script returns the command registered under name.
func (p *Project) Script(name string) (string, error) {
	raw, ok := p.Scripts[name]
	if !ok {
		return "", fmt.Errorf("script '%s': %w", name, ErrScriptNotFound)
	}
	cmd, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("script '%s': %w", name, ErrScriptType)
	}
	return cmd, nil
}

// Sorted returns the members of s in lexical order.
func Sorted(s mapset.Set[string]) []string {
	res := s.ToSlice()
	sort.Strings(res)
	return res
}

func replaceSet(dst mapset.Set[string], values []string) {
	if values == nil {
		return
	}
	dst.Clear()
	for _, v := range values {
		dst.Add(v)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
