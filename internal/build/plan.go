package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/programme-lv/crun/internal/config"
)

var sourceExts = mapset.NewSet(".c", ".cpp")

// Plan is a project resolved into concrete paths and commands.
type Plan struct {
	Launch   config.Launch
	Compiler string
	Name     string
	BuildDir string
	Output   string
	Sources  []string
	// Compile is the full compiler command line.
	Compile string
	// Program is the command line that starts the built executable.
	Program string
}

// NewPlan resolves p for the given GOOS. Explicit files come first in
// lexical order, followed by the sources found in folders.
func NewPlan(p *config.Project, goos string) (Plan, error) {
	plan := Plan{
		Launch:   p.Launch,
		Compiler: compilerFor(p),
		Name:     p.Name,
	}

	files := config.Sorted(p.Files)
	if plan.Name == "" {
		if len(files) == 0 {
			files = []string{defaultSource(p.UseGCC)}
			plan.Name = "main"
		} else {
			base := filepath.Base(files[0])
			plan.Name = strings.TrimSuffix(base, filepath.Ext(base))
		}
	}

	seen := mapset.NewSet(files...)
	plan.Sources = files
	for _, folder := range config.Sorted(p.Folders) {
		for _, src := range scanFolder(folder) {
			if seen.Add(src) {
				plan.Sources = append(plan.Sources, src)
			}
		}
	}

	buildDir, err := filepath.Abs(p.BuildDir)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to resolve build folder %s: %w", p.BuildDir, err)
	}
	plan.BuildDir = buildDir
	plan.Output = filepath.Join(buildDir, plan.Name)
	if goos == "windows" {
		plan.Output += ".exe"
	}

	plan.Compile = compileCommand(plan, p)
	plan.Program = strings.TrimSpace(quote(plan.Output) + " " + p.ExeArgs)
	return plan, nil
}

func compilerFor(p *config.Project) string {
	if p.Compiler != "" {
		return p.Compiler
	}
	if p.UseGCC {
		return "gcc"
	}
	return "g++"
}

func defaultSource(useGCC bool) string {
	if useGCC {
		return "main.c"
	}
	return "main.cpp"
}

// scanFolder lists regular C and C++ sources directly inside dir. Missing
// folders yield nothing.
func scanFolder(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var res []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if sourceExts.Contains(filepath.Ext(e.Name())) {
			res = append(res, filepath.Join(dir, e.Name()))
		}
	}
	return res
}

func compileCommand(plan Plan, p *config.Project) string {
	var sb strings.Builder
	sb.WriteString(plan.Compiler)
	for _, f := range plan.Sources {
		sb.WriteString(" " + quote(f))
	}
	for _, d := range config.Sorted(p.LibDirs) {
		sb.WriteString(" -L" + quote(d))
	}
	for _, d := range config.Sorted(p.IncludeDirs) {
		sb.WriteString(" -I" + quote(d))
	}
	for _, l := range config.Sorted(p.Libs) {
		sb.WriteString(" -l" + l)
	}
	fmt.Fprintf(&sb, " %s -o %s -finput-charset=UTF-8", p.Options, quote(plan.Output))
	return sb.String()
}

func quote(s string) string {
	return `"` + s + `"`
}
