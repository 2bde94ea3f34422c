package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileNames are the project file names searched in each directory, in order.
var FileNames = []string{"crun.toml", "crun.yaml", "crun.yml", "crun.json"}

var ErrNoProjectFile = errors.New("no project file found")

// File is the on-disk shape of a project file. Unset keys stay zero and
// leave the corresponding Project value untouched.
type File struct {
	Includes []string `json:"includes,omitempty" yaml:"includes,omitempty" toml:"includes,omitempty"`
	LibDirs  []string `json:"libs-folders,omitempty" yaml:"libs-folders,omitempty" toml:"libs-folders,omitempty"`
	Libs     []string `json:"libs,omitempty" yaml:"libs,omitempty" toml:"libs,omitempty"`
	Folders  []string `json:"folders,omitempty" yaml:"folders,omitempty" toml:"folders,omitempty"`
	Files    []string `json:"files,omitempty" yaml:"files,omitempty" toml:"files,omitempty"`

	Name     string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Options  string `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
	Build    string `json:"build,omitempty" yaml:"build,omitempty" toml:"build,omitempty"`
	Launch   string `json:"launch,omitempty" yaml:"launch,omitempty" toml:"launch,omitempty"`
	LogLevel string `json:"log-level,omitempty" yaml:"log-level,omitempty" toml:"log-level,omitempty"`
	Compiler string `json:"compiler,omitempty" yaml:"compiler,omitempty" toml:"compiler,omitempty"`
	Sampler  string `json:"monitor-sampler,omitempty" yaml:"monitor-sampler,omitempty" toml:"monitor-sampler,omitempty"`
	Timeout  string `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`

	Clear   *bool `json:"clear,omitempty" yaml:"clear,omitempty" toml:"clear,omitempty"`
	UseGCC  *bool `json:"useGCC,omitempty" yaml:"useGCC,omitempty" toml:"useGCC,omitempty"`
	Monitor *bool `json:"monitor,omitempty" yaml:"monitor,omitempty" toml:"monitor,omitempty"`

	Scripts map[string]any `json:"scripts,omitempty" yaml:"scripts,omitempty" toml:"scripts,omitempty"`
}

// ReadFile parses a project file, choosing the format by extension.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported project file format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return &f, nil
}

// LoadFirst returns the first project file in dirs that parses. Files that
// exist but fail to parse are reported in problems and the search goes on
// with the next directory.
func LoadFirst(dirs []string) (f *File, path string, problems []error) {
	for _, dir := range dirs {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); errors.Is(err, fs.ErrNotExist) {
				continue
			}
			parsed, err := ReadFile(candidate)
			if err != nil {
				problems = append(problems, err)
				break
			}
			return parsed, candidate, problems
		}
	}
	return nil, "", append(problems, ErrNoProjectFile)
}

// Template is the project file written by `crun init`.
func Template() File {
	clearConsole, useGCC, monitor := false, false, true
	return File{
		Files:    []string{"main.cpp"},
		Includes: []string{"include"},
		Name:     "main",
		Options:  "-std=c++17 -O2 -Wall",
		Build:    "build",
		LogLevel: "warn",
		Clear:    &clearConsole,
		UseGCC:   &useGCC,
		Monitor:  &monitor,
		Scripts: map[string]any{
			"release": "crun -o -O3 -DNDEBUG",
		},
	}
}

// WriteTemplate writes Template as TOML to path. An existing file is never
// overwritten.
func WriteTemplate(path string) error {
	data, err := toml.Marshal(Template())
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return out.Close()
}
