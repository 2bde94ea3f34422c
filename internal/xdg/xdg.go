package xdg

import (
	"os"
	"path/filepath"
)

// Dirs resolves XDG base directories used by crun: configuration (global
// crun.toml and friends) and state (run history).
type Dirs struct {
	configHome string
	stateHome  string
	configDirs []string
}

// New reads the XDG environment variables, falling back to the defaults of
// the base directory specification.
func New() *Dirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = os.TempDir()
		}
	}

	d := &Dirs{}

	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		d.configHome = filepath.Join(homeDir, ".config")
	}

	d.stateHome = os.Getenv("XDG_STATE_HOME")
	if d.stateHome == "" {
		d.stateHome = filepath.Join(homeDir, ".local", "state")
	}

	configDirsEnv := os.Getenv("XDG_CONFIG_DIRS")
	if configDirsEnv == "" {
		d.configDirs = []string{"/etc/xdg"}
	} else {
		d.configDirs = filepath.SplitList(configDirsEnv)
	}

	return d
}

func (d *Dirs) ConfigHome() string {
	return d.configHome
}

func (d *Dirs) StateHome() string {
	return d.stateHome
}

// AppConfigDirs returns the preference-ordered config directories for app.
func (d *Dirs) AppConfigDirs(app string) []string {
	res := []string{filepath.Join(d.configHome, app)}
	for _, dir := range d.configDirs {
		res = append(res, filepath.Join(dir, app))
	}
	return res
}

func (d *Dirs) AppStateDir(app string) string {
	return filepath.Join(d.stateHome, app)
}

// EnsureDir creates the directory if it does not exist.
func (d *Dirs) EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
