package xdg_test

import (
	"path/filepath"
	"testing"

	"github.com/programme-lv/crun/internal/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvironment(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "cfg"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(root, "sys1")+string(filepath.ListSeparator)+filepath.Join(root, "sys2"))

	d := xdg.New()

	assert.Equal(t, []string{
		filepath.Join(root, "cfg", "crun"),
		filepath.Join(root, "sys1", "crun"),
		filepath.Join(root, "sys2", "crun"),
	}, d.AppConfigDirs("crun"))
	assert.Equal(t, filepath.Join(root, "state", "crun"), d.AppStateDir("crun"))

	require.NoError(t, d.EnsureDir(d.AppStateDir("crun")))
	assert.DirExists(t, d.AppStateDir("crun"))
}

func TestDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", "")

	d := xdg.New()

	assert.Equal(t, filepath.Join(home, ".config"), d.ConfigHome())
	assert.Equal(t, filepath.Join(home, ".local", "state"), d.StateHome())
	assert.Equal(t, filepath.Join("/etc/xdg", "crun"), d.AppConfigDirs("crun")[1])
}
