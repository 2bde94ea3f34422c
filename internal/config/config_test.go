package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/programme-lv/crun/internal/config"
	"github.com/programme-lv/crun/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadFileFormats(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"crun.toml": `
name = "app"
files = ["a.cpp", "b.cpp"]
libs = ["m"]
launch = "run"
useGCC = true
timeout = "3s"

[scripts]
test = "crun -r"
`,
		"crun.yaml": `
name: app
files: [a.cpp, b.cpp]
libs: [m]
launch: run
useGCC: true
timeout: 3s
scripts:
  test: crun -r
`,
		"crun.json": `{
  "name": "app",
  "files": ["a.cpp", "b.cpp"],
  "libs": ["m"],
  "launch": "run",
  "useGCC": true,
  "timeout": "3s",
  "scripts": {"test": "crun -r"}
}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := config.ReadFile(writeFile(t, dir, name, content))
			require.NoError(t, err)

			p := config.Default()
			assert.Empty(t, p.ApplyFile(f))

			assert.Equal(t, "app", p.Name)
			assert.Equal(t, []string{"a.cpp", "b.cpp"}, config.Sorted(p.Files))
			assert.True(t, p.Libs.Contains("m"))
			assert.Equal(t, config.LaunchRun, p.Launch)
			assert.True(t, p.UseGCC)
			assert.True(t, p.Monitor)
			assert.Equal(t, 3*time.Second, p.Timeout)

			cmd, err := p.Script("test")
			require.NoError(t, err)
			assert.Equal(t, "crun -r", cmd)
		})
	}
}

func TestApplyFileFallbacks(t *testing.T) {
	p := config.Default()
	problems := p.ApplyFile(&config.File{Launch: "deploy", LogLevel: "loud"})

	assert.Len(t, problems, 2)
	assert.Equal(t, config.LaunchBoth, p.Launch)
	assert.Equal(t, logger.LevelWarn, p.LogLevel)
}

func TestApplyFileReplacesArrays(t *testing.T) {
	p := config.Default()
	p.IncludeDirs.Add("old")

	p.ApplyFile(&config.File{Includes: []string{"new", "new"}})

	assert.Equal(t, []string{"new"}, config.Sorted(p.IncludeDirs))
}

func TestApplyFileKeepsUnsetValues(t *testing.T) {
	p := config.Default()
	p.BuildDir = "out"
	p.Monitor = true

	p.ApplyFile(&config.File{})

	assert.Equal(t, "out", p.BuildDir)
	assert.True(t, p.Monitor)
	assert.Equal(t, logger.LevelFault, p.LogLevel)
}

func TestScriptErrors(t *testing.T) {
	dir := t.TempDir()
	f, err := config.ReadFile(writeFile(t, dir, "crun.yaml", "scripts:\n  bad: 42\n"))
	require.NoError(t, err)

	p := config.Default()
	p.ApplyFile(f)

	_, err = p.Script("bad")
	assert.ErrorIs(t, err, config.ErrScriptType)

	_, err = p.Script("missing")
	assert.ErrorIs(t, err, config.ErrScriptNotFound)
}

func TestLoadFirstSkipsBrokenFiles(t *testing.T) {
	local := t.TempDir()
	global := t.TempDir()
	writeFile(t, local, "crun.toml", "name = [")
	want := writeFile(t, global, "crun.json", `{"name": "global"}`)

	f, path, problems := config.LoadFirst([]string{local, global})

	require.NotNil(t, f)
	assert.Equal(t, want, path)
	assert.Equal(t, "global", f.Name)
	assert.Len(t, problems, 1)
}

func TestLoadFirstPrefersToml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "crun.json", `{"name": "json"}`)
	writeFile(t, dir, "crun.toml", `name = "toml"`)

	f, _, problems := config.LoadFirst([]string{dir})

	require.NotNil(t, f)
	assert.Empty(t, problems)
	assert.Equal(t, "toml", f.Name)
}

func TestLoadFirstNothingFound(t *testing.T) {
	f, path, problems := config.LoadFirst([]string{t.TempDir()})

	assert.Nil(t, f)
	assert.Empty(t, path)
	require.Len(t, problems, 1)
	assert.ErrorIs(t, problems[0], config.ErrNoProjectFile)
}

func TestWriteTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crun.toml")

	require.NoError(t, config.WriteTemplate(path))
	assert.ErrorIs(t, config.WriteTemplate(path), os.ErrExist)

	f, err := config.ReadFile(path)
	require.NoError(t, err)
	p := config.Default()
	assert.Empty(t, p.ApplyFile(f))
	assert.Equal(t, "main", p.Name)
	assert.Equal(t, logger.LevelWarn, p.LogLevel)
}

func TestParseLaunch(t *testing.T) {
	for in, want := range map[string]config.Launch{
		"":      config.LaunchBoth,
		"both":  config.LaunchBoth,
		"run":   config.LaunchRun,
		"build": config.LaunchBuild,
	} {
		got, err := config.ParseLaunch(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := config.ParseLaunch("RUN")
	assert.Error(t, err)
}
