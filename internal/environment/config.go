package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvConfig holds overrides taken from the process environment and an
// optional .env file. Empty values mean "not set".
type EnvConfig struct {
	LogLevel  string
	Compiler  string
	BuildDir  string
	Timeout   time.Duration
	NoMonitor bool
	NoColor   bool
	// ScriptDepth counts nested `crun run` invocations.
	ScriptDepth int
}

const (
	LogLevelVar    = "CRUN_LOG_LEVEL"
	CompilerVar    = "CRUN_COMPILER"
	BuildDirVar    = "CRUN_BUILD_DIR"
	TimeoutVar     = "CRUN_TIMEOUT"
	NoMonitorVar   = "CRUN_NO_MONITOR"
	ScriptDepthVar = "CRUN_SCRIPT_DEPTH"
)

// ReadEnvConfig loads envFiles (".env" when none given) without overriding
// variables that are already set, then reads the CRUN_* variables.
func ReadEnvConfig(envFiles ...string) (*EnvConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	result := &EnvConfig{
		LogLevel: os.Getenv(LogLevelVar),
		Compiler: os.Getenv(CompilerVar),
		BuildDir: os.Getenv(BuildDirVar),
	}

	if v := os.Getenv(TimeoutVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", TimeoutVar, err)
		}
		result.Timeout = d
	}

	if v := os.Getenv(NoMonitorVar); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", NoMonitorVar, err)
		}
		result.NoMonitor = b
	}

	_, result.NoColor = os.LookupEnv("NO_COLOR")

	if v := os.Getenv(ScriptDepthVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ScriptDepthVar, err)
		}
		result.ScriptDepth = n
	}

	return result, nil
}
