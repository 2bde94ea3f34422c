package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/programme-lv/crun/internal/config"
	"github.com/programme-lv/crun/internal/environment"
	"github.com/urfave/cli/v3"
)

// maxScriptDepth bounds scripts that invoke crun run themselves.
const maxScriptDepth = 5

func (a *app) scriptAction(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return cli.Exit("Script name required", 1)
	}

	depth := a.env.ScriptDepth
	if depth >= maxScriptDepth {
		return cli.Exit(fmt.Sprintf("Script '%s' refused: nesting deeper than %d", name, maxScriptDepth), 1)
	}

	p := a.loadProject()
	a.log.SetThreshold(p.LogLevel)

	script, err := p.Script(name)
	switch {
	case errors.Is(err, config.ErrScriptNotFound):
		return cli.Exit(fmt.Sprintf("Script '%s' not found!", name), 3)
	case errors.Is(err, config.ErrScriptType):
		return cli.Exit(fmt.Sprintf("Script '%s' has the wrong type, string expected", name), 2)
	}

	// children inherit the environment, nested crun calls see the new depth
	if err := os.Setenv(environment.ScriptDepthVar, strconv.Itoa(depth+1)); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer os.Setenv(environment.ScriptDepthVar, strconv.Itoa(depth))

	r, err := a.newRunner(&p)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	a.log.Diag().Debug("script", "name", name, "cmd", script, "depth", depth+1)
	if code := r.Exec(ctx, script).ExitCode; code != 0 {
		return cli.Exit("", code)
	}
	return nil
}
