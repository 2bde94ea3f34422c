package main

import (
	"os"
	"strings"

	"github.com/programme-lv/crun/internal/config"
	"github.com/programme-lv/crun/internal/logger"
)

// splitExeArgs separates crun's own arguments from the ones passed to the
// built executable after a literal "--".
func splitExeArgs(args []string) (own []string, exeArgs string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], strings.Join(args[i+1:], " ")
		}
	}
	return args, ""
}

// classifyArgs adds positional arguments to the project as source folders
// or files. Anything else is reported and skipped.
func classifyArgs(args []string, p *config.Project, sink logger.Sink) {
	for _, arg := range args {
		switch {
		case arg == "":
			sink.Log(logger.LevelWarn, "File name must not be empty!")
		case strings.HasPrefix(arg, "-"):
			sink.Log(logger.LevelWarn, "Invalid argument: "+arg)
		default:
			info, err := os.Stat(arg)
			if err != nil {
				sink.Log(logger.LevelWarn, "Not found: "+arg)
				continue
			}
			if info.IsDir() {
				p.Folders.Add(arg)
			} else {
				p.Files.Add(arg)
			}
		}
	}
}
