package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
)

// Process is a spawned child owned by one Run call.
type Process interface {
	PID() int
	// Alive reports whether the child has not terminated yet.
	Alive() bool
	// Wait blocks until the child terminates and returns its exit code.
	// The code is -1 when the child did not exit normally.
	Wait() (int, error)
	// Killed reports whether the child was killed because its context ended.
	Killed() bool
	Close() error
}

// Platform spawns children for fully assembled command lines. A shell
// platform hands the line to the system shell; a direct platform starts the
// program named by its first token.
type Platform interface {
	Spawn(ctx context.Context, command string) (Process, error)
}

// child is the exec.Cmd backed Process shared by the OS specific platforms.
type child struct {
	cmd   *exec.Cmd
	done  chan struct{}
	probe  func(pid int) bool
	close  func() error
	killed *atomic.Bool
}

func startChild(cmd *exec.Cmd, probe func(pid int) bool) (*child, error) {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	killed := &atomic.Bool{}
	// only called when the context ends before the child exits
	cmd.Cancel = func() error {
		killed.Store(true)
		return cmd.Process.Kill()
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &child{
		cmd:    cmd,
		done:   make(chan struct{}),
		probe:  probe,
		close:  func() error { return nil },
		killed: killed,
	}, nil
}

func (c *child) Killed() bool {
	return c.killed.Load()
}

// programName returns the first token of command, honouring double quotes.
func programName(command string) string {
	command = strings.TrimLeft(command, " \t")
	if rest, ok := strings.CutPrefix(command, `"`); ok {
		name, _, _ := strings.Cut(rest, `"`)
		return name
	}
	name, _, _ := strings.Cut(command, " ")
	return name
}

func (c *child) PID() int {
	return c.cmd.Process.Pid
}

func (c *child) Alive() bool {
	select {
	case <-c.done:
		return false
	default:
	}
	return c.probe(c.PID())
}

func (c *child) Wait() (int, error) {
	defer close(c.done)

	err := c.cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return -1, err
		}
		return exitErr.ExitCode(), nil
	}
	return c.cmd.ProcessState.ExitCode(), nil
}

func (c *child) Close() error {
	return c.close()
}
