//go:build unix

package runner

import (
	"context"
	"os/exec"

	"golang.org/x/sys/unix"
)

const DefaultShell = "/bin/sh"

type shellPlatform struct {
	shell string
}

// NewShellPlatform runs commands through `<shell> -c`.
func NewShellPlatform(shell string) Platform {
	return &shellPlatform{shell: shell}
}

// DefaultPlatform runs programs through the shell, so a missing program
// surfaces as the shell's exit code 127.
func DefaultPlatform() Platform {
	return DefaultShellPlatform()
}

func DefaultShellPlatform() Platform {
	return NewShellPlatform(DefaultShell)
}

func (p *shellPlatform) Spawn(ctx context.Context, command string) (Process, error) {
	cmd := exec.CommandContext(ctx, p.shell, "-c", command)
	return startChild(cmd, signalZeroProbe)
}

// signalZeroProbe checks existence with kill(pid, 0).
func signalZeroProbe(pid int) bool {
	return unix.Kill(pid, 0) == nil
}
