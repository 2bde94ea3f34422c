//go:build windows

package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// stillActive is the exit code GetExitCodeProcess reports for a running process.
const stillActive = 259

type cmdPlatform struct {
	comspec string
}

// NewCmdPlatform runs commands through `cmd.exe /S /C`.
func NewCmdPlatform(comspec string) Platform {
	return &cmdPlatform{comspec: comspec}
}

// DefaultPlatform starts programs with CreateProcess and no shell, so a
// missing program fails to spawn.
func DefaultPlatform() Platform {
	return NewDirectPlatform()
}

func DefaultShellPlatform() Platform {
	comspec := os.Getenv("COMSPEC")
	if comspec == "" {
		comspec = "cmd.exe"
	}
	return NewCmdPlatform(comspec)
}

func (p *cmdPlatform) Spawn(ctx context.Context, command string) (Process, error) {
	cmd := exec.CommandContext(ctx, p.comspec)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: fmt.Sprintf(`"%s" /S /C "%s"`, p.comspec, command),
	}
	return startWindowsChild(cmd)
}

type directPlatform struct{}

// NewDirectPlatform passes the command line unchanged to CreateProcess.
func NewDirectPlatform() Platform {
	return directPlatform{}
}

func (directPlatform) Spawn(ctx context.Context, command string) (Process, error) {
	path, err := exec.LookPath(programName(command))
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, path)
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: command}
	return startWindowsChild(cmd)
}

func startWindowsChild(cmd *exec.Cmd) (Process, error) {
	var handle windows.Handle
	probe := func(int) bool {
		if handle == 0 {
			return true
		}
		var code uint32
		if err := windows.GetExitCodeProcess(handle, &code); err != nil {
			return false
		}
		return code == stillActive
	}

	c, err := startChild(cmd, probe)
	if err != nil {
		return nil, err
	}

	handle, err = windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(c.PID()))
	if err != nil {
		// liveness then falls back to the wait notification alone
		handle = 0
	}
	c.close = func() error {
		if handle == 0 {
			return nil
		}
		return windows.CloseHandle(handle)
	}
	return c, nil
}
