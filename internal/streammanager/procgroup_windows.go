//go:build windows

package streammanager

import (
	"os/exec"
	"syscall"
)

// setProcessGroup launches the child in a new process group so it can
// receive CTRL-BREAK independently of the parent console.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// terminateProcessGroup sends CTRL-BREAK to the child's process group.
func terminateProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.GenerateConsoleCtrlEvent(syscall.CTRL_BREAK_EVENT, uint32(cmd.Process.Pid))
}
