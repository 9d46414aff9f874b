package sysutil

import (
	"io"
	"os/exec"
	"runtime"
)

// ClearTerminal clears the terminal screen in supported operating systems,
// writing the control output to out.
func ClearTerminal(out io.Writer) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "cls")
	case "linux", "darwin", "freebsd":
		cmd = exec.Command("clear")
	default:
		return
	}

	cmd.Stdout = out
	_ = cmd.Run()
}
