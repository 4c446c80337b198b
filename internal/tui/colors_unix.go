//go:build !windows

package tui

import "golang.org/x/sys/unix"

// termWidthIoctl returns the terminal width via ioctl, or 0 if unavailable.
func termWidthIoctl(fd uintptr) int {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return 0
	}
	return int(ws.Col)
}
