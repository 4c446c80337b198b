//go:build windows

package tui

// termWidthIoctl returns 0 on Windows; width detection falls back to $COLUMNS.
func termWidthIoctl(fd uintptr) int {
	return 0
}
