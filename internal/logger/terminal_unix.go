//go:build linux || darwin

package logger

import (
	"runtime"
	"syscall"
	"unsafe"
)

// ioctl request numbers for reading terminal attributes.
const (
	tcgetsLinux = 0x5401
	tiocgetaBSD = 0x40487413
)

func isTerminal(fd uintptr) bool {
	req := uintptr(tcgetsLinux)
	if runtime.GOOS == "darwin" {
		req = tiocgetaBSD
	}
	var termios syscall.Termios
	_, _, errno := syscall.Syscall6(syscall.SYS_IOCTL, fd, req, uintptr(unsafe.Pointer(&termios)), 0, 0, 0)
	return errno == 0
}
