//go:build !windows

package listener

import "syscall"

// setSocketOptions enables address reuse and broadcast reception on
// the listening socket before it is bound. Address reuse lets another
// listener on the host share the status port; controllers announce
// state with broadcast datagrams.
func setSocketOptions(_, _ string, c syscall.RawConn) error {
	var optErr error
	err := c.Control(func(fd uintptr) {
		optErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
		if optErr != nil {
			return
		}
		optErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return optErr
}
