/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package config

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// writeLockBlocker probes fd for a conflicting write lock without
// acquiring anything itself (F_GETLK). It returns the pid holding that
// lock, or 0 if the file is unlocked.
func writeLockBlocker(fd uintptr) (int32, error) {
	lk := unix.Flock_t{
		Type:   unix.F_WRLCK,
		Whence: int16(unix.SEEK_SET),
		Start:  0,
		Len:    0,
	}
	if err := unix.FcntlFlock(fd, unix.F_GETLK, &lk); err != nil {
		return 0, err
	}
	if lk.Type == unix.F_UNLCK {
		return 0, nil
	}
	return lk.Pid, nil
}

// lockShared acquires a whole-file reader lock on f, held for the
// lifetime of the daemon process, after first checking no other process
// already holds a conflicting writer lock on the same file. This is the
// single-instance guard: a second daemon reading the same configuration
// fails to start, while -k's kill handshake uses the same writer-lock
// probe to find the running daemon's pid.
func lockShared(f *os.File, path string) error {
	if pid, err := writeLockBlocker(f.Fd()); err != nil {
		return ErrorFileLock.Error(err)
	} else if pid > 0 {
		return ErrorFileLocked.Error(fmt.Errorf("%s in use by pid %d", path, pid))
	}

	lk := unix.Flock_t{
		Type:   unix.F_RDLCK,
		Whence: int16(unix.SEEK_SET),
		Start:  0,
		Len:    0,
	}
	if err := unix.FcntlFlock(f.Fd(), unix.F_SETLK, &lk); err != nil {
		return ErrorFileLock.Error(err)
	}
	return nil
}

// Kill implements the -k handshake: F_GETLK simulates acquiring a write
// lock on path and reports whichever lock (including another process'
// reader lock, since a reader blocks a prospective writer) is already
// held there. A blocker's pid is the running daemon's; it is sent
// SIGTERM. Kill reports whether a daemon was found and signaled.
func Kill(path string) (found bool, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		return false, ErrorFileOpen.Error(openErr)
	}
	defer f.Close()

	pid, probeErr := writeLockBlocker(f.Fd())
	if probeErr != nil {
		return false, ErrorFileLock.Error(probeErr)
	}
	if pid == 0 {
		return false, nil
	}
	if err := syscall.Kill(int(pid), syscall.SIGTERM); err != nil {
		return false, fmt.Errorf("unable to send SIGTERM to pid %d: %w", pid, err)
	}
	return true, nil
}
