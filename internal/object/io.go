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

package object

import (
	"errors"
	"io"
	"syscall"
	"time"

	"github/sabouaram/consoled/internal/logging"
)

// OnFatalIO is invoked whenever ReadFrom or WriteTo encounters a read or
// write failure other than EOF, EPIPE, or the transient errors the Go
// runtime already absorbs (EINTR/EAGAIN/EWOULDBLOCK). The default is a
// no-op; cmd/consoled installs a handler that terminates the process,
// matching the original engine's err_msg-then-exit behavior for a real
// descriptor failure (EIO, EBADF, ...) that closing one object cannot fix.
var OnFatalIO = func(obj *Object, op string, err error) {}

// fatal reports obj's op failure to OnFatalIO and logs it. The object is
// still left open: OnFatalIO is expected to terminate the process before
// any further use of obj matters.
func fatal(obj *Object, op string, err error) {
	logging.Object("io", obj.Name).WithError(err).Errorf("%s failed, fatal", op)
	OnFatalIO(obj, op, err)
}

// ReadFrom reads one chunk from obj's descriptor and fans it out to every
// reader not already past EOF. A zero-byte read closes obj; any other
// error is fatal (see OnFatalIO). Go's runtime netpoller absorbs
// EINTR/EAGAIN/EWOULDBLOCK internally, so unlike the syscall-level
// original this never needs to retry them explicitly.
func ReadFrom(obj *Object) {
	if obj.fd == nil {
		return
	}

	var buf [MaxBufSize - 1]byte
	n, err := obj.fd.Read(buf[:])

	if n == 0 && err != nil {
		if err == io.EOF {
			Close(obj)
			return
		}
		fatal(obj, "read", err)
		return
	}
	if n == 0 {
		return
	}

	if obj.Kind == KindSocket {
		obj.lastRead = time.Now()
	}

	for _, reader := range obj.readers {
		if !reader.gotEOF.Load() {
			reader.WriteData(buf[:n])
		}
	}
}

// WriteTo drains one contiguous run of obj's circular buffer out to its
// descriptor. A broken-pipe error sets gotEOF and discards the buffer
// (there is no peer left to read it); once gotEOF is set and the buffer
// has fully drained, obj is closed.
func WriteTo(obj *Object) {
	if obj.fd == nil {
		return
	}

	obj.bufLock.Lock()
	chunk := obj.pending()

	if len(chunk) > 0 {
		n, err := obj.fd.Write(chunk)

		if err != nil && isBrokenPipe(err) {
			obj.gotEOF.Store(true)
			obj.in, obj.out = 0, 0
		} else if err != nil {
			obj.bufLock.Unlock()
			fatal(obj, "write", err)
			return
		} else if n > 0 {
			obj.advance(n)
		}
	}

	gotEOF := obj.gotEOF.Load()
	drained := obj.empty()
	obj.bufLock.Unlock()

	if gotEOF && drained {
		Close(obj)
	}
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}
