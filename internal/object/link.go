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
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github/sabouaram/consoled/file/perm"
	"github/sabouaram/consoled/internal/logging"
)

// logFilePerm is the owner-only mode every logfile is opened with.
var logFilePerm = mustPerm(0600)

func mustPerm(mode int) perm.Perm {
	p, err := perm.ParseInt(mode)
	if err != nil {
		panic(err)
	}
	return p
}

// Link establishes the edge src -> dst: dst receives every byte src reads.
// If dst already has a writer, that writer is notified with a steal
// notice and closed before the new edge is installed. Both endpoints are
// opened if they are not already. Link must only be called from the
// single goroutine that owns the object collection.
func Link(src, dst *Object) error {
	if src == dst {
		return ErrorLinkSelf.Error(nil)
	}

	if dst.writer != nil {
		notice := fmt.Sprintf("\nConsole '%s' stolen by <%s> at %s.\n",
			dst.Name, src.Name, time.Now().Format(time.RFC1123))
		dst.writer.WriteData([]byte(notice))
		logging.Object("link", dst.Name).WithField("stolen_by", src.Name).Warn("console write access stolen")
		Close(dst.writer)
	}

	dst.writer = src
	src.readers = append(src.readers, dst)

	if !src.IsOpen() {
		if err := open(src); err != nil {
			return err
		}
	}
	if !dst.IsOpen() {
		if err := open(dst); err != nil {
			return err
		}
	}
	return nil
}

// open gives the object a live descriptor according to its kind. Console
// devices are opened non-blocking with no terminal/baud configuration,
// which remains out of scope. Logfiles are opened append-only at 0600
// and receive a session-start banner. Sockets are already open at
// construction time.
func open(o *Object) error {
	switch o.Kind {
	case KindConsole:
		fd, err := unix.Open(o.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
		if err != nil {
			return ErrorIOClosed.Error(err)
		}
		o.fd = os.NewFile(uintptr(fd), o.Device)
		o.registerWithCloser()
		return nil

	case KindLogFile:
		fd, err := unix.Open(o.Name, unix.O_WRONLY|unix.O_CREAT|unix.O_APPEND|unix.O_NONBLOCK, uint32(logFilePerm.FileMode().Perm()))
		if err != nil {
			return ErrorIOClosed.Error(err)
		}
		o.fd = os.NewFile(uintptr(fd), o.Name)
		o.registerWithCloser()

		header := fmt.Sprintf("* Console [%s] log started on %s.\n\n",
			o.writer.Name, time.Now().Format(time.RFC1123))
		o.WriteData([]byte(header))
		return nil

	case KindSocket:
		return nil

	default:
		return ErrorUnknownKind.Error(nil)
	}
}

// Close tears down obj's edges and, once its buffer has drained, its
// descriptor. If obj still holds unread data, gotEOF is set instead so
// WriteTo flushes the buffer before closing it on a later pass.
func Close(obj *Object) {
	if w := obj.writer; w != nil {
		for i, r := range w.readers {
			if r == obj {
				w.readers = append(w.readers[:i], w.readers[i+1:]...)
				break
			}
		}
		obj.writer = nil
		if w.writer == nil && len(w.readers) == 0 {
			Close(w)
		}
	}

	for len(obj.readers) > 0 {
		reader := obj.readers[0]
		obj.readers = obj.readers[1:]
		if reader.writer == obj {
			reader.writer = nil
			if len(reader.readers) == 0 {
				Close(reader)
			}
		}
	}

	obj.bufLock.Lock()
	hasData := !obj.empty()
	obj.bufLock.Unlock()

	if hasData {
		obj.gotEOF.Store(true)
		return
	}

	obj.gotEOF.Store(false)
	if obj.fd != nil {
		if err := obj.fd.Close(); err != nil {
			logging.Object("link", obj.Name).WithError(err).Warn("close failed")
		}
		obj.fd = nil
	}

	// Socket objects represent a single client connection and are
	// destroyed outright once closed; consoles and logfiles persist so
	// they can be re-linked by a later directive or client.
	if obj.Kind == KindSocket && obj.owner != nil {
		obj.owner.Remove(obj)
	}
}
