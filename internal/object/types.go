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

// Package object implements the uniform console/logfile/socket object model:
// a per-object circular buffer that never blocks its producer, a directed
// writer/readers link graph, and the read/write engine that drains each
// object's buffer to its underlying descriptor.
package object

import (
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Kind identifies what an Object represents.
type Kind int

const (
	KindConsole Kind = iota
	KindLogFile
	KindSocket
)

func (k Kind) String() string {
	switch k {
	case KindConsole:
		return "console"
	case KindLogFile:
		return "logfile"
	case KindSocket:
		return "socket"
	default:
		return "unknown"
	}
}

// MaxBufSize is the capacity of an object's circular buffer. The buffer
// holds at most MaxBufSize-1 bytes of data; the empty slot distinguishes
// a full buffer from an empty one without a separate counter.
const MaxBufSize = 8192

// Object is a console, logfile, or socket endpoint in the concentrator's
// object graph. A non-nil writer means this object receives bytes from
// that writer's reads; readers lists the objects this one feeds in turn.
//
// bufLock guards in, out, buf and the gotEOF transition taken while
// holding it (the EPIPE-flush case in WriteTo); gotEOF is also read
// and set outside the lock by the link manager, which is why it is
// an atomic.Bool rather than a plain bool.
type Object struct {
	Name string
	Kind Kind

	fd io.ReadWriteCloser

	bufLock sync.Mutex
	buf     [MaxBufSize]byte
	in      int
	out     int
	gotEOF  atomic.Bool

	writer  *Object
	readers []*Object
	owner   *Collection

	// Console payload.
	Device   string
	LogPath  string
	ResetCmd string
	BPS      int

	// Socket payload.
	gotIAC   bool
	lastRead time.Time
}

func newObject(name string, kind Kind) *Object {
	return &Object{
		Name: name,
		Kind: kind,
	}
}

// IsOpen reports whether the object currently owns a live descriptor.
func (o *Object) IsOpen() bool {
	o.bufLock.Lock()
	defer o.bufLock.Unlock()
	return o.fd != nil
}

// Writer returns the object currently writing into this object, or nil.
func (o *Object) Writer() *Object {
	return o.writer
}

// Readers returns a snapshot of the objects this object currently feeds.
func (o *Object) Readers() []*Object {
	out := make([]*Object, len(o.readers))
	copy(out, o.readers)
	return out
}

// LastRead returns the time of this socket's last successful read, used
// by the keep-alive sweep to identify idle connections. Zero for
// non-socket objects.
func (o *Object) LastRead() time.Time {
	return o.lastRead
}

// registerWithCloser hands the object's current descriptor to its owning
// collection's Closer registry, so a full-process shutdown closes it even
// if the graph is left in an inconsistent state.
func (o *Object) registerWithCloser() {
	if o.owner != nil && o.owner.closer != nil && o.fd != nil {
		o.owner.closer.Add(o.fd)
	}
}
