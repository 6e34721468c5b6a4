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
	"github/sabouaram/consoled/internal/logging"
)

// WriteData copies src into the object's circular buffer, overwriting the
// oldest unread bytes rather than blocking when the buffer cannot hold
// len(src) bytes. It returns the number of bytes accepted (len(src), or
// MaxBufSize-1 if src is larger than the buffer can ever hold).
func (o *Object) WriteData(src []byte) int {
	if len(src) == 0 {
		return 0
	}

	length := len(src)
	if length >= MaxBufSize {
		src = src[:MaxBufSize-1]
		length = MaxBufSize - 1
	}

	o.bufLock.Lock()
	defer o.bufLock.Unlock()

	var avail int
	switch {
	case o.out == o.in:
		avail = MaxBufSize - 1
	case o.out > o.in:
		avail = o.out - o.in
	default:
		avail = (MaxBufSize - o.in) + o.out
	}

	n := length
	m := length
	if room := MaxBufSize - o.in; m > room {
		m = room
	}
	if m > 0 {
		copy(o.buf[o.in:o.in+m], src[:m])
		n -= m
		o.in += m
		if o.in == MaxBufSize {
			o.in = 0
		}
	}
	if n > 0 {
		copy(o.buf[o.in:o.in+n], src[m:])
		o.in += n
	}

	if length > avail {
		logging.Object("object", o.Name).WithField("bytes", length-avail).Warn("ring buffer overrun, oldest bytes discarded")
		o.out = o.in + 1
		if o.out == MaxBufSize {
			o.out = 0
		}
	}

	return length
}

// pending returns the contiguous run of unread bytes starting at out, not
// taking wrap-around into account: a second call after the first run is
// drained returns the remainder.
func (o *Object) pending() []byte {
	if o.in >= o.out {
		return o.buf[o.out:o.in]
	}
	return o.buf[o.out:MaxBufSize]
}

// advance marks n bytes as drained from the circular buffer, wrapping out
// back to zero when it reaches the end.
func (o *Object) advance(n int) {
	o.out += n
	if o.out == MaxBufSize {
		o.out = 0
	}
}

// empty reports whether the circular buffer currently holds no data.
func (o *Object) empty() bool {
	return o.in == o.out
}

// BufferedLen returns the number of unread bytes currently queued in the
// object's circular buffer.
func (o *Object) BufferedLen() int {
	o.bufLock.Lock()
	defer o.bufLock.Unlock()

	if o.in >= o.out {
		return o.in - o.out
	}
	return (MaxBufSize - o.out) + o.in
}
