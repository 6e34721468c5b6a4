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
	"net"
	"sync"
	"time"

	"github/sabouaram/consoled/ioutils/mapCloser"
)

// Collection owns every object constructed for a running daemon and
// enforces name uniqueness at construction time. The zero value is not
// usable; build one with NewCollection.
type Collection struct {
	mu     sync.RWMutex
	byID   map[string]*Object
	closer mapCloser.Closer
}

// NewCollection returns an empty, ready-to-use Collection. Every
// descriptor opened by an object constructed through it is registered
// with closer, so a process-wide shutdown can close every live
// descriptor in one pass regardless of graph state; closer may be nil
// in tests that do not exercise shutdown.
func NewCollection(closer mapCloser.Closer) *Collection {
	return &Collection{byID: make(map[string]*Object), closer: closer}
}

func (c *Collection) key(kind Kind, name string) string {
	return fmt.Sprintf("%d:%s", kind, name)
}

// Get returns the object of the given kind and name, or nil if none exists.
func (c *Collection) Get(kind Kind, name string) *Object {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[c.key(kind, name)]
}

// All returns a snapshot of every object currently in the collection.
func (c *Collection) All() []*Object {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Object, 0, len(c.byID))
	for _, o := range c.byID {
		out = append(out, o)
	}
	return out
}

// Remove drops obj from the collection, e.g. once it has been destroyed.
func (c *Collection) Remove(obj *Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byID, c.key(obj.Kind, obj.Name))
}

func (c *Collection) insert(obj *Object) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(obj.Kind, obj.Name)
	if _, exists := c.byID[k]; exists {
		return ErrorNameDuplicate.Error(nil)
	}
	c.byID[k] = obj
	obj.owner = c
	return nil
}

// NewConsole constructs and registers a console object. dev is the device
// path to open for I/O; log is recorded as LogPath only, and the logfile
// object itself is created and linked by the caller (the config parser);
// rst, when non-empty, is the external command run to reset the console
// (§SS3).
func (c *Collection) NewConsole(name, dev string, bps int, log, rst string) (*Object, error) {
	if name == "" {
		return nil, ErrorNameEmpty.Error(nil)
	}
	if dev == "" {
		return nil, ErrorDeviceEmpty.Error(nil)
	}

	o := newObject(name, KindConsole)
	o.Device = dev
	o.BPS = bps
	o.LogPath = log
	o.ResetCmd = rst

	if err := c.insert(o); err != nil {
		return nil, err
	}
	return o, nil
}

// NewLogFile constructs and registers a logfile object for path name.
func (c *Collection) NewLogFile(name string) (*Object, error) {
	if name == "" {
		return nil, ErrorNameEmpty.Error(nil)
	}

	o := newObject(name, KindLogFile)
	if err := c.insert(o); err != nil {
		return nil, err
	}
	return o, nil
}

// NewSocket constructs and registers a socket object for an already
// accepted connection. Socket objects are created in the active state:
// conn is adopted as the live descriptor immediately.
func (c *Collection) NewSocket(user, host string, conn net.Conn) (*Object, error) {
	name := fmt.Sprintf("%s@%s", user, host)

	o := newObject(name, KindSocket)
	o.fd = conn
	o.lastRead = time.Now()

	if err := c.insert(o); err != nil {
		_ = conn.Close()
		return nil, err
	}
	o.registerWithCloser()
	return o, nil
}
