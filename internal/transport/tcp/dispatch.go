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

package tcp

import (
	"fmt"
	"net"
	"time"

	"github/sabouaram/consoled/internal/object"
)

// flushInterval bounds how long console output can sit in a socket's
// buffer before a connection's writer goroutine drains it. There is no
// readiness notification wired from the I/O engine to the transport, so
// this thin adapter polls instead; login banners and the command set
// that would otherwise drive writes on demand are out of scope.
const flushInterval = 20 * time.Millisecond

// ResolveConsole picks which Console a freshly accepted connection should
// read from. The client login protocol that would normally make this
// choice (target selection, authentication) is out of scope; callers
// supply whatever fixed or address-based policy fits.
type ResolveConsole func(remote net.Addr) *object.Object

// NewDaemonServer builds a ServerTcp whose handler constructs a Socket
// object for every accepted connection, links it as a reader of the
// console resolveConsole names (so console output fans out to it), and
// runs that socket through the I/O engine until the connection closes.
func NewDaemonServer(objs *object.Collection, resolveConsole ResolveConsole, cfg Config) (ServerTcp, error) {
	handler := func(conn net.Conn) {
		serveConnection(objs, conn, resolveConsole)
	}
	return New(nil, handler, cfg)
}

func serveConnection(objs *object.Collection, conn net.Conn, resolveConsole ResolveConsole) {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}
	user := fmt.Sprintf("client%d", time.Now().UnixNano())

	sock, err := objs.NewSocket(user, host, conn)
	if err != nil {
		_ = conn.Close()
		return
	}

	if resolveConsole != nil {
		if console := resolveConsole(conn.RemoteAddr()); console != nil {
			_ = object.Link(console, sock)
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for sock.IsOpen() {
			object.ReadFrom(sock)
		}
	}()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			object.WriteTo(sock)
			return
		case <-ticker.C:
			object.WriteTo(sock)
		}
	}
}
