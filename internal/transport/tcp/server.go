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

// Package tcp is the daemon's accept loop: a thin adapter that turns
// inbound TCP connections into Socket objects and hands them to a
// caller-supplied handler, plus an idle-connection sweep (SweepIdle)
// that takes its timeout as an argument. The wire-level client protocol (login banners, the
// command set) is out of scope; this package only manages connection
// lifecycle.
package tcp

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	libdur "github/sabouaram/consoled/duration"
)

// ConnState describes a transition reported through RegisterFuncInfo.
type ConnState int

const (
	StateOpen ConnState = iota
	StateClosed
)

// Config carries the address a Server listens on. The accept loop reads
// only Address; ConIdleTimeout is not read by this package, and SweepIdle
// takes its idle timeout as an argument instead. There is no TLS option: this daemon has no
// transport-security layer in scope.
type Config struct {
	Address        string
	ConIdleTimeout libdur.Duration
}

// ServerTcp is the accept-loop surface the daemon drives: start it with
// Listen, stop it with Shutdown, and observe it through the Is*/Open*
// accessors and the Register* callbacks.
type ServerTcp interface {
	RegisterFuncError(fct func(err error))
	RegisterFuncInfo(fct func(local, remote net.Addr, state ConnState))
	RegisterFuncInfoServer(fct func(msg string))

	Listen(ctx context.Context) error
	Shutdown()

	IsRunning() bool
	IsGone() bool
	OpenConnections() int64

	// Addr returns the listener's bound address once Listen has started,
	// or nil beforehand. Useful when Config.Address asks for an
	// ephemeral port ("127.0.0.1:0").
	Addr() net.Addr
}

type server struct {
	cfg     Config
	updConn func(net.Conn)
	handler func(net.Conn)

	mu        sync.Mutex
	ln        net.Listener
	closeOnce sync.Once
	conns     int64
	running   atomic.Bool
	gone      atomic.Bool

	onError   func(error)
	onInfo    func(local, remote net.Addr, state ConnState)
	onInfoSrv func(msg string)
}

// New builds a Server for cfg.Address; the listener itself is bound by
// Listen. updateConn, when non-nil, is
// invoked on every freshly accepted connection before handler runs (the
// hook used to apply socket options); handler owns the connection for
// its lifetime and must return once it is done with it.
func New(updateConn func(net.Conn), handler func(net.Conn), cfg Config) (ServerTcp, error) {
	if cfg.Address == "" {
		return nil, ErrorAddressEmpty.Error(nil)
	}

	s := &server{cfg: cfg, updConn: updateConn, handler: handler}
	return s, nil
}

func (s *server) RegisterFuncError(fct func(err error)) { s.onError = fct }
func (s *server) RegisterFuncInfo(fct func(local, remote net.Addr, state ConnState)) {
	s.onInfo = fct
}
func (s *server) RegisterFuncInfoServer(fct func(msg string)) { s.onInfoSrv = fct }

func (s *server) reportError(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}

func (s *server) reportInfoServer(msg string) {
	if s.onInfoSrv != nil {
		s.onInfoSrv(msg)
	}
}

// Listen opens the listening socket and runs the accept loop until ctx
// is done or Shutdown is called; it then waits for in-flight handler
// goroutines to return before marking the server gone.
func (s *server) Listen(ctx context.Context) error {
	if s.running.Load() {
		return ErrorAlreadyRunning.Error(nil)
	}

	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return ErrorListen.Error(err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.running.Store(true)
	s.gone.Store(false)
	s.reportInfoServer("listening on " + s.cfg.Address)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		s.closeListener()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			close(stop)
			break
		}

		if s.updConn != nil {
			s.updConn(conn)
		}

		s.addConn(1)
		if s.onInfo != nil {
			s.onInfo(conn.LocalAddr(), conn.RemoteAddr(), StateOpen)
		}

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			defer s.addConn(-1)
			defer func() {
				if s.onInfo != nil {
					s.onInfo(c.LocalAddr(), c.RemoteAddr(), StateClosed)
				}
			}()
			s.handler(c)
		}(conn)
	}

	wg.Wait()
	s.running.Store(false)
	s.gone.Store(true)
	s.reportInfoServer("stopped listening on " + s.cfg.Address)
	return nil
}

func (s *server) addConn(delta int64) {
	s.mu.Lock()
	s.conns += delta
	s.mu.Unlock()
}

func (s *server) closeListener() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		ln := s.ln
		s.mu.Unlock()
		if ln != nil {
			if err := ln.Close(); err != nil {
				s.reportError(err)
			}
		}
	})
}

// Shutdown stops the accept loop; Listen returns once every in-flight
// connection handler has returned.
func (s *server) Shutdown() {
	if !s.running.Load() {
		return
	}
	s.closeListener()
}

func (s *server) IsRunning() bool { return s.running.Load() }
func (s *server) IsGone() bool    { return s.gone.Load() }

func (s *server) OpenConnections() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns
}

func (s *server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}
