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

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	libdur "github/sabouaram/consoled/duration"
	"github/sabouaram/consoled/errors/pool"
	"github/sabouaram/consoled/internal/config"
	"github/sabouaram/consoled/internal/logging"
	"github/sabouaram/consoled/internal/object"
	"github/sabouaram/consoled/internal/transport/tcp"
	"github/sabouaram/consoled/ioutils/fileDescriptor"
	"github/sabouaram/consoled/ioutils/mapCloser"
)

// minDescriptors is the floor SystemFileDescriptor is asked to raise
// RLIMIT_NOFILE to; actual demand scales with configured consoles plus
// however many sockets end up connected.
const minDescriptors = 1024

// idleTimeout bounds how long a connected socket may sit without a
// successful read before the keep-alive sweep closes it.
var idleTimeout = libdur.Seconds(5 * 60)

func runDaemon(cfgPath string, port int, verbose, zero bool) error {
	logging.SetVerbose(verbose)
	log := logging.Component("cmd")

	if cur, max, err := fileDescriptor.SystemFileDescriptor(minDescriptors); err != nil {
		log.WithError(err).Warn("unable to raise file descriptor limit")
	} else {
		log.WithField("current", cur).WithField("max", max).Debug("file descriptor limit")
	}

	ctx, cancel := context.WithCancel(context.Background())
	teardown := pool.New()
	defer func() {
		cancel()
		if err := teardown.Error(); err != nil {
			log.WithError(err).Warn("errors during shutdown")
		}
	}()

	object.OnFatalIO = func(obj *object.Object, op string, err error) {
		log.WithField("object", obj.Name).WithField("op", op).WithError(err).
			Fatal("unrecoverable descriptor error")
	}

	clo := mapCloser.New(ctx)
	defer func() { teardown.Add(clo.Close()) }()

	objs := object.NewCollection(clo)

	cfg := config.New()
	cfg.Port = port
	cfg.EnableZeroLogs = zero
	cfg.EnableVerbose = verbose
	if err := config.Load(cfgPath, cfg, objs); err != nil {
		return err
	}
	defer func() { teardown.Add(cfg.Close()) }()

	srv, err := tcp.NewDaemonServer(objs, firstConsole(objs), tcp.Config{
		Address:        fmt.Sprintf(":%d", cfg.Port),
		ConIdleTimeout: idleTimeout,
	})
	if err != nil {
		return ErrorStartupListen.Error(err)
	}

	if cfg.EnableKeepAlive {
		go tcp.SweepIdle(ctx, objs, idleTimeout)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("received shutdown signal")
		srv.Shutdown()
		cancel()
	}()

	log.WithField("port", cfg.Port).WithField("file", cfg.Filename).
		WithField("verbose", cfg.EnableVerbose).Info("listening")
	return srv.Listen(ctx)
}

// firstConsole is the daemon's console-selection policy: the client
// login protocol that would normally let a connecting user pick a
// console by name is out of scope, so every connection is attached to
// whichever console the configuration file declared first.
func firstConsole(objs *object.Collection) tcp.ResolveConsole {
	return func(net.Addr) *object.Object {
		for _, o := range objs.All() {
			if o.Kind == object.KindConsole {
				return o
			}
		}
		return nil
	}
}
