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

package tcp_test

import (
	"bufio"
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/consoled/internal/object"
	"github/sabouaram/consoled/internal/transport/tcp"
)

var _ = Describe("NewDaemonServer", func() {
	It("links every accepted connection as a reader of the resolved console", func() {
		objs := object.NewCollection(nil)
		console, err := objs.NewConsole("c1", "/dev/null", 9600, "", "")
		Expect(err).ToNot(HaveOccurred())

		resolve := func(net.Addr) *object.Object { return console }

		srv, err := tcp.NewDaemonServer(objs, resolve, tcp.Config{Address: "127.0.0.1:0"})
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = srv.Listen(ctx) }()
		Eventually(srv.IsRunning, time.Second, 5*time.Millisecond).Should(BeTrue())
		Eventually(srv.Addr, time.Second, 5*time.Millisecond).ShouldNot(BeNil())

		conn, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		Eventually(func() []*object.Object { return console.Readers() }, time.Second, 5*time.Millisecond).
			Should(HaveLen(1))
	})

	It("flushes bytes fanned into the socket's buffer out to the wire", func() {
		// The console device is out of scope (backed here by /dev/null, a
		// no-op fd), so this exercises the half of the path that is in
		// scope: once something has fanned bytes into the socket's own
		// buffer (normally ReadFrom(console) on a real device), the
		// connection's periodic flush loop must drain them to the peer.
		objs := object.NewCollection(nil)
		console, err := objs.NewConsole("c2", "/dev/null", 9600, "", "")
		Expect(err).ToNot(HaveOccurred())

		resolve := func(net.Addr) *object.Object { return console }

		srv, err := tcp.NewDaemonServer(objs, resolve, tcp.Config{Address: "127.0.0.1:0"})
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = srv.Listen(ctx) }()
		Eventually(srv.IsRunning, time.Second, 5*time.Millisecond).Should(BeTrue())
		Eventually(srv.Addr, time.Second, 5*time.Millisecond).ShouldNot(BeNil())

		conn, err := net.Dial("tcp", srv.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		defer conn.Close()

		var sock *object.Object
		Eventually(func() []*object.Object { return console.Readers() }, time.Second, 5*time.Millisecond).
			Should(HaveLen(1))
		sock = console.Readers()[0]

		sock.WriteData([]byte("banner line\n"))

		reader := bufio.NewReader(conn)
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		line, err := reader.ReadString('\n')
		Expect(err).ToNot(HaveOccurred())
		Expect(line).To(Equal("banner line\n"))
	})
})
