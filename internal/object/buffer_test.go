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

package object_test

import (
	"bytes"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/consoled/internal/object"
)

var _ = Describe("circular buffer", func() {
	var col *object.Collection

	BeforeEach(func() {
		col = object.NewCollection(nil)
	})

	It("accepts data without blocking and reports it buffered", func() {
		lf, err := col.NewLogFile("/tmp/does-not-need-to-exist.log")
		Expect(err).ToNot(HaveOccurred())

		n := lf.WriteData([]byte("hello"))
		Expect(n).To(Equal(5))
		Expect(lf.BufferedLen()).To(Equal(5))
	})

	It("overwrites the oldest unread bytes when the buffer is full", func() {
		lf, err := col.NewLogFile("/tmp/does-not-need-to-exist-2.log")
		Expect(err).ToNot(HaveOccurred())

		first := bytes.Repeat([]byte{'a'}, object.MaxBufSize-1)
		lf.WriteData(first)
		Expect(lf.BufferedLen()).To(Equal(object.MaxBufSize - 1))

		lf.WriteData([]byte("XYZ"))
		Expect(lf.BufferedLen()).To(Equal(object.MaxBufSize - 1))
	})

	It("clips a single write larger than the buffer to its capacity", func() {
		lf, err := col.NewLogFile("/tmp/does-not-need-to-exist-3.log")
		Expect(err).ToNot(HaveOccurred())

		huge := bytes.Repeat([]byte{'b'}, object.MaxBufSize*2)
		n := lf.WriteData(huge)
		Expect(n).To(Equal(object.MaxBufSize - 1))
		Expect(lf.BufferedLen()).To(Equal(object.MaxBufSize - 1))
	})

	It("keeps the leading bytes, not the trailing ones, when a single write overflows the buffer", func() {
		f, err := os.CreateTemp("", "consoled-buf-*.log")
		Expect(err).ToNot(HaveOccurred())
		defer os.Remove(f.Name())
		_ = f.Close()

		lf, err := col.NewLogFile(f.Name())
		Expect(err).ToNot(HaveOccurred())
		console, err := col.NewConsole("c1", "/dev/null", 9600, "", "")
		Expect(err).ToNot(HaveOccurred())
		Expect(object.Link(console, lf)).To(Succeed())
		object.WriteTo(lf) // flush the session banner queued when Link opened the logfile
		banner, err := os.ReadFile(f.Name())
		Expect(err).ToNot(HaveOccurred())

		huge := make([]byte, object.MaxBufSize*2)
		for i := range huge {
			huge[i] = byte(i % 256)
		}
		n := lf.WriteData(huge)
		Expect(n).To(Equal(object.MaxBufSize - 1))

		// The data wraps past the end of the buffer, and WriteTo drains one
		// contiguous run per call.
		object.WriteTo(lf)
		object.WriteTo(lf)
		data, err := os.ReadFile(f.Name())
		Expect(err).ToNot(HaveOccurred())
		data = data[len(banner):]
		Expect(data).To(HaveLen(object.MaxBufSize - 1))
		Expect(data).To(Equal(huge[:object.MaxBufSize-1]))
	})
})
