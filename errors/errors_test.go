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

package errors_test

import (
	stderrors "errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github/sabouaram/consoled/errors"
)

const testBase CodeError = MinPkgObject + 900

func testMessage(code CodeError) string {
	switch code {
	case testBase:
		return "boom"
	case testBase + 1:
		return "kaboom"
	}
	return NullMessage
}

var _ = Describe("CodeError", func() {
	BeforeEach(func() {
		if !ExistInMapMessage(testBase) {
			RegisterIdFctMessage(testBase, testMessage)
		}
	})

	It("renders its registered message", func() {
		Expect(testBase.Error().Error()).To(Equal("boom"))
	})

	It("resolves every code in its range to the same message function", func() {
		Expect((testBase + 1).Error().Error()).To(Equal("kaboom"))
	})

	It("falls back to the unknown-error message for an unregistered code", func() {
		Expect(UnknownError.Error().Error()).To(Equal("unknown error"))
	})

	It("appends a parent error's message", func() {
		parent := stderrors.New("disk full")
		Expect(testBase.Error(parent).Error()).To(Equal("boom: disk full"))
	})

	It("ignores nil parents", func() {
		Expect(testBase.Error(nil).Error()).To(Equal("boom"))
	})

	It("unwraps to its first non-nil parent", func() {
		parent := stderrors.New("disk full")
		err := testBase.Error(nil, parent)
		Expect(stderrors.Unwrap(err)).To(Equal(parent))
	})

	Describe("IfError", func() {
		It("returns nil when every argument is nil", func() {
			Expect(testBase.IfError(nil, nil)).To(BeNil())
		})

		It("returns an Error when at least one argument is non-nil", func() {
			err := testBase.IfError(nil, stderrors.New("read failed"))
			Expect(err).ToNot(BeNil())
			Expect(err.Error()).To(ContainSubstring("read failed"))
		})
	})

	Describe("ExistInMapMessage", func() {
		It("reports true for a registered base", func() {
			Expect(ExistInMapMessage(testBase)).To(BeTrue())
		})

		It("reports false for a code below any registered base", func() {
			Expect(ExistInMapMessage(CodeError(1))).To(BeFalse())
		})
	})
})
