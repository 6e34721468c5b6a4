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

// Package errors is the daemon's structured-error vocabulary: a small
// numeric CodeError per failure plus a registered message, grouped into
// package-reserved ranges (see modules.go) so two packages never collide
// on a code. It is a narrow replacement for a much larger HTTP-status-style
// error registry; every component in this daemon only ever needs a code,
// a message, and an optional wrapped cause.
package errors

import "strings"

// CodeError identifies a failure by a small numeric code, the same way an
// HTTP status code identifies a class of response. Each package declares
// its own codes as a const block starting at one of the MinPkgXXX bases.
type CodeError uint16

const (
	// UnknownError is the fallback code for a failure with no package-specific code.
	UnknownError CodeError = 0

	// NullMessage is returned by a registered Message function for a code
	// it does not recognize, signalling "not mine" to ExistInMapMessage.
	NullMessage = ""

	unknownMessage = "unknown error"
)

// Message renders a CodeError into a human string. A package registers one
// Message function per code range via RegisterIdFctMessage.
type Message func(code CodeError) (message string)

var registry = map[CodeError]Message{}

// RegisterIdFctMessage registers fct as the message source for every code
// at or above minCode, up to the next registered base. Packages call this
// once from an init(), after checking ExistInMapMessage to catch a range
// collision with a package loaded earlier.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	registry[minCode] = fct
}

// ExistInMapMessage reports whether code already resolves to a registered,
// non-empty message — used by a package's init() to detect that another
// package already claimed the same base code.
func ExistInMapMessage(code CodeError) bool {
	if f, ok := registry[baseOf(code)]; ok {
		return f(code) != NullMessage
	}
	return false
}

// baseOf finds the highest registered range base at or below code.
func baseOf(code CodeError) CodeError {
	var base CodeError
	for k := range registry {
		if k <= code && k > base {
			base = k
		}
	}
	return base
}

func (c CodeError) message() string {
	if c == UnknownError {
		return unknownMessage
	}
	if f, ok := registry[baseOf(c)]; ok {
		if m := f(c); m != NullMessage {
			return m
		}
	}
	return unknownMessage
}

// Error is a CodeError bound to its registered message and, optionally,
// the lower-level errors that caused it.
type Error interface {
	error
	Code() CodeError
}

type codeError struct {
	code    CodeError
	message string
	parents []error
}

func (e *codeError) Code() CodeError { return e.code }

// Error renders the message followed by every non-nil parent's own
// message, colon-separated, e.g. "listen failed: address already in use".
func (e *codeError) Error() string {
	parts := make([]string, 0, len(e.parents)+1)
	parts = append(parts, e.message)
	for _, p := range e.parents {
		if p != nil {
			parts = append(parts, p.Error())
		}
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes the first non-nil parent to errors.Is/errors.As.
func (e *codeError) Unwrap() error {
	for _, p := range e.parents {
		if p != nil {
			return p
		}
	}
	return nil
}

// Error builds an Error carrying c's registered message and the given
// parent causes (nil parents are kept out of the rendered message but
// otherwise ignored).
func (c CodeError) Error(parents ...error) Error {
	return &codeError{code: c, message: c.message(), parents: parents}
}

// IsCode reports whether err is an Error carrying code, unwrapping through
// any chain of standard-library %w wrapping to find it.
func IsCode(err error, code CodeError) bool {
	for err != nil {
		if e, ok := err.(Error); ok && e.Code() == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// IfError returns c.Error(errs...) if at least one of errs is non-nil,
// or nil otherwise — the pattern used to collapse a slice of collected
// failures into a single optional error.
func (c CodeError) IfError(errs ...error) Error {
	for _, e := range errs {
		if e != nil {
			return c.Error(errs...)
		}
	}
	return nil
}
