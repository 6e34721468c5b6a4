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

	liberr "github/sabouaram/consoled/errors"
)

// Error codes for the object package: construction, naming, and linking.
const (
	ErrorNameEmpty liberr.CodeError = iota + liberr.MinPkgObject

	ErrorNameDuplicate
	ErrorDeviceEmpty
	ErrorUnknownKind
)

// Error codes for the link package range: link manager operations.
const (
	ErrorLinkSelf liberr.CodeError = iota + liberr.MinPkgLink

	ErrorLinkClosed
	ErrorLinkNotFound
)

// Error codes for the I/O engine range: read/write failures.
const (
	ErrorIORead liberr.CodeError = iota + liberr.MinPkgIOEngine

	ErrorIOWrite
	ErrorIOClosed
)

func init() {
	if liberr.ExistInMapMessage(ErrorNameEmpty) {
		panic(fmt.Errorf("error code collision with package object"))
	}
	liberr.RegisterIdFctMessage(ErrorNameEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorNameEmpty:
		return "object name must not be empty"
	case ErrorNameDuplicate:
		return "an object with this name already exists"
	case ErrorDeviceEmpty:
		return "console device path must not be empty"
	case ErrorUnknownKind:
		return "unknown object kind"
	case ErrorLinkSelf:
		return "an object cannot be linked to itself"
	case ErrorLinkClosed:
		return "object is already closed"
	case ErrorLinkNotFound:
		return "reader is not linked to this writer"
	case ErrorIORead:
		return "read from object failed"
	case ErrorIOWrite:
		return "write to object failed"
	case ErrorIOClosed:
		return "object has no open descriptor"
	}

	return liberr.NullMessage
}
