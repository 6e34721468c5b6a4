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

package config

import (
	"fmt"

	liberr "github/sabouaram/consoled/errors"
)

// Error codes for file-level failures: open, stat, read, lock.
const (
	ErrorFileOpen liberr.CodeError = iota + liberr.MinPkgConfig

	ErrorFileStat
	ErrorFileRead
	ErrorFileLocked
	ErrorFileLock
)

// Error codes for per-directive parse failures.
const (
	ErrorDirectiveSyntax liberr.CodeError = iota + liberr.MinPkgConfig + 10

	ErrorDirectiveIncomplete
	ErrorDirectiveUnknown
	ErrorDirectiveValue
)

func init() {
	if liberr.ExistInMapMessage(ErrorFileOpen) {
		panic(fmt.Errorf("error code collision with package config"))
	}
	liberr.RegisterIdFctMessage(ErrorFileOpen, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorFileOpen:
		return "unable to open configuration file"
	case ErrorFileStat:
		return "unable to stat configuration file"
	case ErrorFileRead:
		return "unable to read configuration file"
	case ErrorFileLocked:
		return "configuration file is in use by another process"
	case ErrorFileLock:
		return "unable to lock configuration file"
	case ErrorDirectiveSyntax:
		return "syntax error in directive"
	case ErrorDirectiveIncomplete:
		return "incomplete directive"
	case ErrorDirectiveUnknown:
		return "unrecognized token"
	case ErrorDirectiveValue:
		return "invalid directive value"
	}

	return liberr.NullMessage
}
