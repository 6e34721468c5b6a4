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
	"io"
	"os"
	"strconv"

	"github/sabouaram/consoled/console"
	"github/sabouaram/consoled/internal/lexer"
	"github/sabouaram/consoled/internal/logging"
	"github/sabouaram/consoled/internal/object"
	"github/sabouaram/consoled/ioutils"
)

// logFilePermFile/logDirPerm match the owner-only mode internal/object
// opens logfiles with; PathCheckCreate applies them when a LOG= path (or
// one of its parent directories) doesn't exist yet.
const (
	logFilePermFile = 0600
	logDirPerm      = 0700
)

const (
	tokConsole lexer.Token = lexer.TokKeyword + iota
	tokServer
	tokName
	tokDev
	tokLog
	tokRst
	tokBps
	tokKeepalive
	tokLoopback
	tokPort
	tokLogfile
	tokPidfile
	tokTimestamp
	tokOn
	tokOff
)

var keywords = map[string]lexer.Token{
	"CONSOLE":   tokConsole,
	"SERVER":    tokServer,
	"NAME":      tokName,
	"DEV":       tokDev,
	"LOG":       tokLog,
	"RST":       tokRst,
	"BPS":       tokBps,
	"KEEPALIVE": tokKeepalive,
	"LOOPBACK":  tokLoopback,
	"PORT":      tokPort,
	"LOGFILE":   tokLogfile,
	"PIDFILE":   tokPidfile,
	"TIMESTAMP": tokTimestamp,
	"ON":        tokOn,
	"OFF":       tokOff,
}

// parseState carries everything a single directive's option loop needs.
type parseState struct {
	l        *lexer.Lexer
	filename string
	cfg      *ServerConfig
	objs     *object.Collection
}

// Load reads path, parses every CONSOLE/SERVER directive it contains into
// cfg and objs, and restores command-line port precedence once done. cfg
// must already carry any command-line overrides (notably Port, when set
// via -p) before calling Load.
func Load(path string, cfg *ServerConfig, objs *object.Collection) error {
	cmdLinePort := cfg.Port
	cfg.Filename = path

	f, err := os.Open(path)
	if err != nil {
		return ErrorFileOpen.Error(err)
	}

	if err := lockShared(f, path); err != nil {
		_ = f.Close()
		return err
	}
	cfg.file = f

	if _, err := f.Stat(); err != nil {
		return ErrorFileStat.Error(err)
	}

	buf, err := io.ReadAll(f)
	if err != nil {
		return ErrorFileRead.Error(err)
	}

	st := &parseState{
		l:        lexer.New(buf, keywords),
		filename: path,
		cfg:      cfg,
		objs:     objs,
	}
	st.run()

	if cmdLinePort > 0 {
		cfg.Port = cmdLinePort
	} else if cfg.Port <= 0 {
		cfg.Port = DefaultPort
	}
	return nil
}

func (st *parseState) run() {
	for {
		tok := st.l.Next()
		switch tok {
		case tokConsole:
			st.parseConsole()
		case tokServer:
			st.parseServer()
		case lexer.TokEOL:
			// blank line, nothing to do
		case lexer.TokEOF:
			return
		case lexer.TokErr:
			st.report(st.l.Line(), "unmatched quote")
			st.l.SkipToEOL()
		default:
			st.report(st.l.Line(), fmt.Sprintf("unrecognized token '%s'", st.l.Text()))
			st.l.SkipToEOL()
		}
	}
}

func (st *parseState) report(line int, msg string) {
	_, _ = console.ColorError.BuffPrintf(os.Stderr, "ERROR: %s:%d: %s.\n", st.filename, line, msg)
	logging.Component("config").WithField("file", st.filename).WithField("line", line).Error(msg)
}

// expectEquals consumes the '=' that must follow a directive keyword.
func (st *parseState) expectEquals() bool {
	return st.l.Next() == lexer.TokPunct && st.l.Text() == "="
}

// parseConsole implements CONSOLE NAME= DEV= [LOG=] [RST=] [BPS=], one
// option per loop iteration until EOL/EOF, matching the option-keyed
// switch of parse_console_directive. A repeated option key is simply
// overwritten by the later assignment (§9(a)), with no error raised.
func (st *parseState) parseConsole() {
	var name, dev, log, rst string
	bps := DefaultBaud
	errMsg := ""
	line := st.l.Line()

	done := false
	for !done && errMsg == "" {
		tok := st.l.Next()
		switch tok {
		case tokName:
			if !st.expectEquals() {
				errMsg = "expected '=' after NAME keyword"
			} else if st.l.Next() != lexer.TokStr {
				errMsg = "expected STRING for NAME value"
			} else {
				name = st.l.Text()
			}
		case tokDev:
			if !st.expectEquals() {
				errMsg = "expected '=' after DEV keyword"
			} else if st.l.Next() != lexer.TokStr {
				errMsg = "expected STRING for DEV value"
			} else {
				dev = st.l.Text()
			}
		case tokLog:
			if !st.expectEquals() {
				errMsg = "expected '=' after LOG keyword"
			} else if st.l.Next() != lexer.TokStr {
				errMsg = "expected STRING for LOG value"
			} else {
				log = st.l.Text()
			}
		case tokRst:
			if !st.expectEquals() {
				errMsg = "expected '=' after RST keyword"
			} else if st.l.Next() != lexer.TokStr {
				errMsg = "expected STRING for RST value"
			} else {
				rst = st.l.Text()
			}
		case tokBps:
			if !st.expectEquals() {
				errMsg = "expected '=' after BPS keyword"
			} else if v := st.l.Next(); v != lexer.TokInt && v != lexer.TokStr {
				errMsg = "expected INTEGER for BPS value"
			} else if n, convErr := strconv.Atoi(st.l.Text()); convErr != nil || n <= 0 {
				errMsg = fmt.Sprintf("invalid BPS value %s", st.l.Text())
			} else {
				bps = n
			}
		case lexer.TokEOF, lexer.TokEOL:
			done = true
		case lexer.TokErr:
			errMsg = "unmatched quote"
		default:
			errMsg = fmt.Sprintf("unrecognized token '%s'", st.l.Text())
		}
	}

	if errMsg == "" && (name == "" || dev == "") {
		errMsg = "incomplete CONSOLE directive"
	}
	if errMsg != "" {
		st.report(line, errMsg)
		st.l.SkipToEOL()
		return
	}

	console, err := st.objs.NewConsole(name, dev, bps, log, rst)
	if err != nil {
		logging.Component("config").WithError(err).Warnf("console [%s] removed from the configuration", name)
		return
	}

	if log != "" {
		if err := ioutils.PathCheckCreate(true, log, logFilePermFile, logDirPerm); err != nil {
			logging.Component("config").WithError(err).Warnf("console [%s] cannot be logged to %q", name, log)
			return
		}
		if st.cfg.EnableZeroLogs {
			_ = os.Truncate(log, 0)
		}
		logfile, err := st.objs.NewLogFile(log)
		if err != nil {
			logging.Component("config").WithError(err).Warnf("console [%s] cannot be logged to %q", name, log)
			return
		}
		if err := object.Link(console, logfile); err != nil {
			logging.Component("config").WithError(err).Warnf("console [%s] cannot be logged to %q", name, log)
		}
	}
}

// parseServer implements SERVER KEEPALIVE= LOOPBACK= PORT= [LOGFILE=
// PIDFILE= TIMESTAMP= reserved-but-unimplemented], matching
// parse_server_directive.
func (st *parseState) parseServer() {
	errMsg := ""
	line := st.l.Line()
	done := false

	for !done && errMsg == "" {
		tok := st.l.Next()
		switch tok {
		case tokKeepalive:
			if !st.expectEquals() {
				errMsg = "expected '=' after KEEPALIVE keyword"
			} else {
				switch st.l.Next() {
				case tokOn:
					st.cfg.EnableKeepAlive = true
				case tokOff:
					st.cfg.EnableKeepAlive = false
				default:
					errMsg = "expected ON or OFF for KEEPALIVE value"
				}
			}
		case tokLoopback:
			if !st.expectEquals() {
				errMsg = "expected '=' after LOOPBACK keyword"
			} else {
				switch st.l.Next() {
				case tokOn:
					st.cfg.EnableLoopBack = true
				case tokOff:
					st.cfg.EnableLoopBack = false
				default:
					errMsg = "expected ON or OFF for LOOPBACK value"
				}
			}
		case tokPort:
			if !st.expectEquals() {
				errMsg = "expected '=' after PORT keyword"
			} else if v := st.l.Next(); v != lexer.TokInt && v != lexer.TokStr {
				errMsg = "expected INTEGER for PORT value"
			} else if n, convErr := strconv.Atoi(st.l.Text()); convErr != nil || n <= 0 {
				errMsg = fmt.Sprintf("invalid PORT value %s", st.l.Text())
			} else {
				st.cfg.Port = n
			}
		case tokLogfile, tokPidfile, tokTimestamp:
			name := st.l.Text()
			if !st.expectEquals() {
				errMsg = fmt.Sprintf("expected '=' after %s keyword", name)
			} else {
				st.l.Next()
				errMsg = fmt.Sprintf("%s keyword not yet implemented", name)
			}
		case lexer.TokEOF, lexer.TokEOL:
			done = true
		case lexer.TokErr:
			errMsg = "unmatched quote"
		default:
			errMsg = fmt.Sprintf("unrecognized token '%s'", st.l.Text())
		}
	}

	if errMsg != "" {
		st.report(line, errMsg)
		st.l.SkipToEOL()
	}
}
