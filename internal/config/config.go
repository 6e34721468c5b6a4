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

// Package config reads and parses a console-concentrator configuration
// file into a ServerConfig and an object.Collection, and holds the
// advisory file lock that enforces one running daemon per configuration.
package config

import "os"

// DefaultConfigFile is used when no -c flag overrides it.
const DefaultConfigFile = "/etc/consoled.conf"

// DefaultPort is substituted when neither the command line nor the
// configuration file supply one.
const DefaultPort = 7890

// DefaultBaud is the BPS assumed for a CONSOLE directive with no BPS option.
const DefaultBaud = 9600

// ServerConfig is the daemon's process-level configuration: which file to
// read, the listening port, and the behavior flags set by §4.6's CLI and
// the SERVER directive. Port precedence (command line > SERVER PORT= >
// DefaultPort) is implemented by Load: the caller sets Port from the
// command line before calling Load, and a positive value there always
// wins over the file.
type ServerConfig struct {
	Filename string
	Port     int

	EnableKeepAlive bool
	EnableLoopBack  bool
	EnableZeroLogs  bool
	EnableVerbose   bool

	file *os.File
}

// New returns a ServerConfig with the compiled-in defaults, matching
// create_server_conf's initial field values.
func New() *ServerConfig {
	return &ServerConfig{
		Filename:        DefaultConfigFile,
		Port:            0,
		EnableKeepAlive: true,
	}
}

// Close releases the advisory lock Load acquired on cfg's configuration
// file, if any. Safe to call on a ServerConfig that was never Load-ed.
func (cfg *ServerConfig) Close() error {
	if cfg.file == nil {
		return nil
	}
	err := cfg.file.Close()
	cfg.file = nil
	return err
}
