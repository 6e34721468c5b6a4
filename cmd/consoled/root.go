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
	"fmt"

	"github.com/spf13/cobra"

	"github/sabouaram/consoled/console"
	"github/sabouaram/consoled/internal/config"
)

const versionString = "consoled 1.0.0"

// newRootCmd builds the single cobra command implementing the daemon's
// flag set: -c/-k/-p/-v/-V/-z, one flag per the original getopt option.
func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		kill    bool
		port    int
		verbose bool
		version bool
		zero    bool
	)

	cmd := &cobra.Command{
		Use:           "consoled",
		Short:         "serial console concentrator daemon",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version {
				printBanner()
				return nil
			}
			if kill {
				return runKill(cfgPath)
			}
			if port < 0 {
				return ErrorInvalidPort.Error(fmt.Errorf("%d", port))
			}
			return runDaemon(cfgPath, port, verbose, zero)
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFile, "alternate configuration file")
	cmd.Flags().BoolVarP(&kill, "kill", "k", false, "signal the running daemon to stop and exit")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listening port override")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "raise log verbosity to debug")
	cmd.Flags().BoolVarP(&version, "version", "V", false, "print version and exit")
	cmd.Flags().BoolVarP(&zero, "zero-logs", "z", false, "truncate every configured log file at startup")

	return cmd
}

func printBanner() {
	console.ColorPrint.Println(versionString)
}

func runKill(cfgPath string) error {
	found, err := config.Kill(cfgPath)
	if err != nil {
		return err
	}
	if found {
		console.ColorPrint.Println("signaled the running daemon")
	} else {
		console.ColorPrint.Println("configuration not active")
	}
	return nil
}
