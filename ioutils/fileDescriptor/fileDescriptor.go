/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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
 */

// Package fileDescriptor raises the process's open-file soft limit at
// startup: one descriptor per linked console and per fanned-out TCP
// client adds up fast, and the daemon would rather fail at boot than
// start accepting connections it can't keep open.
package fileDescriptor

// SystemFileDescriptor queries the process's current and hard file
// descriptor limits, raising the soft limit to newValue first if it is
// higher than the current one (0 or a value below current just queries).
// When newValue exceeds the hard limit, the hard limit is raised to
// newValue as well, which normally requires running as root.
func SystemFileDescriptor(newValue int) (current int, max int, err error) {
	return systemFileDescriptor(newValue)
}
