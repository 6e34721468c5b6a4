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

package tcp

import (
	"context"
	"time"

	libdur "github/sabouaram/consoled/duration"
	"github/sabouaram/consoled/internal/logging"
	"github/sabouaram/consoled/internal/object"
)

// minSweepInterval bounds how often the sweep wakes regardless of how
// small ConIdleTimeout is configured, so a misconfigured near-zero
// timeout cannot turn the sweep into a busy loop.
const minSweepInterval = time.Second

// SweepIdle closes every Socket in objs whose last successful read is
// older than idle, checking on a cadence derived from idle itself. It
// runs until ctx is done; wire it behind the daemon's KEEPALIVE flag,
// since the original kept this reaping optional (§SERVER KEEPALIVE).
func SweepIdle(ctx context.Context, objs *object.Collection, idle libdur.Duration) {
	interval := idle.Time() / 4
	if interval < minSweepInterval {
		interval = minSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepOnce(objs, idle.Time())
		}
	}
}

func sweepOnce(objs *object.Collection, idle time.Duration) {
	now := time.Now()
	for _, o := range objs.All() {
		if o.Kind != object.KindSocket || !o.IsOpen() {
			continue
		}
		if now.Sub(o.LastRead()) < idle {
			continue
		}
		logging.Object("tcp", o.Name).Info("closing idle connection")
		object.Close(o)
	}
}
