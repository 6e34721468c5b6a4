/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package mapCloser

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"sync/atomic"
)

type closer struct {
	c   *atomic.Bool
	f   func() // Context Func Cancel
	i   *atomic.Uint64
	ctx context.Context
	reg *sync.Map
}

func (o *closer) idx() uint64 {
	return o.i.Load()
}

func (o *closer) idxInc() uint64 {
	o.i.Add(1)
	return o.idx()
}

func (o *closer) closed() bool {
	if o.ctx != nil && o.ctx.Err() != nil {
		return true
	}
	return o.c.Load()
}

func (o *closer) Add(clo ...io.Closer) {
	if o == nil {
		return
	} else if o.reg == nil {
		return
	} else if o.closed() {
		return
	}

	for _, c := range clo {
		o.reg.Store(o.idxInc(), c)
	}
}

func (o *closer) Get() []io.Closer {
	var res = make([]io.Closer, 0)

	if o == nil {
		return res
	} else if o.reg == nil {
		return res
	} else if o.closed() {
		return res
	}

	o.reg.Range(func(key, val interface{}) bool {
		if val == nil {
			return true
		}
		if v, k := val.(io.Closer); !k {
			return true
		} else {
			res = append(res, v)
			return true
		}
	})
	return res
}

func (o *closer) Len() int {
	i := o.idx()

	if i > math.MaxInt {
		// overflow
		return 0
	} else {
		return int(i)
	}
}

func (o *closer) Len64() uint64 {
	return o.idx()
}

func (o *closer) Clean() {
	if o == nil {
		return
	} else if o.reg == nil {
		return
	} else if o.closed() {
		return
	}

	o.i.Store(0)
	o.reg.Range(func(key, _ interface{}) bool {
		o.reg.Delete(key)
		return true
	})
}

func (o *closer) Clone() Closer {
	if o == nil {
		return nil
	} else if o.reg == nil {
		return nil
	} else if o.closed() {
		return nil
	}

	i := new(atomic.Uint64)
	i.Store(o.idx())

	c := new(atomic.Bool)
	c.Store(o.c.Load())

	reg := new(sync.Map)
	o.reg.Range(func(key, val interface{}) bool {
		reg.Store(key, val)
		return true
	})

	return &closer{
		c:   c,
		f:   o.f,
		i:   i,
		ctx: o.ctx,
		reg: reg,
	}
}

func (o *closer) Close() error {
	var e = make([]string, 0)

	if o == nil {
		return fmt.Errorf("not initialized")
	}

	if !o.c.CompareAndSwap(false, true) {
		return fmt.Errorf("already closed")
	}

	if o.f != nil {
		defer o.f()
	}

	if o.reg == nil {
		return fmt.Errorf("not initialized")
	}

	o.reg.Range(func(key, val interface{}) bool {
		if c, k := val.(io.Closer); !k {
			return true
		} else if err := c.Close(); err != nil {
			e = append(e, err.Error())
		}
		return true
	})

	if len(e) > 0 {
		return fmt.Errorf("%s", strings.Join(e, ", "))
	}

	return nil
}
