package container

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// open maps a goroutine ID to the innermost chain running a factory on it.
// Chains started from registry handles captured outside the current chain
// link to it, so re-entering a running factory is reported as a cycle with
// the full path instead of blocking or recursing forever.
var open sync.Map // int64 -> *chain

// goroutine returns the ID of the goroutine running c, registering c as the
// innermost open chain on first use. Chains that only hit cached singletons
// never pay for it.
func (c *chain) goroutine() int64 {
	if c.gid != 0 {
		return c.gid
	}
	c.gid = goid()
	if outer, ok := open.Load(c.gid); ok {
		c.outer = outer.(*chain)
	}
	open.Store(c.gid, c)
	return c.gid
}

// release unregisters c when its top-level Make returns.
func (c *chain) release() {
	if c.gid == 0 {
		return
	}
	if c.outer != nil {
		open.Store(c.gid, c.outer)
		return
	}
	open.Delete(c.gid)
}

var goroutinePrefix = []byte("goroutine ")

// goid parses the current goroutine's ID from its stack header,
// "goroutine 42 [running]:".
func goid() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		panic("container: cannot parse goroutine id: " + err.Error())
	}
	return id
}
