package vm

import (
	"github.com/nspcc-dev/neo2-vm/pkg/vm/stackitem"
)

// refCounter counts stack slots. Every stack item takes one slot, compound
// items also account their elements when they get referenced for the first
// time, so an array pushed twice costs its elements only once.
type refCounter int

type (
	rcInc interface {
		IncRC() int
	}
	rcDec interface {
		DecRC() int
	}
	rcGetter interface {
		RC() int
	}
)

// counter returns the reference counter backed by the context stack count.
func (c *Context) counter() *refCounter {
	return (*refCounter)(&c.StackCount)
}

// Add adds an item to the reference counter.
func (r *refCounter) Add(item stackitem.Item) {
	*r++

	irc, ok := item.(rcInc)
	if !ok || irc.IncRC() > 1 {
		return
	}
	switch t := item.(type) {
	case *stackitem.Array, *stackitem.Struct:
		for _, it := range item.Value().([]stackitem.Item) {
			r.Add(it)
		}
	case *stackitem.Map:
		elems := t.Value().([]stackitem.MapElement)
		for i := range elems {
			r.Add(elems[i].Key)
			r.Add(elems[i].Value)
		}
	}
}

// Remove removes an item from the reference counter.
func (r *refCounter) Remove(item stackitem.Item) {
	*r--

	irc, ok := item.(rcDec)
	if !ok || irc.DecRC() > 0 {
		return
	}
	switch t := item.(type) {
	case *stackitem.Array, *stackitem.Struct:
		for _, it := range item.Value().([]stackitem.Item) {
			r.Remove(it)
		}
	case *stackitem.Map:
		elems := t.Value().([]stackitem.MapElement)
		for i := range elems {
			r.Remove(elems[i].Key)
			r.Remove(elems[i].Value)
		}
	}
}

// isReferenced tells whether changes of the container elements need to be
// reflected in the counter.
func isReferenced(item stackitem.Item) bool {
	g, ok := item.(rcGetter)
	return ok && g.RC() > 0
}
