package stackitem

// rc is a reference counter embedded into compound items, it tracks the
// number of stack slots and counted containers referring to the item.
type rc struct {
	count int
}

// IncRC increments the reference counter and returns the new value.
func (r *rc) IncRC() int {
	r.count++
	return r.count
}

// DecRC decrements the reference counter and returns the new value.
func (r *rc) DecRC() int {
	r.count--
	return r.count
}

// RC returns the current number of references to the item.
func (r *rc) RC() int {
	return r.count
}
