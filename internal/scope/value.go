package scope

import "sync"

// ReleaseHooks collects the callbacks resolvers register while producing a value
type ReleaseHooks struct {
	fns []func()
}

// OnRelease registers fn to run when the value is released.
func (h *ReleaseHooks) OnRelease(fn func()) {
	if fn != nil {
		h.fns = append(h.fns, fn)
	}
}

// Value is the outcome of resolving one key
type Value struct {
	value    interface{}
	present  bool
	resolver Resolver
	hooks    ReleaseHooks
	once     sync.Once
}

// Absent returns a value that was not found
func Absent() *Value {
	return &Value{}
}

// Present returns a found value without release hooks
func Present(v interface{}) *Value {
	return &Value{value: v, present: true}
}

// Get returns the resolved value, nil if absent.
func (v *Value) Get() interface{} {
	return v.value
}

// IsAbsent reports whether the key was not found. A key found with a nil
// value is present.
func (v *Value) IsAbsent() bool {
	return !v.present
}

// Resolver returns the resolver that resolved the last segment, nil when the
// value came from the current-scope token or is absent.
func (v *Value) Resolver() Resolver {
	return v.resolver
}

// Release runs the registered release hooks. It is safe to call more than
// once; hooks run on the first call only.
func (v *Value) Release() {
	v.once.Do(func() {
		for _, fn := range v.hooks.fns {
			fn()
		}
		v.hooks.fns = nil
	})
}
