package bpool

// Resetter interface.
type Resetter interface {
	// Reset may return the object to his initial state.
	Reset()
}

// OnResetCallback type.
// Will be called with a true value if the value T is a Resetter and was called with success.
type OnResetCallback func(called bool)

type hooks[T any] struct {
	onReceive []func(T)
	onRelease []func(T)
	onClear   []func(T)
}

func (h *hooks[T]) receive(object T) { run(h.onReceive, object) }
func (h *hooks[T]) release(object T) { run(h.onRelease, object) }
func (h *hooks[T]) clear(object T) { run(h.onClear, object) }

func run[T any](fns []func(T), object T) {
	for _, fn := range fns {
		fn(object)
	}
}

type poolConfig[T any] struct {
	name  string
	hooks hooks[T]
}

// Option type.
type Option[T any] func(*poolConfig[T])

// WithName is a functional option.
// The name is used on error messages and by the instrument package.
func WithName[T any](name string) Option[T] {
	return func(c *poolConfig[T]) {
		c.name = name
	}
}

// WithOnReceive is a functional option.
// Includes one or more hooks to be executed when an object leaves the pool.
func WithOnReceive[T any](onReceive ...func(T)) Option[T] {
	return func(c *poolConfig[T]) {
		c.hooks.onReceive = appendHooks(c.hooks.onReceive, onReceive)
	}
}

// WithOnRelease is a functional option.
// Includes one or more hooks to be executed when an object is stored in the
// pool, including the objects created on construction and on Clear.
func WithOnRelease[T any](onRelease ...func(T)) Option[T] {
	return func(c *poolConfig[T]) {
		c.hooks.onRelease = appendHooks(c.hooks.onRelease, onRelease)
	}
}

// WithOnClear is a functional option.
// Includes one or more hooks to be executed when a free object is finalized.
func WithOnClear[T any](onClear ...func(T)) Option[T] {
	return func(c *poolConfig[T]) {
		c.hooks.onClear = appendHooks(c.hooks.onClear, onClear)
	}
}

// WithDefaultResetter is a functional option.
// If T is a Resetter, Reset() is called every time the object is stored back
// in the pool. Each onReset callback is called after with the detection result.
func WithDefaultResetter[T any](onResets ...OnResetCallback) Option[T] {
	return WithOnRelease(func(object T) {
		defaultResetter, ok := any(object).(Resetter)
		if ok {
			defaultResetter.Reset()
		}

		for _, onReset := range onResets {
			onReset(ok)
		}
	})
}

func appendHooks[T any](dst, src []func(T)) []func(T) {
	for _, fn := range src {
		if fn != nil {
			dst = append(dst, fn)
		}
	}

	return dst
}

func single[T any](fn func(T)) []func(T) {
	return appendHooks(nil, []func(T){fn})
}
