package flowrx

// Flow is a cold, lazily-evaluated source of values of element type T. It
// is immutable once constructed and holds nothing but a subscribe-function;
// subscribing twice runs that function twice, independently.
type Flow[T any] struct {
	subscribe func(Subscriber[T])
}

// Publisher is the minimal Reactive Streams producer contract. Flow[T]
// satisfies it directly, so a Flow can be handed to any consumer shaped
// like a Reactive Streams Publisher without an adapter.
type Publisher[T any] interface {
	Subscribe(s Subscriber[T])
}

// Create wraps subscribeFn as a Flow. subscribeFn must not be nil: a nil
// factory is a programmer error and is rethrown synchronously, matching
// the panic-on-bad-argument convention used elsewhere for constructor
// misuse (e.g. pipefn's Chunk panicking on a non-positive chunk size).
func Create[T any](subscribeFn func(Subscriber[T])) Flow[T] {
	if subscribeFn == nil {
		panic(constraintf("Create", "subscribeFn must not be nil"))
	}
	return Flow[T]{subscribe: applyCreateHook(subscribeFn)}
}

// Subscribe attaches s to the Flow, applying the onSubscribe plugin hook
// and invoking the subscribe-function. This is the raw, unwrapped path:
// callers get exactly what the subscribe-function produces, including any
// protocol violations it might commit. Use SafeSubscribe for a guarantee of
// serialization and terminal-signal idempotence. Subscribe stays raw and
// SafeSubscribe wraps, rather than the other way around, so composed
// operators never pay guard overhead they did not ask for.
//
// Every synchronous panic from subscribeFn, a nil-dereference runtime error
// included, is recovered and funneled to the plugin onError hook rather than
// re-panicking: it is ambiguous whether OnSubscribe has already reached s,
// so delivering OnError(err) to s directly could double-signal it.
func (f Flow[T]) Subscribe(s Subscriber[T]) {
	wrapped := applySubscribeHook(s)
	subscribeGuarded(f.subscribe, wrapped)
}

func subscribeGuarded[T any](subscribeFn func(Subscriber[T]), s Subscriber[T]) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				reportUnreachableError(err)
				return
			}
			reportUnreachableError(constraintf("Subscribe", "subscribe-function panicked: %v", r))
		}
	}()
	subscribeFn(s)
}

// SafeSubscribe wraps s in a guard enforcing signal serialization and
// terminal-signal idempotence, then subscribes it.
func (f Flow[T]) SafeSubscribe(s Subscriber[T]) {
	f.Subscribe(newGuardSubscriber(s))
}

// Lift applies op — a transformer from a downstream Subscriber to an
// upstream Subscriber — and returns the resulting Flow. Go cannot express
// this as a method with its own type parameter R distinct from the
// receiver's T (methods may not introduce new type parameters), so Lift,
// like every other transformation in this package, is a package-level
// function; this mirrors how every transform in KasperOmsK-pipefn is a
// free function over Pipe[In]/Pipe[Out] rather than a generic method.
func Lift[T, R any](f Flow[T], op Operator[T, R]) Flow[R] {
	if op == nil {
		panic(constraintf("Lift", "operator must not be nil"))
	}
	return Flow[R]{subscribe: func(down Subscriber[R]) {
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok {
					reportUnreachableError(err)
					return
				}
				reportUnreachableError(constraintf("Lift", "operator panicked: %v", r))
			}
		}()
		up := op(down)
		f.subscribe(up)
	}}
}

// Operator transforms a downstream Subscriber[R] into the upstream
// Subscriber[T] that will drive it. Signals are delivered as direct method
// calls rather than through a channel-borne notification value, so the
// transform is a plain function rather than an interface with a single
// Notify method.
type Operator[T, R any] func(down Subscriber[R]) Subscriber[T]

// Compose applies f — a whole-flow transformer — to this Flow, constraining
// the result to another Flow[R].
func Compose[T, R any](f Flow[T], transform func(Flow[T]) Flow[R]) Flow[R] {
	return transform(f)
}

// To applies f to this Flow and returns whatever f returns, unconstrained —
// the escape hatch for terminal operations that don't produce a Flow (e.g.
// collecting into a slice, or converting to some other type's Publisher).
func To[T, R any](f Flow[T], transform func(Flow[T]) R) R {
	return transform(f)
}

// AsObservable returns a new Flow that forwards to f, hiding whatever
// concrete construction produced f. Useful for a package that builds a
// Flow with internal helper types and wants to publish only the Flow type.
func (f Flow[T]) AsObservable() Flow[T] {
	return Flow[T]{subscribe: func(s Subscriber[T]) { f.subscribe(s) }}
}

// FromPublisher returns p unchanged if it is already a Flow[T]; otherwise
// it wraps p's Subscribe method as a new Flow[T]. This avoids gratuitous
// decoration when the value is already one of ours.
func FromPublisher[T any](p Publisher[T]) Flow[T] {
	if f, ok := p.(Flow[T]); ok {
		return f
	}
	return Create(func(s Subscriber[T]) {
		p.Subscribe(s)
	})
}
