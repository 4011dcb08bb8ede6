package flowrx

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CreateHook intercepts every Flow created through Create. Plugin hooks are
// process-wide and necessarily type-erased (Go has no way to store one
// generic function value usable for every element type T); erasedSubscriber
// and unerasedSubscriber in erase.go cross that boundary at each call site.
type CreateHook func(subscribeFn func(Subscriber[any])) func(Subscriber[any])

// SubscribeHook intercepts every downstream Subscriber before it is handed
// to a Flow's subscribe-function.
type SubscribeHook func(sub Subscriber[any]) Subscriber[any]

// ErrorHook receives errors that have no valid subscriber to deliver to:
// subscription-time ambiguity and post-terminal signals.
type ErrorHook func(err error)

var (
	onCreateHook    atomic.Pointer[CreateHook]
	onSubscribeHook atomic.Pointer[SubscribeHook]
	onErrorHook     atomic.Pointer[ErrorHook]
)

func init() {
	setDefaultHooks()
}

func setDefaultHooks() {
	identityCreate := CreateHook(func(f func(Subscriber[any])) func(Subscriber[any]) { return f })
	identitySubscribe := SubscribeHook(func(s Subscriber[any]) Subscriber[any] { return s })
	logDrop := ErrorHook(defaultErrorHook)
	onCreateHook.Store(&identityCreate)
	onSubscribeHook.Store(&identitySubscribe)
	onErrorHook.Store(&logDrop)
}

func defaultErrorHook(err error) {
	log.Error().
		Err(err).
		Str("component", "flowrx").
		Msg("unhandled error with no reachable subscriber")
}

// SetOnCreateHook installs the process-wide onCreate plugin hook. Callers
// should install hooks at startup, before any Flow is subscribed; mutating
// hooks concurrently with active subscriptions is tolerated but not
// synchronized with in-flight work.
func SetOnCreateHook(h CreateHook) {
	if h == nil {
		identity := CreateHook(func(f func(Subscriber[any])) func(Subscriber[any]) { return f })
		onCreateHook.Store(&identity)
		return
	}
	onCreateHook.Store(&h)
}

// SetOnSubscribeHook installs the process-wide onSubscribe plugin hook.
func SetOnSubscribeHook(h SubscribeHook) {
	if h == nil {
		identity := SubscribeHook(func(s Subscriber[any]) Subscriber[any] { return s })
		onSubscribeHook.Store(&identity)
		return
	}
	onSubscribeHook.Store(&h)
}

// SetOnErrorHook installs the process-wide onError plugin hook.
func SetOnErrorHook(h ErrorHook) {
	if h == nil {
		logDrop := ErrorHook(defaultErrorHook)
		onErrorHook.Store(&logDrop)
		return
	}
	onErrorHook.Store(&h)
}

// ResetPlugins restores every hook to its identity/log-and-drop default.
// Primarily useful in tests that install a hook and must not leak it across
// test cases.
func ResetPlugins() {
	setDefaultHooks()
}

func snapshotErrorHook() ErrorHook {
	return *onErrorHook.Load()
}

func snapshotSubscribeHook() SubscribeHook {
	return *onSubscribeHook.Load()
}

func snapshotCreateHook() CreateHook {
	return *onCreateHook.Load()
}

// pluginLogger returns a copy of zerolog's global log.Logger, the logger
// defaultErrorHook writes through. Reassigning log.Logger redirects that
// output without replacing the onError hook.
func pluginLogger() zerolog.Logger {
	return log.Logger
}
