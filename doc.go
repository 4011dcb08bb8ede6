/*
Package flowrx implements a cold, backpressure-aware push stream: a Flow[T]
is a lazily-evaluated producer of values that does nothing until a
Subscriber attaches, and delivers signals only as fast as that subscriber
requests them.

Every Flow follows the same four-signal contract: exactly one OnSubscribe,
then zero or more OnNext, then at most one of OnError or OnComplete. A
Subscription handed to the subscriber's OnSubscribe is how demand flows the
other way — Request(n) grants n more values, Cancel severs the connection
in both directions.

Example of building and consuming a pipeline:

	flow := flowrx.Map(
		flowrx.Filter(flowrx.Range(0, 100), func(v int32) bool { return v%2 == 0 }),
		func(v int32) int32 { return v * v },
	)

	flow.SafeSubscribe(flowrx.FuncSubscriber[int32]{
		OnSubscribeFn: func(s flowrx.Subscription) { s.Request(flowrx.Unbounded) },
		OnNextFn:      func(v int32) { fmt.Println(v) },
		OnCompleteFn:  func() { fmt.Println("done") },
	})

flowrx.FlatMap is the concurrent core: it maps each value to another Flow
and merges their outputs, bounding both how many inner Flows run at once
(maxConcurrency) and how many items each inner may have buffered ahead of
demand (prefetch). Merge and MergeDelayError are flatMap with an identity
mapper.

Source factories (Just, Empty, Never, Error, FromArray, FromIterable,
FromStream, FromChannel, FromCallable, Range, Defer) build a Flow from
scratch. Transforming operators (Map, Filter, Take, TakeUntil, TakeLast,
Skip, SkipLast, SkipWhile, SkipUntil, IgnoreElements) build a new Flow from
an existing one.

The onCreate/onSubscribe/onError package-level hooks (SetOnCreateHook,
SetOnSubscribeHook, SetOnErrorHook) let a process instrument every Flow it
builds, without threading a context through call sites.
*/
package flowrx
