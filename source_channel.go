package flowrx

import "sync"

// FromChannel returns a Flow modeling a future: it registers a listener on
// values and errs and, on whichever fires first, emits that outcome. Go has
// no built-in future type, so the outcome is split across a value channel
// and an error channel, exactly one of which is expected to fire.
//
// Cancelling the returned Subscription stops flowrx from listening; it does
// not attempt to cancel whatever is feeding values/errs. Request(0) on the
// returned Subscription is ignored: it delivers no OnError.
func FromChannel[T any](values <-chan T, errs <-chan error) Flow[T] {
	return Create(func(s Subscriber[T]) {
		sub := &channelSubscription{
			demand: make(chan struct{}, 1),
			cancel: make(chan struct{}),
		}
		s.OnSubscribe(sub)
		go runChannelSource(values, errs, s, sub)
	})
}

type channelSubscription struct {
	demand     chan struct{}
	cancel     chan struct{}
	cancelOnce sync.Once
}

func (c *channelSubscription) Request(n uint64) {
	if n == 0 {
		return
	}
	select {
	case c.demand <- struct{}{}:
	default:
	}
}

func (c *channelSubscription) Cancel() {
	c.cancelOnce.Do(func() { close(c.cancel) })
}

func runChannelSource[T any](values <-chan T, errs <-chan error, s Subscriber[T], sub *channelSubscription) {
	select {
	case v, ok := <-values:
		if !ok {
			if !channelCancelled(sub) {
				s.OnComplete()
			}
			return
		}
		select {
		case <-sub.demand:
		case <-sub.cancel:
			return
		}
		if channelCancelled(sub) {
			return
		}
		s.OnNext(v)
		s.OnComplete()
	case err, ok := <-errs:
		if !ok {
			return
		}
		if !channelCancelled(sub) {
			s.OnError(err)
		}
	case <-sub.cancel:
		return
	}
}

func channelCancelled(sub *channelSubscription) bool {
	select {
	case <-sub.cancel:
		return true
	default:
		return false
	}
}
