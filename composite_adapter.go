package flowrx

import "github.com/wangjianwxj/flowrx/internal/composite"

// subscriptionTarget adapts a Subscription to internal/composite.Target so
// composite.Composite can hold and cancel it alongside other subscriptions.
type subscriptionTarget struct {
	sub Subscription
}

func (s subscriptionTarget) Cancel() { s.sub.Cancel() }

func asTarget(sub Subscription) composite.Target {
	return subscriptionTarget{sub: sub}
}
