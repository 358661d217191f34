package core

// Subscription identifies an observer on a Chain. Zero is never issued.
type Subscription uint32

type observer[T any] struct {
	id Subscription
	fn func(T)
}

// Chain is an ordered list of observers for one event type.
// Observers run in subscription order, so an observer always sees
// the event after everything registered before it.
type Chain[T any] struct {
	observers []observer[T]
	nextID    Subscription
}

// Subscribe appends fn to the chain
func (c *Chain[T]) Subscribe(fn func(T)) Subscription {
	c.nextID++
	c.observers = append(c.observers, observer[T]{id: c.nextID, fn: fn})
	return c.nextID
}

// Unsubscribe removes the observer, keeping the order of the rest
func (c *Chain[T]) Unsubscribe(id Subscription) bool {
	for i, o := range c.observers {
		if o.id == id {
			c.observers = append(c.observers[:i:i], c.observers[i+1:]...)
			return true
		}
	}
	return false
}

// Fire calls every observer with ev. Observers added or removed while
// firing take effect on the next Fire.
func (c *Chain[T]) Fire(ev T) {
	snapshot := c.observers
	for _, o := range snapshot {
		o.fn(ev)
	}
}

// Len returns the number of observers
func (c *Chain[T]) Len() int {
	return len(c.observers)
}

// Events holds the hook chains plugins can observe
type Events struct {
	DriverReset       Chain[struct{}]
	ReportOptions     Chain[bool]
	SpindleProgrammed Chain[SpindleEvent]
	CoolantSetState   Chain[CoolantState]
}
