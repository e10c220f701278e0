package gamestate

// observers is an ordered callback list with removal by handle. Notification
// iterates over a copy, so a callback may unsubscribe itself.
type observers[F any] struct {
	next int
	list []observer[F]
}

type observer[F any] struct {
	id int
	fn F
}

func (o *observers[F]) add(fn F) func() {
	o.next++
	id := o.next
	o.list = append(o.list, observer[F]{id: id, fn: fn})
	return func() {
		for i, ob := range o.list {
			if ob.id == id {
				o.list = append(o.list[:i:i], o.list[i+1:]...)
				return
			}
		}
	}
}

func (o *observers[F]) each(call func(F)) {
	for _, ob := range append([]observer[F](nil), o.list...) {
		call(ob.fn)
	}
}
