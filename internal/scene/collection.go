package scene

import (
	"time"

	"github.com/san-kum/dynscene/internal/idmap"
	"github.com/san-kum/dynscene/internal/timeprop"
)

// ChangedFunc receives the net objects added and removed by one mutation
// batch. It is called synchronously on the mutating goroutine.
type ChangedFunc func(c *Collection, added, removed []*Object)

type subscriber struct {
	id int
	fn ChangedFunc
}

// Collection is an observable set of objects keyed by id, iterated in
// insertion order. It is not safe for concurrent use.
type Collection struct {
	objects     idmap.Map[*Object]
	subscribers []subscriber
	nextSubID   int

	suspended int
	added     idmap.Map[*Object]
	removed   idmap.Map[*Object]
}

func NewCollection() *Collection {
	return &Collection{}
}

// Subscribe registers fn and returns the function that unregisters it.
func (c *Collection) Subscribe(fn ChangedFunc) (unsubscribe func()) {
	c.nextSubID++
	id := c.nextSubID
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (c *Collection) Subscribers() int { return len(c.subscribers) }

// SuspendEvents defers change notifications until the matching
// ResumeEvents. Calls nest.
func (c *Collection) SuspendEvents() {
	c.suspended++
}

// ResumeEvents ends one SuspendEvents and, when no suspension remains, fires
// a single event with the net changes made meanwhile.
func (c *Collection) ResumeEvents() {
	if c.suspended == 0 {
		return
	}
	c.suspended--
	c.fire()
}

func (c *Collection) fire() {
	if c.suspended > 0 {
		return
	}
	if c.added.Len() == 0 && c.removed.Len() == 0 {
		return
	}
	added := append([]*Object(nil), c.added.Values()...)
	removed := append([]*Object(nil), c.removed.Values()...)
	c.added.Reset()
	c.removed.Reset()

	subs := append([]subscriber(nil), c.subscribers...)
	for _, s := range subs {
		s.fn(c, added, removed)
	}
}

// Add inserts obj. It fails if another object already uses the same id.
func (c *Collection) Add(obj *Object) error {
	if obj == nil {
		return ErrNilObject
	}
	if _, ok := c.objects.Get(obj.ID()); ok {
		return &DuplicateIDError{ID: obj.ID()}
	}
	c.objects.Set(obj.ID(), obj)
	if prev, ok := c.removed.Get(obj.ID()); ok && prev == obj {
		c.removed.Delete(obj.ID())
	} else {
		c.added.Set(obj.ID(), obj)
	}
	c.fire()
	return nil
}

// GetOrCreate returns the object with id, adding a new one if needed.
func (c *Collection) GetOrCreate(id string) *Object {
	if obj, ok := c.objects.Get(id); ok {
		return obj
	}
	obj := NewObject(id)
	_ = c.Add(obj)
	return obj
}

func (c *Collection) ByID(id string) (*Object, bool) {
	return c.objects.Get(id)
}

// Remove removes obj if it is the member registered under its id.
func (c *Collection) Remove(obj *Object) bool {
	if obj == nil {
		return false
	}
	cur, ok := c.objects.Get(obj.ID())
	if !ok || cur != obj {
		return false
	}
	return c.RemoveByID(obj.ID())
}

func (c *Collection) RemoveByID(id string) bool {
	obj, ok := c.objects.Get(id)
	if !ok {
		return false
	}
	c.objects.Delete(id)
	c.unlink(obj)
	c.fire()
	return true
}

// unlink records the removal of obj, cancelling a pending addition of it.
func (c *Collection) unlink(obj *Object) {
	if pending, ok := c.added.Get(obj.ID()); ok && pending == obj {
		c.added.Delete(obj.ID())
		return
	}
	c.removed.Set(obj.ID(), obj)
}

// RemoveAll empties the collection with a single change event.
func (c *Collection) RemoveAll() {
	objs := c.Objects()
	c.objects.Reset()
	for _, obj := range objs {
		c.unlink(obj)
	}
	c.fire()
}

// Objects returns the members in insertion order.
func (c *Collection) Objects() []*Object {
	return append([]*Object(nil), c.objects.Values()...)
}

func (c *Collection) Len() int { return c.objects.Len() }

// ComputeAvailability returns the hull of all member availability windows.
// ok is false when no member restricts its availability.
func (c *Collection) ComputeAvailability() (iv timeprop.Interval, ok bool) {
	for _, obj := range c.objects.Values() {
		if obj.Availability == nil {
			continue
		}
		if !ok {
			iv, ok = *obj.Availability, true
			continue
		}
		iv = iv.Union(*obj.Availability)
	}
	return iv, ok
}

// AvailableAt returns the members that exist at t.
func (c *Collection) AvailableAt(t time.Time) []*Object {
	out := make([]*Object, 0, c.objects.Len())
	for _, obj := range c.objects.Values() {
		if obj.IsAvailable(t) {
			out = append(out, obj)
		}
	}
	return out
}
