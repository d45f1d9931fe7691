package visualizer

import (
	"github.com/san-kum/dynscene/internal/idmap"
	"github.com/san-kum/dynscene/internal/scene"
)

// changeSet accumulates objects between reconciliation passes, in arrival
// order and keyed by id.
type changeSet struct {
	objects idmap.Map[*scene.Object]
}

func (s *changeSet) put(obj *scene.Object) {
	s.objects.Set(obj.ID(), obj)
}

// take removes obj if it is the pending entry for its id.
func (s *changeSet) take(obj *scene.Object) bool {
	cur, ok := s.objects.Get(obj.ID())
	if !ok || cur != obj {
		return false
	}
	s.objects.Delete(obj.ID())
	return true
}

func (s *changeSet) has(obj *scene.Object) bool {
	cur, ok := s.objects.Get(obj.ID())
	return ok && cur == obj
}

func (s *changeSet) values() []*scene.Object { return s.objects.Values() }

func (s *changeSet) len() int { return s.objects.Len() }

func (s *changeSet) reset() { s.objects.Reset() }

// changeBuffer coalesces collection events. Removals are applied before
// additions so that remove-then-add of a resident object cancels out and
// add-then-remove of a pending object leaves nothing behind.
type changeBuffer struct {
	added   changeSet
	removed changeSet
}

func (b *changeBuffer) apply(added, removed []*scene.Object) {
	for _, obj := range removed {
		if obj == nil {
			continue
		}
		if !b.added.take(obj) {
			b.removed.put(obj)
		}
	}
	for _, obj := range added {
		if obj == nil {
			continue
		}
		if !b.removed.take(obj) {
			b.added.put(obj)
		}
	}
}

func (b *changeBuffer) empty() bool {
	return b.added.len() == 0 && b.removed.len() == 0
}

func (b *changeBuffer) flush() {
	b.added.reset()
	b.removed.reset()
}
