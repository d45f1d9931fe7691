package visualizer

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/san-kum/dynscene/internal/idmap"
	"github.com/san-kum/dynscene/internal/render"
	"github.com/san-kum/dynscene/internal/scene"
)

// PolygonVisualizer maps the polygon bundle of each object in a collection to
// render primitives.
//
// Objects with constant geometry and a uniform color material share one
// batch primitive whose per-instance color and show attributes are rewritten
// in place each frame. The batch is rebuilt only when its membership changes.
// Every other object gets a standalone primitive, taken from a free list of
// hidden primitives when one is available.
type PolygonVisualizer struct {
	scene       render.Scene
	primitives  *render.PrimitiveCollection
	collection  *scene.Collection
	unsubscribe func()
	logger      *slog.Logger

	changes changeBuffer

	batch          idmap.Map[*geometryInstance]
	batchPrimitive *render.BatchPrimitive

	dynamic    idmap.Map[*scene.Object]
	standalone map[string]*render.PolygonPrimitive
	unused     freeList

	stats     Stats
	destroyed bool
}

// Option configures a PolygonVisualizer.
type Option func(*PolygonVisualizer)

// WithLogger sets the logger for rebuild and release events. A nil logger
// keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(v *PolygonVisualizer) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewPolygonVisualizer creates a visualizer drawing into s. coll may be nil
// and set later with SetCollection.
func NewPolygonVisualizer(s render.Scene, coll *scene.Collection, opts ...Option) (*PolygonVisualizer, error) {
	if s == nil {
		return nil, ErrSceneRequired
	}
	v := &PolygonVisualizer{
		scene:      s,
		primitives: s.Primitives(),
		logger:     slog.Default(),
		standalone: make(map[string]*render.PolygonPrimitive),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.With("visualizer", "polygon")
	if err := v.SetCollection(coll); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *PolygonVisualizer) Scene() render.Scene { return v.scene }

func (v *PolygonVisualizer) Collection() *scene.Collection { return v.collection }

// SetCollection switches the visualized collection. Primitives built for the
// previous collection are removed and the members of the new one are queued
// as additions.
func (v *PolygonVisualizer) SetCollection(coll *scene.Collection) error {
	if v.destroyed {
		return ErrDestroyed
	}
	if coll == v.collection {
		return nil
	}
	if v.collection != nil {
		v.unsubscribe()
		v.unsubscribe = nil
		v.removeAll()
	}
	v.collection = coll
	if coll != nil {
		v.unsubscribe = coll.Subscribe(v.onCollectionChanged)
		v.onCollectionChanged(coll, coll.Objects(), nil)
	}
	return nil
}

func (v *PolygonVisualizer) onCollectionChanged(_ *scene.Collection, added, removed []*scene.Object) {
	v.changes.apply(added, removed)
}

// Update reconciles the primitives with the collection at t.
func (v *PolygonVisualizer) Update(t time.Time) error {
	if v.destroyed {
		return ErrDestroyed
	}
	if t.IsZero() {
		return ErrTimeRequired
	}

	frame := Stats{Rebuilds: v.stats.Rebuilds, Updates: v.stats.Updates + 1}
	membershipChanged := false

	removed := v.changes.removed.values()
	for i := len(removed) - 1; i >= 0; i-- {
		if v.evict(removed[i], &frame) {
			membershipChanged = true
		}
	}
	for _, obj := range v.changes.added.values() {
		if v.evictID(obj.ID(), &frame) {
			membershipChanged = true
		}
		if v.admit(obj, t, &frame) {
			membershipChanged = true
		}
	}
	v.changes.flush()

	v.refreshStandalone(t, &frame)

	var err error
	if membershipChanged {
		err = v.rebuildBatch(t, &frame)
	} else {
		err = v.updateInstances(t, &frame)
	}

	frame.Batched = v.batch.Len()
	frame.Standalone = len(v.standalone)
	frame.Unused = v.unused.len()
	v.stats = frame
	return err
}

// evict drops obj from whichever set it is resident in. It reports whether
// batch membership changed.
func (v *PolygonVisualizer) evict(obj *scene.Object, frame *Stats) bool {
	id := obj.ID()
	if inst, ok := v.batch.Get(id); ok && inst.object == obj {
		v.batch.Delete(id)
		return true
	}
	if cur, ok := v.dynamic.Get(id); ok && cur == obj {
		v.dynamic.Delete(id)
		v.release(id, frame)
	}
	return false
}

// evictID drops whatever object is resident under id, so that an addition
// replaces a previous member with the same id.
func (v *PolygonVisualizer) evictID(id string, frame *Stats) bool {
	if v.batch.Delete(id) {
		return true
	}
	if v.dynamic.Delete(id) {
		v.release(id, frame)
	}
	return false
}

// admit classifies obj and makes it resident. It reports whether batch
// membership changed. Objects without polygon or geometry data are skipped.
func (v *PolygonVisualizer) admit(obj *scene.Object, t time.Time, frame *Stats) bool {
	if obj.Polygon == nil || !obj.HasGeometry() {
		frame.Skipped++
		return false
	}
	if batchable(obj) {
		inst, ok := newGeometryInstance(obj, t)
		if !ok {
			frame.Skipped++
			return false
		}
		v.batch.Set(obj.ID(), inst)
		return true
	}
	v.dynamic.Set(obj.ID(), obj)
	return false
}

// refreshStandalone binds, updates or releases the standalone primitive of
// every resident object that cannot be batched. An object whose polygon or
// geometry has been cleared in place keeps its class but loses its primitive
// until the data returns.
func (v *PolygonVisualizer) refreshStandalone(t time.Time, frame *Stats) {
	for _, obj := range v.dynamic.Values() {
		id := obj.ID()
		if obj.Polygon == nil || !obj.Visible(t) {
			v.release(id, frame)
			continue
		}
		positions, ok := obj.Vertices(t)
		if !ok {
			v.release(id, frame)
			continue
		}
		p, bound := v.standalone[id]
		if !bound {
			p = v.acquire(id, frame)
		}
		if err := p.SetPositions(positions); err != nil {
			v.release(id, frame)
			continue
		}
		p.Material = materialAt(obj.Polygon.Material, t)
		p.Show = true
	}
}

func (v *PolygonVisualizer) acquire(id string, frame *Stats) *render.PolygonPrimitive {
	p, ok := v.unused.pop()
	if ok {
		frame.Reused++
	} else {
		p = render.NewPolygonPrimitive()
		p.Asynchronous = false
		v.primitives.Add(p)
		frame.Acquired++
	}
	p.ObjectID = id
	v.standalone[id] = p
	return p
}

func (v *PolygonVisualizer) release(id string, frame *Stats) {
	p, ok := v.standalone[id]
	if !ok {
		return
	}
	delete(v.standalone, id)
	p.Show = false
	p.ObjectID = ""
	v.unused.push(p)
	frame.Released++
}

// rebuildBatch replaces the batch primitive with one built from the current
// batch set. Attribute slots of the old batch are dropped.
func (v *PolygonVisualizer) rebuildBatch(t time.Time, frame *Stats) error {
	if v.batchPrimitive != nil {
		v.primitives.Remove(v.batchPrimitive)
		v.batchPrimitive = nil
	}
	frame.Rebuilt = true
	frame.Rebuilds++

	if v.batch.Len() == 0 {
		v.logger.Debug("batch removed")
		return nil
	}

	instances := make([]*render.GeometryInstance, 0, v.batch.Len())
	for _, inst := range v.batch.Values() {
		inst.attributes = nil
		inst.evaluate(t)
		instances = append(instances, inst.renderInstance())
	}
	p, err := render.NewBatchPrimitive(render.BatchOptions{
		GeometryInstances: instances,
		Appearance:        render.PerInstanceColorAppearance{Translucent: true},
		Asynchronous:      false,
	})
	if err != nil {
		return fmt.Errorf("visualizer: rebuild batch: %w", err)
	}
	v.primitives.Add(p)
	v.batchPrimitive = p
	v.logger.Debug("batch rebuilt", "instances", len(instances), "time", t)
	return nil
}

// updateInstances writes time-varying color and show values into the live
// attribute slots of the current batch.
func (v *PolygonVisualizer) updateInstances(t time.Time, frame *Stats) error {
	if v.batchPrimitive == nil {
		return nil
	}
	for _, inst := range v.batch.Values() {
		if !inst.isDynamic() {
			continue
		}
		attrs, err := inst.resolve(v.batchPrimitive)
		if err != nil {
			return fmt.Errorf("visualizer: instance %q: %w", inst.object.ID(), err)
		}
		colorWritten, showWritten := inst.evaluate(t)
		if colorWritten {
			attrs.Color = inst.current.Color
			frame.ColorWrites++
		}
		if showWritten {
			attrs.Show = inst.current.Show
			frame.ShowWrites++
		}
	}
	return nil
}

// RemoveAllPrimitives drops pending changes and every primitive this
// visualizer created. It is safe to call repeatedly.
func (v *PolygonVisualizer) RemoveAllPrimitives() error {
	if v.destroyed {
		return ErrDestroyed
	}
	v.removeAll()
	return nil
}

func (v *PolygonVisualizer) removeAll() {
	v.changes.flush()

	if v.batchPrimitive != nil {
		v.primitives.Remove(v.batchPrimitive)
		v.batchPrimitive = nil
	}
	v.batch.Reset()

	for id, p := range v.standalone {
		v.primitives.Remove(p)
		delete(v.standalone, id)
	}
	for _, p := range v.unused.drain() {
		v.primitives.Remove(p)
	}
	v.dynamic.Reset()
}

// Destroy removes all primitives and detaches from the collection. Every
// later call except IsDestroyed returns ErrDestroyed.
func (v *PolygonVisualizer) Destroy() error {
	if v.destroyed {
		return ErrDestroyed
	}
	v.removeAll()
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	v.collection = nil
	v.destroyed = true
	return nil
}

func (v *PolygonVisualizer) IsDestroyed() bool { return v.destroyed }

// Stats describes the last Update.
func (v *PolygonVisualizer) Stats() Stats { return v.stats }

func (v *PolygonVisualizer) BatchPrimitive() *render.BatchPrimitive { return v.batchPrimitive }

// BatchIDs returns the batch members in batch order.
func (v *PolygonVisualizer) BatchIDs() []string {
	return append([]string(nil), v.batch.Keys()...)
}

// StandaloneIDs returns the ids bound to a standalone primitive, sorted.
func (v *PolygonVisualizer) StandaloneIDs() []string {
	ids := make([]string, 0, len(v.standalone))
	for id := range v.standalone {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StandalonePrimitive returns the primitive bound to id, if any.
func (v *PolygonVisualizer) StandalonePrimitive(id string) (*render.PolygonPrimitive, bool) {
	p, ok := v.standalone[id]
	return p, ok
}

// Pending reports how many additions and removals await the next Update.
func (v *PolygonVisualizer) Pending() (added, removed int) {
	return v.changes.added.len(), v.changes.removed.len()
}
