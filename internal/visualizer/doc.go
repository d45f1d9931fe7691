// Package visualizer reconciles scene objects with render primitives.
//
// A visualizer subscribes to a scene.Collection and buffers its change
// events. Each call to Update(t) then:
//
//  1. applies buffered removals, then buffered additions
//  2. classifies each added object as batchable (constant geometry, uniform
//     color material) or standalone
//  3. rebuilds the batch primitive if, and only if, batch membership changed
//  4. otherwise writes time-varying color and show values into the batch's
//     per-instance attribute slots
//
// Standalone primitives are hidden and kept on a free list when their object
// goes away or becomes invisible, and handed out again before new ones are
// allocated.
//
// # Example
//
//	s := render.NewScene()
//	v, _ := visualizer.NewPolygonVisualizer(s, coll)
//	for t := start; t.Before(stop); t = t.Add(step) {
//		if err := v.Update(t); err != nil {
//			return err
//		}
//	}
//	v.Destroy()
//
// # Thread Safety
//
// Visualizers are NOT thread-safe. Collection events and Update calls must
// come from the same frame loop.
package visualizer
