// Package scene holds the objects being visualized.
//
// An [Object] is identified by an immutable id and carries optional
// attribute bundles (position, vertex positions, polygon, ellipse), each made
// of time-sampled properties from package timeprop. A [Collection] is the
// observable set of objects: every mutation batch is reported once to each
// subscriber as net added and removed lists.
//
//	coll := scene.NewCollection()
//	unsubscribe := coll.Subscribe(func(c *scene.Collection, added, removed []*scene.Object) {
//		// bookkeeping only
//	})
//	defer unsubscribe()
//
// Collections and objects are not safe for concurrent use; they are owned by
// the frame loop.
package scene
