package visualizer

import (
	"errors"
	"time"

	"github.com/san-kum/dynscene/internal/scene"
)

// Visualizer keeps render primitives in step with a collection.
type Visualizer interface {
	Update(t time.Time) error
	SetCollection(c *scene.Collection) error
	RemoveAllPrimitives() error
	Destroy() error
	IsDestroyed() bool
	Stats() Stats
}

// Group drives several visualizers over the same collection.
type Group struct {
	collection  *scene.Collection
	visualizers []Visualizer
	destroyed   bool
}

func NewGroup(coll *scene.Collection, vs ...Visualizer) (*Group, error) {
	g := &Group{collection: coll}
	for _, v := range vs {
		if err := g.Add(v); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Add attaches v to the group's collection.
func (g *Group) Add(v Visualizer) error {
	if g.destroyed {
		return ErrDestroyed
	}
	if err := v.SetCollection(g.collection); err != nil {
		return err
	}
	g.visualizers = append(g.visualizers, v)
	return nil
}

func (g *Group) Len() int { return len(g.visualizers) }

func (g *Group) Collection() *scene.Collection { return g.collection }

// SetCollection re-targets every member.
func (g *Group) SetCollection(c *scene.Collection) error {
	if g.destroyed {
		return ErrDestroyed
	}
	g.collection = c
	var errs []error
	for _, v := range g.visualizers {
		errs = append(errs, v.SetCollection(c))
	}
	return errors.Join(errs...)
}

// Update runs every member for t, even if an earlier one fails.
func (g *Group) Update(t time.Time) error {
	if g.destroyed {
		return ErrDestroyed
	}
	if t.IsZero() {
		return ErrTimeRequired
	}
	var errs []error
	for _, v := range g.visualizers {
		errs = append(errs, v.Update(t))
	}
	return errors.Join(errs...)
}

func (g *Group) RemoveAllPrimitives() error {
	if g.destroyed {
		return ErrDestroyed
	}
	var errs []error
	for _, v := range g.visualizers {
		errs = append(errs, v.RemoveAllPrimitives())
	}
	return errors.Join(errs...)
}

// Destroy destroys every member and the group.
func (g *Group) Destroy() error {
	if g.destroyed {
		return ErrDestroyed
	}
	var errs []error
	for _, v := range g.visualizers {
		if !v.IsDestroyed() {
			errs = append(errs, v.Destroy())
		}
	}
	g.visualizers = nil
	g.destroyed = true
	return errors.Join(errs...)
}

func (g *Group) IsDestroyed() bool { return g.destroyed }

// Stats sums the last pass of every member.
func (g *Group) Stats() Stats {
	var s Stats
	for _, v := range g.visualizers {
		s = s.Add(v.Stats())
	}
	return s
}
