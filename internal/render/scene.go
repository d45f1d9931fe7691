package render

// Scene is the drawing target a visualizer registers its primitives with.
type Scene interface {
	Primitives() *PrimitiveCollection
}

// HeadlessScene keeps primitives in memory without drawing them. It backs
// the CLI, the live terminal view and tests.
type HeadlessScene struct {
	primitives *PrimitiveCollection
}

func NewScene() *HeadlessScene {
	return &HeadlessScene{primitives: NewPrimitiveCollection()}
}

func (s *HeadlessScene) Primitives() *PrimitiveCollection { return s.primitives }

// PrimitiveCollection is the ordered list of primitives to draw.
type PrimitiveCollection struct {
	items   []Primitive
	adds    int
	removes int
}

func NewPrimitiveCollection() *PrimitiveCollection {
	return &PrimitiveCollection{}
}

// Add appends p. Adding a primitive that is already present is a no-op.
func (c *PrimitiveCollection) Add(p Primitive) {
	if p == nil || c.Contains(p) {
		return
	}
	c.items = append(c.items, p)
	c.adds++
}

// Remove drops p from the collection and destroys it.
func (c *PrimitiveCollection) Remove(p Primitive) bool {
	for i, item := range c.items {
		if item == p {
			c.items = append(c.items[:i], c.items[i+1:]...)
			p.Destroy()
			c.removes++
			return true
		}
	}
	return false
}

func (c *PrimitiveCollection) Contains(p Primitive) bool {
	for _, item := range c.items {
		if item == p {
			return true
		}
	}
	return false
}

// RemoveAll destroys every primitive.
func (c *PrimitiveCollection) RemoveAll() {
	for _, item := range c.items {
		item.Destroy()
		c.removes++
	}
	c.items = nil
}

func (c *PrimitiveCollection) Len() int { return len(c.items) }

func (c *PrimitiveCollection) Primitives() []Primitive {
	return append([]Primitive(nil), c.items...)
}

// Adds and Removes count calls that changed the collection.
func (c *PrimitiveCollection) Adds() int    { return c.adds }
func (c *PrimitiveCollection) Removes() int { return c.removes }
