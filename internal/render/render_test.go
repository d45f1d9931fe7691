package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}

func TestPolygonFromPositions(t *testing.T) {
	g, err := PolygonFromPositions(square)
	require.NoError(t, err)

	assert.Equal(t, 2, g.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, g.Indices)
	assert.True(t, g.Normal.ApproxEqual(mgl64.Vec3{0, 0, 1}))
	assert.True(t, g.Center.ApproxEqual(mgl64.Vec3{0.5, 0.5, 0}))

	min, max := g.Bounds()
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, min)
	assert.Equal(t, mgl64.Vec3{1, 1, 0}, max)
}

func TestPolygonFromPositionsDropsClosingVertex(t *testing.T) {
	closed := append(append([]mgl64.Vec3(nil), square...), square[0])
	g, err := PolygonFromPositions(closed)
	require.NoError(t, err)
	assert.Len(t, g.Positions, 4)
}

func TestPolygonFromPositionsTooFew(t *testing.T) {
	_, err := PolygonFromPositions(square[:2])
	assert.ErrorIs(t, err, ErrTooFewPositions)
}

func TestBatchPrimitiveAttributes(t *testing.T) {
	g, err := PolygonFromPositions(square)
	require.NoError(t, err)

	p, err := NewBatchPrimitive(BatchOptions{
		GeometryInstances: []*GeometryInstance{
			{ID: "a", Geometry: g, Attributes: InstanceAttributes{Color: [4]uint8{255, 0, 0, 255}, Show: true}},
			{ID: "b", Geometry: g, Attributes: InstanceAttributes{Show: false}},
		},
		Appearance: PerInstanceColorAppearance{Translucent: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.IDs())
	assert.False(t, p.Asynchronous())

	attrs, err := p.GeometryInstanceAttributes("b")
	require.NoError(t, err)
	attrs.Show = true
	attrs.Color = [4]uint8{0, 0, 255, 255}

	seen := map[string]InstanceAttributes{}
	p.Each(func(id string, _ *PolygonGeometry, a InstanceAttributes) { seen[id] = a })
	assert.True(t, seen["b"].Show, "writes through the slot are live")
	assert.Equal(t, [4]uint8{0, 0, 255, 255}, seen["b"].Color)

	_, err = p.GeometryInstanceAttributes("missing")
	assert.ErrorIs(t, err, ErrUnknownInstance)

	p.Destroy()
	_, err = p.GeometryInstanceAttributes("a")
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestBatchPrimitiveRejectsBadInput(t *testing.T) {
	_, err := NewBatchPrimitive(BatchOptions{})
	assert.ErrorIs(t, err, ErrNoInstances)

	g, _ := PolygonFromPositions(square)
	_, err = NewBatchPrimitive(BatchOptions{GeometryInstances: []*GeometryInstance{
		{ID: "a", Geometry: g}, {ID: "a", Geometry: g},
	}})
	assert.Error(t, err)
}

func TestPolygonPrimitiveSkipsUnchangedPositions(t *testing.T) {
	p := NewPolygonPrimitive()
	require.NoError(t, p.SetPositions(square))
	require.NoError(t, p.SetPositions(append([]mgl64.Vec3(nil), square...)))
	assert.Equal(t, 1, p.GeometryUpdates())

	moved := []mgl64.Vec3{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}}
	require.NoError(t, p.SetPositions(moved))
	assert.Equal(t, 2, p.GeometryUpdates())
	assert.Equal(t, 1, p.Geometry().TriangleCount())

	p.Destroy()
	assert.ErrorIs(t, p.SetPositions(square), ErrDestroyed)
}

func TestPrimitiveCollection(t *testing.T) {
	c := NewScene().Primitives()
	a, b := NewPolygonPrimitive(), NewPolygonPrimitive()

	c.Add(a)
	c.Add(a)
	c.Add(b)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Adds())

	assert.True(t, c.Remove(a))
	assert.True(t, a.IsDestroyed(), "remove destroys")
	assert.False(t, c.Remove(a))

	c.RemoveAll()
	assert.Equal(t, 0, c.Len())
	assert.True(t, b.IsDestroyed())
	assert.Equal(t, 2, c.Removes())
}
