package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/dynscene/internal/metrics"
	"github.com/san-kum/dynscene/internal/render"
	"github.com/san-kum/dynscene/internal/scene"
	"github.com/san-kum/dynscene/internal/sim"
	"github.com/san-kum/dynscene/internal/visualizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinsParseAndBuild(t *testing.T) {
	names := Names()
	assert.Equal(t, []string{"churn", "ellipses", "pulse", "squares"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := Builtin(name)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name)

			b, err := s.Build()
			require.NoError(t, err)
			assert.Len(t, b.Objects, len(s.Objects))
			assert.Len(t, b.Events, len(s.Events))
			assert.False(t, b.Start.IsZero())
		})
	}
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("nope")
	assert.ErrorContains(t, err, "unknown scenario: nope")
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"missing name", "objects: [{id: a}]", ErrNoName},
		{"no objects", "name: x", ErrNoObjects},
		{"duplicate id", "name: x\nobjects: [{id: a}, {id: a}]", ErrDuplicateID},
		{"unknown event id", "name: x\nobjects: [{id: a}]\nevents: [{at: 1, add: [b]}]", ErrUnknownID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := Parse([]byte("name: x\nobjects: [{id: a, material: {type: marble}}]"))
	assert.ErrorContains(t, err, "unknown material")

	_, err = Parse([]byte("name: x\nobjects: [{id: a, available: [1]}]"))
	assert.ErrorContains(t, err, "available needs")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.yaml")
	doc := `
name: one
start: 2026-02-03T04:05:06Z
objects:
  - id: a
    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	s, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC), s.Start.UTC())
	assert.Equal(t, 7*time.Second, s.RunDuration(7*time.Second))
}

func TestBuildObjects(t *testing.T) {
	s, err := Builtin("pulse")
	require.NoError(t, err)
	b, err := s.Build()
	require.NoError(t, err)

	beacon := b.Objects["beacon"]
	require.NotNil(t, beacon)
	assert.True(t, beacon.ConstantGeometry())
	cm, ok := beacon.Polygon.Material.(*scene.ColorMaterial)
	require.True(t, ok)
	assert.False(t, cm.Color.IsConstant())

	verts, ok := beacon.Vertices(b.Start)
	require.True(t, ok)
	assert.Equal(t, 6378137.0, verts[0].Z())

	visitor := b.Objects["visitor"]
	assert.False(t, visitor.IsAvailable(b.Start.Add(4*time.Second)))
	assert.True(t, visitor.IsAvailable(b.Start.Add(5*time.Second)))
	assert.False(t, visitor.IsAvailable(b.Start.Add(15*time.Second)))

	assert.Nil(t, b.Objects["anchor"].Polygon.Material)
	assert.Equal(t, 20*time.Second, b.Duration)
}

func TestBuildDeferredAndEvents(t *testing.T) {
	s, err := Builtin("churn")
	require.NoError(t, err)
	b, err := s.Build()
	require.NoError(t, err)

	assert.Equal(t, 2, b.Collection.Len())
	_, ok := b.Collection.ByID("marker")
	assert.False(t, ok)

	require.NoError(t, b.Events[0].Apply())
	_, ok = b.Collection.ByID("marker")
	assert.True(t, ok)

	// re-adding a present object is a no-op
	require.NoError(t, b.Events[0].Apply())
	assert.Equal(t, 3, b.Collection.Len())
}

func TestChurnReusesPrimitives(t *testing.T) {
	s, err := Builtin("churn")
	require.NoError(t, err)
	b, err := s.Build()
	require.NoError(t, err)

	sc := render.NewScene()
	vis, err := visualizer.NewPolygonVisualizer(sc, b.Collection)
	require.NoError(t, err)

	p := sim.New(vis, nil)
	p.Schedule(b.Events...)
	for _, m := range metrics.Default() {
		p.AddMetric(m)
	}

	result, err := p.Run(context.Background(), b.Start, sim.Config{Step: time.Second, Duration: b.Duration})
	require.NoError(t, err)

	assert.Len(t, result.Frames, 31)
	assert.Equal(t, len(b.Events), result.EventsApplied)
	assert.Equal(t, 4.0, result.Metrics["rebuilds"])
	assert.Equal(t, 2.0, result.Metrics["peak_standalone"])
	assert.InDelta(t, 1.0/3.0, result.Metrics["reuse_ratio"], 1e-12)

	last := result.Last().Stats
	assert.Equal(t, 2, last.Batched)
	assert.Equal(t, 0, last.Standalone)
	assert.Equal(t, 2, last.Unused)
	assert.Equal(t, 3, sc.Primitives().Len())
}

func TestRandom(t *testing.T) {
	s, err := Random(RandomConfig{Objects: 20, Duration: 10, Moving: 0.5, Churn: 6, Seed: 7})
	require.NoError(t, err)
	assert.Len(t, s.Objects, 20)
	assert.Len(t, s.Events, 6)

	again, err := Random(RandomConfig{Objects: 20, Duration: 10, Moving: 0.5, Churn: 6, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, s, again)

	b, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, 20, b.Collection.Len())

	_, err = Random(RandomConfig{})
	assert.ErrorIs(t, err, ErrNoObjects)
}
