package visualizer_test

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynscene/internal/render"
	"github.com/san-kum/dynscene/internal/scene"
	"github.com/san-kum/dynscene/internal/timeprop"
	"github.com/san-kum/dynscene/internal/visualizer"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sec(s float64) time.Time {
	return t0.Add(time.Duration(s * float64(time.Second)))
}

func squareAt(x float64) []mgl64.Vec3 {
	return []mgl64.Vec3{{x, 0, 0}, {x + 1, 0, 0}, {x + 1, 1, 0}, {x, 1, 0}}
}

func red() scene.Color  { return scene.NewColor(1, 0, 0, 1) }
func blue() scene.Color { return scene.NewColor(0, 0, 1, 1) }

// constantSquare is batchable: constant geometry, constant uniform color.
func constantSquare(id string, x float64, c scene.Color) *scene.Object {
	o := scene.NewObject(id)
	o.VertexPositions = timeprop.NewConstant(squareAt(x))
	o.Polygon = &scene.Polygon{Material: &scene.ColorMaterial{Color: timeprop.NewConstant(c)}}
	return o
}

// pulsingSquare is batchable with a color that changes every frame.
func pulsingSquare(id string, x float64) *scene.Object {
	o := scene.NewObject(id)
	o.VertexPositions = timeprop.NewConstant(squareAt(x))
	o.Polygon = &scene.Polygon{Material: &scene.ColorMaterial{
		Color: timeprop.NewSampled(scene.LerpColor,
			timeprop.Sample[scene.Color]{Time: sec(0), Value: red()},
			timeprop.Sample[scene.Color]{Time: sec(10), Value: blue()},
		),
	}}
	return o
}

// movingSquare cannot be batched: its vertices are sampled.
func movingSquare(id string) *scene.Object {
	o := scene.NewObject(id)
	o.VertexPositions = timeprop.NewSampled(timeprop.LerpVec3Slice,
		timeprop.Sample[[]mgl64.Vec3]{Time: sec(0), Value: squareAt(0)},
		timeprop.Sample[[]mgl64.Vec3]{Time: sec(10), Value: squareAt(10)},
	)
	o.Polygon = &scene.Polygon{}
	return o
}

func attributesOf(v *visualizer.PolygonVisualizer, id string) render.InstanceAttributes {
	attrs, err := v.BatchPrimitive().GeometryInstanceAttributes(id)
	Expect(err).NotTo(HaveOccurred())
	return *attrs
}

var _ = Describe("PolygonVisualizer", func() {
	var (
		sc   *render.HeadlessScene
		coll *scene.Collection
		vis  *visualizer.PolygonVisualizer
	)

	BeforeEach(func() {
		sc = render.NewScene()
		coll = scene.NewCollection()
		var err error
		vis, err = visualizer.NewPolygonVisualizer(sc, coll)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("arguments", func() {
		It("requires a scene", func() {
			_, err := visualizer.NewPolygonVisualizer(nil, coll)
			Expect(err).To(MatchError(visualizer.ErrSceneRequired))
		})

		It("requires a time", func() {
			Expect(vis.Update(time.Time{})).To(MatchError(visualizer.ErrTimeRequired))
		})
	})

	Describe("batching", func() {
		var a, b *scene.Object

		BeforeEach(func() {
			a = constantSquare("A", 0, red())
			b = pulsingSquare("B", 2)
			Expect(coll.Add(a)).To(Succeed())
			Expect(coll.Add(b)).To(Succeed())
			Expect(vis.Update(sec(0))).To(Succeed())
		})

		It("puts constant and color-varying squares in one batch", func() {
			Expect(vis.BatchIDs()).To(Equal([]string{"A", "B"}))
			Expect(vis.StandaloneIDs()).To(BeEmpty())
			Expect(vis.Stats().Rebuilt).To(BeTrue())
			Expect(sc.Primitives().Contains(vis.BatchPrimitive())).To(BeTrue())
			Expect(attributesOf(vis, "A").Color).To(Equal(red().Bytes()))
			Expect(attributesOf(vis, "B").Color).To(Equal(red().Bytes()))
		})

		It("rewrites only the varying color on the next frame", func() {
			before := vis.BatchPrimitive()

			Expect(vis.Update(sec(10))).To(Succeed())

			Expect(vis.BatchPrimitive()).To(BeIdenticalTo(before))
			stats := vis.Stats()
			Expect(stats.Rebuilt).To(BeFalse())
			Expect(stats.Rebuilds).To(Equal(1))
			Expect(stats.ColorWrites).To(Equal(1))
			Expect(stats.ShowWrites).To(Equal(0))
			Expect(attributesOf(vis, "B").Color).To(Equal(blue().Bytes()))
			Expect(attributesOf(vis, "A").Color).To(Equal(red().Bytes()))
		})

		It("keeps the last color when the property is undefined", func() {
			Expect(vis.Update(sec(5))).To(Succeed())
			mid := attributesOf(vis, "B").Color

			Expect(vis.Update(sec(60))).To(Succeed())

			Expect(vis.Stats().ColorWrites).To(Equal(0))
			Expect(attributesOf(vis, "B").Color).To(Equal(mid))
		})

		It("rebuilds exactly once when a member is removed", func() {
			Expect(coll.Remove(a)).To(BeTrue())
			Expect(vis.Update(sec(1))).To(Succeed())

			Expect(vis.BatchIDs()).To(Equal([]string{"B"}))
			Expect(vis.Stats().Rebuilt).To(BeTrue())
			Expect(vis.Stats().Rebuilds).To(Equal(2))
			Expect(sc.Primitives().Len()).To(Equal(1))

			Expect(vis.Update(sec(2))).To(Succeed())
			Expect(vis.Stats().Rebuilt).To(BeFalse())
			Expect(vis.Stats().Rebuilds).To(Equal(2))
		})

		It("drops the batch primitive when the batch empties", func() {
			old := vis.BatchPrimitive()
			coll.RemoveAll()
			Expect(vis.Update(sec(1))).To(Succeed())

			Expect(vis.BatchPrimitive()).To(BeNil())
			Expect(old.IsDestroyed()).To(BeTrue())
			Expect(sc.Primitives().Len()).To(Equal(0))
		})

		It("re-resolves attribute slots after a rebuild", func() {
			Expect(coll.Add(constantSquare("C", 4, blue()))).To(Succeed())
			Expect(vis.Update(sec(1))).To(Succeed())
			Expect(vis.Update(sec(10))).To(Succeed())

			Expect(vis.Stats().Rebuilt).To(BeFalse())
			Expect(attributesOf(vis, "B").Color).To(Equal(blue().Bytes()))
		})

		It("ignores add-then-remove between updates", func() {
			c := constantSquare("C", 4, blue())
			Expect(coll.Add(c)).To(Succeed())
			Expect(coll.Remove(c)).To(BeTrue())
			added, removed := vis.Pending()
			Expect(added).To(BeZero())
			Expect(removed).To(BeZero())

			Expect(vis.Update(sec(1))).To(Succeed())
			Expect(vis.Stats().Rebuilt).To(BeFalse())
			Expect(vis.BatchIDs()).To(Equal([]string{"A", "B"}))
		})

		It("ignores remove-then-add of a resident object", func() {
			Expect(coll.Remove(a)).To(BeTrue())
			Expect(coll.Add(a)).To(Succeed())

			Expect(vis.Update(sec(1))).To(Succeed())
			Expect(vis.Stats().Rebuilt).To(BeFalse())
			Expect(vis.BatchIDs()).To(ConsistOf("A", "B"))
		})

		It("replaces a member re-added under the same id", func() {
			Expect(coll.Remove(a)).To(BeTrue())
			Expect(coll.Add(constantSquare("A", 8, blue()))).To(Succeed())

			Expect(vis.Update(sec(1))).To(Succeed())
			Expect(vis.Stats().Rebuilt).To(BeTrue())
			Expect(attributesOf(vis, "A").Color).To(Equal(blue().Bytes()))
		})
	})

	Describe("visibility", func() {
		It("follows the availability window without a show property", func() {
			o := constantSquare("A", 0, red())
			o.Availability = &timeprop.Interval{Start: sec(10), Stop: sec(20)}
			Expect(coll.Add(o)).To(Succeed())

			Expect(vis.Update(sec(5))).To(Succeed())
			Expect(attributesOf(vis, "A").Show).To(BeFalse())

			for _, tc := range []struct {
				at   float64
				want bool
			}{{10, true}, {15, true}, {19.999, true}, {20, false}, {9, false}} {
				Expect(vis.Update(sec(tc.at))).To(Succeed())
				Expect(attributesOf(vis, "A").Show).To(Equal(tc.want), "t=%v", tc.at)
			}
			Expect(vis.Stats().Rebuilds).To(Equal(1))
		})

		It("combines availability with a sampled show property", func() {
			o := constantSquare("A", 0, red())
			o.Polygon.Show = timeprop.NewSampled[bool](nil,
				timeprop.Sample[bool]{Time: sec(0), Value: true},
				timeprop.Sample[bool]{Time: sec(5), Value: false},
				timeprop.Sample[bool]{Time: sec(100), Value: false},
			)
			Expect(coll.Add(o)).To(Succeed())

			Expect(vis.Update(sec(1))).To(Succeed())
			Expect(attributesOf(vis, "A").Show).To(BeTrue())

			Expect(vis.Update(sec(6))).To(Succeed())
			Expect(attributesOf(vis, "A").Show).To(BeFalse())
			Expect(vis.Stats().ShowWrites).To(Equal(1))
		})

		It("never writes attributes of fully constant members", func() {
			Expect(coll.Add(constantSquare("A", 0, red()))).To(Succeed())
			Expect(vis.Update(sec(0))).To(Succeed())
			Expect(vis.Update(sec(1))).To(Succeed())

			Expect(vis.Stats().ColorWrites).To(Equal(0))
			Expect(vis.Stats().ShowWrites).To(Equal(0))
		})
	})

	Describe("classification", func() {
		It("gives sampled geometry a standalone primitive", func() {
			Expect(coll.Add(movingSquare("M"))).To(Succeed())
			Expect(vis.Update(sec(5))).To(Succeed())

			Expect(vis.BatchIDs()).To(BeEmpty())
			Expect(vis.BatchPrimitive()).To(BeNil())
			Expect(vis.StandaloneIDs()).To(Equal([]string{"M"}))

			p, ok := vis.StandalonePrimitive("M")
			Expect(ok).To(BeTrue())
			Expect(p.Show).To(BeTrue())
			Expect(p.ObjectID).To(Equal("M"))
			Expect(p.Geometry().Positions[0]).To(Equal(mgl64.Vec3{5, 0, 0}))
		})

		It("follows standalone geometry every frame", func() {
			Expect(coll.Add(movingSquare("M"))).To(Succeed())
			Expect(vis.Update(sec(0))).To(Succeed())
			Expect(vis.Update(sec(10))).To(Succeed())

			p, _ := vis.StandalonePrimitive("M")
			Expect(p.Geometry().Positions[0]).To(Equal(mgl64.Vec3{10, 0, 0}))
			Expect(p.GeometryUpdates()).To(Equal(2))
		})

		It("gives non-uniform materials a standalone primitive", func() {
			o := scene.NewObject("I")
			o.VertexPositions = timeprop.NewConstant(squareAt(0))
			o.Polygon = &scene.Polygon{Material: &scene.ImageMaterial{Image: "tile.png"}}
			Expect(coll.Add(o)).To(Succeed())
			Expect(vis.Update(sec(0))).To(Succeed())

			Expect(vis.StandaloneIDs()).To(Equal([]string{"I"}))
			p, _ := vis.StandalonePrimitive("I")
			Expect(p.Material.Type).To(Equal(render.MaterialImage))
			Expect(p.Material.Image).To(Equal("tile.png"))
		})

		It("batches a polygon without material as opaque white", func() {
			o := scene.NewObject("W")
			o.VertexPositions = timeprop.NewConstant(squareAt(0))
			o.Polygon = &scene.Polygon{}
			Expect(coll.Add(o)).To(Succeed())
			Expect(vis.Update(sec(0))).To(Succeed())

			Expect(attributesOf(vis, "W").Color).To(Equal([4]uint8{255, 255, 255, 255}))
		})

		It("batches constant ellipses", func() {
			o := scene.NewObject("E")
			o.Position = timeprop.NewConstant(mgl64.Vec3{0, 0, 100})
			o.Ellipse = &scene.Ellipse{
				SemiMajorAxis: timeprop.NewConstant(3.0),
				SemiMinorAxis: timeprop.NewConstant(2.0),
			}
			o.Polygon = &scene.Polygon{}
			Expect(coll.Add(o)).To(Succeed())
			Expect(vis.Update(sec(0))).To(Succeed())

			Expect(vis.BatchIDs()).To(Equal([]string{"E"}))
		})

		It("skips objects without polygon data", func() {
			bare := scene.NewObject("bare")
			noGeometry := scene.NewObject("nogeo")
			noGeometry.Polygon = &scene.Polygon{}
			Expect(coll.Add(bare)).To(Succeed())
			Expect(coll.Add(noGeometry)).To(Succeed())

			Expect(vis.Update(sec(0))).To(Succeed())
			Expect(vis.Stats().Skipped).To(Equal(2))
			Expect(sc.Primitives().Len()).To(Equal(0))
		})

		It("does not allocate for an invisible standalone object", func() {
			o := movingSquare("M")
			o.Availability = &timeprop.Interval{Start: sec(50), Stop: sec(60)}
			Expect(coll.Add(o)).To(Succeed())

			Expect(vis.Update(sec(1))).To(Succeed())
			Expect(vis.StandaloneIDs()).To(BeEmpty())
			Expect(vis.Stats().Acquired).To(Equal(0))
		})

		It("keeps a batch member's class when its material is swapped in place", func() {
			a := constantSquare("A", 0, red())
			Expect(coll.Add(a)).To(Succeed())
			Expect(coll.Add(pulsingSquare("B", 2))).To(Succeed())
			Expect(vis.Update(sec(0))).To(Succeed())
			batch := vis.BatchPrimitive()

			a.Polygon.Material = &scene.ImageMaterial{Image: "tile.png"}
			Expect(vis.Update(sec(1))).To(Succeed())

			Expect(vis.BatchIDs()).To(Equal([]string{"A", "B"}))
			Expect(vis.BatchPrimitive()).To(BeIdenticalTo(batch))
			Expect(vis.Stats().Rebuilt).To(BeFalse())
			Expect(vis.StandaloneIDs()).To(BeEmpty())

			Expect(coll.Remove(a)).To(BeTrue())
			Expect(vis.Update(sec(2))).To(Succeed())
			Expect(vis.BatchIDs()).To(Equal([]string{"B"}))
			Expect(vis.Stats().Rebuilt).To(BeTrue())

			Expect(coll.Add(a)).To(Succeed())
			Expect(vis.Update(sec(3))).To(Succeed())

			Expect(vis.BatchIDs()).To(Equal([]string{"B"}))
			Expect(vis.StandaloneIDs()).To(Equal([]string{"A"}))
			Expect(vis.Stats().Rebuilt).To(BeFalse())
		})
	})

	Describe("standalone reuse", func() {
		It("hands a released primitive to the next object", func() {
			first := movingSquare("M1")
			first.Availability = &timeprop.Interval{Start: sec(0), Stop: sec(5)}
			Expect(coll.Add(first)).To(Succeed())
			Expect(vis.Update(sec(1))).To(Succeed())
			released, _ := vis.StandalonePrimitive("M1")

			Expect(vis.Update(sec(6))).To(Succeed())
			Expect(vis.StandaloneIDs()).To(BeEmpty())
			Expect(released.Show).To(BeFalse())
			Expect(vis.Stats().Released).To(Equal(1))
			Expect(vis.Stats().Unused).To(Equal(1))

			Expect(coll.Add(movingSquare("M2"))).To(Succeed())
			Expect(vis.Update(sec(7))).To(Succeed())

			reused, ok := vis.StandalonePrimitive("M2")
			Expect(ok).To(BeTrue())
			Expect(reused).To(BeIdenticalTo(released))
			Expect(reused.Show).To(BeTrue())
			Expect(vis.Stats().Reused).To(Equal(1))
			Expect(vis.Stats().Acquired).To(Equal(0))
			Expect(sc.Primitives().Len()).To(Equal(1))
		})

		It("releases the primitive of a removed object", func() {
			m := movingSquare("M")
			Expect(coll.Add(m)).To(Succeed())
			Expect(vis.Update(sec(1))).To(Succeed())
			p, _ := vis.StandalonePrimitive("M")

			Expect(coll.Remove(m)).To(BeTrue())
			Expect(vis.Update(sec(2))).To(Succeed())

			Expect(vis.StandaloneIDs()).To(BeEmpty())
			Expect(p.Show).To(BeFalse())
			Expect(p.IsDestroyed()).To(BeFalse())
			Expect(vis.Stats().Rebuilt).To(BeFalse())
		})

		It("releases a standalone primitive whose polygon bundle is cleared", func() {
			m := movingSquare("M")
			Expect(coll.Add(m)).To(Succeed())
			Expect(vis.Update(sec(1))).To(Succeed())
			p, _ := vis.StandalonePrimitive("M")

			bundle := m.Polygon
			m.Polygon = nil
			Expect(vis.Update(sec(2))).To(Succeed())

			Expect(vis.StandaloneIDs()).To(BeEmpty())
			Expect(p.Show).To(BeFalse())
			Expect(vis.Stats().Released).To(Equal(1))
			Expect(vis.Stats().Unused).To(Equal(1))

			m.Polygon = bundle
			Expect(vis.Update(sec(3))).To(Succeed())

			again, ok := vis.StandalonePrimitive("M")
			Expect(ok).To(BeTrue())
			Expect(again).To(BeIdenticalTo(p))
			Expect(again.Show).To(BeTrue())
			Expect(vis.Stats().Reused).To(Equal(1))
		})

		It("hides a standalone object whose vertices are cleared", func() {
			m := movingSquare("M")
			Expect(coll.Add(m)).To(Succeed())
			Expect(vis.Update(sec(1))).To(Succeed())
			p, _ := vis.StandalonePrimitive("M")

			m.VertexPositions = nil
			Expect(vis.Update(sec(2))).To(Succeed())

			Expect(vis.StandaloneIDs()).To(BeEmpty())
			Expect(p.Show).To(BeFalse())
			Expect(p.IsDestroyed()).To(BeFalse())
			Expect(vis.Stats().Unused).To(Equal(1))
			Expect(sc.Primitives().Len()).To(Equal(1))
		})
	})

	Describe("teardown", func() {
		BeforeEach(func() {
			Expect(coll.Add(constantSquare("A", 0, red()))).To(Succeed())
			Expect(coll.Add(movingSquare("M"))).To(Succeed())
			Expect(vis.Update(sec(1))).To(Succeed())
			Expect(sc.Primitives().Len()).To(Equal(2))
		})

		It("removes every primitive and is idempotent", func() {
			Expect(vis.RemoveAllPrimitives()).To(Succeed())
			Expect(vis.RemoveAllPrimitives()).To(Succeed())

			Expect(sc.Primitives().Len()).To(Equal(0))
			Expect(vis.BatchPrimitive()).To(BeNil())
			Expect(vis.BatchIDs()).To(BeEmpty())
			Expect(vis.StandaloneIDs()).To(BeEmpty())
		})

		It("fails every call after destroy", func() {
			Expect(vis.Destroy()).To(Succeed())

			Expect(vis.IsDestroyed()).To(BeTrue())
			Expect(coll.Subscribers()).To(Equal(0))
			Expect(sc.Primitives().Len()).To(Equal(0))
			Expect(vis.Update(sec(2))).To(MatchError(visualizer.ErrDestroyed))
			Expect(vis.RemoveAllPrimitives()).To(MatchError(visualizer.ErrDestroyed))
			Expect(vis.SetCollection(coll)).To(MatchError(visualizer.ErrDestroyed))
			Expect(vis.Destroy()).To(MatchError(visualizer.ErrDestroyed))
		})

		It("moves to a new collection", func() {
			other := scene.NewCollection()
			Expect(other.Add(constantSquare("Z", 0, blue()))).To(Succeed())

			Expect(vis.SetCollection(other)).To(Succeed())
			Expect(sc.Primitives().Len()).To(Equal(0))
			Expect(coll.Subscribers()).To(Equal(0))

			Expect(vis.Update(sec(2))).To(Succeed())
			Expect(vis.BatchIDs()).To(Equal([]string{"Z"}))
		})
	})
})

var _ = Describe("Group", func() {
	It("updates and destroys its members together", func() {
		sc := render.NewScene()
		coll := scene.NewCollection()
		Expect(coll.Add(constantSquare("A", 0, red()))).To(Succeed())

		first, err := visualizer.NewPolygonVisualizer(sc, nil)
		Expect(err).NotTo(HaveOccurred())
		second, err := visualizer.NewPolygonVisualizer(sc, nil)
		Expect(err).NotTo(HaveOccurred())

		g, err := visualizer.NewGroup(coll, first, second)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Len()).To(Equal(2))

		Expect(g.Update(time.Time{})).To(MatchError(visualizer.ErrTimeRequired))
		Expect(g.Update(sec(0))).To(Succeed())
		Expect(g.Stats().Batched).To(Equal(2))
		Expect(sc.Primitives().Len()).To(Equal(2))

		Expect(g.Destroy()).To(Succeed())
		Expect(first.IsDestroyed()).To(BeTrue())
		Expect(second.IsDestroyed()).To(BeTrue())
		Expect(sc.Primitives().Len()).To(Equal(0))
		Expect(g.Update(sec(1))).To(MatchError(visualizer.ErrDestroyed))
	})
})
