package timeprop

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(sec float64) time.Time {
	return epoch.Add(time.Duration(sec * float64(time.Second)))
}

func TestConstant(t *testing.T) {
	p := NewConstant(3.5)

	if !p.IsConstant() {
		t.Error("expected constant property")
	}
	if p.Kind() != Constant {
		t.Errorf("expected kind constant, got %s", p.Kind())
	}
	for _, sec := range []float64{-100, 0, 1e6} {
		v, ok := p.Value(at(sec))
		if !ok || v != 3.5 {
			t.Errorf("t=%v: expected 3.5, got %v (ok=%v)", sec, v, ok)
		}
	}
}

func TestSampledLinear(t *testing.T) {
	p := NewSampled(LerpFloat,
		Sample[float64]{Time: at(10), Value: 10},
		Sample[float64]{Time: at(0), Value: 0},
	)

	if p.IsConstant() {
		t.Error("sampled property must not be constant")
	}

	tests := []struct {
		sec     float64
		want    float64
		defined bool
	}{
		{-1, 0, false},
		{0, 0, true},
		{2.5, 2.5, true},
		{10, 10, true},
		{10.5, 0, false},
	}

	for _, tt := range tests {
		v, ok := p.Value(at(tt.sec))
		if ok != tt.defined {
			t.Errorf("t=%v: expected defined=%v, got %v", tt.sec, tt.defined, ok)
			continue
		}
		if ok && math.Abs(v-tt.want) > 1e-9 {
			t.Errorf("t=%v: expected %f, got %f", tt.sec, tt.want, v)
		}
	}
}

func TestSampledStepHoldsEarlierValue(t *testing.T) {
	p := NewSampled[bool](nil,
		Sample[bool]{Time: at(0), Value: true},
		Sample[bool]{Time: at(5), Value: false},
	)

	if v, _ := p.Value(at(4.99)); !v {
		t.Error("expected earlier sample to be held")
	}
	if v, _ := p.Value(at(5)); v {
		t.Error("expected sample at exact instant")
	}
}

func TestAddSampleReplacesSameInstant(t *testing.T) {
	p := NewSampled(LerpFloat)
	p.AddSample(at(1), 1)
	p.AddSample(at(0), 0)
	p.AddSample(at(1), 7)

	samples := p.Samples()
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1].Value != 7 {
		t.Errorf("expected replaced value 7, got %f", samples[1].Value)
	}
}

func TestAddSampleIgnoredOnConstant(t *testing.T) {
	p := NewConstant(1.0)
	p.AddSample(at(0), 2)

	if v, _ := p.Value(at(0)); v != 1 {
		t.Errorf("expected constant to stay 1, got %f", v)
	}
}

func TestCallback(t *testing.T) {
	p := NewCallback(func(tm time.Time) (float64, bool) {
		return tm.Sub(epoch).Seconds() * 2, true
	})

	if p.IsConstant() {
		t.Error("callback property must not be constant")
	}
	if v, _ := p.Value(at(3)); v != 6 {
		t.Errorf("expected 6, got %f", v)
	}
}

func TestValueOr(t *testing.T) {
	var missing *Property[float64]
	if v := ValueOr(missing, epoch, 9); v != 9 {
		t.Errorf("expected default for nil property, got %f", v)
	}

	empty := NewSampled(LerpFloat)
	if v := ValueOr(empty, epoch, 4); v != 4 {
		t.Errorf("expected default for undefined value, got %f", v)
	}
}

func TestIsDynamic(t *testing.T) {
	if IsDynamic[float64](nil) {
		t.Error("nil property is not dynamic")
	}
	if IsDynamic(NewConstant(1.0)) {
		t.Error("constant property is not dynamic")
	}
	if !IsDynamic(NewSampled(LerpFloat)) {
		t.Error("sampled property is dynamic")
	}
}

func TestLerpVec3Slice(t *testing.T) {
	a := []mgl64.Vec3{{0, 0, 0}, {2, 2, 2}}
	b := []mgl64.Vec3{{2, 0, 0}, {4, 2, 2}}

	got := LerpVec3Slice(a, b, 0.5)
	if !got[0].ApproxEqual(mgl64.Vec3{1, 0, 0}) || !got[1].ApproxEqual(mgl64.Vec3{3, 2, 2}) {
		t.Errorf("unexpected blend: %v", got)
	}

	short := LerpVec3Slice(a, b[:1], 0.5)
	if len(short) != 2 {
		t.Error("expected earlier list to be held on length mismatch")
	}
}
