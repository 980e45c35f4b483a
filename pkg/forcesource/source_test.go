package forcesource

import "testing"

type fakeReader struct {
	batches [][]Sample
	i       int
}

func (f *fakeReader) Read() ([]Sample, error) {
	if f.i >= len(f.batches) {
		return nil, nil
	}
	b := f.batches[f.i]
	f.i++
	return b, nil
}

func TestForceChangedDedup(t *testing.T) {
	src := &buffered{reader: &fakeReader{}, tolerance: defaultForceTolerance}
	if !src.ForceChanged(1.23) {
		t.Fatal("first call should report changed")
	}
	if src.ForceChanged(1.23) {
		t.Fatal("second call with same rounded value should not report changed")
	}
	if !src.ForceChanged(1.30) {
		t.Fatal("differing rounded value should report changed")
	}
}

func TestReadyBecomesTrueAfterFirstBatch(t *testing.T) {
	r := &fakeReader{batches: [][]Sample{{{Values: [6]float64{1, 2, 3, 4, 5, 6}}}}}
	src := NewSixAxis(r)
	if src.Ready() {
		t.Fatal("should not be ready before first UpdateBuffer")
	}
	src.UpdateBuffer()
	if !src.Ready() {
		t.Fatal("should be ready after receiving a sample")
	}
}

func TestLatestReturnsMostRecentSample(t *testing.T) {
	r := &fakeReader{batches: [][]Sample{
		{{Values: [6]float64{0, 0, 1, 0, 0, 0}}},
		{{Values: [6]float64{0, 0, 2, 0, 0, 0}}},
	}}
	src := NewSixAxis(r)
	src.UpdateBuffer()
	src.UpdateBuffer()

	v, ok := src.Latest(AxisZ)
	if !ok || v != 2 {
		t.Fatalf("expected latest Z=2, got %v ok=%v", v, ok)
	}
}

func TestIsForceStableRequiresLowVariance(t *testing.T) {
	samples := make([]Sample, 0, 10)
	for i := 0; i < 10; i++ {
		samples = append(samples, Sample{Values: [6]float64{0, 0, 5.0, 0, 0, 0}})
	}
	r := &fakeReader{batches: [][]Sample{samples}}
	src := NewSixAxis(r)
	src.UpdateBuffer()

	if !src.IsForceStable(5.0, 0) {
		t.Fatal("constant samples at setpoint should be stable")
	}
	if src.IsForceStable(10.0, 0) {
		t.Fatal("samples far from setpoint should not be stable")
	}
}
