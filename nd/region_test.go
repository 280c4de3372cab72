package nd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegionNumberOfPixels(t *testing.T) {
	tests := []struct {
		name string
		r    Region
		want int
	}{
		{"2d", NewRegion(Index{0, 0}, Size{10, 5}), 50},
		{"3d", NewRegion(Index{-1, 2, 3}, Size{2, 3, 4}), 24},
		{"degenerate", NewRegion(Index{0, 0}, Size{10, 0}), 0},
		{"zero-dim", Region{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.NumberOfPixels(); got != tt.want {
				t.Errorf("NumberOfPixels: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRegionIsInside(t *testing.T) {
	r := NewRegion(Index{-2, 3}, Size{4, 2})

	inside := []Index{{-2, 3}, {1, 4}, {0, 3}}
	for _, idx := range inside {
		if !r.IsInside(idx) {
			t.Errorf("IsInside(%v): got false, want true", idx)
		}
	}
	outside := []Index{{-3, 3}, {2, 3}, {0, 5}, {0, 2}, {0}}
	for _, idx := range outside {
		if r.IsInside(idx) {
			t.Errorf("IsInside(%v): got true, want false", idx)
		}
	}
}

func TestRegionIsInsideRegion(t *testing.T) {
	buf := NewRegion(Index{0, 0}, Size{10, 10})

	if !buf.IsInsideRegion(NewRegion(Index{2, 2}, Size{8, 8})) {
		t.Error("touching upper edge should be inside")
	}
	if buf.IsInsideRegion(NewRegion(Index{2, 2}, Size{9, 8})) {
		t.Error("overrunning region should not be inside")
	}
	if !buf.IsInsideRegion(NewRegion(Index{50, 50}, Size{0, 3})) {
		t.Error("empty region should be inside")
	}
	if buf.IsInsideRegion(NewRegion(Index{0}, Size{1})) {
		t.Error("dimension mismatch should not be inside")
	}
}

func TestRegionPadAndCrop(t *testing.T) {
	r := NewRegion(Index{0, 0}, Size{10, 10})
	padded := r.PadByRadius(Size{1, 2})
	want := NewRegion(Index{-1, -2}, Size{12, 14})
	if diff := cmp.Diff(want, padded); diff != "" {
		t.Errorf("PadByRadius mismatch (-want +got):\n%s", diff)
	}

	cropped, ok := padded.Crop(r)
	if !ok || !cropped.Equal(r) {
		t.Errorf("Crop: got %v (%v), want %v", cropped, ok, r)
	}

	_, ok = r.Crop(NewRegion(Index{10, 0}, Size{3, 3}))
	if ok {
		t.Error("Crop of disjoint regions should report no overlap")
	}

	// PadByRadius must not alias the receiver.
	if r.Index[0] != 0 || r.Size[0] != 10 {
		t.Errorf("PadByRadius modified receiver: %v", r)
	}
}

func TestRegionValidate(t *testing.T) {
	if err := NewRegion(Index{0, 0}, Size{1, 1}).Validate(); err != nil {
		t.Errorf("Validate: unexpected error %v", err)
	}
	err := Region{Index: Index{0, 0}, Size: Size{1}}.Validate()
	if !HasCode(err, ErrCodeDimensionMismatch) {
		t.Errorf("Validate: got %v, want %s", err, ErrCodeDimensionMismatch)
	}
	err = NewRegion(Index{0, 0}, Size{1, -1}).Validate()
	if !HasCode(err, ErrCodeInvalidRegion) {
		t.Errorf("Validate: got %v, want %s", err, ErrCodeInvalidRegion)
	}
}

func TestIndexArithmetic(t *testing.T) {
	idx := Index{3, -1, 4}
	off := Offset{-1, 2, 0}
	got := idx.Add(off)
	if !got.Equal(Index{2, 1, 4}) {
		t.Errorf("Add: got %v, want [2 1 4]", got)
	}
	if back := got.Sub(idx); !back.Equal(off) {
		t.Errorf("Sub: got %v, want %v", back, off)
	}
	if neg := off.Neg(); !neg.Equal(Offset{1, -2, 0}) {
		t.Errorf("Neg: got %v", neg)
	}
	if f := Filled[Size](3, 2); !f.Equal(Size{2, 2, 2}) {
		t.Errorf("Filled: got %v", f)
	}
}

func TestRegionString(t *testing.T) {
	r := NewRegion(Index{1, 2}, Size{3, 4})
	if got := r.String(); got != "[1 2]+[3 4]" {
		t.Errorf("String: got %q", got)
	}
}
