package update

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ajroetker/go-stencil/nd"
	"github.com/ajroetker/go-stencil/nd/contrib/boundary"
	"github.com/ajroetker/go-stencil/nd/contrib/image"
	"github.com/ajroetker/go-stencil/nd/contrib/iterator"
)

func TestEvolveSpike(t *testing.T) {
	field := image.New2D[float64](5, 5)
	field.Set(nd.Index{2, 2}, 1)

	res, err := Evolve(field, field.BufferedRegion(), nd.Size{1, 1}, 0.25, Laplacian[float64], nil, Config{Workers: 2})
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	want := map[[2]int]float64{
		{2, 2}: 0,
		{1, 2}: 0.25, {3, 2}: 0.25, {2, 1}: 0.25, {2, 3}: 0.25,
	}
	it, _ := image.NewRegionIterator(field, field.BufferedRegion())
	for ; !it.IsAtEnd(); it.Next() {
		idx := it.Index()
		if got := it.Get(); got != want[[2]int{idx[0], idx[1]}] {
			t.Errorf("pixel %v: got %v, want %v", idx, got, want[[2]int{idx[0], idx[1]}])
		}
	}
	// Changes: -1 at the center and +0.25 at four neighbors.
	if res.SumSquares != 1.25 {
		t.Errorf("SumSquares: got %v, want 1.25", res.SumSquares)
	}
}

func TestEvolveLinearRampInterior(t *testing.T) {
	field := image.New2D[float64](9, 7)
	field.FillFunc(func(idx nd.Index) float64 { return float64(3*idx[0] - 2*idx[1]) })
	before := pixels(field)

	interior := nd.NewRegion(nd.Index{1, 1}, nd.Size{7, 5})
	res, err := Evolve(field, interior, nd.Size{1, 1}, 0.2, Laplacian[float64], nil, Config{Workers: 3})
	if err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	if res.SumSquares != 0 {
		t.Errorf("SumSquares: got %v, want 0", res.SumSquares)
	}
	if diff := cmp.Diff(before, pixels(field)); diff != "" {
		t.Errorf("linear ramp changed (-before +after):\n%s", diff)
	}
}

func TestEvolveConstantFieldAllConditions(t *testing.T) {
	for _, cond := range []boundary.Condition[float32]{
		boundary.ZeroFluxNeumann[float32](),
		boundary.NewPeriodic[float32](),
		boundary.NewMirror[float32](),
		boundary.NewConstant[float32](4),
	} {
		field := image.New2D[float32](6, 5)
		field.Fill(4)
		res, err := Evolve(field, field.BufferedRegion(), nd.Size{1, 1}, 0.1, Laplacian[float32], &cond, Config{Workers: 4})
		if err != nil {
			t.Fatalf("%v: Evolve: %v", cond, err)
		}
		if res.RMSChange != 0 {
			t.Errorf("%v: RMSChange got %v, want 0", cond, res.RMSChange)
		}
	}
}

func TestEvolvePeriodicConservesMass(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	field := randomImage(rng, 32, 24)
	before := floats.Sum(pixels(field))

	cond := boundary.NewPeriodic[float64]()
	for range 10 {
		if _, err := Evolve(field, field.BufferedRegion(), nd.Size{1, 1}, 0.1, Laplacian[float64], &cond, Config{Workers: 4}); err != nil {
			t.Fatalf("Evolve: %v", err)
		}
	}
	after := floats.Sum(pixels(field))
	if !scalar.EqualWithinAbs(before, after, 1e-9) {
		t.Errorf("total mass: before %v, after %v", before, after)
	}
}

func TestEvolveThreadedMatchesSingleWorker(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	a := randomImage(rng, 100, 100)
	b := a.Clone()
	cond := boundary.NewMirror[float64]()

	ra, err := Evolve(a, a.BufferedRegion(), nd.Size{1, 1}, 0.05, Laplacian[float64], &cond, Config{Workers: 1})
	if err != nil {
		t.Fatalf("Evolve serial: %v", err)
	}
	rb, err := Evolve(b, b.BufferedRegion(), nd.Size{1, 1}, 0.05, Laplacian[float64], &cond, Config{Workers: 4})
	if err != nil {
		t.Fatalf("Evolve threaded: %v", err)
	}
	if diff := cmp.Diff(pixels(a), pixels(b)); diff != "" {
		t.Errorf("threaded field differs (-serial +threaded):\n%s", diff)
	}
	if !scalar.EqualWithinAbsOrRel(ra.SumSquares, rb.SumSquares, 1e-12, 1e-12) {
		t.Errorf("SumSquares: serial %v, threaded %v", ra.SumSquares, rb.SumSquares)
	}
}

func TestEvolveCustomStencil(t *testing.T) {
	field := image.New[float32](nd.NewRegion(nd.Index{0}, nd.Size{5}))
	field.FillFunc(func(idx nd.Index) float32 { return float32(idx[0]) })

	// Forward difference: u[i+1] - u[i], zero-flux at the right edge.
	forward := func(it *iterator.ConstIterator[float32]) float32 {
		next, _ := it.PixelAtOffset(nd.Offset{1})
		return next - it.CenterPixel()
	}
	if _, err := Evolve(field, field.BufferedRegion(), nd.Size{1}, 1, forward, nil, Config{Workers: 2}); err != nil {
		t.Fatalf("Evolve: %v", err)
	}
	if diff := cmp.Diff([]float32{1, 2, 3, 4, 4}, pixels(field)); diff != "" {
		t.Errorf("forward step mismatch (-want +got):\n%s", diff)
	}
}

func TestEvolveErrors(t *testing.T) {
	field := image.New2D[float64](4, 4)
	field.Fill(1)
	before := pixels(field)
	region := field.BufferedRegion()

	if _, err := Evolve(nil, region, nd.Size{1, 1}, 1, Laplacian[float64], nil, Config{}); !nd.HasCode(err, nd.ErrCodeInvalidField) {
		t.Errorf("nil field: got %v", err)
	}
	if _, err := Evolve(field, region, nd.Size{1, 1}, 1, nil, nil, Config{}); !nd.HasCode(err, nd.ErrCodeInvalidField) {
		t.Errorf("nil stencil: got %v", err)
	}
	if _, err := Evolve(field, region, nd.Size{1}, 1, Laplacian[float64], nil, Config{Workers: 2}); !nd.HasCode(err, nd.ErrCodeDimensionMismatch) {
		t.Errorf("radius dimension: got %v", err)
	}
	bad := boundary.New[float64](boundary.Kind(12), 0)
	if _, err := Evolve(field, region, nd.Size{1, 1}, 1, Laplacian[float64], &bad, Config{Workers: 2}); !nd.HasCode(err, nd.ErrCodeInvalidBoundaryCondition) {
		t.Errorf("invalid condition: got %v", err)
	}
	if diff := cmp.Diff(before, pixels(field)); diff != "" {
		t.Errorf("field modified by failed Evolve (-before +after):\n%s", diff)
	}
}
