package update

import (
	"math/rand/v2"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ajroetker/go-stencil/nd"
	"github.com/ajroetker/go-stencil/nd/contrib/boundary"
	"github.com/ajroetker/go-stencil/nd/contrib/image"
	"github.com/ajroetker/go-stencil/nd/contrib/workerpool"
)

func randomImage(rng *rand.Rand, width, height int) *image.Image[float64] {
	img := image.New2D[float64](width, height)
	img.FillFunc(func(nd.Index) float64 { return rng.Float64()*2 - 1 })
	return img
}

// pixels returns the buffered pixels in raster order, without padding.
func pixels[T nd.Lanes](img *image.Image[T]) []T {
	var out []T
	it, _ := image.NewRegionIterator(img, img.BufferedRegion())
	for ; !it.IsAtEnd(); it.Next() {
		out = append(out, it.Get())
	}
	return out
}

func TestApplyThreadedMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	target := randomImage(rng, 100, 100)
	upd := randomImage(rng, 100, 100)
	region := target.BufferedRegion()
	const dt = 0.1

	serial := target.Clone()
	want, err := ApplySerial(serial, upd, region, dt)
	if err != nil {
		t.Fatalf("ApplySerial: %v", err)
	}

	threaded := target.Clone()
	got, err := Apply(threaded, upd, region, dt, Config{Workers: 4})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if diff := cmp.Diff(pixels(serial), pixels(threaded)); diff != "" {
		t.Errorf("threaded target differs from serial (-serial +threaded):\n%s", diff)
	}
	if got.Pixels != 10000 || want.Pixels != 10000 {
		t.Errorf("Pixels: got %d and %d, want 10000", got.Pixels, want.Pixels)
	}
	if !scalar.EqualWithinAbsOrRel(got.SumSquares, want.SumSquares, 1e-12, 1e-12) {
		t.Errorf("SumSquares: threaded %v, serial %v", got.SumSquares, want.SumSquares)
	}
	if !scalar.EqualWithinAbsOrRel(got.RMSChange, want.RMSChange, 1e-12, 1e-12) {
		t.Errorf("RMSChange: threaded %v, serial %v", got.RMSChange, want.RMSChange)
	}

	// Independent check of the squared-change sum.
	deltas := pixels(upd)
	floats.Scale(dt, deltas)
	if ref := floats.Dot(deltas, deltas); !scalar.EqualWithinAbsOrRel(got.SumSquares, ref, 1e-10, 1e-10) {
		t.Errorf("SumSquares: got %v, dot product %v", got.SumSquares, ref)
	}
}

func TestApplySubRegion(t *testing.T) {
	target := image.New2D[float32](8, 6)
	upd := image.New2D[float32](8, 6)
	upd.Fill(2)
	region := nd.NewRegion(nd.Index{2, 1}, nd.Size{4, 3})

	res, err := Apply(target, upd, region, 0.5, Config{Workers: 3})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Pixels != 12 || res.SumSquares != 12 || res.RMSChange != 1 {
		t.Errorf("Result: got %+v", res)
	}
	it, _ := image.NewRegionIterator(target, target.BufferedRegion())
	for ; !it.IsAtEnd(); it.Next() {
		want := float32(0)
		if region.IsInside(it.Index()) {
			want = 1
		}
		if it.Get() != want {
			t.Fatalf("pixel %v: got %v, want %v", it.Index(), it.Get(), want)
		}
	}
}

func TestApplyLockstepMatchesMismatchedLayout(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))
	target := randomImage(rng, 20, 15)
	same := randomImage(rng, 20, 15)
	// A larger buffer holding the same values over target's region.
	wide := image.New[float64](nd.NewRegion(nd.Index{-3, -2}, nd.Size{26, 19}))
	wide.FillFunc(func(idx nd.Index) float64 { return same.At(idx) })
	if !image.SameGeometry(target, same) || image.SameGeometry(target, wide) {
		t.Fatal("test fields do not cover both layouts")
	}

	region := nd.NewRegion(nd.Index{1, 2}, nd.Size{17, 11})
	a, b := target.Clone(), target.Clone()
	ra, err := Apply(a, same, region, 0.3, Config{Workers: 3})
	if err != nil {
		t.Fatalf("Apply same layout: %v", err)
	}
	rb, err := Apply(b, wide, region, 0.3, Config{Workers: 3})
	if err != nil {
		t.Fatalf("Apply mismatched layout: %v", err)
	}
	if diff := cmp.Diff(pixels(a), pixels(b)); diff != "" {
		t.Errorf("fields differ (-same +wide):\n%s", diff)
	}
	if ra != rb {
		t.Errorf("Result: same layout %+v, mismatched layout %+v", ra, rb)
	}

	serial := target.Clone()
	rs, err := ApplySerial(serial, same, region, 0.3)
	if err != nil {
		t.Fatalf("ApplySerial: %v", err)
	}
	if diff := cmp.Diff(pixels(a), pixels(serial)); diff != "" {
		t.Errorf("serial lockstep differs (-threaded +serial):\n%s", diff)
	}
	if !scalar.EqualWithinAbsOrRel(ra.SumSquares, rs.SumSquares, 1e-12, 1e-12) {
		t.Errorf("SumSquares: threaded %v, serial %v", ra.SumSquares, rs.SumSquares)
	}
}

func TestApplyToItself(t *testing.T) {
	img := image.New2D[float32](5, 4)
	img.FillFunc(func(idx nd.Index) float32 { return float32(idx[0] + idx[1]) })
	want := pixels(img)
	for i := range want {
		want[i] *= 2
	}
	if _, err := Apply(img, img, img.BufferedRegion(), 1, Config{Workers: 2}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff(want, pixels(img)); diff != "" {
		t.Errorf("doubled field mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyFailsBeforeMutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	target := randomImage(rng, 100, 100)
	before := pixels(target)
	// The update field only covers the first 60 rows, so the last
	// partitions cannot be prepared.
	upd := image.New2D[float64](100, 60)
	upd.Fill(1)

	_, err := Apply(target, upd, target.BufferedRegion(), 1, Config{Workers: 4})
	if !nd.HasCode(err, nd.ErrCodeInvalidField) {
		t.Fatalf("Apply: got %v, want %s", err, nd.ErrCodeInvalidField)
	}
	if diff := cmp.Diff(before, pixels(target)); diff != "" {
		t.Errorf("target modified by failed Apply (-before +after):\n%s", diff)
	}
}

func TestApplyErrors(t *testing.T) {
	img := image.New2D[float64](4, 4)
	if _, err := Apply(nil, img, img.BufferedRegion(), 1, Config{}); !nd.HasCode(err, nd.ErrCodeInvalidField) {
		t.Errorf("nil target: got %v", err)
	}
	bad := nd.Region{Index: nd.Index{0, 0}, Size: nd.Size{-1, 4}}
	if _, err := Apply(img, img, bad, 1, Config{}); !nd.HasCode(err, nd.ErrCodeInvalidPartition) {
		t.Errorf("invalid region: got %v", err)
	}
	if _, err := ApplySerial(img, nil, img.BufferedRegion(), 1); !nd.HasCode(err, nd.ErrCodeInvalidField) {
		t.Errorf("nil update: got %v", err)
	}
}

func TestApplyEmptyRegion(t *testing.T) {
	img := image.New2D[float64](4, 4)
	res, err := Apply(img, img, nd.NewRegion(nd.Index{1, 1}, nd.Size{0, 2}), 1, Config{Workers: 2})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res != (Result{}) {
		t.Errorf("empty region: got %+v", res)
	}
}

func TestConfigWithDefaults(t *testing.T) {
	c := (&Config{}).WithDefaults()
	if c.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers: got %d, want %d", c.Workers, runtime.GOMAXPROCS(0))
	}
	if c.Logger == nil {
		t.Error("Logger not defaulted")
	}

	pool := workerpool.New(3)
	defer pool.Close()
	c = (&Config{Pool: pool}).WithDefaults()
	if c.Workers != 3 {
		t.Errorf("Workers with pool: got %d, want 3", c.Workers)
	}
	c = (&Config{Pool: pool, Workers: 5}).WithDefaults()
	if c.Workers != 5 {
		t.Errorf("explicit Workers: got %d, want 5", c.Workers)
	}
}

func TestSharedPoolStaysOpen(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	img := image.New2D[float32](6, 6)
	upd := image.New2D[float32](6, 6)
	upd.Fill(1)
	cfg := Config{Pool: pool}
	for range 3 {
		if _, err := Apply(img, upd, img.BufferedRegion(), 1, cfg); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	if got := img.At(nd.Index{5, 5}); got != 3 {
		t.Errorf("after three steps: got %v, want 3", got)
	}
}

func BenchmarkApply(b *testing.B) {
	rng := rand.New(rand.NewPCG(5, 6))
	target := randomImage(rng, 512, 512)
	upd := randomImage(rng, 512, 512)
	pool := workerpool.New(0)
	defer pool.Close()
	cfg := Config{Pool: pool}

	b.ResetTimer()
	for b.Loop() {
		_, _ = Apply(target, upd, target.BufferedRegion(), 1e-6, cfg)
	}
}

func BenchmarkEvolveLaplacian(b *testing.B) {
	rng := rand.New(rand.NewPCG(7, 8))
	field := randomImage(rng, 256, 256)
	pool := workerpool.New(0)
	defer pool.Close()
	cfg := Config{Pool: pool}
	cond := boundary.ZeroFluxNeumann[float64]()

	b.ResetTimer()
	for b.Loop() {
		_, _ = Evolve(field, field.BufferedRegion(), nd.Size{1, 1}, 0.1, Laplacian[float64], &cond, cfg)
	}
}
