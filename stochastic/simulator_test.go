package stochastic

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/wyfcoding/quant/xerrors"
)

func mustGrid(t *testing.T, start, horizon float64, steps int) TimeGrid {
	t.Helper()
	grid, err := NewTimeGrid(start, horizon, steps)
	if err != nil {
		t.Fatalf("NewTimeGrid(%g, %g, %d): %v", start, horizon, steps, err)
	}
	return grid
}

func TestSimulatePathShape(t *testing.T) {
	grid := mustGrid(t, 0, 1, 50)
	sim := NewSimulator()

	models := []Process{
		NewArithmeticBrownianMotion(100, Constant(0.05), Constant(0.2)),
		NewGeometricBrownianMotion(100, Constant(0.05), Constant(0.2)),
		NewBrownianBridge(100, 110, Constant(0.2)),
		NewOrnsteinUhlenbeck(0.03, Constant(2), Constant(0.05), Constant(0.01)),
		NewCoxIngersollRoss(0.04, Constant(2), Constant(0.04), Constant(0.2)),
		NewHullWhite(0.02, Constant(0.01), Constant(0.5), Constant(0.01)),
		NewHoLee(0.02, Constant(0.001), Constant(0.01)),
		NewBlackDermanToy(0.03, Constant(0.01), Constant(0.2)),
		NewHeston(100, 0.04, -0.5, Constant(0.05), Constant(2), Constant(0.04), Constant(0.3)),
		NewMertonJumpDiffusion(100, Constant(0.05), Constant(0.2), Constant(1), Constant(-0.1), Constant(0.15)),
		NewCEV(100, 0.8, Constant(0.05), Constant(0.2)),
		NewFractionalBrownianMotion(0, 0.7, Constant(1)),
		NewFractionalOrnsteinUhlenbeck(0.03, 0.3, Constant(2), Constant(0.05), Constant(0.01)),
	}

	for _, model := range models {
		res, err := sim.Simulate(context.Background(), grid, model, Request{Paths: 4, Seed: 1})
		if err != nil {
			t.Errorf("%s: simulate failed: %v", model.Name(), err)
			continue
		}
		if res.NumPaths() != 4 {
			t.Errorf("%s: NumPaths = %d, want 4", model.Name(), res.NumPaths())
		}
		for i := 0; i < res.NumPaths(); i++ {
			p := res.Path(i)
			if len(p) != grid.NumPoints() {
				t.Errorf("%s: path %d length = %d, want %d", model.Name(), i, len(p), grid.NumPoints())
			}
			if p[0] != model.Initial() {
				t.Errorf("%s: path %d starts at %g, want %g", model.Name(), i, p[0], model.Initial())
			}
		}
	}
}

func TestSimulateHestonSecondary(t *testing.T) {
	grid := mustGrid(t, 0, 1, 100)
	model := NewHeston(100, 0.04, -0.7, Constant(0.05), Constant(2), Constant(0.04), Constant(0.3))
	res, err := NewSimulator().Simulate(context.Background(), grid, model, Request{Paths: 16, Seed: 3})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if !res.HasSecondary() {
		t.Fatal("heston result must carry a secondary variance factor")
	}
	for i := 0; i < res.NumPaths(); i++ {
		v := res.SecondaryPath(i)
		if len(v) != grid.NumPoints() {
			t.Fatalf("variance path %d length = %d, want %d", i, len(v), grid.NumPoints())
		}
		if v[0] != 0.04 {
			t.Errorf("variance path %d starts at %g, want 0.04", i, v[0])
		}
		for k, x := range v {
			if x < 0 {
				t.Fatalf("variance path %d negative at step %d: %g", i, k, x)
			}
		}
	}
}

// 对偶镜像：两条配对路径的逐步增量之和应等于 2*mu*dt，
// 随机项逐步精确抵消。
func TestSimulateAntitheticMirror(t *testing.T) {
	grid := mustGrid(t, 0, 1, 252)
	mu, sigma := 0.05, 0.2
	model := NewArithmeticBrownianMotion(100, Constant(mu), Constant(sigma))

	res, err := NewSimulator().Simulate(context.Background(), grid, model, Request{
		Paths:      2,
		Antithetic: true,
		Seed:       7,
	})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	p0, p1 := res.Path(0), res.Path(1)
	want := 2 * mu * grid.Dt()
	for k := 0; k < grid.Steps(); k++ {
		d0 := p0[k+1] - p0[k]
		d1 := p1[k+1] - p1[k]
		if math.Abs(d0+d1-want) > 1e-9 {
			t.Fatalf("step %d: increment sum = %g, want %g", k, d0+d1, want)
		}
	}
}

func TestSimulateAntitheticOddPaths(t *testing.T) {
	grid := mustGrid(t, 0, 1, 10)
	model := NewGeometricBrownianMotion(100, Constant(0.05), Constant(0.2))

	_, err := NewSimulator().Simulate(context.Background(), grid, model, Request{
		Paths:      3,
		Antithetic: true,
		Seed:       1,
	})
	if !errors.Is(err, xerrors.ErrOddAntithetic) {
		t.Errorf("error = %v, want odd antithetic rejection", err)
	}
	if !xerrors.IsType(err, xerrors.ErrInvalidConfig) {
		t.Errorf("error type = %v, want configuration error", err)
	}
}

func TestSimulateRequestValidation(t *testing.T) {
	grid := mustGrid(t, 0, 1, 10)
	model := NewGeometricBrownianMotion(100, Constant(0.05), Constant(0.2))
	sim := NewSimulator()
	ctx := context.Background()

	if _, err := sim.Simulate(ctx, grid, model, Request{Paths: 0}); !errors.Is(err, xerrors.ErrInvalidPathCount) {
		t.Errorf("zero paths: got %v", err)
	}
	if _, err := sim.Simulate(ctx, grid, model, Request{Paths: 4, Workers: -1}); !xerrors.IsType(err, xerrors.ErrInvalidConfig) {
		t.Errorf("negative workers: got %v", err)
	}
	if _, err := sim.Simulate(ctx, TimeGrid{}, model, Request{Paths: 4}); !errors.Is(err, xerrors.ErrInvalidGrid) {
		t.Errorf("zero grid: got %v", err)
	}
}

func TestSimulateModelValidation(t *testing.T) {
	grid := mustGrid(t, 0, 1, 10)
	sim := NewSimulator()
	ctx := context.Background()
	req := Request{Paths: 2, Seed: 1}

	cases := []struct {
		name  string
		model Process
		want  error
	}{
		{"gbm negative initial", NewGeometricBrownianMotion(-1, Constant(0.05), Constant(0.2)), xerrors.ErrNonPositiveInitial},
		{"missing parameter", NewArithmeticBrownianMotion(100, nil, Constant(0.2)), xerrors.ErrMissingParameter},
		{"heston rho out of range", NewHeston(100, 0.04, 1.5, Constant(0.05), Constant(2), Constant(0.04), Constant(0.3)), xerrors.ErrCorrelationOutOfRange},
		{"heston negative variance", NewHeston(100, -0.01, 0, Constant(0.05), Constant(2), Constant(0.04), Constant(0.3)), xerrors.ErrNegativeInitialVariance},
		{"cev negative elasticity", NewCEV(100, -0.5, Constant(0.05), Constant(0.2)), xerrors.ErrNegativeElasticity},
		{"fbm hurst too large", NewFractionalBrownianMotion(0, 1.2, Constant(1)), xerrors.ErrHurstOutOfRange},
		{"fbm hurst zero", NewFractionalBrownianMotion(0, 0, Constant(1)), xerrors.ErrHurstOutOfRange},
		{"bdt zero initial", NewBlackDermanToy(0, Constant(0.01), Constant(0.2)), xerrors.ErrNonPositiveInitial},
	}
	for _, tc := range cases {
		_, err := sim.Simulate(ctx, grid, tc.model, req)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

// 相同种子的两次运行必须逐字节一致，与并行度无关。
func TestSimulateReproducible(t *testing.T) {
	grid := mustGrid(t, 0, 1, 64)
	model := NewGeometricBrownianMotion(100, Constant(0.05), Constant(0.2))
	req := Request{Paths: 128, Seed: 2024}

	serial := NewSimulator(WithWorkers(1))
	parallel := NewSimulator(WithWorkers(8), WithSerialThreshold(1))

	a, err := serial.Simulate(context.Background(), grid, model, req)
	if err != nil {
		t.Fatalf("serial simulate failed: %v", err)
	}
	b, err := parallel.Simulate(context.Background(), grid, model, req)
	if err != nil {
		t.Fatalf("parallel simulate failed: %v", err)
	}

	for i := 0; i < req.Paths; i++ {
		pa, pb := a.Path(i), b.Path(i)
		for k := range pa {
			if pa[k] != pb[k] {
				t.Fatalf("path %d diverges at step %d: %g != %g", i, k, pa[k], pb[k])
			}
		}
	}
}

func TestSimulateCancelledContext(t *testing.T) {
	grid := mustGrid(t, 0, 1, 10)
	model := NewGeometricBrownianMotion(100, Constant(0.05), Constant(0.2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulator().Simulate(ctx, grid, model, Request{Paths: 8, Seed: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSimulateFloorAdvisory(t *testing.T) {
	grid := mustGrid(t, 0, 1, 100)
	// Feller 条件严重违反，路径必然触零
	model := NewCoxIngersollRoss(0.01, Constant(1), Constant(0.01), Constant(1))

	res, err := NewSimulator().Simulate(context.Background(), grid, model, Request{Paths: 32, Seed: 5})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	for i := 0; i < res.NumPaths(); i++ {
		for k, x := range res.Path(i) {
			if x < 0 {
				t.Fatalf("path %d negative at step %d: %g", i, k, x)
			}
		}
	}

	var feller, floored bool
	for _, adv := range res.Advisories() {
		switch adv.Kind {
		case AdvisoryFeller:
			feller = true
		case AdvisoryFloor:
			floored = true
		}
		if adv.Count <= 0 {
			t.Errorf("advisory %s has non-positive count %d", adv.Kind, adv.Count)
		}
	}
	if !feller {
		t.Error("expected a feller advisory for 2*speed*mean < vol^2")
	}
	if !floored {
		t.Error("expected a floor advisory, truncation is certain for these coefficients")
	}
}

func TestSimulateNoFellerAdvisoryWhenSatisfied(t *testing.T) {
	grid := mustGrid(t, 0, 1, 50)
	model := NewCoxIngersollRoss(0.04, Constant(2), Constant(0.04), Constant(0.2))

	res, err := NewSimulator().Simulate(context.Background(), grid, model, Request{Paths: 4, Seed: 5})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	for _, adv := range res.Advisories() {
		if adv.Kind == AdvisoryFeller {
			t.Errorf("unexpected feller advisory: %s", adv.Detail)
		}
	}
}

func TestGeneratePathWithoutPrepare(t *testing.T) {
	grid := mustGrid(t, 0, 1, 16)
	model := NewFractionalBrownianMotion(0, 0.7, Constant(1))

	_, err := model.GeneratePath(grid, NewStream(1, 0))
	if !errors.Is(err, xerrors.ErrNotPrepared) {
		t.Errorf("error = %v, want not-prepared", err)
	}
}
