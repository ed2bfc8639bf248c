package pricing

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/wyfcoding/quant/stochastic"
	"github.com/wyfcoding/quant/xerrors"
)

// blackScholes 欧式期权的解析参考价。
func blackScholes(s, k, r, sigma, maturity float64, typ OptionType) float64 {
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*maturity) / (sigma * math.Sqrt(maturity))
	d2 := d1 - sigma*math.Sqrt(maturity)
	nd := func(x float64) float64 { return 0.5 * (1 + math.Erf(x/math.Sqrt2)) }
	call := s*nd(d1) - k*math.Exp(-r*maturity)*nd(d2)
	if typ == Put {
		return call - s + k*math.Exp(-r*maturity)
	}
	return call
}

func riskNeutralGBM(s, r, sigma float64) *stochastic.GeometricBrownianMotion {
	return stochastic.NewGeometricBrownianMotion(s, stochastic.Constant(r), stochastic.Constant(sigma))
}

func TestEuropeanCallAgainstClosedForm(t *testing.T) {
	grid, err := stochastic.NewTimeGrid(0, 1, 50)
	if err != nil {
		t.Fatalf("NewTimeGrid: %v", err)
	}
	pricer := NewMonteCarloPricer(stochastic.NewSimulator())
	params := EuropeanParams{Type: Call, Strike: 100, Rate: 0.05}
	req := stochastic.Request{Paths: 20000, Antithetic: true, Seed: 1}

	price, err := pricer.European(context.Background(), grid, riskNeutralGBM(100, 0.05, 0.2), req, params)
	if err != nil {
		t.Fatalf("European: %v", err)
	}

	want := blackScholes(100, 100, 0.05, 0.2, 1, Call)
	got, _ := price.Float64()
	if math.Abs(got-want) > 0.5 {
		t.Errorf("call price = %g, want %g within 0.5", got, want)
	}
}

func TestEuropeanPutCallParity(t *testing.T) {
	grid, err := stochastic.NewTimeGrid(0, 1, 50)
	if err != nil {
		t.Fatalf("NewTimeGrid: %v", err)
	}
	pricer := NewMonteCarloPricer(stochastic.NewSimulator())
	req := stochastic.Request{Paths: 20000, Antithetic: true, Seed: 2}
	model := riskNeutralGBM(100, 0.05, 0.2)

	call, err := pricer.European(context.Background(), grid, model, req, EuropeanParams{Type: Call, Strike: 100, Rate: 0.05})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	put, err := pricer.European(context.Background(), grid, model, req, EuropeanParams{Type: Put, Strike: 100, Rate: 0.05})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	// C - P = S - K*exp(-rT)，同种子下残差只剩终值均值的抽样误差
	c, _ := call.Float64()
	p, _ := put.Float64()
	want := 100 - 100*math.Exp(-0.05)
	if math.Abs(c-p-want) > 0.5 {
		t.Errorf("C - P = %g, want %g within 0.5", c-p, want)
	}
}

func TestEuropeanInvalidOptionType(t *testing.T) {
	grid, err := stochastic.NewTimeGrid(0, 1, 10)
	if err != nil {
		t.Fatalf("NewTimeGrid: %v", err)
	}
	pricer := NewMonteCarloPricer(stochastic.NewSimulator())

	_, err = pricer.European(context.Background(), grid, riskNeutralGBM(100, 0.05, 0.2),
		stochastic.Request{Paths: 4, Seed: 1}, EuropeanParams{Type: "STRADDLE", Strike: 100, Rate: 0.05})
	if !errors.Is(err, xerrors.ErrInvalidOptionType) {
		t.Errorf("got %v, want invalid option type", err)
	}
}

func TestEuropeanAsyncMatchesSync(t *testing.T) {
	grid, err := stochastic.NewTimeGrid(0, 1, 20)
	if err != nil {
		t.Fatalf("NewTimeGrid: %v", err)
	}
	pricer := NewMonteCarloPricer(stochastic.NewSimulator())
	params := EuropeanParams{Type: Call, Strike: 100, Rate: 0.05}
	req := stochastic.Request{Paths: 1000, Seed: 3}
	model := riskNeutralGBM(100, 0.05, 0.2)
	ctx := context.Background()

	sync, err := pricer.European(ctx, grid, model, req, params)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	future := pricer.EuropeanAsync(ctx, grid, model, req, params)
	got, err := future.Get(ctx)
	if err != nil {
		t.Fatalf("async: %v", err)
	}
	if !got.Equal(sync) {
		t.Errorf("async price %s != sync price %s", got, sync)
	}
}

func TestLSMAmericanPutPremium(t *testing.T) {
	grid, err := stochastic.NewTimeGrid(0, 1, 50)
	if err != nil {
		t.Fatalf("NewTimeGrid: %v", err)
	}
	sim := stochastic.NewSimulator()
	params := EuropeanParams{Type: Put, Strike: 100, Rate: 0.05}
	req := stochastic.Request{Paths: 10000, Antithetic: true, Seed: 4}
	model := riskNeutralGBM(100, 0.05, 0.2)
	ctx := context.Background()

	american, err := NewLSMPricer(sim, 2).Price(ctx, grid, model, req, params)
	if err != nil {
		t.Fatalf("LSM: %v", err)
	}
	european, err := NewMonteCarloPricer(sim).European(ctx, grid, model, req, params)
	if err != nil {
		t.Fatalf("European: %v", err)
	}

	am, _ := american.Float64()
	eu, _ := european.Float64()
	// 提前行权权利非负
	if am < eu-0.05 {
		t.Errorf("american put %g below european put %g", am, eu)
	}
	// 该组参数下美式看跌的参考价约 6.09
	if am < 5.5 || am > 7.0 {
		t.Errorf("american put = %g, want in [5.5, 7.0]", am)
	}
}

func TestEuropeanGreeks(t *testing.T) {
	grid, err := stochastic.NewTimeGrid(0, 1, 50)
	if err != nil {
		t.Fatalf("NewTimeGrid: %v", err)
	}
	pricer := NewMonteCarloPricer(stochastic.NewSimulator())
	spec := GBMSpec{Initial: 100, Drift: stochastic.Constant(0.05), Volatility: stochastic.Constant(0.2)}
	params := EuropeanParams{Type: Call, Strike: 100, Rate: 0.05}
	req := stochastic.Request{Paths: 20000, Antithetic: true, Seed: 5}

	greeks, err := pricer.EuropeanGreeks(context.Background(), grid, spec, req, params)
	if err != nil {
		t.Fatalf("EuropeanGreeks: %v", err)
	}

	delta, _ := greeks.Delta.Float64()
	// 解析 Delta = N(d1) ~ 0.637
	if delta < 0.5 || delta > 0.75 {
		t.Errorf("delta = %g, want in [0.5, 0.75]", delta)
	}
	vega, _ := greeks.Vega.Float64()
	// 解析 Vega ~ 37.5
	if vega < 25 || vega > 50 {
		t.Errorf("vega = %g, want in [25, 50]", vega)
	}
	if greeks.Price.IsZero() {
		t.Error("price must be non-zero")
	}
}

func TestValueAtRisk(t *testing.T) {
	grid, err := stochastic.NewTimeGrid(0, 1, 50)
	if err != nil {
		t.Fatalf("NewTimeGrid: %v", err)
	}
	model := riskNeutralGBM(100, 0.05, 0.2)
	res, err := stochastic.NewSimulator().Simulate(context.Background(), grid, model, stochastic.Request{Paths: 5000, Seed: 6})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	v99, err := ValueAtRisk(res, 0.99)
	if err != nil {
		t.Fatalf("ValueAtRisk: %v", err)
	}
	v95, err := ValueAtRisk(res, 0.95)
	if err != nil {
		t.Fatalf("ValueAtRisk: %v", err)
	}

	loss99, _ := v99.Float64()
	loss95, _ := v95.Float64()
	// 对数正态收益 1% 分位约 -35%
	if loss99 < 0.2 || loss99 > 0.5 {
		t.Errorf("99%% VaR = %g, want in [0.2, 0.5]", loss99)
	}
	if loss95 > loss99 {
		t.Errorf("95%% VaR %g exceeds 99%% VaR %g", loss95, loss99)
	}

	if _, err := ValueAtRisk(res, 1); !errors.Is(err, xerrors.ErrInvalidConfidence) {
		t.Errorf("confidence=1: got %v", err)
	}
	if _, err := ValueAtRisk(res, 0); !errors.Is(err, xerrors.ErrInvalidConfidence) {
		t.Errorf("confidence=0: got %v", err)
	}
}
