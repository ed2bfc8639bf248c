package pricing

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/quant/linalg"
	"github.com/wyfcoding/quant/stochastic"
)

// LSMPricer 实现 Longstaff-Schwartz (LSM) 美式期权定价：
// 路径来自模拟引擎，延续价值用多项式回归估计。
type LSMPricer struct {
	sim    *stochastic.Simulator
	degree int // 回归多项式的阶数
}

// NewLSMPricer 创建 LSM 定价器，degree <= 0 时取 2.
func NewLSMPricer(sim *stochastic.Simulator, degree int) *LSMPricer {
	if degree <= 0 {
		degree = 2
	}
	return &LSMPricer{sim: sim, degree: degree}
}

// Price 计算美式期权现值。逐期回溯：对价内路径回归延续价值，
// 与立即行权价值比较决定行权时点。
func (p *LSMPricer) Price(ctx context.Context, grid stochastic.TimeGrid, model stochastic.Process, req stochastic.Request, params EuropeanParams) (decimal.Decimal, error) {
	if err := params.validate(); err != nil {
		return decimal.Zero, err
	}

	res, err := p.sim.Simulate(ctx, grid, model, req)
	if err != nil {
		return decimal.Zero, err
	}

	steps := grid.Steps()
	dt := grid.Dt()
	df := math.Exp(-params.Rate * dt)
	n := res.NumPaths()

	// 末端收益
	cashFlows := make([]float64, n)
	for i := 0; i < n; i++ {
		path := res.Path(i)
		cashFlows[i] = payoff(path[steps], params.Strike, params.Type)
	}

	// 反向回归
	for k := steps - 1; k > 0; k-- {
		var xData, yData []float64
		var indices []int

		for i := 0; i < n; i++ {
			s := res.Path(i)[k]
			if payoff(s, params.Strike, params.Type) > 0 { // 仅考虑价内路径
				xData = append(xData, s)
				yData = append(yData, cashFlows[i]*df)
				indices = append(indices, i)
			} else {
				cashFlows[i] *= df
			}
		}

		// 样本不足以回归时全部继续持有
		if len(indices) <= p.degree+1 {
			for _, i := range indices {
				cashFlows[i] *= df
			}
			continue
		}

		coeffs, err := linalg.PolyFit(xData, yData, p.degree)
		if err != nil {
			return decimal.Zero, err
		}

		// 比较行权价值与回归出的延续价值
		for idx, i := range indices {
			s := xData[idx]
			iv := payoff(s, params.Strike, params.Type)

			cv := 0.0
			for d := len(coeffs) - 1; d >= 0; d-- {
				cv = cv*s + coeffs[d]
			}

			if iv >= cv {
				cashFlows[i] = iv
			} else {
				cashFlows[i] *= df
			}
		}
	}

	var total float64
	for _, cf := range cashFlows {
		total += cf
	}
	return decimal.NewFromFloat(total / float64(n) * df), nil
}
