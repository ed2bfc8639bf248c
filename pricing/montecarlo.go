// Package pricing 提供消费模拟路径的蒙特卡洛定价器：欧式期权、
// LSM 美式期权、有限差分希腊字母与 VaR。金额边界使用 decimal。
package pricing

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/quant/async"
	"github.com/wyfcoding/quant/stochastic"
	"github.com/wyfcoding/quant/xerrors"
)

// OptionType 期权类型.
type OptionType string

const (
	// Call 看涨期权.
	Call OptionType = "CALL"
	// Put 看跌期权.
	Put OptionType = "PUT"
)

// EuropeanParams 欧式定价参数.
type EuropeanParams struct {
	Type   OptionType
	Strike float64
	Rate   float64 // 连续复利无风险利率
}

func (p EuropeanParams) validate() error {
	if p.Type != Call && p.Type != Put {
		return xerrors.ErrInvalidOptionType.WithContext("type", string(p.Type))
	}
	return nil
}

// MonteCarloPricer 基于路径模拟的期权定价器.
type MonteCarloPricer struct {
	sim *stochastic.Simulator
}

// NewMonteCarloPricer 创建蒙特卡洛定价器.
func NewMonteCarloPricer(sim *stochastic.Simulator) *MonteCarloPricer {
	return &MonteCarloPricer{sim: sim}
}

// European 模拟路径并以终值收益的折现均值计算欧式期权价格.
func (p *MonteCarloPricer) European(ctx context.Context, grid stochastic.TimeGrid, model stochastic.Process, req stochastic.Request, params EuropeanParams) (decimal.Decimal, error) {
	if err := params.validate(); err != nil {
		return decimal.Zero, err
	}

	res, err := p.sim.Simulate(ctx, grid, model, req)
	if err != nil {
		return decimal.Zero, err
	}

	var total float64
	for _, terminal := range res.Terminals() {
		total += payoff(terminal, params.Strike, params.Type)
	}
	mean := total / float64(res.NumPaths())

	maturity := grid.Horizon() - grid.Start()
	price := mean * math.Exp(-params.Rate*maturity)
	return decimal.NewFromFloat(price), nil
}

// EuropeanAsync 异步计算欧式期权价格，结果通过 Future 获取.
func (p *MonteCarloPricer) EuropeanAsync(ctx context.Context, grid stochastic.TimeGrid, model stochastic.Process, req stochastic.Request, params EuropeanParams) *async.Future[decimal.Decimal] {
	return async.NewFuture(ctx, func(ctx context.Context) (decimal.Decimal, error) {
		return p.European(ctx, grid, model, req, params)
	})
}

func payoff(s, k float64, typ OptionType) float64 {
	if typ == Put {
		return math.Max(0, k-s)
	}
	return math.Max(0, s-k)
}
