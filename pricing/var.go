package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/quant/stochastic"
	"github.com/wyfcoding/quant/xerrors"
)

// ValueAtRisk 由模拟结果的终值收益率分布计算蒙特卡洛 VaR。
// 返回给定置信水平下的损失分位（非负）。
func ValueAtRisk(res *stochastic.Result, confidence float64) (decimal.Decimal, error) {
	if confidence <= 0 || confidence >= 1 {
		return decimal.Zero, xerrors.ErrInvalidConfidence.WithContext("confidence", confidence)
	}
	n := res.NumPaths()
	if n == 0 {
		return decimal.Zero, xerrors.ErrEmptyData
	}

	returns := make([]float64, n)
	for i := 0; i < n; i++ {
		path := res.Path(i)
		initial := path[0]
		returns[i] = (path[len(path)-1] - initial) / initial
	}
	sort.Float64s(returns)

	idx := int(float64(n) * (1 - confidence))
	if idx >= n {
		idx = n - 1
	}

	loss := -returns[idx]
	if loss < 0 {
		loss = 0
	}
	return decimal.NewFromFloat(loss), nil
}
