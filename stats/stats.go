// Package stats 在模拟结果上计算集合统计量：终值矩、分位数、
// 对数收益均值与双因子增量相关性。
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wyfcoding/quant/stochastic"
	"github.com/wyfcoding/quant/xerrors"
)

// Summary 终值的基础统计摘要.
type Summary struct {
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
	Count int
}

// Terminals 计算全部路径终值的均值、标准差与极值.
func Terminals(res *stochastic.Result) (Summary, error) {
	vals := res.Terminals()
	if len(vals) == 0 {
		return Summary{}, xerrors.ErrEmptyData
	}

	mean, std := stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		std = 0
	}
	minV, maxV := vals[0], vals[0]
	for _, v := range vals[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	return Summary{Mean: mean, Std: std, Min: minV, Max: maxV, Count: len(vals)}, nil
}

// TerminalQuantile 终值的经验分位数，q 必须在 [0,1] 内.
func TerminalQuantile(res *stochastic.Result, q float64) (float64, error) {
	if q < 0 || q > 1 {
		return 0, xerrors.ErrInvalidQuantile.WithContext("q", q)
	}
	vals := res.Terminals()
	if len(vals) == 0 {
		return 0, xerrors.ErrEmptyData
	}
	sort.Float64s(vals)
	return stat.Quantile(q, stat.Empirical, vals, nil), nil
}

// MeanLogReturn 集合的终值对数收益均值 E[log(S_T / S_0)]。
// 对 GBM 随路径数收敛到 (mu - sigma^2/2)*T，是大数定律健全性检查的基础。
func MeanLogReturn(res *stochastic.Result) (float64, error) {
	n := res.NumPaths()
	if n == 0 {
		return 0, xerrors.ErrEmptyData
	}
	var sum float64
	for i := 0; i < n; i++ {
		p := res.Path(i)
		sum += math.Log(p[len(p)-1] / p[0])
	}
	return sum / float64(n), nil
}

// FactorIncrementCorrelation 双因子结果中两因子逐步增量的样本相关系数，
// 把全部路径的增量合并为一个样本池。用于校验 Heston 的 rho 混合。
func FactorIncrementCorrelation(res *stochastic.Result) (float64, error) {
	if !res.HasSecondary() {
		return 0, xerrors.ErrNoSecondaryFactor
	}
	n := res.NumPaths()
	if n == 0 {
		return 0, xerrors.ErrEmptyData
	}

	steps := res.Grid().Steps()
	xs := make([]float64, 0, n*steps)
	ys := make([]float64, 0, n*steps)
	for i := 0; i < n; i++ {
		p := res.Path(i)
		s := res.SecondaryPath(i)
		for k := 0; k < steps; k++ {
			xs = append(xs, p[k+1]-p[k])
			ys = append(ys, s[k+1]-s[k])
		}
	}
	return stat.Correlation(xs, ys, nil), nil
}
