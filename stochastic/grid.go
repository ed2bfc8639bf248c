// Package stochastic 实现随机过程模拟引擎：时间网格、时变参数、随机源、
// 模型族与并行路径模拟器。所有模型共用同一个离散化网格与多项式接口，
// 下游定价与统计模块只消费生成的 Result。
package stochastic

import "github.com/wyfcoding/quant/xerrors"

// TimeGrid 模拟时间的离散网格。一次构建后不可变，被一次模拟运行
// 的全部路径只读共享。
type TimeGrid struct {
	start   float64
	horizon float64
	steps   int
}

// NewTimeGrid 创建时间网格，要求 steps >= 1 且步长 (horizon-start)/steps > 0。
func NewTimeGrid(start, horizon float64, steps int) (TimeGrid, error) {
	g := TimeGrid{start: start, horizon: horizon, steps: steps}
	if err := g.Validate(); err != nil {
		return TimeGrid{}, err
	}
	return g, nil
}

// Validate 检查网格不变量。
func (g TimeGrid) Validate() error {
	if g.steps < 1 || g.horizon <= g.start {
		return xerrors.ErrInvalidGrid.WithContext("start", g.start).
			WithContext("horizon", g.horizon).
			WithContext("steps", g.steps)
	}
	return nil
}

// Start 网格起点。
func (g TimeGrid) Start() float64 { return g.start }

// Horizon 网格终点。
func (g TimeGrid) Horizon() float64 { return g.horizon }

// Steps 步数。
func (g TimeGrid) Steps() int { return g.steps }

// Dt 步长。
func (g TimeGrid) Dt() float64 {
	return (g.horizon - g.start) / float64(g.steps)
}

// NumPoints 网格点数，含初始点。
func (g TimeGrid) NumPoints() int { return g.steps + 1 }

// Time 第 i 个网格点的时间。越界索引被钳制到端点，
// 末点精确等于 horizon，避免浮点累加误差。
func (g TimeGrid) Time(i int) float64 {
	if i <= 0 {
		return g.start
	}
	if i >= g.steps {
		return g.horizon
	}
	return g.start + float64(i)*g.Dt()
}

// Times 返回全部网格点时间。
func (g TimeGrid) Times() []float64 {
	ts := make([]float64, g.NumPoints())
	for i := range ts {
		ts[i] = g.Time(i)
	}
	return ts
}
