package stochastic

// Result 一次模拟运行生成的路径集合。生成后不可变，连同网格与
// 数值建议一起交给下游定价/统计消费方独占使用。
type Result struct {
	grid       TimeGrid
	paths      [][]float64
	secondary  [][]float64
	advisories []Advisory
}

// Grid 所有路径共享的时间网格。
func (r *Result) Grid() TimeGrid { return r.grid }

// NumPaths 路径条数。
func (r *Result) NumPaths() int { return len(r.paths) }

// Path 第 i 条主因子路径，长度为 grid.NumPoints()，与网格点一一对齐。
// 返回的切片为内部存储，调用方按只读约定使用。
func (r *Result) Path(i int) []float64 { return r.paths[i] }

// HasSecondary 是否为双因子结果（如 Heston 的方差路径）。
func (r *Result) HasSecondary() bool { return r.secondary != nil }

// SecondaryPath 第 i 条第二因子路径；单因子结果返回 nil。
func (r *Result) SecondaryPath(i int) []float64 {
	if r.secondary == nil {
		return nil
	}
	return r.secondary[i]
}

// Terminals 每条路径的终值。
func (r *Result) Terminals() []float64 {
	out := make([]float64, len(r.paths))
	for i, p := range r.paths {
		out[i] = p[len(p)-1]
	}
	return out
}

// Advisories 模拟过程产生的非致命数值建议。
func (r *Result) Advisories() []Advisory {
	return r.advisories
}
