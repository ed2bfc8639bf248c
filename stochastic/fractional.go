package stochastic

import (
	"math"
	"sync"

	"github.com/wyfcoding/quant/linalg"
	"github.com/wyfcoding/quant/xerrors"
)

// fractionalNoise 分数高斯噪声发生器，被 fBM 与分数 OU 共用。
// 增量跨步相关，整条路径的增量向量由分数协方差矩阵的 Cholesky
// 因子一次生成。因子在 Prepare 中对给定网格预计算一次，
// 之后被全部并行路径只读共享。
type fractionalNoise struct {
	hurst float64

	mu     sync.RWMutex
	steps  int
	dt     float64
	factor *linalg.Matrix
}

func (f *fractionalNoise) validateHurst(model string) error {
	if f.hurst <= 0 || f.hurst >= 1 {
		return xerrors.ErrHurstOutOfRange.WithContext("model", model).
			WithContext("hurst", f.hurst)
	}
	return nil
}

// Prepare 构建网格增量协方差矩阵并做 Cholesky 分解。
// cov[i][j] = 0.5*(|k+1|^2H - 2|k|^2H + |k-1|^2H) * dt^2H, k = |i-j|.
func (f *fractionalNoise) Prepare(grid TimeGrid) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := grid.Steps()
	dt := grid.Dt()
	if f.factor != nil && f.steps == n && f.dt == dt {
		return nil
	}

	twoH := 2 * f.hurst
	scale := math.Pow(dt, twoH)
	gamma := make([]float64, n)
	for k := 0; k < n; k++ {
		fk := float64(k)
		gamma[k] = 0.5 * (math.Pow(fk+1, twoH) - 2*math.Pow(fk, twoH) + math.Pow(math.Abs(fk-1), twoH)) * scale
	}

	cov := linalg.NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k := i - j
			if k < 0 {
				k = -k
			}
			cov.Set(i, j, gamma[k])
		}
	}

	factor, err := cov.Cholesky()
	if err != nil {
		return xerrors.Wrap(err, xerrors.ErrInvalidConfig, "factor fractional covariance").
			WithContext("hurst", f.hurst).WithContext("steps", n)
	}

	f.steps = n
	f.dt = dt
	f.factor = factor
	return nil
}

// increments 生成一条路径的相关增量向量.
func (f *fractionalNoise) increments(grid TimeGrid, src RandomSource) ([]float64, error) {
	f.mu.RLock()
	factor := f.factor
	ok := factor != nil && f.steps == grid.Steps() && f.dt == grid.Dt()
	f.mu.RUnlock()
	if !ok {
		return nil, xerrors.ErrNotPrepared.WithContext("hurst", f.hurst)
	}

	z := make([]float64, grid.Steps())
	for i := range z {
		z[i] = src.Gaussian()
	}
	return factor.LowerMulVector(z)
}

// FractionalBrownianMotion 分数布朗运动，Hurst 指数 H 控制长记忆性:
// H > 1/2 增量正相关，H < 1/2 反持续，H = 1/2 退化为标准布朗运动。
type FractionalBrownianMotion struct {
	noise      fractionalNoise
	initial    float64
	volatility Parameter
}

// NewFractionalBrownianMotion 创建 fBM 模型，hurst 必须在 (0,1) 内.
func NewFractionalBrownianMotion(initial, hurst float64, volatility Parameter) *FractionalBrownianMotion {
	return &FractionalBrownianMotion{
		noise:      fractionalNoise{hurst: hurst},
		initial:    initial,
		volatility: volatility,
	}
}

func (m *FractionalBrownianMotion) Name() string     { return "fractional_brownian_motion" }
func (m *FractionalBrownianMotion) Initial() float64 { return m.initial }

func (m *FractionalBrownianMotion) Validate() error {
	if err := requireParams(m.Name(), m.volatility); err != nil {
		return err
	}
	return m.noise.validateHurst(m.Name())
}

// Prepare 预计算分数协方差的 Cholesky 因子.
func (m *FractionalBrownianMotion) Prepare(grid TimeGrid) error {
	return m.noise.Prepare(grid)
}

// GeneratePath 整条生成：增量向量一次抽出后做累加.
func (m *FractionalBrownianMotion) GeneratePath(grid TimeGrid, src RandomSource) ([]float64, error) {
	fgn, err := m.noise.increments(grid, src)
	if err != nil {
		return nil, err
	}
	path := make([]float64, grid.NumPoints())
	path[0] = m.initial
	for i, dw := range fgn {
		path[i+1] = path[i] + m.volatility(grid.Time(i))*dw
	}
	return path, nil
}

// FractionalOrnsteinUhlenbeck 分数 OU 过程：均值回归漂移由分数
// 布朗噪声驱动: dX = speed(t)*(mean(t) - X) dt + sigma(t) dB_H.
type FractionalOrnsteinUhlenbeck struct {
	noise      fractionalNoise
	initial    float64
	speed      Parameter
	mean       Parameter
	volatility Parameter
}

// NewFractionalOrnsteinUhlenbeck 创建分数 OU 模型.
func NewFractionalOrnsteinUhlenbeck(initial, hurst float64, speed, mean, volatility Parameter) *FractionalOrnsteinUhlenbeck {
	return &FractionalOrnsteinUhlenbeck{
		noise:      fractionalNoise{hurst: hurst},
		initial:    initial,
		speed:      speed,
		mean:       mean,
		volatility: volatility,
	}
}

func (m *FractionalOrnsteinUhlenbeck) Name() string     { return "fractional_ornstein_uhlenbeck" }
func (m *FractionalOrnsteinUhlenbeck) Initial() float64 { return m.initial }

func (m *FractionalOrnsteinUhlenbeck) Validate() error {
	if err := requireParams(m.Name(), m.speed, m.mean, m.volatility); err != nil {
		return err
	}
	return m.noise.validateHurst(m.Name())
}

// Prepare 预计算分数协方差的 Cholesky 因子.
func (m *FractionalOrnsteinUhlenbeck) Prepare(grid TimeGrid) error {
	return m.noise.Prepare(grid)
}

// GeneratePath 漂移逐步推进，扩散项使用相关的分数增量.
func (m *FractionalOrnsteinUhlenbeck) GeneratePath(grid TimeGrid, src RandomSource) ([]float64, error) {
	fgn, err := m.noise.increments(grid, src)
	if err != nil {
		return nil, err
	}
	dt := grid.Dt()
	path := make([]float64, grid.NumPoints())
	path[0] = m.initial
	for i, dw := range fgn {
		t := grid.Time(i)
		x := path[i]
		path[i+1] = x + m.speed(t)*(m.mean(t)-x)*dt + m.volatility(t)*dw
	}
	return path, nil
}
