package stochastic

import (
	"math"

	"github.com/wyfcoding/quant/xerrors"
)

// ArithmeticBrownianMotion 算术布朗运动: dX = mu(t) dt + sigma(t) dW.
type ArithmeticBrownianMotion struct {
	initial    float64
	drift      Parameter
	volatility Parameter
}

// NewArithmeticBrownianMotion 创建算术布朗运动模型.
func NewArithmeticBrownianMotion(initial float64, drift, volatility Parameter) *ArithmeticBrownianMotion {
	return &ArithmeticBrownianMotion{initial: initial, drift: drift, volatility: volatility}
}

func (m *ArithmeticBrownianMotion) Name() string     { return "arithmetic_brownian_motion" }
func (m *ArithmeticBrownianMotion) Initial() float64 { return m.initial }

func (m *ArithmeticBrownianMotion) Validate() error {
	return requireParams(m.Name(), m.drift, m.volatility)
}

func (m *ArithmeticBrownianMotion) Drift(t, _ float64) float64     { return m.drift(t) }
func (m *ArithmeticBrownianMotion) Diffusion(t, _ float64) float64 { return m.volatility(t) }

// GeometricBrownianMotion 几何布朗运动: dS = mu(t) S dt + sigma(t) S dW.
// 按对数正态精确格式整条生成:
// S[i+1] = S[i] * exp((mu - sigma^2/2)*dt + sigma*sqrt(dt)*Z).
type GeometricBrownianMotion struct {
	initial    float64
	drift      Parameter
	volatility Parameter
}

// NewGeometricBrownianMotion 创建 GBM 模型，初值必须为正.
func NewGeometricBrownianMotion(initial float64, drift, volatility Parameter) *GeometricBrownianMotion {
	return &GeometricBrownianMotion{initial: initial, drift: drift, volatility: volatility}
}

func (m *GeometricBrownianMotion) Name() string     { return "geometric_brownian_motion" }
func (m *GeometricBrownianMotion) Initial() float64 { return m.initial }

func (m *GeometricBrownianMotion) Validate() error {
	if err := requireParams(m.Name(), m.drift, m.volatility); err != nil {
		return err
	}
	if m.initial <= 0 {
		return xerrors.ErrNonPositiveInitial.WithContext("model", m.Name()).
			WithContext("initial", m.initial)
	}
	return nil
}

// GeneratePath 生成一条价格路径.
func (m *GeometricBrownianMotion) GeneratePath(grid TimeGrid, src RandomSource) ([]float64, error) {
	dt := grid.Dt()
	sqrtDt := math.Sqrt(dt)

	path := make([]float64, grid.NumPoints())
	path[0] = m.initial
	for i := 0; i < grid.Steps(); i++ {
		t := grid.Time(i)
		mu := m.drift(t)
		sigma := m.volatility(t)
		path[i+1] = path[i] * math.Exp((mu-0.5*sigma*sigma)*dt+sigma*sqrtDt*src.Gaussian())
	}
	return path, nil
}

// BrownianBridge 布朗桥：起点 start、终点 end 固定，中间由
// W_t - (t/T) W_T 构造，终点被精确钉住。
type BrownianBridge struct {
	start      float64
	end        float64
	volatility Parameter
}

// NewBrownianBridge 创建布朗桥模型.
func NewBrownianBridge(start, end float64, volatility Parameter) *BrownianBridge {
	return &BrownianBridge{start: start, end: end, volatility: volatility}
}

func (m *BrownianBridge) Name() string     { return "brownian_bridge" }
func (m *BrownianBridge) Initial() float64 { return m.start }

func (m *BrownianBridge) Validate() error {
	return requireParams(m.Name(), m.volatility)
}

// GeneratePath 先生成一条驱动布朗路径，再做端点修正.
func (m *BrownianBridge) GeneratePath(grid TimeGrid, src RandomSource) ([]float64, error) {
	n := grid.Steps()
	dt := grid.Dt()
	sqrtDt := math.Sqrt(dt)

	w := make([]float64, n+1)
	for i := 0; i < n; i++ {
		w[i+1] = w[i] + m.volatility(grid.Time(i))*sqrtDt*src.Gaussian()
	}

	span := grid.Horizon() - grid.Start()
	path := make([]float64, n+1)
	for i := range path {
		frac := (grid.Time(i) - grid.Start()) / span
		path[i] = m.start + (m.end-m.start)*frac + w[i] - frac*w[n]
	}
	// 消除终点的浮点残差
	path[n] = m.end
	return path, nil
}

// requireParams 校验全部系数均已给出.
func requireParams(model string, params ...Parameter) error {
	for _, p := range params {
		if p == nil {
			return xerrors.ErrMissingParameter.WithContext("model", model)
		}
	}
	return nil
}
