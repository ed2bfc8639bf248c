package stochastic

import (
	"fmt"
	"math"

	"github.com/wyfcoding/quant/xerrors"
)

// OrnsteinUhlenbeck 均值回归过程: dX = speed(t)*(mean(t) - X) dt + sigma(t) dW.
type OrnsteinUhlenbeck struct {
	initial    float64
	speed      Parameter
	mean       Parameter
	volatility Parameter
}

// NewOrnsteinUhlenbeck 创建 OU 模型.
func NewOrnsteinUhlenbeck(initial float64, speed, mean, volatility Parameter) *OrnsteinUhlenbeck {
	return &OrnsteinUhlenbeck{initial: initial, speed: speed, mean: mean, volatility: volatility}
}

func (m *OrnsteinUhlenbeck) Name() string     { return "ornstein_uhlenbeck" }
func (m *OrnsteinUhlenbeck) Initial() float64 { return m.initial }

func (m *OrnsteinUhlenbeck) Validate() error {
	return requireParams(m.Name(), m.speed, m.mean, m.volatility)
}

func (m *OrnsteinUhlenbeck) Drift(t, x float64) float64 {
	return m.speed(t) * (m.mean(t) - x)
}

func (m *OrnsteinUhlenbeck) Diffusion(t, _ float64) float64 { return m.volatility(t) }

// CoxIngersollRoss 平方根均值回归过程:
// dX = speed(t)*(mean(t) - X) dt + sigma(t)*sqrt(X) dW，状态每步截断于零。
type CoxIngersollRoss struct {
	initial    float64
	speed      Parameter
	mean       Parameter
	volatility Parameter
}

// NewCoxIngersollRoss 创建 CIR 模型.
func NewCoxIngersollRoss(initial float64, speed, mean, volatility Parameter) *CoxIngersollRoss {
	return &CoxIngersollRoss{initial: initial, speed: speed, mean: mean, volatility: volatility}
}

func (m *CoxIngersollRoss) Name() string     { return "cox_ingersoll_ross" }
func (m *CoxIngersollRoss) Initial() float64 { return m.initial }

func (m *CoxIngersollRoss) Validate() error {
	if err := requireParams(m.Name(), m.speed, m.mean, m.volatility); err != nil {
		return err
	}
	if m.initial < 0 {
		return xerrors.ErrNegativeInitialVariance.WithContext("model", m.Name()).
			WithContext("initial", m.initial)
	}
	return nil
}

func (m *CoxIngersollRoss) Drift(t, x float64) float64 {
	return m.speed(t) * (m.mean(t) - x)
}

func (m *CoxIngersollRoss) Diffusion(t, x float64) float64 {
	return m.volatility(t) * math.Sqrt(math.Max(x, 0))
}

func (m *CoxIngersollRoss) TruncateAtZero() bool { return true }

// Advisories 检查 Feller 条件 2*speed*mean >= sigma^2。违反只是软告警：
// 完全截断格式可以容忍，模拟照常进行。
func (m *CoxIngersollRoss) Advisories(grid TimeGrid) []Advisory {
	return fellerAdvisories(grid, m.speed, m.mean, m.volatility)
}

// fellerAdvisories 沿网格逐点检查 Feller 条件，返回违反点计数。
func fellerAdvisories(grid TimeGrid, speed, mean, vol Parameter) []Advisory {
	var count int64
	var firstT float64
	for i := 0; i < grid.NumPoints(); i++ {
		t := grid.Time(i)
		if 2*speed(t)*mean(t) < vol(t)*vol(t) {
			if count == 0 {
				firstT = t
			}
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return []Advisory{{
		Kind:   AdvisoryFeller,
		Detail: fmt.Sprintf("2*speed*mean < vol^2, first violated at t=%g", firstT),
		Count:  count,
	}}
}

// HullWhite 扩展 Vasicek 短端利率模型:
// dr = (theta(t) - speed(t)*r) dt + sigma(t) dW.
type HullWhite struct {
	initial    float64
	theta      Parameter
	speed      Parameter
	volatility Parameter
}

// NewHullWhite 创建 Hull-White 模型.
func NewHullWhite(initial float64, theta, speed, volatility Parameter) *HullWhite {
	return &HullWhite{initial: initial, theta: theta, speed: speed, volatility: volatility}
}

func (m *HullWhite) Name() string     { return "hull_white" }
func (m *HullWhite) Initial() float64 { return m.initial }

func (m *HullWhite) Validate() error {
	return requireParams(m.Name(), m.theta, m.speed, m.volatility)
}

func (m *HullWhite) Drift(t, x float64) float64 {
	return m.theta(t) - m.speed(t)*x
}

func (m *HullWhite) Diffusion(t, _ float64) float64 { return m.volatility(t) }

// HoLee 无均值回归的短端利率模型: dr = theta(t) dt + sigma(t) dW.
type HoLee struct {
	initial    float64
	theta      Parameter
	volatility Parameter
}

// NewHoLee 创建 Ho-Lee 模型.
func NewHoLee(initial float64, theta, volatility Parameter) *HoLee {
	return &HoLee{initial: initial, theta: theta, volatility: volatility}
}

func (m *HoLee) Name() string     { return "ho_lee" }
func (m *HoLee) Initial() float64 { return m.initial }

func (m *HoLee) Validate() error {
	return requireParams(m.Name(), m.theta, m.volatility)
}

func (m *HoLee) Drift(t, _ float64) float64     { return m.theta(t) }
func (m *HoLee) Diffusion(t, _ float64) float64 { return m.volatility(t) }

// BlackDermanToy 对数正态短端利率模型，在 ln r 上做 Euler 推进:
// d ln r = theta(t) dt + sigma(t) dW，路径取值为 r = exp(ln r)，天然为正。
type BlackDermanToy struct {
	initial    float64
	theta      Parameter
	volatility Parameter
}

// NewBlackDermanToy 创建 BDT 模型，初始利率必须为正.
func NewBlackDermanToy(initial float64, theta, volatility Parameter) *BlackDermanToy {
	return &BlackDermanToy{initial: initial, theta: theta, volatility: volatility}
}

func (m *BlackDermanToy) Name() string     { return "black_derman_toy" }
func (m *BlackDermanToy) Initial() float64 { return m.initial }

func (m *BlackDermanToy) Validate() error {
	if err := requireParams(m.Name(), m.theta, m.volatility); err != nil {
		return err
	}
	if m.initial <= 0 {
		return xerrors.ErrNonPositiveInitial.WithContext("model", m.Name()).
			WithContext("initial", m.initial)
	}
	return nil
}

// GeneratePath 生成一条短端利率路径.
func (m *BlackDermanToy) GeneratePath(grid TimeGrid, src RandomSource) ([]float64, error) {
	dt := grid.Dt()
	sqrtDt := math.Sqrt(dt)

	path := make([]float64, grid.NumPoints())
	path[0] = m.initial
	y := math.Log(m.initial)
	for i := 0; i < grid.Steps(); i++ {
		t := grid.Time(i)
		y += m.theta(t)*dt + m.volatility(t)*sqrtDt*src.Gaussian()
		path[i+1] = math.Exp(y)
	}
	return path, nil
}
