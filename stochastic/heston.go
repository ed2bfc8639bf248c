package stochastic

import (
	"math"

	"github.com/wyfcoding/quant/xerrors"
)

// Heston 随机波动率模型，资产价格与方差双因子耦合:
//
//	dS = mu(t) S dt + sqrt(v) S dW1
//	dv = kappa(t)*(theta(t) - v) dt + xi(t)*sqrt(v) dW2,  corr(dW1, dW2) = rho
//
// 资产腿按对数正态精确格式推进，方差腿按 Euler 推进并由模拟器
// 在每步后做完全截断。
type Heston struct {
	initial   float64 // 初始资产价格
	variance0 float64 // 初始方差
	rho       float64 // 两因子相关系数
	drift     Parameter
	kappa     Parameter // 方差均值回归速度
	theta     Parameter // 长期方差
	xi        Parameter // 波动率的波动率
}

// NewHeston 创建 Heston 模型.
func NewHeston(initial, variance0, rho float64, drift, kappa, theta, xi Parameter) *Heston {
	return &Heston{
		initial:   initial,
		variance0: variance0,
		rho:       rho,
		drift:     drift,
		kappa:     kappa,
		theta:     theta,
		xi:        xi,
	}
}

func (m *Heston) Name() string              { return "heston" }
func (m *Heston) Initial() float64          { return m.initial }
func (m *Heston) SecondaryInitial() float64 { return m.variance0 }
func (m *Heston) Correlation() float64      { return m.rho }

func (m *Heston) Validate() error {
	if err := requireParams(m.Name(), m.drift, m.kappa, m.theta, m.xi); err != nil {
		return err
	}
	if m.initial <= 0 {
		return xerrors.ErrNonPositiveInitial.WithContext("model", m.Name()).
			WithContext("initial", m.initial)
	}
	if m.variance0 < 0 {
		return xerrors.ErrNegativeInitialVariance.WithContext("model", m.Name()).
			WithContext("variance0", m.variance0)
	}
	if m.rho < -1 || m.rho > 1 {
		return xerrors.ErrCorrelationOutOfRange.WithContext("model", m.Name()).
			WithContext("rho", m.rho)
	}
	return nil
}

// Step 推进一步。z1、z2 已由模拟器按 rho 混合为相关冲击；
// 返回的方差未截断，由模拟器统一截断并计数。
func (m *Heston) Step(t, dt, x, v, z1, z2 float64) (float64, float64) {
	vp := math.Max(v, 0)
	sqrtVdt := math.Sqrt(vp * dt)
	nx := x * math.Exp((m.drift(t)-0.5*vp)*dt+sqrtVdt*z1)
	nv := v + m.kappa(t)*(m.theta(t)-v)*dt + m.xi(t)*sqrtVdt*z2
	return nx, nv
}

// Advisories 方差腿同样受 Feller 条件约束.
func (m *Heston) Advisories(grid TimeGrid) []Advisory {
	return fellerAdvisories(grid, m.kappa, m.theta, m.xi)
}
