package stochastic

import (
	"math"

	"github.com/wyfcoding/quant/xerrors"
)

// CEV 常方差弹性模型: dS = mu(t) S dt + sigma(t) * S^gamma dW.
// gamma != 1 时状态每步截断于零，避免负数的分数次幂未定义。
type CEV struct {
	initial    float64
	gamma      float64 // 弹性指数
	drift      Parameter
	volatility Parameter
}

// NewCEV 创建 CEV 模型.
func NewCEV(initial, gamma float64, drift, volatility Parameter) *CEV {
	return &CEV{initial: initial, gamma: gamma, drift: drift, volatility: volatility}
}

func (m *CEV) Name() string     { return "cev" }
func (m *CEV) Initial() float64 { return m.initial }

func (m *CEV) Validate() error {
	if err := requireParams(m.Name(), m.drift, m.volatility); err != nil {
		return err
	}
	if m.initial <= 0 {
		return xerrors.ErrNonPositiveInitial.WithContext("model", m.Name()).
			WithContext("initial", m.initial)
	}
	if m.gamma < 0 {
		return xerrors.ErrNegativeElasticity.WithContext("model", m.Name()).
			WithContext("gamma", m.gamma)
	}
	return nil
}

func (m *CEV) Drift(t, x float64) float64 {
	return m.drift(t) * x
}

func (m *CEV) Diffusion(t, x float64) float64 {
	return m.volatility(t) * math.Pow(math.Max(x, 0), m.gamma)
}

func (m *CEV) TruncateAtZero() bool { return m.gamma != 1 }
