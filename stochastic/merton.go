package stochastic

// MertonJumpDiffusion 跳跃扩散模型：在算术扩散基底上叠加复合泊松跳跃:
//
//	dX = mu(t) dt + sigma(t) dW + dJ
//	J 的跳跃以强度 lambda(t) 到达，跳幅 ~ N(jumpMean(t), jumpStd(t)^2)
//
// 每步抽 N ~ Poisson(lambda*dt)，将 N 个跳幅之和加到扩散增量上。
type MertonJumpDiffusion struct {
	initial    float64
	drift      Parameter
	volatility Parameter
	lambda     Parameter // 跳跃到达强度
	jumpMean   Parameter // 跳幅均值
	jumpStd    Parameter // 跳幅标准差
}

// NewMertonJumpDiffusion 创建 Merton 跳跃扩散模型.
func NewMertonJumpDiffusion(initial float64, drift, volatility, lambda, jumpMean, jumpStd Parameter) *MertonJumpDiffusion {
	return &MertonJumpDiffusion{
		initial:    initial,
		drift:      drift,
		volatility: volatility,
		lambda:     lambda,
		jumpMean:   jumpMean,
		jumpStd:    jumpStd,
	}
}

func (m *MertonJumpDiffusion) Name() string     { return "merton_jump_diffusion" }
func (m *MertonJumpDiffusion) Initial() float64 { return m.initial }

func (m *MertonJumpDiffusion) Validate() error {
	return requireParams(m.Name(), m.drift, m.volatility, m.lambda, m.jumpMean, m.jumpStd)
}

func (m *MertonJumpDiffusion) Drift(t, _ float64) float64     { return m.drift(t) }
func (m *MertonJumpDiffusion) Diffusion(t, _ float64) float64 { return m.volatility(t) }

// JumpIncrement 复合泊松跳跃增量。负的 lambda 由随机源按契约拒绝。
func (m *MertonJumpDiffusion) JumpIncrement(t, dt float64, src RandomSource) (float64, error) {
	n, err := src.Poisson(m.lambda(t) * dt)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += m.jumpMean(t) + m.jumpStd(t)*src.Gaussian()
	}
	return sum, nil
}
