package stochastic

// Process 随机过程模型的公共接口。模型持有自己的系数集，
// 系数一律是 Parameter；构造后只读，可被全部并行路径安全共享。
type Process interface {
	// Name 模型族名称，用于日志与指标维度。
	Name() string
	// Initial 初始状态，所有路径的 path[0]。
	Initial() float64
	// Validate 结构性校验，在任何模拟工作开始前执行（fail fast）。
	Validate() error
}

// EulerProcess 按 Euler-Maruyama 逐步离散的单因子过程：
// state[i+1] = state[i] + Drift(t_i, state_i)*dt + Diffusion(t_i, state_i)*sqrt(dt)*Z。
type EulerProcess interface {
	Process
	Drift(t, x float64) float64
	Diffusion(t, x float64) float64
}

// JumpProcess 在扩散之上叠加复合泊松跳跃增量的过程。
// 每步先抽跳跃次数 N ~ Poisson(lambda(t)*dt)，再把 N 个跳幅之和
// 加到扩散增量上。
type JumpProcess interface {
	EulerProcess
	JumpIncrement(t, dt float64, src RandomSource) (float64, error)
}

// TwoFactorProcess 双因子相关过程（资产价格 + 随机方差）。
// 模拟器以 Cholesky 式混合生成相关冲击：z2' = rho*z1 + sqrt(1-rho^2)*z2，
// 再交给 Step 推进一步；第二因子由模拟器在每步后截断于零。
type TwoFactorProcess interface {
	Process
	SecondaryInitial() float64
	Correlation() float64
	// Step 返回下一步的 (主因子, 第二因子)，第二因子不做截断。
	Step(t, dt, x, v, z1, z2 float64) (float64, float64)
}

// PathGenerator 整条路径一次生成的过程。分数过程的增量跨步相关，
// 不能按马尔可夫规则逐步推进；布朗桥与对数正态精确格式也走此路径。
type PathGenerator interface {
	Process
	GeneratePath(grid TimeGrid, src RandomSource) ([]float64, error)
}

// Preparer 在路径扇出前做一次性的网格相关预计算
// （如分数协方差矩阵的 Cholesky 分解），之后只读共享。
type Preparer interface {
	Prepare(grid TimeGrid) error
}

// Truncated 状态在每步更新后需要截断于零的过程
// （CIR、gamma != 1 的 CEV）。截断会使高波动下的模拟均值上偏，
// 这是既知的离散化副作用而非缺陷，以 Advisory 形式上报。
type Truncated interface {
	TruncateAtZero() bool
}

// Advisor 在模拟开始前给出非致命数值建议的过程（如 Feller 条件）。
type Advisor interface {
	Advisories(grid TimeGrid) []Advisory
}

// AdvisoryKind 数值建议的类别。
type AdvisoryKind string

const (
	// AdvisoryFeller Feller 条件 2*speed*mean >= vol^2 被违反。
	// 完全截断格式可以容忍，因此只告警不报错。
	AdvisoryFeller AdvisoryKind = "feller_violated"
	// AdvisoryFloor 模拟过程中发生了状态零截断。
	AdvisoryFloor AdvisoryKind = "state_floored"
)

// Advisory 非致命的数值建议。模拟继续进行，调用方据此区分
// “带建议地成功”与失败。
type Advisory struct {
	Kind   AdvisoryKind
	Detail string
	Count  int64
}
