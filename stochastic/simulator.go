package stochastic

import (
	"context"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/wyfcoding/quant/async"
	"github.com/wyfcoding/quant/logging"
	"github.com/wyfcoding/quant/metrics"
	"github.com/wyfcoding/quant/xerrors"
)

// Request 一次模拟请求的形状参数。
type Request struct {
	// Paths 路径条数，>= 1；对偶模式下必须为偶数。
	Paths int
	// Antithetic 启用对偶变量：生成 Paths/2 条独立路径，
	// 每条配一条高斯抽样取负的镜像路径，方差减半且不额外耗费抽样。
	Antithetic bool
	// Seed 运行种子；路径 i 固定使用由 (Seed, i) 派生的子流。
	Seed uint64
	// Workers 覆盖模拟器级别的并行度，0 表示沿用模拟器配置。
	Workers int
}

// Simulator 路径模拟器：把网格、模型与随机源编排为路径集合。
// 无共享可变状态，可被并发复用。
type Simulator struct {
	logger          *logging.Logger
	metrics         *metrics.Metrics
	workers         int
	serialThreshold int
}

// Option 模拟器配置选项。
type Option func(*Simulator)

// WithLogger 设置日志记录器。
func WithLogger(l *logging.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithMetrics 设置指标采集器。
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Simulator) { s.metrics = m }
}

// WithWorkers 设置默认并行度，0 表示 GOMAXPROCS。
func WithWorkers(n int) Option {
	return func(s *Simulator) { s.workers = n }
}

// WithSerialThreshold 独立路径数低于该阈值时退化为单协程执行。
func WithSerialThreshold(n int) Option {
	return func(s *Simulator) { s.serialThreshold = n }
}

// NewSimulator 创建模拟器。
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		logger:          logging.Default(),
		serialThreshold: 64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate 生成路径集合。配置错误在任何模拟工作开始前返回，
// 不产生部分结果；取消的 context 在路径边界生效。
func (s *Simulator) Simulate(ctx context.Context, grid TimeGrid, model Process, req Request) (*Result, error) {
	start := time.Now()

	if err := s.validate(grid, model, req); err != nil {
		s.observe(model, "invalid", 0, time.Since(start))
		return nil, err
	}
	if p, ok := model.(Preparer); ok {
		if err := p.Prepare(grid); err != nil {
			s.observe(model, "invalid", 0, time.Since(start))
			return nil, err
		}
	}

	independent := req.Paths
	if req.Antithetic {
		independent = req.Paths / 2
	}
	_, twoFactor := model.(TwoFactorProcess)

	paths := make([][]float64, req.Paths)
	var secondary [][]float64
	if twoFactor {
		secondary = make([][]float64, req.Paths)
	}

	workers := s.workers
	if req.Workers > 0 {
		workers = req.Workers
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if independent < s.serialThreshold {
		workers = 1
	}

	var floors atomic.Int64
	var g async.RunGroup
	sem := make(chan struct{}, workers)

	for i := 0; i < independent; i++ {
		i := i
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				return err
			}

			slot := i
			if req.Antithetic {
				slot = 2 * i
			}

			src := NewStream(req.Seed, uint64(i))
			p, sec, err := s.runPath(grid, model, src, &floors)
			if err != nil {
				return err
			}
			paths[slot] = p
			if twoFactor {
				secondary[slot] = sec
			}

			if req.Antithetic {
				mirror := Antithetic(NewStream(req.Seed, uint64(i)))
				p, sec, err = s.runPath(grid, model, mirror, &floors)
				if err != nil {
					return err
				}
				paths[slot+1] = p
				if twoFactor {
					secondary[slot+1] = sec
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.observe(model, "error", 0, time.Since(start))
		return nil, err
	}

	advisories := s.collectAdvisories(grid, model, floors.Load())
	elapsed := time.Since(start)
	s.observe(model, "ok", req.Paths, elapsed)
	for _, adv := range advisories {
		if s.metrics != nil {
			s.metrics.AdvisoriesTotal.WithLabelValues(model.Name(), string(adv.Kind)).Add(float64(adv.Count))
		}
		s.logger.WarnContext(ctx, "simulation advisory",
			"model", model.Name(), "kind", adv.Kind, "detail", adv.Detail, "count", adv.Count)
	}
	s.logger.DebugContext(ctx, "simulation finished",
		"model", model.Name(), "paths", req.Paths, "steps", grid.Steps(),
		"antithetic", req.Antithetic, "elapsed", elapsed)

	return &Result{
		grid:       grid,
		paths:      paths,
		secondary:  secondary,
		advisories: advisories,
	}, nil
}

// validate 请求级 fail-fast 校验。
func (s *Simulator) validate(grid TimeGrid, model Process, req Request) error {
	if err := grid.Validate(); err != nil {
		return err
	}
	if req.Paths < 1 {
		return xerrors.ErrInvalidPathCount.WithContext("paths", req.Paths)
	}
	if req.Antithetic && req.Paths%2 != 0 {
		return xerrors.ErrOddAntithetic.WithContext("paths", req.Paths)
	}
	if req.Workers < 0 {
		return xerrors.InvalidConfig("negative worker count").WithContext("workers", req.Workers)
	}
	return model.Validate()
}

// runPath 生成一条路径，按模型能力选择离散化方案。
func (s *Simulator) runPath(grid TimeGrid, model Process, src RandomSource, floors *atomic.Int64) ([]float64, []float64, error) {
	switch m := model.(type) {
	case PathGenerator:
		p, err := m.GeneratePath(grid, src)
		return p, nil, err
	case TwoFactorProcess:
		p, sec := s.runTwoFactorPath(grid, m, src, floors)
		return p, sec, nil
	case EulerProcess:
		p, err := s.runEulerPath(grid, m, src, floors)
		return p, nil, err
	default:
		return nil, nil, xerrors.ErrNoScheme.WithContext("model", model.Name())
	}
}

// runEulerPath Euler-Maruyama 逐步推进，跳跃与零截断按能力叠加。
func (s *Simulator) runEulerPath(grid TimeGrid, model EulerProcess, src RandomSource, floors *atomic.Int64) ([]float64, error) {
	dt := grid.Dt()
	sqrtDt := math.Sqrt(dt)
	jumper, hasJumps := model.(JumpProcess)
	truncated := false
	if tr, ok := model.(Truncated); ok {
		truncated = tr.TruncateAtZero()
	}

	path := make([]float64, grid.NumPoints())
	path[0] = model.Initial()
	for i := 0; i < grid.Steps(); i++ {
		t := grid.Time(i)
		x := path[i]
		next := x + model.Drift(t, x)*dt + model.Diffusion(t, x)*sqrtDt*src.Gaussian()
		if hasJumps {
			jump, err := jumper.JumpIncrement(t, dt, src)
			if err != nil {
				return nil, err
			}
			next += jump
		}
		if truncated && next < 0 {
			next = 0
			floors.Add(1)
		}
		path[i+1] = next
	}
	return path, nil
}

// runTwoFactorPath 双因子联合推进，相关冲击按 Cholesky 式混合。
func (s *Simulator) runTwoFactorPath(grid TimeGrid, model TwoFactorProcess, src RandomSource, floors *atomic.Int64) ([]float64, []float64) {
	dt := grid.Dt()
	rho := model.Correlation()
	mix := math.Sqrt(1 - rho*rho)

	primary := make([]float64, grid.NumPoints())
	second := make([]float64, grid.NumPoints())
	primary[0] = model.Initial()
	second[0] = model.SecondaryInitial()

	x, v := primary[0], second[0]
	for i := 0; i < grid.Steps(); i++ {
		z1 := src.Gaussian()
		z2 := rho*z1 + mix*src.Gaussian()
		x, v = model.Step(grid.Time(i), dt, x, v, z1, z2)
		if v < 0 {
			v = 0
			floors.Add(1)
		}
		primary[i+1] = x
		second[i+1] = v
	}
	return primary, second
}

// collectAdvisories 汇总模型级建议与运行期零截断计数。
func (s *Simulator) collectAdvisories(grid TimeGrid, model Process, floorHits int64) []Advisory {
	var advisories []Advisory
	if adv, ok := model.(Advisor); ok {
		advisories = append(advisories, adv.Advisories(grid)...)
	}
	if floorHits > 0 {
		advisories = append(advisories, Advisory{
			Kind:   AdvisoryFloor,
			Detail: "state truncated at zero during discretization",
			Count:  floorHits,
		})
	}
	return advisories
}

// observe 上报一次模拟的指标。
func (s *Simulator) observe(model Process, status string, paths int, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.SimulationsTotal.WithLabelValues(model.Name(), status).Inc()
	if paths > 0 {
		s.metrics.PathsGenerated.WithLabelValues(model.Name()).Add(float64(paths))
	}
	s.metrics.SimulationDuration.WithLabelValues(model.Name()).Observe(elapsed.Seconds())
}
