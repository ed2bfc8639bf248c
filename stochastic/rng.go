package stochastic

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wyfcoding/quant/xerrors"
)

// RandomSource 为单条路径提供标准正态与泊松抽样。
// 抽样推进内部状态，但给定种子后完全可复现。
// 并行路径各自持有独立子流，互不共享状态。
type RandomSource interface {
	// Gaussian 均值 0、方差 1 的正态抽样。
	Gaussian() float64
	// Poisson 强度为 lambda 的泊松抽样；lambda < 0 视为契约违规。
	Poisson(lambda float64) (int, error)
}

// streamSource 基于 PCG 子流的随机源。
type streamSource struct {
	src    rand.Source
	normal distuv.Normal
}

// NewStream 由运行种子与路径序号确定性派生一条独立子流。
// 路径 i 固定使用子流 i，保证并行执行顺序不影响结果。
func NewStream(seed, stream uint64) RandomSource {
	src := rand.NewSource(substreamSeed(seed, stream))
	return &streamSource{
		src:    src,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// substreamSeed 用 splitmix64 终结器打散 (seed, stream)，
// 避免相邻路径序号得到相关的生成器状态。
func substreamSeed(seed, stream uint64) uint64 {
	z := seed + 0x9e3779b97f4a7c15*(stream+1)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func (s *streamSource) Gaussian() float64 {
	return s.normal.Rand()
}

func (s *streamSource) Poisson(lambda float64) (int, error) {
	if lambda < 0 {
		return 0, xerrors.ErrNegativeJumpRate.WithContext("lambda", lambda)
	}
	if lambda == 0 {
		return 0, nil
	}
	p := distuv.Poisson{Lambda: lambda, Src: s.src}
	return int(p.Rand()), nil
}

// Antithetic 包装一个随机源为其对偶镜像：高斯抽样取负，
// 泊松抽样从同一底层流原样重放。配对路径用相同种子的新流
// 套上该包装即可得到逐步精确取负的高斯序列。
func Antithetic(inner RandomSource) RandomSource {
	return &antitheticSource{inner: inner}
}

type antitheticSource struct {
	inner RandomSource
}

func (a *antitheticSource) Gaussian() float64 {
	return -a.inner.Gaussian()
}

func (a *antitheticSource) Poisson(lambda float64) (int, error) {
	return a.inner.Poisson(lambda)
}
