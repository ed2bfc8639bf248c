package stochastic

import (
	"math"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/wyfcoding/quant/xerrors"
)

// Parameter 时变系数：t -> 取值。对固定的 t 必须是确定性的纯函数，
// 每个模型的每个系数都以 Parameter 形式给出，常数只是其退化形式。
type Parameter func(t float64) float64

// Constant 常数参数，忽略 t。
func Constant(v float64) Parameter {
	return func(float64) float64 { return v }
}

// ParamFunc 把任意 t -> 取值 的函数包装为参数。
func ParamFunc(f func(t float64) float64) Parameter {
	return Parameter(f)
}

// Interpolation 分段参数的插值策略，构造时固定。
type Interpolation int

const (
	// InterpNearest 取最近枢轴点的值。
	InterpNearest Interpolation = iota
	// InterpLinear 相邻枢轴点之间线性插值。
	InterpLinear
)

// Piecewise 由 (times, values) 枢轴表构造分段参数。
// times 必须严格递增；域外的 t 被钳制到端点而不是报错，
// 因为网格末点的浮点舍入可能落在表域之外。
func Piecewise(times, values []float64, interp Interpolation) (Parameter, error) {
	if len(times) == 0 {
		return nil, xerrors.ErrEmptyCurve
	}
	if len(times) != len(values) {
		return nil, xerrors.ErrCurveLengthMismatch
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, xerrors.ErrUnsortedCurve
		}
	}
	if interp != InterpNearest && interp != InterpLinear {
		return nil, xerrors.ErrInvalidInterpolation
	}

	ts := append([]float64(nil), times...)
	vs := append([]float64(nil), values...)

	return func(t float64) float64 {
		if t <= ts[0] {
			return vs[0]
		}
		last := len(ts) - 1
		if t >= ts[last] {
			return vs[last]
		}
		// hi 是第一个 > t 的枢轴
		hi := sort.SearchFloat64s(ts, t)
		if ts[hi] == t {
			return vs[hi]
		}
		lo := hi - 1
		if interp == InterpNearest {
			if t-ts[lo] <= ts[hi]-t {
				return vs[lo]
			}
			return vs[hi]
		}
		w := (t - ts[lo]) / (ts[hi] - ts[lo])
		return vs[lo] + w*(vs[hi]-vs[lo])
	}, nil
}

// FromExpr 编译一个以 t 为自变量的表达式为参数，例如 "0.02 + 0.01*t"。
// 表达式必须对网格内所有 t 有定义；运行期求值失败返回 NaN。
func FromExpr(src string) (Parameter, error) {
	// 与规则引擎一致：不绑定具体 Env 编译，运行时注入 t
	program, err := expr.Compile(src, expr.AsFloat64())
	if err != nil {
		return nil, xerrors.Wrap(err, xerrors.ErrInvalidConfig, "compile parameter expression").
			WithContext("expr", src)
	}
	// 试算一次，尽早暴露运行期类型问题
	if _, err := runExpr(program, 0); err != nil {
		return nil, xerrors.Wrap(err, xerrors.ErrInvalidConfig, "evaluate parameter expression").
			WithContext("expr", src)
	}
	return func(t float64) float64 {
		v, err := runExpr(program, t)
		if err != nil {
			return math.NaN()
		}
		return v
	}, nil
}

func runExpr(program *vm.Program, t float64) (float64, error) {
	out, err := expr.Run(program, map[string]any{"t": t})
	if err != nil {
		return 0, err
	}
	v, ok := out.(float64)
	if !ok {
		return 0, xerrors.InvalidConfig("parameter expression must evaluate to a float")
	}
	return v, nil
}
