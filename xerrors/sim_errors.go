package xerrors

var (
	// ErrEmptyData 输入数据为空。
	ErrEmptyData = New(ErrInvalidConfig, 400001, "empty data", "input data must not be empty", nil)
	// ErrDimMismatch 维度不匹配.
	ErrDimMismatch = New(ErrInvalidConfig, 400002, "dimension mismatch", "matrix or vector dimensions do not match", nil)
	// ErrNotSquare 不是方阵.
	ErrNotSquare = New(ErrInvalidConfig, 400003, "matrix must be square", "input matrix is not square", nil)
	// ErrNotPositiveDefinite 不是正定矩阵.
	ErrNotPositiveDefinite = New(ErrInvalidConfig, 400004, "matrix is not positive definite", "input matrix must be positive definite", nil)

	// ErrInvalidGrid 时间网格非法：步数必须 >=1 且步长必须为正。
	ErrInvalidGrid = New(ErrInvalidConfig, 400101, "invalid time grid", "steps must be >= 1 and (horizon-start)/steps must be > 0", nil)
	// ErrInvalidPathCount 路径数必须 >= 1。
	ErrInvalidPathCount = New(ErrInvalidConfig, 400102, "invalid path count", "num paths must be >= 1", nil)
	// ErrOddAntithetic 对偶变量模式要求偶数条路径。
	ErrOddAntithetic = New(ErrInvalidConfig, 400103, "odd path count under antithetic mode", "antithetic sampling mirrors path pairs, num paths must be even", nil)
	// ErrMissingParameter 模型系数缺失（nil Parameter）。
	ErrMissingParameter = New(ErrInvalidConfig, 400104, "missing model parameter", "all model coefficients must be non-nil parameters", nil)
	// ErrHurstOutOfRange Hurst 指数必须在 (0,1) 内。
	ErrHurstOutOfRange = New(ErrInvalidConfig, 400105, "hurst exponent out of range", "hurst exponent must lie in the open interval (0, 1)", nil)
	// ErrCorrelationOutOfRange 相关系数必须在 [-1,1] 内。
	ErrCorrelationOutOfRange = New(ErrInvalidConfig, 400106, "correlation out of range", "correlation coefficient must lie in [-1, 1]", nil)
	// ErrNonPositiveInitial 对数型模型的初值必须为正。
	ErrNonPositiveInitial = New(ErrInvalidConfig, 400107, "non-positive initial value", "lognormal-type models require a strictly positive initial state", nil)
	// ErrNegativeInitialVariance 初始方差不能为负。
	ErrNegativeInitialVariance = New(ErrInvalidConfig, 400108, "negative initial variance", "variance state must start at a non-negative value", nil)
	// ErrNegativeElasticity CEV 弹性指数不能为负。
	ErrNegativeElasticity = New(ErrInvalidConfig, 400109, "negative elasticity exponent", "CEV elasticity exponent must be >= 0", nil)
	// ErrNoScheme 模型未实现任何可用的离散化方案。
	ErrNoScheme = New(ErrInternal, 500101, "model implements no discretization scheme", "process must implement EulerProcess, TwoFactorProcess or PathGenerator", nil)
	// ErrNotPrepared 路径生成前必须完成协方差预计算。
	ErrNotPrepared = New(ErrInternal, 500102, "process not prepared for grid", "Prepare must run before path generation", nil)

	// ErrNegativeJumpRate 泊松强度不能为负。
	ErrNegativeJumpRate = New(ErrRandomSource, 400201, "negative poisson rate", "jump arrival rate lambda must be >= 0", nil)

	// ErrEmptyCurve 分段参数曲线不能为空。
	ErrEmptyCurve = New(ErrInvalidConfig, 400301, "empty parameter curve", "piecewise parameter needs at least one pivot", nil)
	// ErrCurveLengthMismatch 分段参数的时间轴与取值长度不一致。
	ErrCurveLengthMismatch = New(ErrInvalidConfig, 400302, "curve length mismatch", "times and values must have equal length", nil)
	// ErrUnsortedCurve 分段参数的时间轴必须严格递增。
	ErrUnsortedCurve = New(ErrInvalidConfig, 400303, "unsorted parameter curve", "pivot times must be strictly increasing", nil)
	// ErrInvalidInterpolation 未知的插值策略。
	ErrInvalidInterpolation = New(ErrInvalidConfig, 400304, "invalid interpolation policy", "supported policies: nearest, linear", nil)

	// ErrInvalidOptionType 无效的期权类型。
	ErrInvalidOptionType = New(ErrInvalidConfig, 400401, "invalid option type", "supported types: CALL, PUT", nil)
	// ErrInvalidConfidence 置信水平必须在 (0,1) 内。
	ErrInvalidConfidence = New(ErrInvalidConfig, 400402, "invalid confidence level", "confidence must lie in the open interval (0, 1)", nil)
	// ErrInvalidQuantile 分位点必须在 [0,1] 内。
	ErrInvalidQuantile = New(ErrInvalidConfig, 400403, "invalid quantile", "quantile must lie in [0, 1]", nil)
	// ErrNoSecondaryFactor 结果不含第二因子。
	ErrNoSecondaryFactor = New(ErrInvalidConfig, 400404, "no secondary factor", "operation requires a two-factor simulation result", nil)
)
