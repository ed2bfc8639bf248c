// Package linalg 提供模拟引擎所需的稠密矩阵原语：
// Cholesky 分解用于分数布朗噪声的相关结构，正规方程求解用于 LSM 回归。
package linalg

import (
	"math"

	"github.com/wyfcoding/quant/xerrors"
)

// Matrix 行主序稠密矩阵.
type Matrix struct {
	data []float64
	rows int
	cols int
}

// NewMatrix 创建一个 rows x cols 的零矩阵.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// NewMatrixFromRows 从二维切片创建矩阵.
func NewMatrixFromRows(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, xerrors.ErrEmptyData
	}
	cols := len(rows[0])
	m := NewMatrix(n, cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, xerrors.ErrDimMismatch
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}
	return m, nil
}

// Rows 行数.
func (m *Matrix) Rows() int { return m.rows }

// Cols 列数.
func (m *Matrix) Cols() int { return m.cols }

// Get 获取元素 (i, j).
func (m *Matrix) Get(row, col int) float64 {
	return m.data[row*m.cols+col]
}

// Set 设置元素 (i, j).
func (m *Matrix) Set(row, col int, val float64) {
	m.data[row*m.cols+col] = val
}

// MulVector 矩阵向量乘法: y = A * x.
func (m *Matrix) MulVector(vec []float64) ([]float64, error) {
	if len(vec) != m.cols {
		return nil, xerrors.ErrDimMismatch
	}
	res := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		var sum float64
		off := i * m.cols
		for j := 0; j < m.cols; j++ {
			sum += m.data[off+j] * vec[j]
		}
		res[i] = sum
	}
	return res, nil
}

// LowerMulVector 下三角矩阵向量乘法，跳过上三角的零元素。
// 用于以 Cholesky 因子批量生成相关高斯向量。
func (m *Matrix) LowerMulVector(vec []float64) ([]float64, error) {
	if m.rows != m.cols || len(vec) != m.cols {
		return nil, xerrors.ErrDimMismatch
	}
	res := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		var sum float64
		off := i * m.cols
		for j := 0; j <= i; j++ {
			sum += m.data[off+j] * vec[j]
		}
		res[i] = sum
	}
	return res, nil
}

// Cholesky 分解: A = L * L^T，返回下三角因子 L.
func (m *Matrix) Cholesky() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, xerrors.ErrNotSquare
	}

	n := m.rows
	res := NewMatrix(n, n)

	for i := 0; i < n; i++ {
		for j := 0; j < i+1; j++ {
			var sum float64
			for k := 0; k < j; k++ {
				sum += res.Get(i, k) * res.Get(j, k)
			}

			if i == j {
				val := m.Get(i, i) - sum
				if val <= 0 {
					return nil, xerrors.ErrNotPositiveDefinite
				}
				res.Set(i, j, math.Sqrt(val))
			} else {
				res.Set(i, j, (m.Get(i, j)-sum)/res.Get(j, j))
			}
		}
	}

	return res, nil
}

// forwardSubstitute 解下三角方程组 Ly = b.
func (m *Matrix) forwardSubstitute(b []float64) []float64 {
	res := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		var sum float64
		for j := 0; j < i; j++ {
			sum += m.Get(i, j) * res[j]
		}
		res[i] = (b[i] - sum) / m.Get(i, i)
	}
	return res
}

// backwardSubstitute 解上三角方程组 L^T x = y，复用 L 的转置索引.
func (m *Matrix) backwardSubstitute(b []float64) []float64 {
	res := make([]float64, m.rows)
	for i := m.rows - 1; i >= 0; i-- {
		var sum float64
		for j := i + 1; j < m.cols; j++ {
			sum += m.Get(j, i) * res[j]
		}
		res[i] = (b[i] - sum) / m.Get(i, i)
	}
	return res
}

// SolveCholesky 使用 Cholesky 分解求解 Mx = b，M 必须对称正定.
func (m *Matrix) SolveCholesky(b []float64) ([]float64, error) {
	if m.rows != m.cols || len(b) != m.rows {
		return nil, xerrors.ErrDimMismatch
	}
	L, err := m.Cholesky()
	if err != nil {
		return nil, err
	}
	return L.backwardSubstitute(L.forwardSubstitute(b)), nil
}

// PolyFit 最小二乘多项式拟合：返回 degree+1 个系数（常数项在前）。
// 通过正规方程 (A^T A) c = A^T y 求解，A 为 Vandermonde 矩阵。
func PolyFit(x, y []float64, degree int) ([]float64, error) {
	n := len(x)
	if n == 0 {
		return nil, xerrors.ErrEmptyData
	}
	if len(y) != n {
		return nil, xerrors.ErrDimMismatch
	}
	m := degree + 1
	if n < m {
		return nil, xerrors.ErrDimMismatch
	}

	ata := NewMatrix(m, m)
	aty := make([]float64, m)
	pows := make([]float64, 2*m-1)
	for i := 0; i < n; i++ {
		p := 1.0
		for d := 0; d < 2*m-1; d++ {
			pows[d] = p
			p *= x[i]
		}
		for r := 0; r < m; r++ {
			aty[r] += pows[r] * y[i]
			for c := 0; c < m; c++ {
				ata.Set(r, c, ata.Get(r, c)+pows[r+c])
			}
		}
	}

	return ata.SolveCholesky(aty)
}
