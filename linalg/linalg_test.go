package linalg

import (
	"errors"
	"math"
	"testing"

	"github.com/wyfcoding/quant/xerrors"
)

func TestCholesky(t *testing.T) {
	m, err := NewMatrixFromRows([][]float64{
		{4, 12, -16},
		{12, 37, -43},
		{-16, -43, 98},
	})
	if err != nil {
		t.Fatalf("NewMatrixFromRows: %v", err)
	}

	L, err := m.Cholesky()
	if err != nil {
		t.Fatalf("Cholesky: %v", err)
	}

	// 已知因子
	want := [][]float64{
		{2, 0, 0},
		{6, 1, 0},
		{-8, 5, 3},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(L.Get(i, j)-want[i][j]) > 1e-10 {
				t.Errorf("L[%d][%d] = %g, want %g", i, j, L.Get(i, j), want[i][j])
			}
		}
	}
}

func TestCholeskyErrors(t *testing.T) {
	rect := NewMatrix(2, 3)
	if _, err := rect.Cholesky(); !errors.Is(err, xerrors.ErrNotSquare) {
		t.Errorf("rectangular: got %v", err)
	}

	indef, err := NewMatrixFromRows([][]float64{
		{1, 2},
		{2, 1},
	})
	if err != nil {
		t.Fatalf("NewMatrixFromRows: %v", err)
	}
	if _, err := indef.Cholesky(); !errors.Is(err, xerrors.ErrNotPositiveDefinite) {
		t.Errorf("indefinite: got %v", err)
	}
}

func TestSolveCholesky(t *testing.T) {
	m, err := NewMatrixFromRows([][]float64{
		{4, 2},
		{2, 3},
	})
	if err != nil {
		t.Fatalf("NewMatrixFromRows: %v", err)
	}

	// A * [1, 2] = [8, 8]
	x, err := m.SolveCholesky([]float64{8, 8})
	if err != nil {
		t.Fatalf("SolveCholesky: %v", err)
	}
	if math.Abs(x[0]-1) > 1e-10 || math.Abs(x[1]-2) > 1e-10 {
		t.Errorf("solution = %v, want [1, 2]", x)
	}
}

func TestMulVector(t *testing.T) {
	m, err := NewMatrixFromRows([][]float64{
		{1, 2},
		{3, 4},
	})
	if err != nil {
		t.Fatalf("NewMatrixFromRows: %v", err)
	}

	y, err := m.MulVector([]float64{1, 1})
	if err != nil {
		t.Fatalf("MulVector: %v", err)
	}
	if y[0] != 3 || y[1] != 7 {
		t.Errorf("result = %v, want [3, 7]", y)
	}

	if _, err := m.MulVector([]float64{1, 2, 3}); !errors.Is(err, xerrors.ErrDimMismatch) {
		t.Errorf("dim mismatch: got %v", err)
	}
}

func TestLowerMulVectorMatchesFull(t *testing.T) {
	m, err := NewMatrixFromRows([][]float64{
		{2, 0, 0},
		{1, 3, 0},
		{4, 5, 6},
	})
	if err != nil {
		t.Fatalf("NewMatrixFromRows: %v", err)
	}

	vec := []float64{1, -2, 0.5}
	full, err := m.MulVector(vec)
	if err != nil {
		t.Fatalf("MulVector: %v", err)
	}
	lower, err := m.LowerMulVector(vec)
	if err != nil {
		t.Fatalf("LowerMulVector: %v", err)
	}
	for i := range full {
		if full[i] != lower[i] {
			t.Errorf("row %d: lower %g != full %g", i, lower[i], full[i])
		}
	}
}

func TestPolyFitExactQuadratic(t *testing.T) {
	// y = 1 + 2x + 3x^2
	xs := []float64{-2, -1, 0, 1, 2, 3}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 1 + 2*x + 3*x*x
	}

	coeffs, err := PolyFit(xs, ys, 2)
	if err != nil {
		t.Fatalf("PolyFit: %v", err)
	}
	want := []float64{1, 2, 3}
	for i := range want {
		if math.Abs(coeffs[i]-want[i]) > 1e-8 {
			t.Errorf("coeff %d = %g, want %g", i, coeffs[i], want[i])
		}
	}
}

func TestPolyFitErrors(t *testing.T) {
	if _, err := PolyFit(nil, nil, 2); !errors.Is(err, xerrors.ErrEmptyData) {
		t.Errorf("empty: got %v", err)
	}
	if _, err := PolyFit([]float64{1, 2}, []float64{1}, 1); !errors.Is(err, xerrors.ErrDimMismatch) {
		t.Errorf("length mismatch: got %v", err)
	}
	// 两个点拟合不了二次
	if _, err := PolyFit([]float64{1, 2}, []float64{1, 2}, 2); !errors.Is(err, xerrors.ErrDimMismatch) {
		t.Errorf("underdetermined: got %v", err)
	}
}
