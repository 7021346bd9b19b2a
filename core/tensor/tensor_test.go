package tensor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/nd-02110114/chemprep/core/tensor"
	chemprepErrors "github.com/nd-02110114/chemprep/pkg/errors"
)

func TestNewValidation(t *testing.T) {
	_, err := tensor.New([]float64{1, 2, 3})
	require.Error(t, err, "missing shape must be rejected")

	_, err = tensor.New([]float64{1, 2, 3}, 2, 0)
	require.Error(t, err, "non-positive dimension must be rejected")

	_, err = tensor.New([]float64{1, 2, 3}, 2, 2)
	require.Error(t, err, "element count mismatch must be rejected")
	assert.True(t, errors.Is(err, chemprepErrors.ErrDimensionMismatch))

	x, err := tensor.New([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, x.Shape())
	assert.Equal(t, 2, x.Rank())
	assert.Equal(t, 6, x.Numel())
}

func TestAtSet(t *testing.T) {
	x := tensor.MustNew([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	assert.Equal(t, 1.0, x.At(0, 0))
	assert.Equal(t, 6.0, x.At(1, 2))

	x.Set(9.5, 1, 0)
	assert.Equal(t, 9.5, x.At(1, 0))

	// rank-3 addressing
	y := tensor.MustNew([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 2, 2, 2)
	assert.Equal(t, 7.0, y.At(1, 1, 0))
}

func TestCloneIsIndependent(t *testing.T) {
	x := tensor.MustNew([]float64{1, 2, 3, 4}, 2, 2)
	y := x.Clone()
	y.Set(100, 0, 0)

	assert.Equal(t, 1.0, x.At(0, 0))
	assert.Equal(t, 100.0, y.At(0, 0))
}

func TestReshape(t *testing.T) {
	x := tensor.MustNew([]float64{1, 2, 3, 4, 5, 6}, 2, 3)

	require.NoError(t, x.Reshape(3, 2))
	assert.Equal(t, []int{3, 2}, x.Shape())
	assert.Equal(t, 3.0, x.At(1, 0))

	require.NoError(t, x.Reshape(6, 1, 1))
	assert.Equal(t, 3, x.Rank())

	require.Error(t, x.Reshape(4, 2), "element count must be preserved")
}

func TestDenseInterop(t *testing.T) {
	X := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	x := tensor.NewFromDense(X)

	assert.Equal(t, []int{2, 3}, x.Shape())
	assert.Equal(t, 5.0, x.At(1, 1))

	back, err := x.Dense()
	require.NoError(t, err)
	assert.True(t, mat.Equal(X, back))

	require.NoError(t, x.Reshape(3, 2, 1))
	_, err = x.Dense()
	require.Error(t, err, "Dense requires rank 2")
}

func TestMinMaxAlongRank2(t *testing.T) {
	x := tensor.MustNew([]float64{
		0.1, 10, 0.3,
		0.2, 20, 0.1,
		-0.3, 30, 0,
		0.4, -40, 0,
	}, 4, 3)

	mins, maxs, err := x.MinMaxAlong(1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.3, -40, 0}, mins, 1e-12)
	assert.InDeltaSlice(t, []float64{0.4, 30, 0.3}, maxs, 1e-12)

	// axis 0 reduces over rows instead
	mins0, maxs0, err := x.MinMaxAlong(0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.1, 0.1, -0.3, -40}, mins0, 1e-12)
	assert.InDeltaSlice(t, []float64{10, 20, 30, 0.4}, maxs0, 1e-12)
}

func TestMinMaxAlongRank3(t *testing.T) {
	// shape (2, 3, 2): feature axis 1, two trailing samples per feature
	x := tensor.MustNew([]float64{
		1, 2, 10, 20, 100, 200,
		-1, 3, 40, 5, 150, 50,
	}, 2, 3, 2)

	mins, maxs, err := x.MinMaxAlong(1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 5, 50}, mins, 1e-12)
	assert.InDeltaSlice(t, []float64{3, 40, 200}, maxs, 1e-12)

	_, _, err = x.MinMaxAlong(3)
	require.Error(t, err, "axis out of range must be rejected")
	assert.True(t, errors.Is(err, chemprepErrors.ErrDimensionMismatch))
}

func TestAffineAlong(t *testing.T) {
	x := tensor.MustNew([]float64{
		1, 10,
		2, 20,
		3, 30,
	}, 3, 2)

	y, err := x.AffineAlong(1, []float64{2, 0.1}, []float64{1, -1})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, y.Shape())
	assert.InDeltaSlice(t, []float64{3, 0, 5, 1, 7, 2}, y.Data(), 1e-12)

	_, err = x.AffineAlong(1, []float64{2}, []float64{1, -1})
	require.Error(t, err, "coefficient length must match axis size")
}

func TestAffineAlongBroadcastRank3(t *testing.T) {
	// identical affine per position along axis 2, broadcast over axes 0 and 1
	x := tensor.MustNew([]float64{
		1, 2, 3,
		4, 5, 6,

		7, 8, 9,
		10, 11, 12,
	}, 2, 2, 3)

	y, err := x.AffineAlong(2, []float64{1, 10, 100}, []float64{0, 0, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{
		1, 20, 300,
		4, 50, 600,
		7, 80, 900,
		10, 110, 1200,
	}, y.Data(), 1e-12)
}

func TestAffineAlongGradient(t *testing.T) {
	x := tensor.MustNew([]float64{
		1, 10,
		2, 20,
	}, 2, 2)
	x.SetRequiresGrad(true)

	y, err := x.AffineAlong(1, []float64{0.5, 0.25}, []float64{-1, -2})
	require.NoError(t, err)
	require.True(t, y.RequiresGrad(), "gradient tracking must pass through")

	require.NoError(t, y.Backward())

	grad := x.Grad()
	require.NotNil(t, grad)
	// dy/dx is the per-column scale, broadcast across rows
	assert.InDeltaSlice(t, []float64{0.5, 0.25, 0.5, 0.25}, grad.Data(), 1e-12)
}

func TestBackwardRequiresGradTracking(t *testing.T) {
	x := tensor.MustNew([]float64{1, 2}, 1, 2)
	err := x.Backward()
	require.Error(t, err, "Backward on a non-tracking tensor must fail")
}

func TestToDevice(t *testing.T) {
	x := tensor.MustNew([]float64{1, 2, 3, 4}, 2, 2)
	assert.Equal(t, "cpu", x.Device().String())

	moved, err := x.ToDevice(tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, x.Data(), moved.Data())

	// relocation copies; mutating the copy leaves the original intact
	moved.Set(99, 0, 0)
	assert.Equal(t, 1.0, x.At(0, 0))
}
