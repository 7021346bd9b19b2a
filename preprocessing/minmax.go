// Package preprocessing provides feature scaling for machine learning
// pipelines.
//
// The package implements MinMaxScaler, a feature-wise min-max
// normalizer used before feeding tabular or array data into a model. It
// learns per-feature minimum and maximum bounds from a fitted dataset,
// rescales features into [0,1], and supports the inverse mapping back to
// original units. Fitting and transforming operate on N-dimensional
// tensors with a configurable feature axis and an optional column
// subset, and a 2-D convenience API accepts gonum matrices directly.
//
// Example usage:
//
//	scaler := preprocessing.NewMinMaxScaler()
//	err := scaler.Fit(x, nil, 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//	scaled, err := scaler.Transform(x, 1)
//
// A fitted scaler is safe for concurrent readers; fitting is a
// single-writer operation the caller must not run concurrently with
// transforms.
package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/nd-02110114/chemprep/core/model"
	"github.com/nd-02110114/chemprep/core/tensor"
	chemprepErrors "github.com/nd-02110114/chemprep/pkg/errors"
	"github.com/nd-02110114/chemprep/pkg/log"
)

// MinMaxScaler rescales each selected feature column into [0,1] using
// per-column bounds observed during Fit.
//
// The forward transform is (x - min) / (max - min) and the inverse is
// x * (max - min) + min, broadcast across every non-feature dimension.
// Columns whose observed range is zero are mapped to 0 rather than
// NaN or Inf; the inverse maps them back to the observed minimum.
type MinMaxScaler struct {
	model.BaseEstimator

	// Min holds the observed minimum of each selected feature column.
	Min []float64

	// Max holds the observed maximum, parallel to Min.
	Max []float64

	// Indices holds the feature-column positions the scaler applies to.
	// nil means all columns. Positions outside Indices pass through
	// Transform and InverseTransform unchanged.
	Indices []int

	// NFeatures is the size of the feature axis observed during Fit.
	NFeatures int

	device tensor.Device
}

const minMaxModelType = "MinMaxScaler"

// NewMinMaxScaler creates an unfitted MinMaxScaler.
func NewMinMaxScaler() *MinMaxScaler {
	m := &MinMaxScaler{device: tensor.CPU}
	m.ModelType = minMaxModelType
	m.SetLogger(log.GetLoggerWithName(minMaxModelType))
	return m
}

// Fit learns per-column minimum and maximum bounds from x.
//
// axis designates the feature dimension (1 for sample-major tables);
// every other dimension is flattened into a sample dimension, so the
// bounds are computed per position along axis over all samples. indices
// optionally restricts fitting to a subset of feature columns; nil means
// all columns. A re-fit discards all previously learned state.
func (m *MinMaxScaler) Fit(x *tensor.Tensor, indices []int, axis int) (err error) {
	defer chemprepErrors.Recover(&err, "MinMaxScaler.Fit")

	if err := validateAxis("MinMaxScaler.Fit", x, axis); err != nil {
		return err
	}
	nFeatures, _ := x.Dim(axis)
	if err := validateIndices("MinMaxScaler.Fit", indices, nFeatures); err != nil {
		return err
	}

	mins, maxs, err := x.MinMaxAlong(axis)
	if err != nil {
		return err
	}

	if indices == nil {
		m.Min = mins
		m.Max = maxs
		m.Indices = nil
	} else {
		m.Min = make([]float64, len(indices))
		m.Max = make([]float64, len(indices))
		for j, p := range indices {
			m.Min[j] = mins[p]
			m.Max[j] = maxs[p]
		}
		m.Indices = append([]int(nil), indices...)
	}
	m.NFeatures = nFeatures

	m.SetFitted()
	m.LogDebug("fitted", "n_features", nFeatures, "axis", axis, "n_selected", len(m.Min))
	return nil
}

// Transform rescales the selected feature columns of x into [0,1] using
// the fitted bounds. The size of x along axis must equal the feature
// count observed during Fit; non-selected columns pass through
// unchanged. The result is a new tensor of the same shape; if x tracks
// gradients, the result does too and the transform is differentiable.
func (m *MinMaxScaler) Transform(x *tensor.Tensor, axis int) (_ *tensor.Tensor, err error) {
	defer chemprepErrors.Recover(&err, "MinMaxScaler.Transform")
	return m.apply("Transform", x, axis, false)
}

// InverseTransform maps normalized values back to original units:
// x * (max - min) + min per selected column. Columns with zero observed
// range map every input to the observed minimum; that direction is lossy
// since their scale is undefined.
func (m *MinMaxScaler) InverseTransform(x *tensor.Tensor, axis int) (_ *tensor.Tensor, err error) {
	defer chemprepErrors.Recover(&err, "MinMaxScaler.InverseTransform")
	return m.apply("InverseTransform", x, axis, true)
}

// FitTransform fits the scaler on x and returns the transformed x.
func (m *MinMaxScaler) FitTransform(x *tensor.Tensor, indices []int, axis int) (_ *tensor.Tensor, err error) {
	defer chemprepErrors.Recover(&err, "MinMaxScaler.FitTransform")
	if err := m.Fit(x, indices, axis); err != nil {
		return nil, err
	}
	return m.Transform(x, axis)
}

func (m *MinMaxScaler) apply(method string, x *tensor.Tensor, axis int, inverse bool) (*tensor.Tensor, error) {
	op := minMaxModelType + "." + method
	if !m.IsFitted() {
		return nil, chemprepErrors.NewNotFittedError(minMaxModelType, method)
	}
	if err := validateAxis(op, x, axis); err != nil {
		return nil, err
	}
	n, _ := x.Dim(axis)
	if n != m.NFeatures {
		return nil, chemprepErrors.NewDimensionError(op, m.NFeatures, n, axis)
	}
	scale, shift := m.coefficients(inverse)
	return x.AffineAlong(axis, scale, shift)
}

// coefficients expands the fitted bounds into per-position affine
// coefficients over the full feature axis. Non-selected positions get
// the identity. A zero range is replaced by 1 so constant columns map to
// 0 forward and back to their minimum inverse, never NaN or Inf.
func (m *MinMaxScaler) coefficients(inverse bool) (scale, shift []float64) {
	scale = make([]float64, m.NFeatures)
	shift = make([]float64, m.NFeatures)
	for p := range scale {
		scale[p] = 1
	}
	for j, p := range m.selected() {
		rng := m.Max[j] - m.Min[j]
		if rng == 0 {
			rng = 1
		}
		if inverse {
			scale[p] = rng
			shift[p] = m.Min[j]
		} else {
			scale[p] = 1 / rng
			shift[p] = -m.Min[j] / rng
		}
	}
	return scale, shift
}

// selected returns the feature positions the scaler applies to, in the
// order their bounds are stored.
func (m *MinMaxScaler) selected() []int {
	if m.Indices != nil {
		return m.Indices
	}
	all := make([]int, m.NFeatures)
	for p := range all {
		all[p] = p
	}
	return all
}

func validateAxis(op string, x *tensor.Tensor, axis int) error {
	if axis < 1 {
		return chemprepErrors.NewValueError(op, "axis must be >= 1")
	}
	if axis >= x.Rank() {
		return chemprepErrors.NewDimensionError(op, x.Rank(), axis, axis)
	}
	return nil
}

func validateIndices(op string, indices []int, nFeatures int) error {
	seen := make(map[int]bool, len(indices))
	for _, p := range indices {
		if p < 0 || p >= nFeatures {
			return chemprepErrors.NewValueError(op,
				fmt.Sprintf("index %d out of range for %d feature columns", p, nFeatures))
		}
		if seen[p] {
			return chemprepErrors.NewValueError(op, fmt.Sprintf("duplicate index %d", p))
		}
		seen[p] = true
	}
	return nil
}

// FitMatrix fits the scaler on a 2-D sample-major matrix, using all
// columns as features. Equivalent to Fit with axis 1 and nil indices.
func (m *MinMaxScaler) FitMatrix(X mat.Matrix) (err error) {
	defer chemprepErrors.Recover(&err, "MinMaxScaler.FitMatrix")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return chemprepErrors.NewModelError("MinMaxScaler.FitMatrix", "empty data", chemprepErrors.ErrEmptyData)
	}

	m.Min = make([]float64, c)
	m.Max = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		m.Min[j] = floats.Min(col)
		m.Max[j] = floats.Max(col)
	}
	m.Indices = nil
	m.NFeatures = c

	m.SetFitted()
	m.LogDebug("fitted", "n_features", c, "axis", 1, "n_selected", c)
	return nil
}

// TransformMatrix rescales a 2-D matrix using the fitted bounds.
func (m *MinMaxScaler) TransformMatrix(X mat.Matrix) (_ mat.Matrix, err error) {
	defer chemprepErrors.Recover(&err, "MinMaxScaler.TransformMatrix")
	return m.applyMatrix("TransformMatrix", X, false)
}

// InverseTransformMatrix maps a normalized 2-D matrix back to original
// units.
func (m *MinMaxScaler) InverseTransformMatrix(X mat.Matrix) (_ mat.Matrix, err error) {
	defer chemprepErrors.Recover(&err, "MinMaxScaler.InverseTransformMatrix")
	return m.applyMatrix("InverseTransformMatrix", X, true)
}

// FitTransformMatrix fits on X and returns the transformed X.
func (m *MinMaxScaler) FitTransformMatrix(X mat.Matrix) (_ mat.Matrix, err error) {
	defer chemprepErrors.Recover(&err, "MinMaxScaler.FitTransformMatrix")
	if err := m.FitMatrix(X); err != nil {
		return nil, err
	}
	return m.TransformMatrix(X)
}

func (m *MinMaxScaler) applyMatrix(method string, X mat.Matrix, inverse bool) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, chemprepErrors.NewNotFittedError(minMaxModelType, method)
	}
	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, chemprepErrors.NewDimensionError(minMaxModelType+"."+method, m.NFeatures, c, 1)
	}

	scale, shift := m.coefficients(inverse)
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*scale[j]+shift[j])
		}
	}
	return result, nil
}

// ToDevice relocates the scaler's learned buffers to d, uniformly with
// any other parameter buffer in a surrounding model. Transform arithmetic
// always runs on the device the input tensor resides on; this only moves
// the scaler's own state.
func (m *MinMaxScaler) ToDevice(d tensor.Device) error {
	if m.IsFitted() {
		minBuf, err := relocate(m.Min, d)
		if err != nil {
			return err
		}
		maxBuf, err := relocate(m.Max, d)
		if err != nil {
			return err
		}
		m.Min, m.Max = minBuf, maxBuf
	}
	m.device = d
	return nil
}

// Device returns the device the scaler's state resides on.
func (m *MinMaxScaler) Device() tensor.Device {
	return m.device
}

func relocate(buf []float64, d tensor.Device) ([]float64, error) {
	if len(buf) == 0 {
		return buf, nil
	}
	t, err := tensor.New(buf, len(buf))
	if err != nil {
		return nil, err
	}
	moved, err := t.ToDevice(d)
	if err != nil {
		return nil, err
	}
	return moved.Data(), nil
}

// String returns a short description of the scaler.
func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return "MinMaxScaler(unfitted)"
	}
	if m.Indices == nil {
		return fmt.Sprintf("MinMaxScaler(n_features=%d)", m.NFeatures)
	}
	return fmt.Sprintf("MinMaxScaler(n_features=%d, indices=%v)", m.NFeatures, m.Indices)
}

var (
	_ tensor.Relocatable  = (*MinMaxScaler)(nil)
	_ model.StateExporter = (*MinMaxScaler)(nil)
	_ model.StateImporter = (*MinMaxScaler)(nil)
)
