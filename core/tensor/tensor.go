// Package tensor provides the N-dimensional numeric array consumed by
// chemprep estimators.
//
// A Tensor is a row-major strided view over a flat float64 buffer. It
// supports arbitrary rank, axis-aware min/max reduction, broadcast affine
// maps along an axis, and optional gradient tracking through those maps.
// Rank-2 tensors interoperate with gonum/mat for callers that work with
// plain matrices.
package tensor

import (
	"gonum.org/v1/gonum/mat"

	"github.com/nd-02110114/chemprep/pkg/errors"
)

// Tensor is a row-major N-dimensional array of float64 values.
type Tensor struct {
	data    []float64
	shape   []int
	strides []int
	device  Device

	requiresGrad bool
	grad         *Tensor
	node         *node
	parents      []*Tensor
}

// New creates a tensor holding a copy of data with the given shape. The
// number of elements must match the product of the shape.
func New(data []float64, shape ...int) (*Tensor, error) {
	if len(shape) == 0 {
		return nil, errors.NewValueError("tensor.New", "shape must be provided")
	}
	size := 1
	for _, s := range shape {
		if s <= 0 {
			return nil, errors.NewValueError("tensor.New", "all dimensions must be positive")
		}
		size *= s
	}
	if len(data) != size {
		return nil, errors.NewDimensionError("tensor.New", size, len(data), 0)
	}
	return &Tensor{
		data:    append([]float64(nil), data...),
		shape:   append([]int(nil), shape...),
		strides: makeStrides(shape),
		device:  CPU,
	}, nil
}

// MustNew is New for fixed literals; it panics on error.
func MustNew(data []float64, shape ...int) *Tensor {
	t, err := New(data, shape...)
	if err != nil {
		panic(err)
	}
	return t
}

// Zeros creates a zero-filled tensor with the given shape.
func Zeros(shape ...int) (*Tensor, error) {
	size := 1
	for _, s := range shape {
		if s <= 0 {
			return nil, errors.NewValueError("tensor.Zeros", "all dimensions must be positive")
		}
		size *= s
	}
	return New(make([]float64, size), shape...)
}

// NewFromDense creates a rank-2 tensor copying the contents of a gonum
// matrix.
func NewFromDense(m mat.Matrix) *Tensor {
	r, c := m.Dims()
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = m.At(i, j)
		}
	}
	t, _ := New(data, r, c)
	return t
}

// Dense returns a gonum matrix copying the tensor's contents. The tensor
// must have rank 2.
func (t *Tensor) Dense() (*mat.Dense, error) {
	if len(t.shape) != 2 {
		return nil, errors.NewDimensionError("Tensor.Dense", 2, len(t.shape), 0)
	}
	return mat.NewDense(t.shape[0], t.shape[1], t.Data()), nil
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Numel returns the number of elements.
func (t *Tensor) Numel() int {
	return len(t.data)
}

// Dim returns the size of the given axis.
func (t *Tensor) Dim(axis int) (int, error) {
	if axis < 0 || axis >= len(t.shape) {
		return 0, errors.NewDimensionError("Tensor.Dim", len(t.shape), axis, axis)
	}
	return t.shape[axis], nil
}

// At returns the value at the given multi-index. The number of indices
// must equal the rank; out-of-range indices panic, matching slice
// semantics (exported estimator methods recover panics into errors).
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offset(indices)]
}

// Set stores v at the given multi-index.
func (t *Tensor) Set(v float64, indices ...int) {
	t.data[t.offset(indices)] = v
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(errors.Newf("tensor: expected %d indices, got %d", len(t.shape), len(indices)))
	}
	off := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(errors.Newf("tensor: index %d out of range for axis %d (size %d)",
				idx, i, t.shape[i]))
		}
		off += idx * t.strides[i]
	}
	return off
}

// Data returns a copy of the underlying buffer in row-major order.
func (t *Tensor) Data() []float64 {
	return append([]float64(nil), t.data...)
}

// Clone returns a deep copy. Gradient history is not carried over.
func (t *Tensor) Clone() *Tensor {
	if t == nil {
		return nil
	}
	return &Tensor{
		data:    append([]float64(nil), t.data...),
		shape:   append([]int(nil), t.shape...),
		strides: append([]int(nil), t.strides...),
		device:  t.device,
	}
}

// Reshape changes the tensor's shape in place. The element count must be
// preserved.
func (t *Tensor) Reshape(shape ...int) error {
	newSize := 1
	for _, s := range shape {
		if s <= 0 {
			return errors.NewValueError("Tensor.Reshape", "all dimensions must be positive")
		}
		newSize *= s
	}
	if newSize != len(t.data) {
		return errors.Newf("cannot reshape tensor of size %d to size %d", len(t.data), newSize)
	}
	t.shape = append([]int(nil), shape...)
	t.strides = makeStrides(t.shape)
	return nil
}

// SetRequiresGrad marks the tensor as a leaf of the gradient graph.
// Operations on it then record backward functions, and the output of
// those operations tracks gradients as well.
func (t *Tensor) SetRequiresGrad(v bool) {
	t.requiresGrad = v
}

// RequiresGrad reports whether the tensor tracks gradients.
func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

// Grad returns a copy of the accumulated gradient, or nil if Backward
// has not been run.
func (t *Tensor) Grad() *Tensor {
	if t.grad == nil {
		return nil
	}
	return t.grad.Clone()
}

// ZeroGrad clears the accumulated gradient.
func (t *Tensor) ZeroGrad() {
	t.grad = nil
}

// Detach returns a copy disconnected from the gradient graph.
func (t *Tensor) Detach() *Tensor {
	return t.Clone()
}

func makeStrides(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}
