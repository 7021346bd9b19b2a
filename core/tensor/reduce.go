package tensor

import (
	"github.com/nd-02110114/chemprep/pkg/errors"
)

// MinMaxAlong computes the minimum and maximum over all positions that
// share an index along the given axis. Every dimension except axis is
// treated as a sample dimension, so the result has one min and one max
// per position along axis.
func (t *Tensor) MinMaxAlong(axis int) (mins, maxs []float64, err error) {
	if axis < 0 || axis >= len(t.shape) {
		return nil, nil, errors.NewDimensionError("Tensor.MinMaxAlong", len(t.shape), axis, axis)
	}
	n := t.shape[axis]
	mins = make([]float64, n)
	maxs = make([]float64, n)
	seen := make([]bool, n)

	// buffers are contiguous row-major, so the index along axis of the
	// f-th element is (f/stride)%n
	stride := t.strides[axis]
	for f, v := range t.data {
		i := (f / stride) % n
		if !seen[i] {
			mins[i], maxs[i] = v, v
			seen[i] = true
			continue
		}
		if v < mins[i] {
			mins[i] = v
		}
		if v > maxs[i] {
			maxs[i] = v
		}
	}
	return mins, maxs, nil
}

// AffineAlong applies y = x*scale[i] + shift[i], where i is the
// position along axis, broadcasting the coefficients over every other
// dimension. scale and shift must have length equal to the axis size.
//
// If the input tracks gradients the output does as well, with the
// backward map dx = dy * scale[i].
func (t *Tensor) AffineAlong(axis int, scale, shift []float64) (*Tensor, error) {
	if axis < 0 || axis >= len(t.shape) {
		return nil, errors.NewDimensionError("Tensor.AffineAlong", len(t.shape), axis, axis)
	}
	n := t.shape[axis]
	if len(scale) != n {
		return nil, errors.NewDimensionError("Tensor.AffineAlong", n, len(scale), axis)
	}
	if len(shift) != n {
		return nil, errors.NewDimensionError("Tensor.AffineAlong", n, len(shift), axis)
	}

	out := &Tensor{
		data:    make([]float64, len(t.data)),
		shape:   append([]int(nil), t.shape...),
		strides: append([]int(nil), t.strides...),
		device:  t.device,
	}
	stride := t.strides[axis]
	for f, v := range t.data {
		i := (f / stride) % n
		out.data[f] = v*scale[i] + shift[i]
	}

	if t.requiresGrad {
		scaleCopy := append([]float64(nil), scale...)
		out.requiresGrad = true
		out.parents = []*Tensor{t}
		out.node = &node{
			backward: func(grad *Tensor, grads map[*Tensor]*Tensor) {
				dx := &Tensor{
					data:    make([]float64, len(grad.data)),
					shape:   append([]int(nil), grad.shape...),
					strides: append([]int(nil), grad.strides...),
					device:  grad.device,
				}
				for f, g := range grad.data {
					i := (f / stride) % n
					dx.data[f] = g * scaleCopy[i]
				}
				accumulate(grads, t, dx)
			},
		}
	}
	return out, nil
}
