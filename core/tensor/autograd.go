package tensor

import (
	"github.com/nd-02110114/chemprep/pkg/errors"
)

// node records how to propagate a gradient from an operation's output to
// its parents.
type node struct {
	backward func(grad *Tensor, grads map[*Tensor]*Tensor)
}

// Backward propagates gradients from t to every tensor in its history
// that requires them, seeding with a gradient of ones. Accumulated
// gradients are read with Grad.
func (t *Tensor) Backward() error {
	if t == nil {
		return errors.NewValueError("Tensor.Backward", "nil tensor")
	}
	if !t.requiresGrad {
		return errors.NewValueError("Tensor.Backward", "tensor does not require grad")
	}

	order := topo(t)
	grads := map[*Tensor]*Tensor{}
	ones := make([]float64, len(t.data))
	for i := range ones {
		ones[i] = 1
	}
	grads[t] = &Tensor{
		data:    ones,
		shape:   append([]int(nil), t.shape...),
		strides: append([]int(nil), t.strides...),
		device:  t.device,
	}

	for i := len(order) - 1; i >= 0; i-- {
		current := order[i]
		grad := grads[current]
		if grad == nil {
			continue
		}
		if current.grad == nil {
			current.grad = grad.Clone()
		} else {
			for j := range current.grad.data {
				current.grad.data[j] += grad.data[j]
			}
		}
		if current.node != nil {
			current.node.backward(grad, grads)
		}
	}
	return nil
}

func topo(root *Tensor) []*Tensor {
	visited := map[*Tensor]bool{}
	var order []*Tensor
	var visit func(*Tensor)
	visit = func(n *Tensor) {
		if n == nil || visited[n] {
			return
		}
		visited[n] = true
		for _, parent := range n.parents {
			visit(parent)
		}
		order = append(order, n)
	}
	visit(root)
	return order
}

func accumulate(grads map[*Tensor]*Tensor, target, value *Tensor) {
	if target == nil || value == nil {
		return
	}
	if existing, ok := grads[target]; ok {
		for i := range existing.data {
			existing.data[i] += value.data[i]
		}
		return
	}
	grads[target] = value.Clone()
}
